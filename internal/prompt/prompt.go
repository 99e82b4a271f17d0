// Package prompt builds the fixed-format queries sent to the backend model.
package prompt

import (
	"fmt"

	"github.com/paydar/paydar/internal/model"
)

// InflationNote anchors every query to a known price level so repeated runs stay comparable.
const InflationNote = "Note: Prices have risen by 11% from January 2022 to March 2024."

// Query is one fully rendered instruction for a backend model.
type Query struct {
	Text  string     // instruction sent as the user message
	Tier  model.Tier // tier the caller picked
	Model string     // backend model identifier resolved from the tier
}

// Distribution renders the percentile-table query for req. The example row in the
// instruction pins the exact "rank: salary" shape the extractor expects back.
func Distribution(req model.Request) Query {
	text := fmt.Sprintf(
		"%s I need the specific numerical salary estimates only, no explanations, "+
			"for the %s role at %s in %s. "+
			"Provide the data in a numerical list separated by commas for the following percentiles "+
			"10th, 25th, 50th, 75th, and 90th. For example: '10: <salary>, 25: <salary>, "+
			"50: <salary>, 75: <salary>, 90: <salary>'. Only include the salary numbers and percentiles.",
		InflationNote, req.Title, req.Company, req.Location,
	)
	return Query{Text: text, Tier: req.Tier, Model: req.Tier.Model()}
}

// Spot renders the single-figure query for req.
func Spot(req model.Request) Query {
	text := fmt.Sprintf(
		"%s I need a specific numerical salary estimate only, no explanations, "+
			"for the %s role at %s in %s. "+
			"Provide a single annual salary figure in US dollars. For example: '$120,000'. "+
			"Only include the salary number.",
		InflationNote, req.Title, req.Company, req.Location,
	)
	return Query{Text: text, Tier: req.Tier, Model: req.Tier.Model()}
}
