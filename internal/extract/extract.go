// Package extract parses salary figures out of free-form model responses.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/paydar/paydar/internal/model"
)

// PercentileMarker is the substring a reply must contain before it is treated
// as a percentile table.
const PercentileMarker = "10:"

var (
	// First dollar figure in a reply, commas and cents included.
	amountPattern = regexp.MustCompile(`\$?\d[\d,]*(?:\.\d+)?`)

	// One "rank: $salary" pair from a percentile table.
	percentilePattern = regexp.MustCompile(`(\d+): \$?([\d,]+)`)
)

// Amount returns the first salary figure found in text, in whole dollars.
func Amount(text string) (int, error) {
	m := amountPattern.FindString(text)
	if m == "" {
		return 0, fmt.Errorf("no salary figure in response")
	}
	m = strings.TrimPrefix(m, "$")
	m = strings.ReplaceAll(m, ",", "")
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", m, err)
	}
	return int(v), nil
}

// HasPercentiles reports whether text carries the percentile-table marker.
func HasPercentiles(text string) bool {
	return strings.Contains(text, PercentileMarker)
}

// Percentiles parses every "rank: salary" pair in text into a sample.
// Periods are stripped up front so sentence punctuation never splits a number;
// a later pair for the same rank overwrites the earlier one. A reply without
// any pairs yields an empty sample.
func Percentiles(text string) model.PercentileSample {
	clean := strings.ReplaceAll(text, ".", "")
	sample := model.PercentileSample{}
	for _, m := range percentilePattern.FindAllStringSubmatch(clean, -1) {
		rank, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		value, err := strconv.Atoi(strings.ReplaceAll(m[2], ",", ""))
		if err != nil {
			continue
		}
		sample[rank] = value
	}
	return sample
}
