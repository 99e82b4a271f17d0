package notifier

import (
	"log/slog"

	"github.com/paydar/paydar/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes finished runs to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each run via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the run with its request and aggregate fields. Returns nil
// (stdout logging does not fail).
func (n *LogNotifier) Notify(rec model.RunRecord) error {
	n.logger.Info("run finished",
		"kind", rec.Kind,
		"title", rec.Title,
		"company", rec.Company,
		"location", rec.Location,
		"tier", rec.Tier,
		"requested", rec.Requested,
		"valid", rec.Valid,
		"median", rec.Median,
	)
	return nil
}
