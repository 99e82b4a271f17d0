package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/paydar/paydar/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// SlackNotifier posts finished runs to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts each run to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Notify sends the run summary as one Block Kit message. The message is sent
// exactly once; a non-200 response is an error.
func (s *SlackNotifier) Notify(rec model.RunRecord) error {
	payload := buildPayload(rec)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned %d", resp.StatusCode)
	}
	s.logger.Info("slack message sent", "title", rec.Title, "company", rec.Company)
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type   string      `json:"type"`
	Text   *slackText  `json:"text,omitempty"`
	Fields []slackText `json:"fields,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SendTestMessage sends a dummy run notification to verify the integration
// works.
func SendTestMessage(n model.Notifier) error {
	rec := model.RunRecord{
		CreatedAt:   time.Now(),
		Kind:        model.KindDistribution,
		Title:       "Test Notification",
		Company:     "Paydar",
		Location:    "Everywhere",
		Tier:        model.TierHaiku,
		Requested:   1,
		Valid:       1,
		Median:      123456,
		Percentiles: map[int]float64{50: 123456},
	}
	return n.Notify(rec)
}

func usd(v float64) string {
	return "$" + humanize.Comma(int64(math.Round(v)))
}

func buildPayload(rec model.RunRecord) slackPayload {
	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "📊 " + rec.Title + " at " + rec.Company},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Median:*\n" + usd(rec.Median)},
				{Type: "mrkdwn", Text: "*Tier:*\n" + string(rec.Tier)},
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Location:*\n" + rec.Location},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Samples:*\n%d of %d valid", rec.Valid, rec.Requested)},
			},
		},
	}

	if len(rec.Percentiles) > 0 {
		ranks := make([]int, 0, len(rec.Percentiles))
		for r := range rec.Percentiles {
			ranks = append(ranks, r)
		}
		sort.Ints(ranks)
		parts := make([]string, len(ranks))
		for i, r := range ranks {
			parts[i] = fmt.Sprintf("%dth %s", r, usd(rec.Percentiles[r]))
		}
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: strings.Join(parts, "  |  ")},
		})
	}

	blocks = append(blocks, slackBlock{Type: "divider"})

	return slackPayload{Blocks: blocks}
}
