package notifier

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/paydar/paydar/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRecord(title, company string) model.RunRecord {
	return model.RunRecord{
		ID:        7,
		CreatedAt: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
		Kind:      model.KindDistribution,
		Title:     title,
		Company:   company,
		Location:  "New York, NY",
		Tier:      model.TierSonnet,
		Requested: 10,
		Valid:     8,
		Median:    142500,
		Percentiles: map[int]float64{
			10: 100000,
			50: 142500,
			90: 210000,
		},
	}
}

func TestSlackNotifier_SendsRun(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	rec := sampleRecord("Product Manager", "Google")

	if err := n.Notify(rec); err != nil {
		t.Fatalf("Notify() = %v, want nil", err)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	header := payload.Blocks[0]
	if header.Text.Text != "📊 Product Manager at Google" {
		t.Errorf("header text = %q, want title at company", header.Text.Text)
	}

	medianField := payload.Blocks[1].Fields[0]
	if medianField.Text != "*Median:*\n$142,500" {
		t.Errorf("median field = %q", medianField.Text)
	}
	tierField := payload.Blocks[1].Fields[1]
	if tierField.Text != "*Tier:*\nsonnet" {
		t.Errorf("tier field = %q", tierField.Text)
	}

	locationField := payload.Blocks[2].Fields[0]
	if locationField.Text != "*Location:*\nNew York, NY" {
		t.Errorf("location field = %q", locationField.Text)
	}
	samplesField := payload.Blocks[2].Fields[1]
	if samplesField.Text != "*Samples:*\n8 of 10 valid" {
		t.Errorf("samples field = %q", samplesField.Text)
	}
}

func TestSlackNotifier_PercentileLine(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())

	if err := n.Notify(sampleRecord("SRE", "TestCo")); err != nil {
		t.Fatalf("Notify() = %v", err)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(payload.Blocks) != 5 {
		t.Fatalf("expected 5 blocks, got %d", len(payload.Blocks))
	}
	line := payload.Blocks[3].Text.Text
	want := "10th $100,000  |  50th $142,500  |  90th $210,000"
	if line != want {
		t.Errorf("percentile line = %q, want %q", line, want)
	}
	if payload.Blocks[4].Type != "divider" {
		t.Errorf("block[4] type = %q, want divider", payload.Blocks[4].Type)
	}
}

func TestSlackNotifier_SpotRunHasNoPercentileLine(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	rec := sampleRecord("Data Analyst", "Acme")
	rec.Kind = model.KindSpot
	rec.Percentiles = nil

	if err := n.Notify(rec); err != nil {
		t.Fatalf("Notify() = %v", err)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(payload.Blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(payload.Blocks))
	}
	if payload.Blocks[3].Type != "divider" {
		t.Errorf("block[3] type = %q, want divider", payload.Blocks[3].Type)
	}
}

func TestSlackNotifier_SlackReturnsError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())

	err := n.Notify(sampleRecord("Fails", "X"))
	if err == nil {
		t.Error("expected error on non-200 response, got nil")
	}
	if c := calls.Load(); c != 1 {
		t.Errorf("expected 1 HTTP call (no retries), got %d", c)
	}
}

func TestSendTestMessage(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())

	if err := SendTestMessage(n); err != nil {
		t.Fatalf("SendTestMessage() = %v, want nil", err)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Blocks[0].Text.Text != "📊 Test Notification at Paydar" {
		t.Errorf("header text = %q", payload.Blocks[0].Text.Text)
	}
}
