package services

import (
	"context"
	"time"

	"github.com/clauseguard/clauseguard/pkg/classification"
	"github.com/clauseguard/clauseguard/pkg/observability"
)

// Feedback is one reviewer correction, keyed by clause identity. It is
// captured for audit only and never feeds back into engine configuration.
type Feedback struct {
	ClauseID       string                 `json:"clause_id"`
	Jurisdiction   string                 `json:"jurisdiction"`
	Attribute      string                 `json:"attribute"`
	CorrectedLabel classification.Verdict `json:"corrected_label"`
	ReviewerNote   string                 `json:"reviewer_note,omitempty"`
	ReceivedAt     time.Time              `json:"received_at"`
}

// FeedbackSink records reviewer corrections.
type FeedbackSink interface {
	Record(ctx context.Context, fb Feedback) error
}

// LogFeedbackSink writes feedback to the structured log. Persistence and
// review tooling live outside this process.
type LogFeedbackSink struct{}

func (LogFeedbackSink) Record(_ context.Context, fb Feedback) error {
	observability.Infof("Feedback recorded: clause=%s %s/%s corrected_label=%s note=%q",
		fb.ClauseID, fb.Jurisdiction, fb.Attribute, fb.CorrectedLabel, fb.ReviewerNote)
	return nil
}
