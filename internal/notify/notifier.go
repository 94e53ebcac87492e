// Package notify defines the completion notification contract. Delivery
// is fire-and-forget: a failed notification must never fail the run that
// produced it.
package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Notification describes a finished consolidation run for its recipient.
type Notification struct {
	RecipientAddress string
	RecipientName    string
	SubjectKindLabel string // e.g. "project"
	SubjectName      string
	StartedAt        time.Time
	FinishedAt       time.Time
	DeepLink         string // optional
}

// Notifier delivers completion notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier records notifications in the structured log. The actual
// delivery channel (email etc.) is an external collaborator; this
// implementation stands in for it in-process.
type LogNotifier struct{}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Verify interface compliance
var _ Notifier = (*LogNotifier)(nil)

// Notify writes the notification as an info record.
func (l *LogNotifier) Notify(_ context.Context, n Notification) error {
	log.Info().
		Str("recipient", n.RecipientAddress).
		Str("recipientName", n.RecipientName).
		Str("subjectKind", n.SubjectKindLabel).
		Str("subject", n.SubjectName).
		Time("startedAt", n.StartedAt).
		Time("finishedAt", n.FinishedAt).
		Str("deepLink", n.DeepLink).
		Msg("Consolidation finished")
	return nil
}
