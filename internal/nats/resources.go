package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	eventStreamName = "habitat_events"

	// DraftBucket is the KV bucket holding serialized wizard context
	// snapshots keyed by draft id.
	DraftBucket = "habitat_drafts"

	// Audit event types published to the event stream.
	EventTypeDraft  = "draft"
	EventTypeSurvey = "survey"
	EventTypeAudit  = "audit"
)

// SubjectForReference returns the wildcard subject matching every event
// recorded for one survey reference number.
// Example: "habitat.SRV-20260101120000-AB12.>"
func SubjectForReference(reference string) string {
	return fmt.Sprintf("habitat.%s.>", reference)
}

// SubjectForEvent returns the subject for one event type under a survey
// reference. Example: "habitat.SRV-20260101120000-AB12.draft"
func SubjectForEvent(reference, eventType string) string {
	return fmt.Sprintf("habitat.%s.%s", reference, eventType)
}

// SetupEventStream creates or updates the audit event stream. Events are
// retained for ninety days so office supervisors can reconstruct what
// happened to any survey.
func SetupEventStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     eventStreamName,
		Subjects: []string{"habitat.>"},
		Storage:  jetstream.FileStorage,
		MaxAge:   90 * 24 * time.Hour,
	})
}

// SetupDraftBucket creates or binds the draft KV bucket.
func SetupDraftBucket(ctx context.Context, js jetstream.JetStream) (jetstream.KeyValue, error) {
	return js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  DraftBucket,
		Storage: jetstream.FileStorage,
	})
}

// CreateConsumer creates a consumer reading a subject's history from the
// beginning with explicit acknowledgment.
func CreateConsumer(ctx context.Context, stream jetstream.Stream, filterSubject string) (jetstream.Consumer, error) {
	return stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: filterSubject,
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
}
