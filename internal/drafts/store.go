// Package drafts persists wizard context snapshots so clerks can suspend a
// survey and resume it later. Snapshots live in a JetStream KV bucket on
// the embedded NATS server; every save, submit, and cancel additionally
// appends an event to the audit stream.
package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gosimple/slug"
	"github.com/nats-io/nats-server/v2/server"
	natsc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/hussien-988/habitat-desktop-sub004/internal/logger"
	"github.com/hussien-988/habitat-desktop-sub004/internal/nats"
)

// ErrNotFound is returned when no draft exists under the requested id.
var ErrNotFound = errors.New("draft not found")

// Draft is the stored envelope around a serialized wizard context. The
// metadata fields are duplicated out of the snapshot so draft lists render
// without deserializing every context.
type Draft struct {
	DraftID         string          `json:"draft_id"`
	ReferenceNumber string          `json:"reference_number"`
	Status          string          `json:"status"`
	StepIndex       int             `json:"step_index"`
	SavedAt         time.Time       `json:"saved_at"`
	Context         json.RawMessage `json:"context"`
}

// Event is one audit record in the event stream.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Reference string    `json:"reference"`
	Type      string    `json:"type"`   // draft, survey, audit
	Action    string    `json:"action"` // saved, deleted, submitted, cancelled, ...
	Data      string    `json:"data,omitempty"`
}

// Store manages drafts and audit events on the embedded broker.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
	kv     jetstream.KeyValue

	ns *server.Server
	nc *natsc.Conn
}

// Open boots the embedded server under dataDir and binds the draft bucket
// and audit stream. Close releases everything.
func Open(ctx context.Context, dataDir string) (*Store, error) {
	ns, err := nats.StartEmbedded(dataDir)
	if err != nil {
		return nil, fmt.Errorf("starting embedded nats: %w", err)
	}

	nc, err := nats.ConnectInProcess(ns)
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("connecting in-process: %w", err)
	}

	js, err := nats.CreateJetStream(nc)
	if err != nil {
		_ = nats.Shutdown(nc, ns)
		return nil, fmt.Errorf("creating jetstream context: %w", err)
	}

	store, err := New(ctx, js)
	if err != nil {
		_ = nats.Shutdown(nc, ns)
		return nil, err
	}
	store.ns = ns
	store.nc = nc
	return store, nil
}

// New binds a store to an existing JetStream context, creating the stream
// and bucket as needed.
func New(ctx context.Context, js jetstream.JetStream) (*Store, error) {
	stream, err := nats.SetupEventStream(ctx, js)
	if err != nil {
		return nil, fmt.Errorf("setting up event stream: %w", err)
	}
	kv, err := nats.SetupDraftBucket(ctx, js)
	if err != nil {
		return nil, fmt.Errorf("setting up draft bucket: %w", err)
	}
	return &Store{js: js, stream: stream, kv: kv}, nil
}

// Close shuts down the embedded server when this store owns one.
func (s *Store) Close() error {
	if s.ns == nil {
		return nil
	}
	return nats.Shutdown(s.nc, s.ns)
}

// DraftID derives the stable draft key for a reference number. Re-saving
// the same survey overwrites its previous draft instead of piling up
// copies.
func DraftID(referenceNumber string) string {
	return slug.Make(referenceNumber)
}

// snapshotMeta is the slice of the wizard snapshot the envelope needs.
type snapshotMeta struct {
	ReferenceNumber  string `json:"reference_number"`
	Status           string `json:"status"`
	CurrentStepIndex int    `json:"current_step_index"`
}

// Save stores a context snapshot and returns the draft id. The snapshot
// must carry the base wizard fields; anything else in it is opaque here.
func (s *Store) Save(ctx context.Context, snapshot []byte) (string, error) {
	var meta snapshotMeta
	if err := json.Unmarshal(snapshot, &meta); err != nil {
		return "", fmt.Errorf("parsing snapshot: %w", err)
	}
	if meta.ReferenceNumber == "" {
		return "", errors.New("snapshot has no reference number")
	}

	draft := Draft{
		DraftID:         DraftID(meta.ReferenceNumber),
		ReferenceNumber: meta.ReferenceNumber,
		Status:          meta.Status,
		StepIndex:       meta.CurrentStepIndex,
		SavedAt:         time.Now(),
		Context:         snapshot,
	}

	data, err := json.Marshal(draft)
	if err != nil {
		return "", fmt.Errorf("marshaling draft: %w", err)
	}

	if _, err := s.kv.Put(ctx, draft.DraftID, data); err != nil {
		return "", fmt.Errorf("storing draft: %w", err)
	}

	logger.Debug("Draft %s saved at step %d", draft.DraftID, draft.StepIndex)

	s.appendEvent(ctx, Event{
		Reference: meta.ReferenceNumber,
		Type:      nats.EventTypeDraft,
		Action:    "saved",
		Data:      fmt.Sprintf("step %d", meta.CurrentStepIndex),
	})

	return draft.DraftID, nil
}

// Load retrieves a draft by id.
func (s *Store) Load(ctx context.Context, draftID string) (*Draft, error) {
	entry, err := s.kv.Get(ctx, draftID)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading draft: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal(entry.Value(), &draft); err != nil {
		return nil, fmt.Errorf("parsing draft %s: %w", draftID, err)
	}
	return &draft, nil
}

// List returns all drafts, newest first.
func (s *Store) List(ctx context.Context) ([]*Draft, error) {
	keys, err := s.kv.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing draft keys: %w", err)
	}

	var out []*Draft
	for key := range keys.Keys() {
		draft, err := s.Load(ctx, key)
		if err != nil {
			// A single corrupt draft must not hide the rest.
			logger.Warn("Skipping unreadable draft %s: %v", key, err)
			continue
		}
		out = append(out, draft)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SavedAt.After(out[j].SavedAt)
	})
	return out, nil
}

// Prune deletes drafts last saved more than maxAge ago and reports how
// many were removed. Deletions land in the audit trail like any other.
func (s *Store) Prune(ctx context.Context, maxAge time.Duration) (int, error) {
	all, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	pruned := 0
	for _, draft := range all {
		if draft.SavedAt.After(cutoff) {
			continue
		}
		if err := s.Delete(ctx, draft.DraftID); err != nil {
			return pruned, fmt.Errorf("pruning draft %s: %w", draft.DraftID, err)
		}
		logger.Info("Pruned stale draft %s (saved %s)", draft.DraftID, draft.SavedAt.Format(time.RFC3339))
		pruned++
	}
	return pruned, nil
}

// Delete removes a draft and records the deletion in the audit trail.
func (s *Store) Delete(ctx context.Context, draftID string) error {
	draft, err := s.Load(ctx, draftID)
	if err != nil {
		return err
	}

	if err := s.kv.Delete(ctx, draftID); err != nil {
		return fmt.Errorf("deleting draft: %w", err)
	}

	s.appendEvent(ctx, Event{
		Reference: draft.ReferenceNumber,
		Type:      nats.EventTypeDraft,
		Action:    "deleted",
	})
	return nil
}

// RecordSurveyEvent appends a survey lifecycle event (submitted,
// cancelled) to the audit trail.
func (s *Store) RecordSurveyEvent(ctx context.Context, reference, action, data string) {
	s.appendEvent(ctx, Event{
		Reference: reference,
		Type:      nats.EventTypeSurvey,
		Action:    action,
		Data:      data,
	})
}

// History returns the audit events recorded for a reference number, in
// publication order. Malformed events are skipped, not fatal.
func (s *Store) History(ctx context.Context, reference string) ([]Event, error) {
	consumer, err := nats.CreateConsumer(ctx, s.stream, nats.SubjectForReference(reference))
	if err != nil {
		return nil, fmt.Errorf("creating history consumer: %w", err)
	}

	var events []Event
	const batchSize = 500
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}
		count := 0
		for msg := range msgs.Messages() {
			count++
			var ev Event
			if err := json.Unmarshal(msg.Data(), &ev); err != nil {
				logger.Warn("Skipping malformed audit event: %v", err)
				_ = msg.Ack()
				continue
			}
			events = append(events, ev)
			_ = msg.Ack()
		}
		if count < batchSize {
			break
		}
	}
	return events, nil
}

// appendEvent publishes an audit event. Audit failures are logged, never
// propagated: the audit trail must not block clerk work.
func (s *Store) appendEvent(ctx context.Context, ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Error("Failed to marshal audit event: %v", err)
		return
	}
	subject := nats.SubjectForEvent(ev.Reference, ev.Type)
	if _, err := s.js.Publish(ctx, subject, data); err != nil {
		logger.Error("Failed to publish audit event to %s: %v", subject, err)
	}
}
