package drafts

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hussien-988/habitat-desktop-sub004/internal/nats"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	ns, err := nats.StartEmbedded(t.TempDir())
	if err != nil {
		t.Fatalf("failed to start NATS: %v", err)
	}
	t.Cleanup(ns.Shutdown)

	nc, err := nats.ConnectInProcess(ns)
	if err != nil {
		t.Fatalf("failed to connect to NATS: %v", err)
	}
	t.Cleanup(nc.Close)

	js, err := nats.CreateJetStream(nc)
	if err != nil {
		t.Fatalf("failed to create JetStream: %v", err)
	}

	store, err := New(ctx, js)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func snapshotFor(t *testing.T, reference string, step int) []byte {
	t.Helper()
	snap, err := json.Marshal(map[string]any{
		"wizard_id":          "0f1e2d3c-0000-0000-0000-000000000000",
		"reference_number":   reference,
		"status":             "draft",
		"current_step_index": step,
		"completed_steps":    []int{0, 1},
		"data":               map[string]any{"building_selected": true},
	})
	if err != nil {
		t.Fatalf("marshaling snapshot: %v", err)
	}
	return snap
}

func TestDraftID(t *testing.T) {
	id := DraftID("SRV-20260101120000-AB12")
	if id != "srv-20260101120000-ab12" {
		t.Errorf("DraftID = %q, want slugged reference", id)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snap := snapshotFor(t, "SRV-20260101120000-AB12", 2)

	id, err := store.Save(ctx, snap)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if id != "srv-20260101120000-ab12" {
		t.Errorf("unexpected draft id %q", id)
	}

	draft, err := store.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if draft.ReferenceNumber != "SRV-20260101120000-AB12" {
		t.Errorf("reference = %q", draft.ReferenceNumber)
	}
	if draft.StepIndex != 2 {
		t.Errorf("step index = %d, want 2", draft.StepIndex)
	}
	if draft.Status != "draft" {
		t.Errorf("status = %q", draft.Status)
	}
	if string(draft.Context) != string(snap) {
		t.Error("stored context snapshot differs from input")
	}
}

func TestSaveOverwritesSameReference(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ref := "SRV-20260101120000-CD34"
	if _, err := store.Save(ctx, snapshotFor(t, ref, 1)); err != nil {
		t.Fatalf("first save: %v", err)
	}
	id, err := store.Save(ctx, snapshotFor(t, ref, 4))
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	draft, err := store.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if draft.StepIndex != 4 {
		t.Errorf("step index = %d, want 4 after overwrite", draft.StepIndex)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected single draft after overwrite, got %d", len(all))
	}
}

func TestSaveRejectsSnapshotWithoutReference(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Save(context.Background(), []byte(`{"status":"draft"}`)); err == nil {
		t.Fatal("expected error for snapshot without reference number")
	}
}

func TestListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Save(ctx, snapshotFor(t, "SRV-20260101120000-A111", 0)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Save(ctx, snapshotFor(t, "SRV-20260101120000-B222", 1)); err != nil {
		t.Fatalf("save: %v", err)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(all))
	}
	if !all[0].SavedAt.After(all[1].SavedAt) && !all[0].SavedAt.Equal(all[1].SavedAt) {
		t.Error("drafts not sorted newest first")
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Save(ctx, snapshotFor(t, "SRV-20260101120000-EE55", 3))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := store.Load(ctx, id); err != ErrNotFound {
		t.Errorf("Load after delete = %v, want ErrNotFound", err)
	}

	if err := store.Delete(ctx, "no-such-draft"); err != ErrNotFound {
		t.Errorf("Delete of missing draft = %v, want ErrNotFound", err)
	}
}

func TestPruneRemovesOnlyStaleDrafts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	fresh := "SRV-20260101120000-AA11"
	if _, err := store.Save(ctx, snapshotFor(t, fresh, 1)); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Plant a draft whose envelope predates the cutoff.
	staleRef := "SRV-20250101120000-BB22"
	stale := Draft{
		DraftID:         DraftID(staleRef),
		ReferenceNumber: staleRef,
		Status:          "draft",
		SavedAt:         time.Now().Add(-40 * 24 * time.Hour),
		Context:         snapshotFor(t, staleRef, 0),
	}
	data, err := json.Marshal(stale)
	if err != nil {
		t.Fatalf("marshaling stale draft: %v", err)
	}
	if _, err := store.kv.Put(ctx, stale.DraftID, data); err != nil {
		t.Fatalf("planting stale draft: %v", err)
	}

	n, err := store.Prune(ctx, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d drafts, want 1", n)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 1 || all[0].ReferenceNumber != fresh {
		t.Errorf("expected only the fresh draft to survive, got %+v", all)
	}
}

func TestHistoryRecordsLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ref := "SRV-20260101120000-FF66"
	if _, err := store.Save(ctx, snapshotFor(t, ref, 2)); err != nil {
		t.Fatalf("save: %v", err)
	}
	store.RecordSurveyEvent(ctx, ref, "submitted", "claim CL-2026-000001")

	events, err := store.History(ctx, ref)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != "draft" || events[0].Action != "saved" {
		t.Errorf("first event = %s/%s", events[0].Type, events[0].Action)
	}
	if events[1].Type != "survey" || events[1].Action != "submitted" {
		t.Errorf("second event = %s/%s", events[1].Type, events[1].Action)
	}
}
