package wizard

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext("SRV")

	assert.NotEmpty(t, ctx.WizardID)
	assert.Equal(t, StatusDraft, ctx.Status)
	assert.Equal(t, 0, ctx.CurrentStepIndex)
	assert.Equal(t, 0, ctx.CompletedCount())
	assert.Regexp(t, regexp.MustCompile(`^SRV-\d{14}-[0-9A-F]{4}$`), ctx.ReferenceNumber)
}

func TestReferenceNumberUsesWizardIDPrefix(t *testing.T) {
	ctx := NewContext("CLM")
	// Last segment is the first 4 chars of the wizard id, uppercased.
	suffix := ctx.ReferenceNumber[len(ctx.ReferenceNumber)-4:]
	assert.Equal(t, strings.ToUpper(ctx.WizardID[:4]), suffix)
}

func TestDataBag(t *testing.T) {
	ctx := NewContext("SRV")

	assert.Equal(t, "fallback", ctx.GetData("missing", "fallback"))

	ctx.UpdateData("key", 42)
	assert.Equal(t, 42, ctx.GetData("key", nil))

	ctx.UpdateData("key", 43)
	assert.Equal(t, 43, ctx.GetData("key", nil))
}

func TestStepCompletionIsMonotonic(t *testing.T) {
	ctx := NewContext("SRV")

	assert.False(t, ctx.IsStepCompleted(0))
	ctx.MarkStepCompleted(0)
	ctx.MarkStepCompleted(0)
	ctx.MarkStepCompleted(2)

	assert.True(t, ctx.IsStepCompleted(0))
	assert.False(t, ctx.IsStepCompleted(1))
	assert.True(t, ctx.IsStepCompleted(2))
	assert.Equal(t, 2, ctx.CompletedCount())
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := NewContext("SRV")
	ctx.UserID = "clerk-7"
	ctx.Status = StatusInProgress
	ctx.CurrentStepIndex = 3
	ctx.MarkStepCompleted(2)
	ctx.MarkStepCompleted(0)
	ctx.MarkStepCompleted(1)
	ctx.UpdateData("building_id", "01020300100400012")

	data, err := ctx.MarshalSnapshot()
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, []int{0, 1, 2}, snap.CompletedSteps, "completed steps are sorted")

	restored := NewContext("SRV")
	restored.RestoreBase(snap)

	assert.Equal(t, ctx.WizardID, restored.WizardID)
	assert.Equal(t, ctx.ReferenceNumber, restored.ReferenceNumber)
	assert.Equal(t, StatusInProgress, restored.Status)
	assert.Equal(t, 3, restored.CurrentStepIndex)
	assert.Equal(t, "clerk-7", restored.UserID)
	assert.True(t, restored.IsStepCompleted(1))
	assert.Equal(t, "01020300100400012", restored.GetData("building_id", nil))
}

func TestRestoreBaseToleratesPartialSnapshot(t *testing.T) {
	restored := NewContext("SRV")
	originalID := restored.WizardID
	originalRef := restored.ReferenceNumber

	restored.RestoreBase(Snapshot{CurrentStepIndex: 1})

	assert.Equal(t, originalID, restored.WizardID, "missing id keeps the fresh one")
	assert.Equal(t, originalRef, restored.ReferenceNumber)
	assert.Equal(t, StatusDraft, restored.Status, "missing status falls back to draft")
	assert.Equal(t, 1, restored.CurrentStepIndex)
	assert.Equal(t, 0, restored.CompletedCount())
}

func TestValidationResult(t *testing.T) {
	r := NewValidationResult()
	assert.True(t, r.Valid)
	assert.False(t, r.HasErrors())
	assert.False(t, r.HasWarnings())

	r.AddWarning("minor issue")
	assert.True(t, r.Valid, "warnings never invalidate")
	assert.True(t, r.HasWarnings())

	r.AddError("blocking issue")
	assert.False(t, r.Valid)
	assert.True(t, r.HasErrors())

	assert.Equal(t, "• blocking issue\n• minor issue", r.Summary())
}
