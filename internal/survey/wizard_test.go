package survey

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hussien-988/habitat-desktop-sub004/internal/domain"
	"github.com/hussien-988/habitat-desktop-sub004/internal/wizard"
)

// fakeDrafts is an in-memory DraftStore.
type fakeDrafts struct {
	saved  [][]byte
	events []string
}

func (f *fakeDrafts) Save(_ context.Context, snapshot []byte) (string, error) {
	f.saved = append(f.saved, snapshot)
	return "draft-1", nil
}

func (f *fakeDrafts) RecordSurveyEvent(_ context.Context, reference, action, data string) {
	f.events = append(f.events, action)
}

// fillSurvey populates a context as if the clerk had worked through every
// step.
func fillSurvey(ctx *SurveyContext) {
	ctx.Building = domain.NewBuilding("01", "02", "03", "001", "004", "00012")
	ctx.Unit = domain.NewUnit(ctx.Building.BuildingID, "001", domain.UnitApartment)
	ctx.Household = domain.NewHousehold("Ahmad Khalil", 4)

	p := domain.NewPerson("Ahmad", "Khalil")
	p.RelationType = domain.RelationOwner
	ctx.Persons = append(ctx.Persons, p)

	r := domain.NewRelation(p.PersonID, ctx.Unit.UnitID, domain.RelationOwner)
	r.OwnershipShare = 2400
	ctx.Relations = append(ctx.Relations, r)

	ctx.Evidence = append(ctx.Evidence, domain.NewEvidence(r.RelationID, domain.EvidenceDocument, "deed"))
	ctx.ClaimType = domain.ClaimOwnership
}

func TestWizardCreatesSevenSteps(t *testing.T) {
	hooks := NewWizard("clerk-7", newFakeRegistry(), &fakeDrafts{})
	steps := hooks.CreateSteps()
	require.Len(t, steps, 7)

	titles := make([]string, 0, len(steps))
	for _, s := range steps {
		titles = append(titles, s.Title())
	}
	assert.Equal(t, []string{"Building", "Unit", "Household", "Persons", "Relations", "Claim", "Review"}, titles)
}

func TestSubmitCreatesClaimAndStoresSurvey(t *testing.T) {
	reg := newFakeRegistry()
	drafts := &fakeDrafts{}
	hooks := NewWizard("clerk-7", reg, drafts)
	fillSurvey(hooks.SurveyContext())

	ok := hooks.OnSubmit()
	require.True(t, ok)
	require.NoError(t, hooks.LastError())

	claim := hooks.Claim()
	require.NotNil(t, claim)
	assert.Regexp(t, `^CL-\d{4}-000001$`, claim.CaseNumber)
	assert.Equal(t, domain.SourceOfficeSubmission, claim.Source)
	assert.Equal(t, domain.ClaimOwnership, claim.ClaimType)
	assert.Len(t, claim.PersonIDs, 1)
	assert.Len(t, claim.RelationIDs, 1)
	assert.Equal(t, "clerk-7", claim.CreatedBy)

	ctx := hooks.SurveyContext()
	assert.Equal(t, wizard.StatusCompleted, ctx.Status)
	assert.Contains(t, reg.surveys, ctx.ReferenceNumber)
	assert.Contains(t, reg.audit, "submit:survey:"+ctx.ReferenceNumber)
	assert.Equal(t, []string{"submitted"}, drafts.events)
	assert.Equal(t, claim.CaseNumber, ctx.GetData("case_number", ""))
}

func TestFullRunThroughEngine(t *testing.T) {
	reg := newFakeRegistry()
	hooks := NewWizard("clerk-7", reg, &fakeDrafts{})
	w := wizard.New(hooks)

	var completed []byte
	w.Completed = func(snapshot []byte) { completed = snapshot }

	w.Start()
	assert.Equal(t, "Office Survey — Tenure Claim Registration", w.Title())
	assert.Equal(t, "Submit Claim", w.SubmitButtonText())

	// Empty survey cannot leave the first step.
	assert.False(t, w.HandleNext())
	assert.Equal(t, 0, w.Navigator().CurrentIndex())

	ctx := hooks.SurveyContext()
	fillSurvey(ctx)
	ctx.IsNewUnit = true

	for i := 0; i < 6; i++ {
		require.True(t, w.HandleNext(), "step %d should validate", i)
	}
	assert.True(t, w.OnLastStep())

	// The new unit was persisted by the unit step's hook.
	assert.Len(t, reg.units, 1)

	require.True(t, w.HandleNext(), "submit from last step")
	require.NotNil(t, completed)
	assert.NotNil(t, hooks.Claim())

	restored, err := RestoreContext(completed)
	require.NoError(t, err)
	assert.Equal(t, wizard.StatusCompleted, restored.Status)
	assert.Equal(t, hooks.Claim().CaseNumber, restored.GetData("case_number", ""))
}

func TestSaveDraftAndResume(t *testing.T) {
	reg := newFakeRegistry()
	drafts := &fakeDrafts{}
	hooks := NewWizard("clerk-7", reg, drafts)
	w := wizard.New(hooks)
	w.Start()

	ctx := hooks.SurveyContext()
	fillSurvey(ctx)
	require.True(t, w.HandleNext())
	require.True(t, w.HandleNext())
	assert.Equal(t, 2, w.Navigator().CurrentIndex())

	id, ok := w.HandleSaveDraft()
	require.True(t, ok)
	assert.Equal(t, "draft-1", id)
	require.Len(t, drafts.saved, 1)

	// Resume from the saved snapshot.
	resumed, err := ResumeWizard(drafts.saved[0], reg, drafts)
	require.NoError(t, err)
	w2 := wizard.New(resumed)
	w2.Resume()

	assert.Equal(t, 2, w2.Navigator().CurrentIndex())
	rctx := resumed.SurveyContext()
	assert.Equal(t, ctx.ReferenceNumber, rctx.ReferenceNumber)
	assert.Equal(t, wizard.StatusInProgress, rctx.Status)
	require.NotNil(t, rctx.Building)
	assert.True(t, rctx.IsStepCompleted(0))
	assert.True(t, rctx.IsStepCompleted(1))
}

func TestCancelConfirmation(t *testing.T) {
	drafts := &fakeDrafts{}
	hooks := NewWizard("clerk-7", newFakeRegistry(), drafts)
	w := wizard.New(hooks)
	w.Start()

	// Veto keeps the wizard open.
	hooks.ConfirmCancel = func() bool { return false }
	assert.False(t, w.HandleCancel())
	assert.Empty(t, drafts.events)

	hooks.ConfirmCancel = func() bool { return true }
	cancelled := false
	w.Cancelled = func() { cancelled = true }
	assert.True(t, w.HandleCancel())
	assert.True(t, cancelled)
	assert.Equal(t, wizard.StatusCancelled, hooks.SurveyContext().Status)
	assert.Equal(t, []string{"cancelled"}, drafts.events)
}

func TestResumeWizardRejectsBadSnapshot(t *testing.T) {
	_, err := ResumeWizard([]byte("garbage"), newFakeRegistry(), &fakeDrafts{})
	assert.Error(t, err)
}
