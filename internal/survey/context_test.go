package survey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hussien-988/habitat-desktop-sub004/internal/domain"
	"github.com/hussien-988/habitat-desktop-sub004/internal/wizard"
)

func TestNewSurveyContext(t *testing.T) {
	ctx := NewSurveyContext("clerk-7")

	assert.True(t, strings.HasPrefix(ctx.ReferenceNumber, "SRV-"))
	assert.Equal(t, "clerk-7", ctx.UserID)
	assert.Equal(t, wizard.StatusDraft, ctx.Status)
	assert.Nil(t, ctx.Building)
	assert.Empty(t, ctx.Persons)
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := NewSurveyContext("clerk-7")
	ctx.Building = domain.NewBuilding("01", "02", "03", "001", "004", "00012")
	ctx.Unit = domain.NewUnit(ctx.Building.BuildingID, "001", domain.UnitApartment)
	ctx.IsNewUnit = true
	ctx.Household = domain.NewHousehold("Ahmad Khalil", 5)

	p := domain.NewPerson("Ahmad", "Khalil")
	p.NationalID = "12345678901"
	p.RelationType = domain.RelationOwner
	ctx.Persons = append(ctx.Persons, p)

	r := domain.NewRelation(p.PersonID, ctx.Unit.UnitID, domain.RelationOwner)
	r.OwnershipShare = 2400
	ctx.Relations = append(ctx.Relations, r)

	e := domain.NewEvidence(r.RelationID, domain.EvidenceDocument, "title deed")
	ctx.Evidence = append(ctx.Evidence, e)

	ctx.ClaimType = domain.ClaimOwnership
	ctx.MarkStepCompleted(0)
	ctx.MarkStepCompleted(1)
	ctx.CurrentStepIndex = 2

	data, err := ctx.MarshalSnapshot()
	require.NoError(t, err)

	restored, err := RestoreContext(data)
	require.NoError(t, err)

	assert.Equal(t, ctx.WizardID, restored.WizardID)
	assert.Equal(t, ctx.ReferenceNumber, restored.ReferenceNumber)
	assert.Equal(t, 2, restored.CurrentStepIndex)
	assert.Equal(t, "clerk-7", restored.UserID)
	assert.True(t, restored.IsStepCompleted(0))
	assert.True(t, restored.IsStepCompleted(1))
	assert.False(t, restored.IsStepCompleted(2))

	require.NotNil(t, restored.Building)
	assert.Equal(t, ctx.Building.BuildingID, restored.Building.BuildingID)
	require.NotNil(t, restored.Unit)
	assert.True(t, restored.IsNewUnit)
	require.NotNil(t, restored.Household)
	assert.Equal(t, "Ahmad Khalil", restored.Household.HeadName)
	require.Len(t, restored.Persons, 1)
	assert.Equal(t, "12345678901", restored.Persons[0].NationalID)
	require.Len(t, restored.Relations, 1)
	assert.Equal(t, 2400, restored.Relations[0].OwnershipShare)
	require.Len(t, restored.Evidence, 1)
	assert.Equal(t, domain.ClaimOwnership, restored.ClaimType)
}

func TestRestoreContextRejectsBadSnapshot(t *testing.T) {
	_, err := RestoreContext([]byte("not json"))
	assert.Error(t, err)

	_, err = RestoreContext([]byte(`{"status":"draft"}`))
	assert.Error(t, err, "snapshot without reference number must be rejected")
}

func TestContextLookups(t *testing.T) {
	ctx := NewSurveyContext("clerk-7")

	p1 := domain.NewPerson("Ahmad", "Khalil")
	p2 := domain.NewPerson("Fatima", "Khalil")
	ctx.Persons = append(ctx.Persons, p1, p2)

	r1 := domain.NewRelation(p1.PersonID, "unit-1", domain.RelationOwner)
	ctx.Relations = append(ctx.Relations, r1)

	e1 := domain.NewEvidence(r1.RelationID, domain.EvidenceDocument, "deed")
	ctx.Evidence = append(ctx.Evidence, e1)

	assert.Equal(t, p1, ctx.PersonByID(p1.PersonID))
	assert.Nil(t, ctx.PersonByID("missing"))

	assert.Len(t, ctx.RelationsForPerson(p1.PersonID), 1)
	assert.Empty(t, ctx.RelationsForPerson(p2.PersonID))

	assert.Len(t, ctx.EvidenceForRelation(r1.RelationID), 1)
	assert.Empty(t, ctx.EvidenceForRelation("missing"))
}
