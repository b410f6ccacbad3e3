package repo

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hussien-988/habitat-desktop-sub004/internal/domain"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func sampleBuilding(neighborhood, number string) *domain.Building {
	b := domain.NewBuilding("01", "02", "03", "001", neighborhood, number)
	b.NeighborhoodName = "Al-Midan"
	return b
}

func TestInsertAndGetBuilding(t *testing.T) {
	r := newTestRegistry(t)

	b := sampleBuilding("004", "00012")
	require.NoError(t, r.InsertBuilding(b))

	got, err := r.GetBuilding(b.BuildingID)
	require.NoError(t, err)
	assert.Equal(t, b.BuildingUUID, got.BuildingUUID)
	assert.Equal(t, "01020300100400012", got.BuildingID)
	assert.Equal(t, "Al-Midan", got.NeighborhoodName)
	assert.Equal(t, domain.BuildingResidential, got.BuildingType)

	_, err = r.GetBuilding("nonexistent")
	assert.Error(t, err)
}

func TestInsertBuildingRejectsDuplicateID(t *testing.T) {
	r := newTestRegistry(t)

	b := sampleBuilding("004", "00012")
	require.NoError(t, r.InsertBuilding(b))

	dup := sampleBuilding("004", "00012")
	assert.Error(t, r.InsertBuilding(dup))
}

func TestSearchBuildings(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.InsertBuilding(sampleBuilding("004", "00012")))
	require.NoError(t, r.InsertBuilding(sampleBuilding("004", "00037")))
	require.NoError(t, r.InsertBuilding(sampleBuilding("007", "00012")))

	// Neighborhood filter alone.
	got, err := r.SearchBuildings("004", "")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Number fragment narrows within the neighborhood.
	got, err = r.SearchBuildings("004", "37")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "00037", got[0].BuildingNumber)

	// Empty filters return everything.
	got, err = r.SearchBuildings("", "")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// No match.
	got, err = r.SearchBuildings("099", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInsertUnitBumpsBuildingCount(t *testing.T) {
	r := newTestRegistry(t)

	b := sampleBuilding("004", "00012")
	require.NoError(t, r.InsertBuilding(b))

	u1 := domain.NewUnit(b.BuildingID, "001", domain.UnitApartment)
	u2 := domain.NewUnit(b.BuildingID, "002", domain.UnitShop)
	require.NoError(t, r.InsertUnit(u1))
	require.NoError(t, r.InsertUnit(u2))

	units, err := r.UnitsForBuilding(b.BuildingID)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "001", units[0].UnitNumber)
	assert.Equal(t, domain.UnitShop, units[1].UnitType)

	got, err := r.GetBuilding(b.BuildingID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumberOfUnits)
}

func TestNextClaimSequence(t *testing.T) {
	r := newTestRegistry(t)

	n, err := r.NextClaimSequence(2026)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = r.NextClaimSequence(2026)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Sequences are per year.
	n, err = r.NextClaimSequence(2027)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSaveSurvey(t *testing.T) {
	r := newTestRegistry(t)

	snapshot := []byte(`{"reference_number":"SRV-20260101120000-AB12"}`)
	err := r.SaveSurvey("SRV-20260101120000-AB12", "wizard-1", "clerk-7", "CL-2026-000001", snapshot)
	require.NoError(t, err)

	n, err := r.SurveyCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Re-submitting the same reference replaces, never duplicates.
	err = r.SaveSurvey("SRV-20260101120000-AB12", "wizard-1", "clerk-7", "CL-2026-000001", snapshot)
	require.NoError(t, err)

	n, err = r.SurveyCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAuditLog(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.AppendAudit("clerk-7", "create", "building", "b-1", map[string]any{"number": "00012"}))
	require.NoError(t, r.AppendAudit("clerk-7", "submit", "survey", "SRV-1", nil))

	entries, err := r.RecentAudit(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "submit", entries[0].Action)
	assert.Equal(t, "create", entries[1].Action)
	assert.Equal(t, "00012", entries[1].Details["number"])
	assert.Nil(t, entries[0].Details)
}
