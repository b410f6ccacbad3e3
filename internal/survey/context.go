// Package survey implements the office survey flow: a seven-step wizard a
// registration clerk walks through to record a building, its units, the
// people attached to them, and the tenure claim they submit.
package survey

import (
	"encoding/json"
	"fmt"

	"github.com/hussien-988/habitat-desktop-sub004/internal/domain"
	"github.com/hussien-988/habitat-desktop-sub004/internal/wizard"
)

// ReferencePrefix marks survey reference numbers, e.g.
// SRV-20260827143000-AB12.
const ReferencePrefix = "SRV"

// SurveyContext is the wizard context for one office survey. It embeds the
// base wizard context and adds the typed domain state the steps build up.
type SurveyContext struct {
	wizard.Context

	Building  *domain.Building `json:"building,omitempty"`
	Unit      *domain.Unit     `json:"unit,omitempty"`
	IsNewUnit bool             `json:"is_new_unit,omitempty"`

	// IsNewBuilding marks a building created during this survey rather
	// than picked from the registry.
	IsNewBuilding bool `json:"is_new_building,omitempty"`

	Household *domain.Household            `json:"household,omitempty"`
	Persons   []*domain.Person             `json:"persons,omitempty"`
	Relations []*domain.PersonUnitRelation `json:"relations,omitempty"`
	Evidence  []*domain.Evidence           `json:"evidence,omitempty"`

	ClaimType  string `json:"claim_type,omitempty"`
	ClaimNotes string `json:"claim_notes,omitempty"`
}

// NewSurveyContext creates a fresh survey context for the given clerk.
func NewSurveyContext(clerkID string) *SurveyContext {
	base := wizard.NewContext(ReferencePrefix)
	base.UserID = clerkID
	return &SurveyContext{Context: base}
}

// snapshot is the serialized form: the base snapshot flattened together
// with the survey's domain fields.
type snapshot struct {
	wizard.Snapshot

	Building      *domain.Building             `json:"building,omitempty"`
	Unit          *domain.Unit                 `json:"unit,omitempty"`
	IsNewUnit     bool                         `json:"is_new_unit,omitempty"`
	IsNewBuilding bool                         `json:"is_new_building,omitempty"`
	Household     *domain.Household            `json:"household,omitempty"`
	Persons       []*domain.Person             `json:"persons,omitempty"`
	Relations     []*domain.PersonUnitRelation `json:"relations,omitempty"`
	Evidence      []*domain.Evidence           `json:"evidence,omitempty"`
	ClaimType     string                       `json:"claim_type,omitempty"`
	ClaimNotes    string                       `json:"claim_notes,omitempty"`
}

// MarshalSnapshot serializes the full survey state. It shadows the base
// method so drafts and submissions carry the domain fields, not just the
// navigation bookkeeping.
func (c *SurveyContext) MarshalSnapshot() ([]byte, error) {
	return json.Marshal(snapshot{
		Snapshot:      c.Context.Snapshot(),
		Building:      c.Building,
		Unit:          c.Unit,
		IsNewUnit:     c.IsNewUnit,
		IsNewBuilding: c.IsNewBuilding,
		Household:     c.Household,
		Persons:       c.Persons,
		Relations:     c.Relations,
		Evidence:      c.Evidence,
		ClaimType:     c.ClaimType,
		ClaimNotes:    c.ClaimNotes,
	})
}

// RestoreContext rebuilds a survey context from a serialized snapshot,
// used when resuming a draft.
func RestoreContext(data []byte) (*SurveyContext, error) {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing survey snapshot: %w", err)
	}
	if s.ReferenceNumber == "" {
		return nil, fmt.Errorf("survey snapshot has no reference number")
	}

	c := NewSurveyContext(s.UserID)
	c.RestoreBase(s.Snapshot)
	c.Building = s.Building
	c.Unit = s.Unit
	c.IsNewUnit = s.IsNewUnit
	c.IsNewBuilding = s.IsNewBuilding
	c.Household = s.Household
	c.Persons = s.Persons
	c.Relations = s.Relations
	c.Evidence = s.Evidence
	c.ClaimType = s.ClaimType
	c.ClaimNotes = s.ClaimNotes
	return c, nil
}

// PersonByID finds a registered person, or nil.
func (c *SurveyContext) PersonByID(personID string) *domain.Person {
	for _, p := range c.Persons {
		if p.PersonID == personID {
			return p
		}
	}
	return nil
}

// RelationsForPerson returns the tenure relations stated for one person.
func (c *SurveyContext) RelationsForPerson(personID string) []*domain.PersonUnitRelation {
	var out []*domain.PersonUnitRelation
	for _, r := range c.Relations {
		if r.PersonID == personID {
			out = append(out, r)
		}
	}
	return out
}

// EvidenceForRelation returns the evidence items attached to a relation.
func (c *SurveyContext) EvidenceForRelation(relationID string) []*domain.Evidence {
	var out []*domain.Evidence
	for _, e := range c.Evidence {
		if e.RelationID == relationID {
			out = append(out, e)
		}
	}
	return out
}
