package survey

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/hussien-988/habitat-desktop-sub004/internal/domain"
	"github.com/hussien-988/habitat-desktop-sub004/internal/wizard"
)

// Relation form field indices.
const (
	rfShare    = 0
	rfEvidence = 1
	rfEvidRef  = 2
)

var evidenceTypes = []string{
	domain.EvidenceDocument,
	domain.EvidenceWitness,
	domain.EvidenceCommunity,
	domain.EvidenceOther,
}

// RelationsStep formalizes each person's link to the unit as a tenure
// relation, optionally backed by evidence items.
type RelationsStep struct {
	wizard.StepBase

	ctx *SurveyContext

	personCursor int
	relationIdx  int
	evidenceIdx  int
	form         *form
	formError    string
}

// NewRelationsStep creates the relations step.
func NewRelationsStep(ctx *SurveyContext) *RelationsStep {
	return &RelationsStep{ctx: ctx}
}

func (s *RelationsStep) Title() string { return "Relations" }

func (s *RelationsStep) Description() string {
	return "State how each person is tied to the unit, with supporting evidence"
}

func (s *RelationsStep) SetupUI() {
	s.form = newForm(
		newField("Ownership share (of 2400)", "owners and heirs only"),
		newField("Evidence description", "e.g. title deed no. 1234"),
		newField("Evidence reference", "optional"),
	)
	s.relationIdx = 1 // default to owner, the common case
}

// PopulateData clamps the person cursor; the person list may have shrunk
// since the last visit.
func (s *RelationsStep) PopulateData() {
	if s.personCursor >= len(s.ctx.Persons) {
		s.personCursor = 0
	}
	// Seed the relation type from the person's claimed relation.
	s.seedRelationType()
}

func (s *RelationsStep) seedRelationType() {
	if s.personCursor >= len(s.ctx.Persons) {
		return
	}
	claimed := s.ctx.Persons[s.personCursor].RelationType
	for i, rt := range relationTypes {
		if rt != "" && rt == claimed {
			s.relationIdx = i
			return
		}
	}
}

// Validate requires at least one relation and a sane ownership split.
// Relations without evidence pass with a warning; verification happens
// later in the claim lifecycle.
func (s *RelationsStep) Validate() *wizard.ValidationResult {
	result := wizard.NewValidationResult()

	if len(s.ctx.Relations) == 0 {
		result.AddError("At least one person-unit relation is required")
		return result
	}

	totalShare := 0
	for _, r := range s.ctx.Relations {
		person := s.ctx.PersonByID(r.PersonID)
		name := r.PersonID
		if person != nil {
			name = person.FullName()
		}
		if !domain.ValidRelationType(r.RelationType) {
			result.AddError(fmt.Sprintf("%s: unknown relation type %q", name, r.RelationType))
		}
		if r.RelationType == domain.RelationOwner || r.RelationType == domain.RelationHeir {
			totalShare += r.OwnershipShare
		}
		if len(s.ctx.EvidenceForRelation(r.RelationID)) == 0 {
			result.AddWarning(fmt.Sprintf("%s: relation has no supporting evidence", name))
		}
	}
	if totalShare > domain.MaxOwnershipShare {
		result.AddError(fmt.Sprintf("Ownership shares total %d, exceeding %d", totalShare, domain.MaxOwnershipShare))
	}

	// Everyone registered should end up with at least one relation.
	for _, p := range s.ctx.Persons {
		if len(s.ctx.RelationsForPerson(p.PersonID)) == 0 {
			result.AddWarning(fmt.Sprintf("%s has no recorded relation", p.FullName()))
		}
	}
	return result
}

func (s *RelationsStep) CollectData() map[string]any {
	return map[string]any{
		"relation_count": len(s.ctx.Relations),
		"evidence_count": len(s.ctx.Evidence),
	}
}

// addRelation creates a relation for the person under the cursor, plus an
// evidence item when a description was given.
func (s *RelationsStep) addRelation() {
	if s.ctx.Unit == nil {
		s.formError = "No unit selected"
		return
	}
	if s.personCursor >= len(s.ctx.Persons) {
		s.formError = "No person selected"
		return
	}
	person := s.ctx.Persons[s.personCursor]
	relType := relationTypes[s.relationIdx]
	if relType == "" {
		s.formError = "Choose a relation type"
		return
	}

	r := domain.NewRelation(person.PersonID, s.ctx.Unit.UnitID, relType)
	if v := s.form.Value(rfShare); v != "" {
		share, err := strconv.Atoi(v)
		if err != nil || share < 0 || share > domain.MaxOwnershipShare {
			s.formError = fmt.Sprintf("Ownership share must be between 0 and %d", domain.MaxOwnershipShare)
			return
		}
		r.OwnershipShare = share
	}

	if desc := s.form.Value(rfEvidence); desc != "" {
		e := domain.NewEvidence(r.RelationID, evidenceTypes[s.evidenceIdx], desc)
		e.ReferenceNumber = s.form.Value(rfEvidRef)
		s.ctx.Evidence = append(s.ctx.Evidence, e)
		r.EvidenceIDs = append(r.EvidenceIDs, e.EvidenceID)
	}

	// Keep the person's claimed relation in sync with what was recorded.
	person.RelationType = relType

	s.ctx.Relations = append(s.ctx.Relations, r)
	s.formError = ""
	s.form.Reset()
}

func (s *RelationsStep) removeLast() {
	if len(s.ctx.Relations) == 0 {
		return
	}
	r := s.ctx.Relations[len(s.ctx.Relations)-1]
	s.ctx.Relations = s.ctx.Relations[:len(s.ctx.Relations)-1]
	s.ctx.Evidence = dropEvidenceFor(s.ctx.Evidence, r.RelationID)
}

func (s *RelationsStep) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "ctrl+p":
			if len(s.ctx.Persons) > 0 {
				s.personCursor = (s.personCursor + 1) % len(s.ctx.Persons)
				s.seedRelationType()
			}
			return nil
		case "ctrl+r":
			s.relationIdx = (s.relationIdx + 1) % len(relationTypes)
			if relationTypes[s.relationIdx] == "" {
				s.relationIdx++
			}
			return nil
		case "ctrl+t":
			s.evidenceIdx = (s.evidenceIdx + 1) % len(evidenceTypes)
			return nil
		case "tab", "down":
			s.form.FocusNext()
			return nil
		case "shift+tab", "up":
			s.form.FocusPrev()
			return nil
		case "enter":
			s.addRelation()
			return nil
		case "ctrl+d":
			s.removeLast()
			return nil
		}
	}
	return s.form.Update(msg)
}

func (s *RelationsStep) View() string {
	var b strings.Builder
	b.WriteString(styleSectionTitle.Render("New relation"))
	b.WriteString("\n")

	personName := "none"
	if s.personCursor < len(s.ctx.Persons) {
		personName = s.ctx.Persons[s.personCursor].FullName()
	}
	b.WriteString(styleFieldLabel.Render("Person: "))
	b.WriteString(styleSelected.Render(personName))
	b.WriteString(styleFieldLabel.Render("   Relation: "))
	b.WriteString(styleSelected.Render(relationTypes[s.relationIdx]))
	b.WriteString(styleFieldLabel.Render("   Evidence type: "))
	b.WriteString(styleSelected.Render(evidenceTypes[s.evidenceIdx]))
	b.WriteString("\n\n")
	b.WriteString(s.form.View())
	b.WriteString("\n")

	if s.formError != "" {
		b.WriteString(styleError.Render("✗ " + s.formError))
		b.WriteString("\n")
	}

	if len(s.ctx.Relations) > 0 {
		b.WriteString("\n")
		b.WriteString(styleSectionTitle.Render(fmt.Sprintf("Recorded (%d)", len(s.ctx.Relations))))
		b.WriteString("\n")
		for _, r := range s.ctx.Relations {
			name := r.PersonID
			if p := s.ctx.PersonByID(r.PersonID); p != nil {
				name = p.FullName()
			}
			line := fmt.Sprintf("%s — %s", name, r.RelationType)
			if r.OwnershipShare > 0 {
				line += fmt.Sprintf(" (%d/%d)", r.OwnershipShare, domain.MaxOwnershipShare)
			}
			if n := len(s.ctx.EvidenceForRelation(r.RelationID)); n > 0 {
				line += fmt.Sprintf(", %d evidence item(s)", n)
			}
			b.WriteString(styleListItem.Render("  " + line))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styleMuted.Render("ctrl+p person • ctrl+r relation • ctrl+t evidence type • enter add • ctrl+d remove last"))
	return b.String()
}
