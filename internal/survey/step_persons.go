package survey

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/hussien-988/habitat-desktop-sub004/internal/domain"
	"github.com/hussien-988/habitat-desktop-sub004/internal/wizard"
)

// Person form field indices.
const (
	pfFirstName = iota
	pfFatherName
	pfMotherName
	pfLastName
	pfNationalID
	pfYearOfBirth
	pfMobile
)

var relationTypes = []string{
	"",
	domain.RelationOwner,
	domain.RelationTenant,
	domain.RelationHeir,
	domain.RelationGuest,
	domain.RelationOccupant,
	domain.RelationOther,
}

// PersonsStep registers the individuals attached to the unit. Each person
// carries a claimed relation type that the relations step later turns into
// a full tenure-relation record.
type PersonsStep struct {
	wizard.StepBase

	ctx *SurveyContext

	form        *form
	genderIdx   int // 0 male, 1 female
	relationIdx int
	formError   string
}

// NewPersonsStep creates the person registration step.
func NewPersonsStep(ctx *SurveyContext) *PersonsStep {
	return &PersonsStep{ctx: ctx}
}

func (s *PersonsStep) Title() string { return "Persons" }

func (s *PersonsStep) Description() string {
	return "Register every person with a stake in the unit"
}

func (s *PersonsStep) SetupUI() {
	s.form = newForm(
		newField("First name", ""),
		newField("Father's name", ""),
		newField("Mother's name", ""),
		newField("Last name", ""),
		newField("National ID (11 digits)", "optional"),
		newField("Year of birth", "optional"),
		newField("Mobile number", "optional"),
	)
}

// Validate requires at least one registered person with well-formed IDs.
// A person with no stated relation type is flagged as a warning here and
// becomes a hard requirement at the relations step.
func (s *PersonsStep) Validate() *wizard.ValidationResult {
	result := wizard.NewValidationResult()

	if len(s.ctx.Persons) == 0 {
		result.AddError("At least one person must be registered")
		return result
	}

	for _, p := range s.ctx.Persons {
		if !p.ValidNationalID() {
			result.AddError(fmt.Sprintf("%s: national ID must be 11 digits", p.FullName()))
		}
		if p.RelationType == "" {
			result.AddWarning(fmt.Sprintf("%s has no stated relation to the unit", p.FullName()))
		}
	}
	return result
}

func (s *PersonsStep) CollectData() map[string]any {
	return map[string]any{"person_count": len(s.ctx.Persons)}
}

// addPerson validates the form inline and appends to the context.
func (s *PersonsStep) addPerson() {
	first := s.form.Value(pfFirstName)
	last := s.form.Value(pfLastName)
	if first == "" || last == "" {
		s.formError = "First and last name are required"
		return
	}

	p := domain.NewPerson(first, last)
	p.FatherName = s.form.Value(pfFatherName)
	p.MotherName = s.form.Value(pfMotherName)
	p.NationalID = s.form.Value(pfNationalID)
	p.MobileNumber = s.form.Value(pfMobile)
	if s.genderIdx == 1 {
		p.Gender = domain.GenderFemale
	}
	if v := s.form.Value(pfYearOfBirth); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			s.formError = "Year of birth must be a number"
			return
		}
		p.YearOfBirth = year
	}
	p.RelationType = relationTypes[s.relationIdx]

	if !p.ValidNationalID() {
		s.formError = "National ID must be 11 digits"
		return
	}

	s.ctx.Persons = append(s.ctx.Persons, p)
	s.formError = ""
	s.genderIdx = 0
	s.relationIdx = 0
	s.form.Reset()
}

// removeLast drops the most recently added person and any relations or
// evidence hanging off them.
func (s *PersonsStep) removeLast() {
	if len(s.ctx.Persons) == 0 {
		return
	}
	p := s.ctx.Persons[len(s.ctx.Persons)-1]
	s.ctx.Persons = s.ctx.Persons[:len(s.ctx.Persons)-1]

	kept := s.ctx.Relations[:0]
	for _, r := range s.ctx.Relations {
		if r.PersonID == p.PersonID {
			s.ctx.Evidence = dropEvidenceFor(s.ctx.Evidence, r.RelationID)
			continue
		}
		kept = append(kept, r)
	}
	s.ctx.Relations = kept
}

func dropEvidenceFor(evidence []*domain.Evidence, relationID string) []*domain.Evidence {
	kept := evidence[:0]
	for _, e := range evidence {
		if e.RelationID != relationID {
			kept = append(kept, e)
		}
	}
	return kept
}

func (s *PersonsStep) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "tab", "down":
			s.form.FocusNext()
			return nil
		case "shift+tab", "up":
			s.form.FocusPrev()
			return nil
		case "enter":
			s.addPerson()
			return nil
		case "ctrl+g":
			s.genderIdx = (s.genderIdx + 1) % 2
			return nil
		case "ctrl+r":
			s.relationIdx = (s.relationIdx + 1) % len(relationTypes)
			return nil
		case "ctrl+d":
			s.removeLast()
			return nil
		}
	}
	return s.form.Update(msg)
}

func (s *PersonsStep) View() string {
	var b strings.Builder
	b.WriteString(styleSectionTitle.Render("New person"))
	b.WriteString("\n")
	b.WriteString(s.form.View())
	b.WriteString("\n")

	gender := "male"
	if s.genderIdx == 1 {
		gender = "female"
	}
	relation := relationTypes[s.relationIdx]
	if relation == "" {
		relation = "not stated"
	}
	b.WriteString(styleFieldLabel.Render("Gender: "))
	b.WriteString(styleSelected.Render(gender))
	b.WriteString(styleFieldLabel.Render("   Claimed relation: "))
	b.WriteString(styleSelected.Render(relation))
	b.WriteString("\n")

	if s.formError != "" {
		b.WriteString(styleError.Render("✗ " + s.formError))
		b.WriteString("\n")
	}

	if len(s.ctx.Persons) > 0 {
		b.WriteString("\n")
		b.WriteString(styleSectionTitle.Render(fmt.Sprintf("Registered (%d)", len(s.ctx.Persons))))
		b.WriteString("\n")
		for _, p := range s.ctx.Persons {
			line := p.FullName()
			if p.RelationType != "" {
				line += "  (" + p.RelationType + ")"
			}
			b.WriteString(styleListItem.Render("  " + line))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styleMuted.Render("enter add • ctrl+g gender • ctrl+r relation • ctrl+d remove last"))
	return b.String()
}
