package survey

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/hussien-988/habitat-desktop-sub004/internal/domain"
	"github.com/hussien-988/habitat-desktop-sub004/internal/wizard"
)

// Household form field indices.
const (
	hfHeadName = 0
	hfMembers  = 1
	hfMinors   = 2
	hfNotes    = 3
)

// HouseholdStep records the household occupying the unit: who heads it and
// its demographic composition.
type HouseholdStep struct {
	wizard.StepBase

	ctx *SurveyContext

	form         *form
	femaleHeaded bool
}

// NewHouseholdStep creates the household step.
func NewHouseholdStep(ctx *SurveyContext) *HouseholdStep {
	return &HouseholdStep{ctx: ctx}
}

func (s *HouseholdStep) Title() string { return "Household" }

func (s *HouseholdStep) Description() string {
	return "Record the household living in or claiming the unit"
}

func (s *HouseholdStep) SetupUI() {
	s.form = newForm(
		newField("Head of household", "Full name"),
		newField("Household members", "e.g. 5"),
		newField("Of which minors", "e.g. 2"),
		newField("Notes", "optional"),
	)
}

// PopulateData restores the form from a previously recorded household.
func (s *HouseholdStep) PopulateData() {
	h := s.ctx.Household
	if h == nil {
		return
	}
	s.form.SetValue(hfHeadName, h.HeadName)
	s.form.SetValue(hfMembers, strconv.Itoa(h.MemberCount))
	if h.MinorCount > 0 {
		s.form.SetValue(hfMinors, strconv.Itoa(h.MinorCount))
	}
	s.form.SetValue(hfNotes, h.Notes)
	s.femaleHeaded = h.FemaleHeaded
}

// Validate requires a named head of household. An empty member count is a
// warning, not a blocker: vacant or disputed units are surveyed too.
func (s *HouseholdStep) Validate() *wizard.ValidationResult {
	result := wizard.NewValidationResult()

	head := s.form.Value(hfHeadName)
	if head == "" {
		result.AddError("Head of household name is required")
	}

	members, minors := s.counts()
	if members < 0 {
		result.AddError("Household member count must be a number")
	}
	if minors < 0 {
		result.AddError("Minor count must be a number")
	}
	if members == 0 {
		result.AddWarning("No household members recorded")
	}
	if minors > members && members >= 0 {
		result.AddError("Minor count cannot exceed household size")
	}

	if result.Valid {
		s.store(head, members, minors)
	}
	return result
}

// counts parses the numeric fields; -1 marks an unparsable value, empty
// parses as zero.
func (s *HouseholdStep) counts() (members, minors int) {
	parse := func(v string) int {
		if v == "" {
			return 0
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return -1
		}
		return n
	}
	return parse(s.form.Value(hfMembers)), parse(s.form.Value(hfMinors))
}

func (s *HouseholdStep) store(head string, members, minors int) {
	h := s.ctx.Household
	if h == nil {
		h = domain.NewHousehold(head, members)
		s.ctx.Household = h
	}
	h.HeadName = head
	h.MemberCount = members
	h.MinorCount = minors
	h.FemaleHeaded = s.femaleHeaded
	h.Notes = s.form.Value(hfNotes)
}

func (s *HouseholdStep) CollectData() map[string]any {
	if s.ctx.Household == nil {
		return nil
	}
	return map[string]any{
		"household_head":    s.ctx.Household.HeadName,
		"household_members": s.ctx.Household.MemberCount,
	}
}

func (s *HouseholdStep) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "tab", "down", "enter":
			s.form.FocusNext()
			return nil
		case "shift+tab", "up":
			s.form.FocusPrev()
			return nil
		case "ctrl+g":
			s.femaleHeaded = !s.femaleHeaded
			return nil
		}
	}
	return s.form.Update(msg)
}

func (s *HouseholdStep) View() string {
	var b strings.Builder
	b.WriteString(styleSectionTitle.Render("Household"))
	b.WriteString("\n")
	b.WriteString(s.form.View())
	b.WriteString("\n")
	b.WriteString(styleFieldLabel.Render("Female-headed: "))
	if s.femaleHeaded {
		b.WriteString(styleSelected.Render("yes"))
	} else {
		b.WriteString(styleListItem.Render("no"))
	}
	b.WriteString("\n\n")
	b.WriteString(styleMuted.Render("tab next field • ctrl+g toggle female-headed"))
	return b.String()
}
