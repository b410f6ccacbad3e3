package survey

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/hussien-988/habitat-desktop-sub004/internal/domain"
	"github.com/hussien-988/habitat-desktop-sub004/internal/wizard"
)

var claimTypes = []string{
	domain.ClaimOwnership,
	domain.ClaimOccupancy,
	domain.ClaimTenancy,
}

var claimTypeLabels = map[string]string{
	domain.ClaimOwnership: "Ownership — claimant asserts property rights over the unit",
	domain.ClaimOccupancy: "Occupancy — claimant asserts the right to keep living in the unit",
	domain.ClaimTenancy:   "Tenancy — claimant asserts a rental arrangement",
}

// ClaimStep selects the type of tenure claim the survey will file and any
// closing notes for the case reviewer.
type ClaimStep struct {
	wizard.StepBase

	ctx *SurveyContext

	cursor    int
	notes     *form
	notesMode bool
}

// NewClaimStep creates the claim type step.
func NewClaimStep(ctx *SurveyContext) *ClaimStep {
	return &ClaimStep{ctx: ctx}
}

func (s *ClaimStep) Title() string { return "Claim" }

func (s *ClaimStep) Description() string {
	return "Choose the claim type this survey submits"
}

func (s *ClaimStep) SetupUI() {
	s.notes = newForm(newField("Notes for the reviewer", "optional"))
}

func (s *ClaimStep) PopulateData() {
	for i, ct := range claimTypes {
		if ct == s.ctx.ClaimType {
			s.cursor = i
			break
		}
	}
	s.notes.SetValue(0, s.ctx.ClaimNotes)
}

// Validate requires a claim type. An ownership claim with no owner or heir
// relation is almost certainly a data-entry mistake, so it warns.
func (s *ClaimStep) Validate() *wizard.ValidationResult {
	result := wizard.NewValidationResult()
	if s.ctx.ClaimType == "" {
		result.AddError("A claim type must be selected")
		return result
	}
	if !domain.ValidClaimType(s.ctx.ClaimType) {
		result.AddError("Unknown claim type: " + s.ctx.ClaimType)
		return result
	}

	if s.ctx.ClaimType == domain.ClaimOwnership {
		hasOwner := false
		for _, r := range s.ctx.Relations {
			if r.RelationType == domain.RelationOwner || r.RelationType == domain.RelationHeir {
				hasOwner = true
				break
			}
		}
		if !hasOwner {
			result.AddWarning("Ownership claim without any owner or heir relation")
		}
	}

	s.ctx.ClaimNotes = s.notes.Value(0)
	return result
}

func (s *ClaimStep) CollectData() map[string]any {
	return map[string]any{"claim_type": s.ctx.ClaimType}
}

func (s *ClaimStep) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "tab":
			s.notesMode = !s.notesMode
			return nil
		case "up":
			if !s.notesMode && s.cursor > 0 {
				s.cursor--
			}
			return nil
		case "down":
			if !s.notesMode && s.cursor < len(claimTypes)-1 {
				s.cursor++
			}
			return nil
		case "enter":
			if !s.notesMode {
				s.ctx.ClaimType = claimTypes[s.cursor]
			}
			return nil
		}
	}
	if s.notesMode {
		return s.notes.Update(msg)
	}
	return nil
}

func (s *ClaimStep) View() string {
	var b strings.Builder
	b.WriteString(styleSectionTitle.Render("Claim type"))
	b.WriteString("\n")
	for i, ct := range claimTypes {
		marker := "  "
		if ct == s.ctx.ClaimType {
			marker = "✓ "
		}
		line := marker + claimTypeLabels[ct]
		if i == s.cursor && !s.notesMode {
			b.WriteString(styleSelected.Render("› " + line))
		} else {
			b.WriteString(styleListItem.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(s.notes.View())
	b.WriteString("\n\n")
	b.WriteString(styleMuted.Render("↑↓ choose • enter select • tab toggle notes"))
	return b.String()
}
