package survey

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/hussien-988/habitat-desktop-sub004/internal/wizard"
)

// ReviewStep is the read-only final step: it lays out everything the survey
// collected and re-runs the cross-step checks before submission.
type ReviewStep struct {
	wizard.StepBase

	ctx *SurveyContext
}

// NewReviewStep creates the review step.
func NewReviewStep(ctx *SurveyContext) *ReviewStep {
	return &ReviewStep{ctx: ctx}
}

func (s *ReviewStep) Title() string { return "Review" }

func (s *ReviewStep) Description() string {
	return "Check the collected data before submitting the claim"
}

func (s *ReviewStep) SetupUI() {}

// Validate re-checks the whole survey. Earlier steps each validated their
// own slice, but backward navigation can invalidate later data, so the
// submission gate verifies everything again.
func (s *ReviewStep) Validate() *wizard.ValidationResult {
	result := wizard.NewValidationResult()

	if s.ctx.Building == nil {
		result.AddError("No building selected")
	}
	if s.ctx.Unit == nil {
		result.AddError("No unit selected")
	}
	if s.ctx.Household == nil || s.ctx.Household.HeadName == "" {
		result.AddError("No head of household recorded")
	}
	if len(s.ctx.Persons) == 0 {
		result.AddError("No persons registered")
	}
	if len(s.ctx.Relations) == 0 {
		result.AddError("No person-unit relations recorded")
	}
	if s.ctx.ClaimType == "" {
		result.AddError("No claim type selected")
	}
	if len(s.ctx.Evidence) == 0 {
		result.AddWarning("Claim will be submitted without any evidence")
	}
	return result
}

func (s *ReviewStep) CollectData() map[string]any {
	return map[string]any{"reference_number": s.ctx.ReferenceNumber}
}

// Update ignores input; the host's submit key is the only action here.
func (s *ReviewStep) Update(tea.Msg) tea.Cmd { return nil }

func (s *ReviewStep) View() string {
	var b strings.Builder
	c := s.ctx

	b.WriteString(styleSectionTitle.Render("Survey " + c.ReferenceNumber))
	b.WriteString("\n")

	section := func(label, value string) {
		b.WriteString(styleFieldLabel.Render(label + ": "))
		if value == "" {
			b.WriteString(styleError.Render("missing"))
		} else {
			b.WriteString(styleListItem.Render(value))
		}
		b.WriteString("\n")
	}

	if c.Building != nil {
		building := c.Building.BuildingID
		if c.IsNewBuilding {
			building += " (new)"
		}
		section("Building", building)
	} else {
		section("Building", "")
	}

	if c.Unit != nil {
		unit := fmt.Sprintf("%s, %s", c.Unit.UnitID, c.Unit.UnitType)
		if c.IsNewUnit {
			unit += " (new)"
		}
		section("Unit", unit)
	} else {
		section("Unit", "")
	}

	if c.Household != nil {
		section("Household", fmt.Sprintf("%s, %d member(s)", c.Household.HeadName, c.Household.MemberCount))
	} else {
		section("Household", "")
	}

	b.WriteString("\n")
	b.WriteString(styleFieldLabel.Render(fmt.Sprintf("Persons (%d):", len(c.Persons))))
	b.WriteString("\n")
	for _, p := range c.Persons {
		b.WriteString(styleListItem.Render("  • " + p.FullName()))
		b.WriteString("\n")
	}

	b.WriteString(styleFieldLabel.Render(fmt.Sprintf("Relations (%d):", len(c.Relations))))
	b.WriteString("\n")
	for _, r := range c.Relations {
		name := r.PersonID
		if p := c.PersonByID(r.PersonID); p != nil {
			name = p.FullName()
		}
		b.WriteString(styleListItem.Render(fmt.Sprintf("  • %s — %s (%d evidence)",
			name, r.RelationType, len(c.EvidenceForRelation(r.RelationID)))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	section("Claim type", c.ClaimType)
	if c.ClaimNotes != "" {
		section("Notes", c.ClaimNotes)
	}

	b.WriteString("\n")
	b.WriteString(styleMuted.Render("Completed steps: " + fmt.Sprintf("%d", c.CompletedCount())))
	return b.String()
}
