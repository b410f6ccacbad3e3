package survey

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/hussien-988/habitat-desktop-sub004/internal/domain"
	"github.com/hussien-988/habitat-desktop-sub004/internal/logger"
	"github.com/hussien-988/habitat-desktop-sub004/internal/wizard"
)

// Unit create form field indices.
const (
	ufNumber = 0
	ufFloor  = 1
)

var unitTypes = []string{
	domain.UnitApartment,
	domain.UnitShop,
	domain.UnitOffice,
	domain.UnitWarehouse,
	domain.UnitGarage,
	domain.UnitOther,
}

// UnitStep picks the property unit within the selected building, creating
// it when the building has no record of it yet.
type UnitStep struct {
	wizard.StepBase

	ctx      *SurveyContext
	registry Registry

	units    []*domain.Unit
	cursor   int
	creating bool

	createForm *form
	typeIndex  int

	status string
	saved  bool
}

// NewUnitStep creates the unit selection step.
func NewUnitStep(ctx *SurveyContext, registry Registry) *UnitStep {
	return &UnitStep{ctx: ctx, registry: registry}
}

func (s *UnitStep) Title() string { return "Unit" }

func (s *UnitStep) Description() string {
	return "Choose the unit inside the building this claim concerns"
}

func (s *UnitStep) SetupUI() {
	s.createForm = newForm(
		newField("Unit number (3 digits)", "001"),
		newField("Floor", "0"),
	)
}

// PopulateData reloads the unit list for the selected building. The list
// must refresh on every visit since the building choice can change.
func (s *UnitStep) PopulateData() {
	s.units = nil
	s.cursor = 0
	b := s.ctx.Building
	if b == nil {
		s.status = "No building selected yet"
		return
	}
	if s.ctx.IsNewBuilding && !s.ctx.IsNewUnit {
		// A brand-new building has no registered units to list.
		s.creating = true
	}
	units, err := s.registry.UnitsForBuilding(b.BuildingID)
	if err != nil {
		logger.Error("Listing units for %s failed: %v", b.BuildingID, err)
		s.status = "Could not load units: " + err.Error()
		return
	}
	s.units = units
	if s.ctx.Unit != nil {
		s.status = fmt.Sprintf("Selected: %s", s.ctx.Unit.UnitID)
	} else if len(units) == 0 {
		s.status = "Building has no registered units. Press ctrl+n to add one."
	} else {
		s.status = fmt.Sprintf("%d unit(s) on record", len(units))
	}
}

// Validate requires a chosen unit belonging to the selected building.
func (s *UnitStep) Validate() *wizard.ValidationResult {
	result := wizard.NewValidationResult()
	if s.ctx.Building == nil {
		result.AddError("A building must be selected first")
		return result
	}
	if s.ctx.Unit == nil {
		result.AddError("Select an existing unit or create a new one")
		return result
	}
	if s.ctx.Unit.BuildingID != s.ctx.Building.BuildingID {
		result.AddError("The chosen unit does not belong to the selected building")
	}
	if s.ctx.IsNewUnit && len(s.ctx.Unit.UnitNumber) != 3 {
		result.AddError("Unit number must be 3 digits")
	}
	return result
}

func (s *UnitStep) CollectData() map[string]any {
	if s.ctx.Unit == nil {
		return nil
	}
	return map[string]any{
		"unit_id":     s.ctx.Unit.UnitID,
		"is_new_unit": s.ctx.IsNewUnit,
	}
}

// OnNext persists a newly created unit before advancing.
func (s *UnitStep) OnNext() error {
	if !s.ctx.IsNewUnit || s.saved {
		return nil
	}
	u := s.ctx.Unit
	if err := s.registry.InsertUnit(u); err != nil {
		return fmt.Errorf("registering unit: %w", err)
	}
	s.saved = true
	if err := s.registry.AppendAudit(s.ctx.UserID, "create", "unit", u.UnitID,
		map[string]any{"reference": s.ctx.ReferenceNumber}); err != nil {
		logger.Warn("Audit append failed for unit %s: %v", u.UnitID, err)
	}
	return nil
}

func (s *UnitStep) selectUnit() {
	if s.cursor < 0 || s.cursor >= len(s.units) {
		return
	}
	s.ctx.Unit = s.units[s.cursor]
	s.ctx.IsNewUnit = false
	s.status = fmt.Sprintf("Selected: %s", s.ctx.Unit.UnitID)
}

func (s *UnitStep) createUnit() {
	b := s.ctx.Building
	if b == nil {
		return
	}
	u := domain.NewUnit(b.BuildingID, s.createForm.Value(ufNumber), unitTypes[s.typeIndex])
	u.CreatedBy = s.ctx.UserID
	fmt.Sscanf(s.createForm.Value(ufFloor), "%d", &u.FloorNumber)
	s.ctx.Unit = u
	s.ctx.IsNewUnit = true
	s.saved = false
	s.status = fmt.Sprintf("New unit %s will be registered", u.UnitID)
}

func (s *UnitStep) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		if s.creating {
			return s.createForm.Update(msg)
		}
		return nil
	}

	switch key.String() {
	case "ctrl+n":
		s.creating = !s.creating
		return nil
	case "ctrl+t":
		if s.creating {
			s.typeIndex = (s.typeIndex + 1) % len(unitTypes)
		}
		return nil
	case "down", "tab":
		if s.creating {
			s.createForm.FocusNext()
		} else if s.cursor < len(s.units)-1 {
			s.cursor++
		}
		return nil
	case "up", "shift+tab":
		if s.creating {
			s.createForm.FocusPrev()
		} else if s.cursor > 0 {
			s.cursor--
		}
		return nil
	case "enter":
		if s.creating {
			s.createUnit()
		} else {
			s.selectUnit()
		}
		return nil
	}

	if s.creating {
		return s.createForm.Update(msg)
	}
	return nil
}

func (s *UnitStep) View() string {
	var b strings.Builder

	if s.creating {
		b.WriteString(styleSectionTitle.Render("Add new unit"))
		b.WriteString("\n")
		b.WriteString(s.createForm.View())
		b.WriteString("\n")
		b.WriteString(styleFieldLabel.Render("Unit type: "))
		b.WriteString(styleSelected.Render(unitTypes[s.typeIndex]))
		b.WriteString("\n\n")
		b.WriteString(styleMuted.Render("enter create • ctrl+t cycle type • ctrl+n back to list"))
	} else {
		b.WriteString(styleSectionTitle.Render("Units on record"))
		b.WriteString("\n")
		for i, u := range s.units {
			line := fmt.Sprintf("%s  %s, floor %d (%s)", u.UnitID, u.UnitType, u.FloorNumber, u.Status)
			if i == s.cursor {
				b.WriteString(styleSelected.Render("› " + line))
			} else {
				b.WriteString(styleListItem.Render("  " + line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(styleMuted.Render("↑↓ choose • enter select • ctrl+n new unit"))
	}

	if s.status != "" {
		b.WriteString("\n")
		b.WriteString(styleSuccess.Render(s.status))
	}
	return b.String()
}
