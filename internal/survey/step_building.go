package survey

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/hussien-988/habitat-desktop-sub004/internal/domain"
	"github.com/hussien-988/habitat-desktop-sub004/internal/logger"
	"github.com/hussien-988/habitat-desktop-sub004/internal/wizard"
)

// Registry is the slice of the local registry the survey steps and wizard
// need. *repo.Registry satisfies it.
type Registry interface {
	SearchBuildings(neighborhood, numberFragment string) ([]*domain.Building, error)
	UnitsForBuilding(buildingID string) ([]*domain.Unit, error)
	InsertBuilding(b *domain.Building) error
	InsertUnit(u *domain.Unit) error
	NextClaimSequence(year int) (int, error)
	SaveSurvey(referenceNumber, wizardID, clerkID, claimNumber string, snapshot []byte) error
	AppendAudit(actor, action, entity, entityID string, details map[string]any) error
}

// Building step field indices, search form.
const (
	bfNeighborhood = 0
	bfNumber       = 1
)

// Building step field indices, create form.
const (
	bcGovernorate = iota
	bcDistrict
	bcSubdistrict
	bcCommunity
	bcNeighborhood
	bcNumber
)

// BuildingStep lets the clerk locate the building the survey concerns:
// search the registry by neighborhood and building number, or register a
// new building when it is not on record yet.
type BuildingStep struct {
	wizard.StepBase

	ctx      *SurveyContext
	registry Registry

	searchForm *form
	createForm *form
	creating   bool

	results []*domain.Building
	cursor  int
	status  string

	saved bool
}

// NewBuildingStep creates the building selection step.
func NewBuildingStep(ctx *SurveyContext, registry Registry) *BuildingStep {
	return &BuildingStep{ctx: ctx, registry: registry}
}

func (s *BuildingStep) Title() string { return "Building" }

func (s *BuildingStep) Description() string {
	return "Find the building in the registry, or register a new one"
}

// SetupUI builds the search and create forms.
func (s *BuildingStep) SetupUI() {
	s.searchForm = newForm(
		newField("Neighborhood code", "e.g. 004"),
		newField("Building number", "e.g. 00012"),
	)
	s.createForm = newForm(
		newField("Governorate code (2 digits)", "01"),
		newField("District code (2 digits)", "02"),
		newField("Sub-district code (2 digits)", "03"),
		newField("Community code (3 digits)", "001"),
		newField("Neighborhood code (3 digits)", "004"),
		newField("Building number (5 digits)", "00012"),
	)
}

// PopulateData refreshes the search results shown for the currently
// selected building, so revisiting the step shows consistent state.
func (s *BuildingStep) PopulateData() {
	if s.ctx.Building != nil {
		s.status = fmt.Sprintf("Selected: %s", s.ctx.Building.BuildingID)
	}
}

// Validate requires a selected building; a new building additionally needs
// complete administrative codes.
func (s *BuildingStep) Validate() *wizard.ValidationResult {
	result := wizard.NewValidationResult()
	b := s.ctx.Building
	if b == nil {
		result.AddError("A building must be selected before continuing")
		return result
	}
	if s.ctx.IsNewBuilding {
		if len(b.GovernorateCode) != 2 || len(b.DistrictCode) != 2 || len(b.SubdistrictCode) != 2 {
			result.AddError("Governorate, district, and sub-district codes must be 2 digits each")
		}
		if len(b.CommunityCode) != 3 || len(b.NeighborhoodCode) != 3 {
			result.AddError("Community and neighborhood codes must be 3 digits each")
		}
		if len(b.BuildingNumber) != 5 {
			result.AddError("Building number must be 5 digits")
		}
	}
	if b.BuildingStatus == domain.BuildingDestroyed {
		result.AddWarning("The selected building is recorded as destroyed")
	}
	return result
}

// CollectData reports the selected building.
func (s *BuildingStep) CollectData() map[string]any {
	if s.ctx.Building == nil {
		return nil
	}
	return map[string]any{
		"building_id":     s.ctx.Building.BuildingID,
		"is_new_building": s.ctx.IsNewBuilding,
	}
}

// OnNext persists a newly created building to the registry before the flow
// advances. Selecting an existing building writes nothing.
func (s *BuildingStep) OnNext() error {
	if !s.ctx.IsNewBuilding || s.saved {
		return nil
	}
	b := s.ctx.Building
	if err := s.registry.InsertBuilding(b); err != nil {
		return fmt.Errorf("registering building: %w", err)
	}
	s.saved = true
	if err := s.registry.AppendAudit(s.ctx.UserID, "create", "building", b.BuildingID,
		map[string]any{"reference": s.ctx.ReferenceNumber}); err != nil {
		logger.Warn("Audit append failed for building %s: %v", b.BuildingID, err)
	}
	return nil
}

func (s *BuildingStep) search() {
	results, err := s.registry.SearchBuildings(s.searchForm.Value(bfNeighborhood), s.searchForm.Value(bfNumber))
	if err != nil {
		logger.Error("Building search failed: %v", err)
		s.status = "Search failed: " + err.Error()
		return
	}
	s.results = results
	s.cursor = 0
	if len(results) == 0 {
		s.status = "No buildings found. Press ctrl+n to register a new building."
	} else {
		s.status = fmt.Sprintf("%d building(s) found", len(results))
	}
}

func (s *BuildingStep) selectResult() {
	if s.cursor < 0 || s.cursor >= len(s.results) {
		return
	}
	s.ctx.Building = s.results[s.cursor]
	s.ctx.IsNewBuilding = false
	// Switching buildings invalidates any unit chosen earlier.
	s.ctx.Unit = nil
	s.ctx.IsNewUnit = false
	s.status = fmt.Sprintf("Selected: %s", s.ctx.Building.BuildingID)
}

func (s *BuildingStep) createBuilding() {
	b := domain.NewBuilding(
		s.createForm.Value(bcGovernorate),
		s.createForm.Value(bcDistrict),
		s.createForm.Value(bcSubdistrict),
		s.createForm.Value(bcCommunity),
		s.createForm.Value(bcNeighborhood),
		s.createForm.Value(bcNumber),
	)
	b.CreatedBy = s.ctx.UserID
	s.ctx.Building = b
	s.ctx.IsNewBuilding = true
	s.ctx.Unit = nil
	s.ctx.IsNewUnit = false
	s.saved = false
	s.status = fmt.Sprintf("New building %s will be registered", b.BuildingID)
}

// Update handles terminal input while this step is active.
func (s *BuildingStep) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		if s.creating {
			return s.createForm.Update(msg)
		}
		return s.searchForm.Update(msg)
	}

	switch key.String() {
	case "ctrl+n":
		s.creating = !s.creating
		return nil
	case "tab", "down":
		if s.creating {
			s.createForm.FocusNext()
		} else if len(s.results) > 0 && key.String() == "down" {
			if s.cursor < len(s.results)-1 {
				s.cursor++
			}
		} else {
			s.searchForm.FocusNext()
		}
		return nil
	case "shift+tab", "up":
		if s.creating {
			s.createForm.FocusPrev()
		} else if len(s.results) > 0 && key.String() == "up" {
			if s.cursor > 0 {
				s.cursor--
			}
		} else {
			s.searchForm.FocusPrev()
		}
		return nil
	case "enter":
		if s.creating {
			s.createBuilding()
		} else if len(s.results) > 0 {
			s.selectResult()
		} else {
			s.search()
		}
		return nil
	case "ctrl+f":
		s.creating = false
		s.search()
		return nil
	}

	if s.creating {
		return s.createForm.Update(msg)
	}
	return s.searchForm.Update(msg)
}

// View renders the step content.
func (s *BuildingStep) View() string {
	var b strings.Builder

	if s.creating {
		b.WriteString(styleSectionTitle.Render("Register new building"))
		b.WriteString("\n")
		b.WriteString(s.createForm.View())
		b.WriteString("\n\n")
		b.WriteString(styleMuted.Render("enter create • ctrl+n back to search"))
	} else {
		b.WriteString(styleSectionTitle.Render("Search registry"))
		b.WriteString("\n")
		b.WriteString(s.searchForm.View())
		b.WriteString("\n")
		if len(s.results) > 0 {
			b.WriteString("\n")
			for i, r := range s.results {
				line := fmt.Sprintf("%s  %s %s  (%d units, %s)",
					r.BuildingID, r.NeighborhoodName, r.BuildingNumber,
					r.NumberOfUnits, r.BuildingStatus)
				if i == s.cursor {
					b.WriteString(styleSelected.Render("› " + line))
				} else {
					b.WriteString(styleListItem.Render("  " + line))
				}
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
		b.WriteString(styleMuted.Render("ctrl+f search • ↑↓ choose • enter select • ctrl+n new building"))
	}

	if s.status != "" {
		b.WriteString("\n")
		b.WriteString(styleSuccess.Render(s.status))
	}

	return b.String()
}
