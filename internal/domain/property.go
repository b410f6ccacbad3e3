// Package domain holds the tenure-registration entities shared by the
// survey wizard, the registry repository, and the draft store. All types
// carry JSON tags because they ride inside serialized wizard snapshots.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Building types.
const (
	BuildingResidential = "residential"
	BuildingCommercial  = "commercial"
	BuildingMixedUse    = "mixed_use"
)

// Building damage statuses.
const (
	BuildingIntact      = "intact"
	BuildingMinorDamage = "minor_damage"
	BuildingMajorDamage = "major_damage"
	BuildingDestroyed   = "destroyed"
)

// Building is a physical structure in the registry.
//
// The building ID is a 17-digit administrative code:
// GG-DD-SS-CCC-NNN-BBBBB (governorate, district, sub-district, community,
// neighborhood, building number).
type Building struct {
	BuildingUUID string `json:"building_uuid"`
	BuildingID   string `json:"building_id"`

	GovernorateCode  string `json:"governorate_code"`
	DistrictCode     string `json:"district_code"`
	SubdistrictCode  string `json:"subdistrict_code"`
	CommunityCode    string `json:"community_code"`
	NeighborhoodCode string `json:"neighborhood_code"`
	NeighborhoodName string `json:"neighborhood_name,omitempty"`
	BuildingNumber   string `json:"building_number"`

	BuildingType   string `json:"building_type"`
	BuildingStatus string `json:"building_status"`
	NumberOfUnits  int    `json:"number_of_units"`
	NumberOfFloors int    `json:"number_of_floors"`

	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by,omitempty"`
}

// NewBuilding creates a building with a fresh UUID and composed ID.
func NewBuilding(gov, dist, sub, community, neighborhood, number string) *Building {
	now := time.Now()
	b := &Building{
		BuildingUUID:     uuid.NewString(),
		GovernorateCode:  gov,
		DistrictCode:     dist,
		SubdistrictCode:  sub,
		CommunityCode:    community,
		NeighborhoodCode: neighborhood,
		BuildingNumber:   number,
		BuildingType:     BuildingResidential,
		BuildingStatus:   BuildingIntact,
		NumberOfFloors:   1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	b.BuildingID = b.ComposeID()
	return b
}

// ComposeID builds the 17-digit administrative code from the hierarchy
// fields.
func (b *Building) ComposeID() string {
	return fmt.Sprintf("%s%s%s%s%s%s",
		b.GovernorateCode, b.DistrictCode, b.SubdistrictCode,
		b.CommunityCode, b.NeighborhoodCode, b.BuildingNumber)
}

// Unit types.
const (
	UnitApartment = "apartment"
	UnitShop      = "shop"
	UnitOffice    = "office"
	UnitWarehouse = "warehouse"
	UnitGarage    = "garage"
	UnitOther     = "other"
)

// Unit occupancy statuses.
const (
	UnitOccupied = "occupied"
	UnitVacant   = "vacant"
	UnitUnknown  = "unknown"
)

// Unit is a property unit within a building. Unit IDs are the building ID
// followed by a 3-digit unit number.
type Unit struct {
	UnitUUID   string `json:"unit_uuid"`
	UnitID     string `json:"unit_id"`
	BuildingID string `json:"building_id"`

	UnitType    string  `json:"unit_type"`
	UnitNumber  string  `json:"unit_number"`
	FloorNumber int     `json:"floor_number"`
	Status      string  `json:"status"`
	Description string  `json:"description,omitempty"`
	AreaSqm     float64 `json:"area_sqm,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by,omitempty"`
}

// NewUnit creates a unit inside the given building.
func NewUnit(buildingID, number, unitType string) *Unit {
	now := time.Now()
	return &Unit{
		UnitUUID:   uuid.NewString(),
		UnitID:     fmt.Sprintf("%s-%s", buildingID, number),
		BuildingID: buildingID,
		UnitType:   unitType,
		UnitNumber: number,
		Status:     UnitUnknown,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
