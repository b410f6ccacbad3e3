package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Person genders.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

var nationalIDPattern = regexp.MustCompile(`^\d{11}$`)

// Person is an individual registered during a survey. Name parts follow
// the four-part Arabic convention (first, father, mother, last).
type Person struct {
	PersonID string `json:"person_id"`

	FirstName  string `json:"first_name"`
	FatherName string `json:"father_name,omitempty"`
	MotherName string `json:"mother_name,omitempty"`
	LastName   string `json:"last_name"`

	Gender      string `json:"gender"`
	YearOfBirth int    `json:"year_of_birth,omitempty"`
	Nationality string `json:"nationality"`

	// NationalID is the 11-digit national identifier; may be empty for
	// undocumented persons.
	NationalID     string `json:"national_id,omitempty"`
	PassportNumber string `json:"passport_number,omitempty"`

	MobileNumber string `json:"mobile_number,omitempty"`
	Address      string `json:"address,omitempty"`

	// RelationType is the tenure relation the person claims to the unit;
	// empty until stated. The relation step turns it into a full
	// PersonUnitRelation record.
	RelationType string `json:"relation_type,omitempty"`

	IsContactPerson bool `json:"is_contact_person,omitempty"`
	IsDeceased      bool `json:"is_deceased,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewPerson creates a person with a fresh identifier.
func NewPerson(firstName, lastName string) *Person {
	return &Person{
		PersonID:    uuid.NewString(),
		FirstName:   firstName,
		LastName:    lastName,
		Gender:      GenderMale,
		Nationality: "Syrian",
		CreatedAt:   time.Now(),
	}
}

// FullName joins the present name parts in order.
func (p *Person) FullName() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.FirstName, p.FatherName, p.LastName} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// ValidNationalID reports whether the national ID is well-formed. An empty
// ID is considered valid since the field is optional.
func (p *Person) ValidNationalID() bool {
	if p.NationalID == "" {
		return true
	}
	return nationalIDPattern.MatchString(p.NationalID)
}

// Household captures the demographic composition recorded for a unit.
type Household struct {
	HouseholdID  string `json:"household_id"`
	HeadName     string `json:"head_name"`
	MemberCount  int    `json:"member_count"`
	MinorCount   int    `json:"minor_count,omitempty"`
	FemaleHeaded bool   `json:"female_headed,omitempty"`
	Notes        string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewHousehold creates a household record headed by the named person.
func NewHousehold(headName string, members int) *Household {
	return &Household{
		HouseholdID: uuid.NewString(),
		HeadName:    headName,
		MemberCount: members,
		CreatedAt:   time.Now(),
	}
}
