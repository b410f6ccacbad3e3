package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Relation types linking a person to a unit.
const (
	RelationOwner    = "owner"
	RelationTenant   = "tenant"
	RelationHeir     = "heir"
	RelationGuest    = "guest"
	RelationOccupant = "occupant"
	RelationOther    = "other"
)

// Verification statuses shared by relations and evidence.
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// MaxOwnershipShare is the denominator of the traditional 2400-share
// ownership scheme.
const MaxOwnershipShare = 2400

// PersonUnitRelation links a person to a property unit with a tenure
// relationship (ownership, tenancy, inheritance, occupancy).
type PersonUnitRelation struct {
	RelationID string `json:"relation_id"`
	PersonID   string `json:"person_id"`
	UnitID     string `json:"unit_id"`

	RelationType     string `json:"relation_type"`
	OtherDescription string `json:"other_description,omitempty"`

	// OwnershipShare is in 2400ths; meaningful for owner and heir
	// relations only.
	OwnershipShare int `json:"ownership_share,omitempty"`

	StartDate string `json:"start_date,omitempty"`
	Notes     string `json:"notes,omitempty"`

	VerificationStatus string   `json:"verification_status"`
	EvidenceIDs        []string `json:"evidence_ids,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewRelation creates a pending relation between a person and a unit.
func NewRelation(personID, unitID, relationType string) *PersonUnitRelation {
	return &PersonUnitRelation{
		RelationID:         uuid.NewString(),
		PersonID:           personID,
		UnitID:             unitID,
		RelationType:       relationType,
		VerificationStatus: VerificationPending,
		CreatedAt:          time.Now(),
	}
}

// ValidRelationType reports whether s is a known relation type.
func ValidRelationType(s string) bool {
	switch s {
	case RelationOwner, RelationTenant, RelationHeir, RelationGuest, RelationOccupant, RelationOther:
		return true
	}
	return false
}

// Evidence kinds.
const (
	EvidenceDocument  = "document"
	EvidenceWitness   = "witness"
	EvidenceCommunity = "community"
	EvidenceOther     = "other"
)

// Evidence is a proof item supporting a person-unit relation.
type Evidence struct {
	EvidenceID string `json:"evidence_id"`
	RelationID string `json:"relation_id"`

	EvidenceType    string `json:"evidence_type"`
	ReferenceNumber string `json:"reference_number,omitempty"`
	ReferenceDate   string `json:"reference_date,omitempty"`
	Description     string `json:"description"`

	VerificationStatus string `json:"verification_status"`

	CreatedAt time.Time `json:"created_at"`
}

// NewEvidence creates a pending evidence item for a relation.
func NewEvidence(relationID, evidenceType, description string) *Evidence {
	return &Evidence{
		EvidenceID:         uuid.NewString(),
		RelationID:         relationID,
		EvidenceType:       evidenceType,
		Description:        description,
		VerificationStatus: VerificationPending,
		CreatedAt:          time.Now(),
	}
}

// Claim types.
const (
	ClaimOwnership = "ownership"
	ClaimOccupancy = "occupancy"
	ClaimTenancy   = "tenancy"
)

// Claim sources.
const (
	SourceFieldCollection  = "FIELD_COLLECTION"
	SourceOfficeSubmission = "OFFICE_SUBMISSION"
	SourceSystemImport     = "SYSTEM_IMPORT"
)

// Claim is a tenure-rights case assembled from survey data. Case numbers
// follow CL-YYYY-NNNNNN.
type Claim struct {
	ClaimUUID  string `json:"claim_uuid"`
	CaseNumber string `json:"case_number"`

	Source    string `json:"source"`
	ClaimType string `json:"claim_type"`
	Priority  string `json:"priority"`

	PersonIDs   []string `json:"person_ids"`
	UnitID      string   `json:"unit_id"`
	RelationIDs []string `json:"relation_ids,omitempty"`

	CaseStatus string `json:"case_status"`
	Notes      string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by,omitempty"`
}

// NewClaim creates a draft office-submission claim with a sequential case
// number supplied by the caller (the registry owns the sequence).
func NewClaim(claimType, unitID string, seq int) *Claim {
	now := time.Now()
	return &Claim{
		ClaimUUID:  uuid.NewString(),
		CaseNumber: fmt.Sprintf("CL-%d-%06d", now.Year(), seq),
		Source:     SourceOfficeSubmission,
		ClaimType:  claimType,
		Priority:   "normal",
		UnitID:     unitID,
		CaseStatus: "draft",
		CreatedAt:  now,
	}
}

// ValidClaimType reports whether s is a known claim type.
func ValidClaimType(s string) bool {
	switch s {
	case ClaimOwnership, ClaimOccupancy, ClaimTenancy:
		return true
	}
	return false
}
