// Package wizard implements the step-sequencing engine behind every
// multi-step data-entry flow in habitat: a shared mutable context, a step
// contract, a validating navigator, and an orchestrating wizard. The
// package is toolkit-agnostic; hosts subscribe to its callbacks and render
// however they like.
package wizard

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a wizard run.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Context is the mutable state container shared by all steps of one wizard
// run. Concrete contexts embed it and add their own typed fields.
//
// The context is exclusively owned by one wizard/navigator pair; steps hold
// a non-owning back-pointer. Only its serialized snapshot ever leaves the
// session.
type Context struct {
	WizardID        string
	ReferenceNumber string
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// CurrentStepIndex is the single source of truth for navigation
	// position; the navigator mirrors it on every transition.
	CurrentStepIndex int

	UserID string

	completedSteps map[int]struct{}
	data           map[string]any
}

// NewContext creates a fresh context. The prefix feeds the reference number
// and is the one customization hook concrete contexts supply; the format
// {PREFIX}-{YYYYMMDDHHMMSS}-{4 chars} is a compatibility surface that draft
// lists key off, so it is generated here exactly once.
func NewContext(prefix string) Context {
	now := time.Now()
	id := uuid.NewString()
	return Context{
		WizardID:        id,
		ReferenceNumber: referenceNumber(prefix, id, now),
		Status:          StatusDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
		completedSteps:  make(map[int]struct{}),
		data:            make(map[string]any),
	}
}

func referenceNumber(prefix, wizardID string, ts time.Time) string {
	short := strings.ToUpper(wizardID[:4])
	return fmt.Sprintf("%s-%s-%s", prefix, ts.Format("20060102150405"), short)
}

// Base returns the embedded base context. It exists so that concrete
// contexts embedding Context satisfy SessionContext.
func (c *Context) Base() *Context { return c }

// UpdateData inserts or overwrites an entry in the free-form data bag.
func (c *Context) UpdateData(key string, value any) {
	if c.data == nil {
		c.data = make(map[string]any)
	}
	c.data[key] = value
	c.touch()
}

// GetData returns the value for key, or def if absent.
func (c *Context) GetData(key string, def any) any {
	if v, ok := c.data[key]; ok {
		return v
	}
	return def
}

// MarkStepCompleted records that a step has passed validation at least
// once. Idempotent; completed steps are never removed during a session.
func (c *Context) MarkStepCompleted(index int) {
	if c.completedSteps == nil {
		c.completedSteps = make(map[int]struct{})
	}
	c.completedSteps[index] = struct{}{}
	c.touch()
}

// IsStepCompleted reports whether the step has ever passed validation.
func (c *Context) IsStepCompleted(index int) bool {
	_, ok := c.completedSteps[index]
	return ok
}

// CompletedCount returns the number of completed steps.
func (c *Context) CompletedCount() int { return len(c.completedSteps) }

func (c *Context) touch() { c.UpdatedAt = time.Now() }

// Snapshot is the serializable form of the base context. Every field
// needed to reconstruct navigation state is present; dropping one here
// is a data-loss defect for drafts.
type Snapshot struct {
	WizardID         string         `json:"wizard_id"`
	ReferenceNumber  string         `json:"reference_number"`
	Status           Status         `json:"status"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	CurrentStepIndex int            `json:"current_step_index"`
	UserID           string         `json:"user_id,omitempty"`
	CompletedSteps   []int          `json:"completed_steps"`
	Data             map[string]any `json:"data"`
}

// Snapshot produces a serializable copy of the base fields. Completed step
// indices are sorted for stable output.
func (c *Context) Snapshot() Snapshot {
	completed := make([]int, 0, len(c.completedSteps))
	for idx := range c.completedSteps {
		completed = append(completed, idx)
	}
	sort.Ints(completed)

	data := make(map[string]any, len(c.data))
	for k, v := range c.data {
		data[k] = v
	}

	return Snapshot{
		WizardID:         c.WizardID,
		ReferenceNumber:  c.ReferenceNumber,
		Status:           c.Status,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		CurrentStepIndex: c.CurrentStepIndex,
		UserID:           c.UserID,
		CompletedSteps:   completed,
		Data:             data,
	}
}

// MarshalSnapshot serializes the base snapshot. Concrete contexts shadow
// this with their own method that includes domain fields.
func (c *Context) MarshalSnapshot() ([]byte, error) {
	return json.Marshal(c.Snapshot())
}

// RestoreBase restores the base fields from a snapshot, preserving the
// reference number and identity verbatim. Missing optional fields fall
// back to the freshly constructed defaults, so a partial snapshot loads
// without error.
func (c *Context) RestoreBase(s Snapshot) {
	if s.WizardID != "" {
		c.WizardID = s.WizardID
	}
	if s.ReferenceNumber != "" {
		c.ReferenceNumber = s.ReferenceNumber
	}
	if s.Status != "" {
		c.Status = s.Status
	} else {
		c.Status = StatusDraft
	}
	c.CurrentStepIndex = s.CurrentStepIndex
	c.UserID = s.UserID

	c.completedSteps = make(map[int]struct{}, len(s.CompletedSteps))
	for _, idx := range s.CompletedSteps {
		c.completedSteps[idx] = struct{}{}
	}

	c.data = make(map[string]any, len(s.Data))
	for k, v := range s.Data {
		c.data[k] = v
	}

	if !s.CreatedAt.IsZero() {
		c.CreatedAt = s.CreatedAt
	}
	if !s.UpdatedAt.IsZero() {
		c.UpdatedAt = s.UpdatedAt
	}
}

// SessionContext is the capability set a wizard requires from its context.
// The base Context satisfies it; concrete contexts embed Context and
// provide their own MarshalSnapshot covering domain fields.
type SessionContext interface {
	Base() *Context
	MarshalSnapshot() ([]byte, error)
}
