package allocation

import "time"

// Type distinguishes how firmly a hardware unit is committed.
type Type string

const (
	TypeReserved  Type = "reserved"
	TypeAllocated Type = "allocated"
	TypeDeployed  Type = "deployed"
)

// Allocation assigns a hardware unit to a project, and optionally to a
// specific activity, for a half-open [Start, End) window. A nil End
// means the unit is held until further notice.
type Allocation struct {
	ID             string     `json:"id"`
	TenantID       string     `json:"tenant_id"`
	ProjectID      string     `json:"project_id"`
	ActivityID     *string    `json:"activity_id,omitempty"`
	HardwareUnitID string     `json:"hardware_unit_id"`
	Type           Type       `json:"type"`
	Purpose        string     `json:"purpose,omitempty"`
	Start          time.Time  `json:"start"`
	End            *time.Time `json:"end,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	AllocatedBy    string     `json:"allocated_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Availability reports whether a hardware unit is free for a window and,
// if not, which allocations stand in the way.
type Availability struct {
	HardwareUnitID string       `json:"hardware_unit_id"`
	Available      bool         `json:"available"`
	Conflicts      []Allocation `json:"conflicts"`
}
