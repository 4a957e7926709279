package project

import "time"

// Type categorizes the engagement a project represents
type Type string

const (
	TypeMigration  Type = "migration"
	TypeDeployment Type = "deployment"
	TypeUpgrade    Type = "upgrade"
	TypeCustom     Type = "custom"
)

// Status represents the declared lifecycle state of a project
type Status string

const (
	StatusPlanning  Status = "planning"
	StatusActive    Status = "active"
	StatusOnHold    Status = "on_hold"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Priority represents project urgency
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Project is the container for activities and hardware allocations
type Project struct {
	ID              string         `json:"id"`
	TenantID        string         `json:"tenant_id"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	Type            Type           `json:"type"`
	Status          Status         `json:"status"`
	Priority        Priority       `json:"priority"`
	OwnerID         string         `json:"owner_id,omitempty"`
	Team            []string       `json:"team,omitempty"`
	StartDate       *time.Time     `json:"start_date,omitempty"`
	TargetEndDate   *time.Time     `json:"target_end_date,omitempty"`
	Progress        int            `json:"progress"`
	BudgetAllocated *float64       `json:"budget_allocated,omitempty"`
	BudgetSpent     float64        `json:"budget_spent"`
	Tags            []string       `json:"tags,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Summary is a lightweight representation for listing
type Summary struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Status          Status    `json:"status"`
	Priority        Priority  `json:"priority"`
	Progress        int       `json:"progress"`
	ActivityCount   int       `json:"activity_count"`
	AllocationCount int       `json:"allocation_count"`
	CreatedAt       time.Time `json:"created_at"`
}
