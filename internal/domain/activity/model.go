package activity

import "time"

// Status represents the declared workflow status of an activity.
// The well-known values below form a closed set for defaulting and
// terminal-state handling, but callers may supply custom values.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"

	// StatusDelayed is synthetic: derived at read time when a deadline
	// has passed, never persisted.
	StatusDelayed Status = "delayed"
)

// Activity is a time-bounded unit of project work
type Activity struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenant_id"`
	ProjectID   string     `json:"project_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Type        string     `json:"type,omitempty"`
	Status      Status     `json:"status"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssigneeID  string     `json:"assignee_id,omitempty"`
	DependsOn   []string   `json:"depends_on,omitempty"`
	Progress    int        `json:"progress"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// EffectiveStatus is computed on every read path and is not stored.
	EffectiveStatus Status `json:"effective_status"`
}
