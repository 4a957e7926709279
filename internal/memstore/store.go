// Package memstore is the in-memory surrogate for the durable backend.
// The resilient facade mirrors successful writes into it and serves
// from it while the durable store is unreachable, so it must match the
// durable store's observable behavior exactly.
package memstore

import (
	"sync"

	"github.com/planforge/rackplan/internal/domain/activity"
	"github.com/planforge/rackplan/internal/domain/allocation"
	"github.com/planforge/rackplan/internal/domain/project"
)

// Store holds all mirrored records behind a single RWMutex. Instances
// are created with New and injected; there is no package-level state.
type Store struct {
	mu          sync.RWMutex
	projects    map[string]map[string]project.Project
	activities  map[string]map[string]activity.Activity
	allocations map[string]map[string]allocation.Allocation
}

// New creates an empty store.
func New() *Store {
	return &Store{
		projects:    map[string]map[string]project.Project{},
		activities:  map[string]map[string]activity.Activity{},
		allocations: map[string]map[string]allocation.Allocation{},
	}
}

// Projects returns the project repository view of the store.
func (s *Store) Projects() *ProjectRepository {
	return &ProjectRepository{store: s}
}

// Activities returns the activity repository view of the store.
func (s *Store) Activities() *ActivityRepository {
	return &ActivityRepository{store: s}
}

// Allocations returns the allocation repository view of the store.
func (s *Store) Allocations() *AllocationRepository {
	return &AllocationRepository{store: s}
}

func tenantMap[T any](byTenant map[string]map[string]T, tenantID string) map[string]T {
	records, ok := byTenant[tenantID]
	if !ok {
		records = map[string]T{}
		byTenant[tenantID] = records
	}
	return records
}

func cloneProject(proj project.Project) project.Project {
	clone := proj
	clone.Team = append([]string(nil), proj.Team...)
	clone.Tags = append([]string(nil), proj.Tags...)
	if proj.Metadata != nil {
		clone.Metadata = make(map[string]any, len(proj.Metadata))
		for k, v := range proj.Metadata {
			clone.Metadata[k] = v
		}
	}
	return clone
}

func cloneActivity(act activity.Activity) activity.Activity {
	clone := act
	clone.DependsOn = append([]string(nil), act.DependsOn...)
	return clone
}

func cloneAllocation(alloc allocation.Allocation) allocation.Allocation {
	clone := alloc
	if alloc.ActivityID != nil {
		id := *alloc.ActivityID
		clone.ActivityID = &id
	}
	if alloc.End != nil {
		end := *alloc.End
		clone.End = &end
	}
	return clone
}
