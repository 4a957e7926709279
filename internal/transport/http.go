// Package transport exposes the scheduling services over a small REST
// surface. Handlers stay thin: they decode requests and map sentinel
// errors onto HTTP statuses, and all business rules live in the
// services.
package transport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/planforge/rackplan/internal/domain/activity"
	"github.com/planforge/rackplan/internal/domain/allocation"
	"github.com/planforge/rackplan/internal/domain/project"
)

// Server wires HTTP handlers to the domain services.
type Server struct {
	projects    *project.Service
	activities  *activity.Service
	allocations *allocation.Service
	storeMode   func() string
}

// NewServer creates the HTTP router. storeMode reports the current
// persistence mode for the health endpoint; it may be nil.
func NewServer(projects *project.Service, activities *activity.Service, allocations *allocation.Service, storeMode func() string) *chi.Mux {
	srv := &Server{
		projects:    projects,
		activities:  activities,
		allocations: allocations,
		storeMode:   storeMode,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(TenantMiddleware)
	r.Use(MetricsMiddleware)

	r.Get("/health", srv.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Post("/", srv.createProject)
			r.Get("/", srv.listProjects)
			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", srv.getProject)
				r.Patch("/", srv.updateProject)
				r.Delete("/", srv.deleteProject)
				r.Post("/activities", srv.createActivity)
				r.Get("/activities", srv.listActivities)
				r.Post("/allocations", srv.createAllocation)
				r.Get("/allocations", srv.listProjectAllocations)
			})
		})
		r.Route("/activities/{activityID}", func(r chi.Router) {
			r.Get("/", srv.getActivity)
			r.Patch("/", srv.updateActivity)
			r.Delete("/", srv.deleteActivity)
			r.Get("/allocations", srv.listActivityAllocations)
		})
		r.Route("/allocations/{allocationID}", func(r chi.Router) {
			r.Get("/", srv.getAllocation)
			r.Patch("/", srv.updateAllocation)
			r.Delete("/", srv.deleteAllocation)
		})
		r.Route("/hardware-units/{unitID}", func(r chi.Router) {
			r.Get("/allocations", srv.listUnitAllocations)
			r.Get("/availability", srv.checkAvailability)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := map[string]string{"status": "ok"}
	if s.storeMode != nil {
		body["store"] = s.storeMode()
	}
	writeJSON(w, http.StatusOK, body)
}

func tenant(r *http.Request) string {
	tenantID, ok := TenantFromContext(r.Context())
	if !ok || tenantID == "" {
		return DefaultTenant
	}
	return tenantID
}

// decode parses a JSON body. Malformed payloads, including bad RFC 3339
// timestamps, are rejected rather than silently zeroed.
func decode(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// --- projects ---

type createProjectRequest struct {
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Type            project.Type     `json:"type"`
	Priority        project.Priority `json:"priority"`
	OwnerID         string           `json:"owner_id"`
	Team            []string         `json:"team"`
	StartDate       *time.Time       `json:"start_date"`
	TargetEndDate   *time.Time       `json:"target_end_date"`
	BudgetAllocated *float64         `json:"budget_allocated"`
	Tags            []string         `json:"tags"`
	Metadata        map[string]any   `json:"metadata"`
}

type updateProjectRequest struct {
	Name            *string           `json:"name"`
	Description     *string           `json:"description"`
	Type            *project.Type     `json:"type"`
	Status          *project.Status   `json:"status"`
	Priority        *project.Priority `json:"priority"`
	OwnerID         *string           `json:"owner_id"`
	Team            []string          `json:"team"`
	StartDate       *time.Time        `json:"start_date"`
	TargetEndDate   *time.Time        `json:"target_end_date"`
	Progress        *int              `json:"progress"`
	BudgetAllocated *float64          `json:"budget_allocated"`
	BudgetSpent     *float64          `json:"budget_spent"`
	Tags            []string          `json:"tags"`
	Metadata        map[string]any    `json:"metadata"`
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	proj, err := s.projects.Create(r.Context(), tenant(r), project.CreateRequest{
		Name:            req.Name,
		Description:     req.Description,
		Type:            req.Type,
		Priority:        req.Priority,
		OwnerID:         req.OwnerID,
		Team:            req.Team,
		StartDate:       req.StartDate,
		TargetEndDate:   req.TargetEndDate,
		BudgetAllocated: req.BudgetAllocated,
		Tags:            req.Tags,
		Metadata:        req.Metadata,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, proj)
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.projects.List(r.Context(), tenant(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	proj, err := s.projects.Get(r.Context(), tenant(r), chi.URLParam(r, "projectID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	var req updateProjectRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	proj, err := s.projects.Update(r.Context(), tenant(r), chi.URLParam(r, "projectID"), project.UpdateRequest{
		Name:            req.Name,
		Description:     req.Description,
		Type:            req.Type,
		Status:          req.Status,
		Priority:        req.Priority,
		OwnerID:         req.OwnerID,
		Team:            req.Team,
		StartDate:       req.StartDate,
		TargetEndDate:   req.TargetEndDate,
		Progress:        req.Progress,
		BudgetAllocated: req.BudgetAllocated,
		BudgetSpent:     req.BudgetSpent,
		Tags:            req.Tags,
		Metadata:        req.Metadata,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.projects.Delete(r.Context(), tenant(r), chi.URLParam(r, "projectID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- activities ---

type createActivityRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Status      activity.Status `json:"status"`
	StartDate   *time.Time      `json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`
	DueDate     *time.Time      `json:"due_date"`
	AssigneeID  string          `json:"assignee_id"`
	DependsOn   []string        `json:"depends_on"`
	Progress    int             `json:"progress"`
}

type updateActivityRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Type        *string          `json:"type"`
	Status      *activity.Status `json:"status"`
	StartDate   *time.Time       `json:"start_date"`
	EndDate     *time.Time       `json:"end_date"`
	DueDate     *time.Time       `json:"due_date"`
	AssigneeID  *string          `json:"assignee_id"`
	DependsOn   []string         `json:"depends_on"`
	Progress    *int             `json:"progress"`
}

func (s *Server) createActivity(w http.ResponseWriter, r *http.Request) {
	var req createActivityRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	act, err := s.activities.Create(r.Context(), tenant(r), chi.URLParam(r, "projectID"), activity.CreateRequest{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Status:      req.Status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		DueDate:     req.DueDate,
		AssigneeID:  req.AssigneeID,
		DependsOn:   req.DependsOn,
		Progress:    req.Progress,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, act)
}

func (s *Server) listActivities(w http.ResponseWriter, r *http.Request) {
	acts, err := s.activities.ListByProject(r.Context(), tenant(r), chi.URLParam(r, "projectID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acts)
}

func (s *Server) getActivity(w http.ResponseWriter, r *http.Request) {
	act, err := s.activities.Get(r.Context(), tenant(r), chi.URLParam(r, "activityID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, act)
}

func (s *Server) updateActivity(w http.ResponseWriter, r *http.Request) {
	var req updateActivityRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	act, err := s.activities.Update(r.Context(), tenant(r), chi.URLParam(r, "activityID"), activity.UpdateRequest{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Status:      req.Status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		DueDate:     req.DueDate,
		AssigneeID:  req.AssigneeID,
		DependsOn:   req.DependsOn,
		Progress:    req.Progress,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, act)
}

func (s *Server) deleteActivity(w http.ResponseWriter, r *http.Request) {
	if err := s.activities.Delete(r.Context(), tenant(r), chi.URLParam(r, "activityID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- allocations ---

type createAllocationRequest struct {
	ActivityID     *string         `json:"activity_id"`
	HardwareUnitID string          `json:"hardware_unit_id"`
	Type           allocation.Type `json:"type"`
	Purpose        string          `json:"purpose"`
	Start          time.Time       `json:"start"`
	End            *time.Time      `json:"end"`
	Notes          string          `json:"notes"`
	AllocatedBy    string          `json:"allocated_by"`
}

type updateAllocationRequest struct {
	ActivityID     *string          `json:"activity_id"`
	HardwareUnitID *string          `json:"hardware_unit_id"`
	Type           *allocation.Type `json:"type"`
	Purpose        *string          `json:"purpose"`
	Start          *time.Time       `json:"start"`
	End            *time.Time       `json:"end"`
	ClearEnd       bool             `json:"clear_end"`
	Notes          *string          `json:"notes"`
}

func (s *Server) createAllocation(w http.ResponseWriter, r *http.Request) {
	var req createAllocationRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	alloc, err := s.allocations.Create(r.Context(), tenant(r), chi.URLParam(r, "projectID"), allocation.CreateRequest{
		ActivityID:     req.ActivityID,
		HardwareUnitID: req.HardwareUnitID,
		Type:           req.Type,
		Purpose:        req.Purpose,
		Start:          req.Start,
		End:            req.End,
		Notes:          req.Notes,
		AllocatedBy:    req.AllocatedBy,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, alloc)
}

func (s *Server) listProjectAllocations(w http.ResponseWriter, r *http.Request) {
	allocs, err := s.allocations.ListByProject(r.Context(), tenant(r), chi.URLParam(r, "projectID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, allocs)
}

func (s *Server) listActivityAllocations(w http.ResponseWriter, r *http.Request) {
	allocs, err := s.allocations.ListByActivity(r.Context(), tenant(r), chi.URLParam(r, "activityID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, allocs)
}

func (s *Server) listUnitAllocations(w http.ResponseWriter, r *http.Request) {
	allocs, err := s.allocations.ListByHardwareUnit(r.Context(), tenant(r), chi.URLParam(r, "unitID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, allocs)
}

func (s *Server) getAllocation(w http.ResponseWriter, r *http.Request) {
	alloc, err := s.allocations.Get(r.Context(), tenant(r), chi.URLParam(r, "allocationID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alloc)
}

func (s *Server) updateAllocation(w http.ResponseWriter, r *http.Request) {
	var req updateAllocationRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	alloc, err := s.allocations.Update(r.Context(), tenant(r), chi.URLParam(r, "allocationID"), allocation.UpdateRequest{
		ActivityID:     req.ActivityID,
		HardwareUnitID: req.HardwareUnitID,
		Type:           req.Type,
		Purpose:        req.Purpose,
		Start:          req.Start,
		End:            req.End,
		ClearEnd:       req.ClearEnd,
		Notes:          req.Notes,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alloc)
}

func (s *Server) deleteAllocation(w http.ResponseWriter, r *http.Request) {
	if err := s.allocations.Delete(r.Context(), tenant(r), chi.URLParam(r, "allocationID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// checkAvailability answers whether a unit is free for a window given as
// RFC 3339 query parameters. A malformed or missing start is rejected;
// a missing end means an open-ended window.
func (s *Server) checkAvailability(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("start")
	if startStr == "" {
		writeBadRequest(w, "start query parameter is required")
		return
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		writeBadRequest(w, "start must be an RFC 3339 timestamp")
		return
	}

	var end *time.Time
	if endStr := r.URL.Query().Get("end"); endStr != "" {
		parsed, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			writeBadRequest(w, "end must be an RFC 3339 timestamp")
			return
		}
		end = &parsed
	}

	avail, err := s.allocations.CheckAvailability(r.Context(), tenant(r), chi.URLParam(r, "unitID"), start, end)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, avail)
}
