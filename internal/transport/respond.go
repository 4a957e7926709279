package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/planforge/rackplan/internal/domain/activity"
	"github.com/planforge/rackplan/internal/domain/allocation"
	"github.com/planforge/rackplan/internal/domain/project"
	"github.com/planforge/rackplan/internal/metrics"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeDomainError maps service errors onto HTTP statuses. Anything not
// recognized as a domain outcome gets a generic 500 so backend details
// never leak to clients.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, allocation.ErrOverlap):
		metrics.AllocationConflictTotal.Inc()
		writeJSON(w, http.StatusConflict, errorResponse{Error: "hardware unit already allocated in this time window"})
	case errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, activity.ErrActivityNotFound),
		errors.Is(err, allocation.ErrAllocationNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, allocation.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}
