package transport_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/planforge/rackplan/internal/domain/activity"
	"github.com/planforge/rackplan/internal/domain/allocation"
	"github.com/planforge/rackplan/internal/domain/project"
	"github.com/planforge/rackplan/internal/memstore"
	"github.com/planforge/rackplan/internal/transport"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := memstore.New()
	projectSvc := project.NewService(store.Projects(), nil)
	activitySvc := activity.NewService(store.Activities(), store.Projects(), nil)
	allocationSvc := allocation.NewService(store.Allocations(), store.Projects(), nil)

	srv := httptest.NewServer(transport.NewServer(projectSvc, activitySvc, allocationSvc, func() string {
		return "primary"
	}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createProject(t *testing.T, srv *httptest.Server, name string) project.Project {
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/projects", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[project.Project](t, resp)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]string](t, resp)
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "primary", body["store"])
}

func TestProjectLifecycle(t *testing.T) {
	srv := newTestServer(t)

	created := createProject(t, srv, "Datacenter migration")
	require.NotEmpty(t, created.ID)
	require.Equal(t, project.StatusPlanning, created.Status)

	resp := doJSON(t, http.MethodPatch, srv.URL+"/api/projects/"+created.ID, map[string]any{
		"status":   "active",
		"progress": 30,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody[project.Project](t, resp)
	require.Equal(t, project.StatusActive, updated.Status)
	require.Equal(t, 30, updated.Progress)

	resp, err := http.Get(srv.URL + "/api/projects")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summaries := decodeBody[[]project.Summary](t, resp)
	require.Len(t, summaries, 1)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/projects/"+created.ID, nil)
	require.NoError(t, err)
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	del.Body.Close()
	require.Equal(t, http.StatusNoContent, del.StatusCode)
}

func TestProjectValidationAndNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/projects", map[string]any{"name": "ab"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	missing, err := http.Get(srv.URL + "/api/projects/ghost")
	require.NoError(t, err)
	defer missing.Body.Close()
	require.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestActivityEffectiveStatusOverWire(t *testing.T) {
	srv := newTestServer(t)
	proj := createProject(t, srv, "Datacenter migration")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/projects/"+proj.ID+"/activities", map[string]any{
		"name":     "Rack and stack",
		"due_date": "2020-01-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	act := decodeBody[activity.Activity](t, resp)
	require.Equal(t, activity.StatusPending, act.Status)
	require.Equal(t, activity.StatusDelayed, act.EffectiveStatus)
}

func TestMalformedDateRejected(t *testing.T) {
	srv := newTestServer(t)
	proj := createProject(t, srv, "Datacenter migration")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/projects/"+proj.ID+"/activities", map[string]any{
		"name":     "Rack and stack",
		"due_date": "not-a-date",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAllocationConflictOverWire(t *testing.T) {
	srv := newTestServer(t)
	proj := createProject(t, srv, "Datacenter migration")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/projects/"+proj.ID+"/allocations", map[string]any{
		"hardware_unit_id": "rack-42",
		"start":            "2026-09-01T09:00:00Z",
		"end":              "2026-09-01T17:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	conflict := doJSON(t, http.MethodPost, srv.URL+"/api/projects/"+proj.ID+"/allocations", map[string]any{
		"hardware_unit_id": "rack-42",
		"start":            "2026-09-01T10:00:00Z",
		"end":              "2026-09-01T12:00:00Z",
	})
	require.Equal(t, http.StatusConflict, conflict.StatusCode)
	body := decodeBody[map[string]string](t, conflict)
	require.Equal(t, "hardware unit already allocated in this time window", body["error"])

	// Back-to-back windows are fine.
	adjacent := doJSON(t, http.MethodPost, srv.URL+"/api/projects/"+proj.ID+"/allocations", map[string]any{
		"hardware_unit_id": "rack-42",
		"start":            "2026-09-01T17:00:00Z",
		"end":              "2026-09-01T19:00:00Z",
	})
	require.Equal(t, http.StatusCreated, adjacent.StatusCode)
}

func TestAvailabilityEndpoint(t *testing.T) {
	srv := newTestServer(t)
	proj := createProject(t, srv, "Datacenter migration")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/projects/"+proj.ID+"/allocations", map[string]any{
		"hardware_unit_id": "rack-42",
		"start":            "2026-09-01T09:00:00Z",
		"end":              "2026-09-01T17:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	busy, err := http.Get(srv.URL + "/api/hardware-units/rack-42/availability?start=2026-09-01T10:00:00Z&end=2026-09-01T11:00:00Z")
	require.NoError(t, err)
	defer busy.Body.Close()
	require.Equal(t, http.StatusOK, busy.StatusCode)
	avail := decodeBody[allocation.Availability](t, busy)
	require.False(t, avail.Available)
	require.Len(t, avail.Conflicts, 1)

	free, err := http.Get(srv.URL + "/api/hardware-units/rack-42/availability?start=2026-09-01T17:00:00Z")
	require.NoError(t, err)
	defer free.Body.Close()
	freeBody := decodeBody[allocation.Availability](t, free)
	require.True(t, freeBody.Available)

	bad, err := http.Get(srv.URL + "/api/hardware-units/rack-42/availability?start=tomorrow")
	require.NoError(t, err)
	defer bad.Body.Close()
	require.Equal(t, http.StatusBadRequest, bad.StatusCode)

	missing, err := http.Get(srv.URL + "/api/hardware-units/rack-42/availability")
	require.NoError(t, err)
	defer missing.Body.Close()
	require.Equal(t, http.StatusBadRequest, missing.StatusCode)
}

func TestTenantHeaderIsolation(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/projects", bytes.NewBufferString(`{"name":"Tenant A project"}`))
	require.NoError(t, err)
	req.Header.Set("X-Tenant-Id", "tenant-a")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// The default tenant sees nothing.
	list, err := http.Get(srv.URL + "/api/projects")
	require.NoError(t, err)
	defer list.Body.Close()
	summaries := decodeBody[[]project.Summary](t, list)
	require.Empty(t, summaries)
}
