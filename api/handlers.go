/*
handlers.go - HTTP API handlers for the compliance deadline engine

PURPOSE:
  Exposes the obligation tracker via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Entities:
    GET    /api/entities               List all legal entities
    POST   /api/entities               Create entity (regenerates obligations)
    GET    /api/entities/{id}          Get entity details
    PUT    /api/entities/{id}          Update entity (regenerates obligations)
    DELETE /api/entities/{id}          Delete entity and all its tasks
    POST   /api/entities/{id}/archive  Archive (stops generation)
    POST   /api/entities/{id}/unarchive Unarchive
    GET    /api/entities/{id}/tasks    Tasks for one entity

  Tasks:
    GET    /api/tasks                  List all tasks
    POST   /api/tasks                  Create manual task (series-aware)
    PUT    /api/tasks/{id}             Edit manual task (series-aware)
    DELETE /api/tasks/{id}?scope=      Delete occurrence or whole series
    GET    /api/tasks/{id}/deletion-preview?scope=  Preview ids a delete removes
    POST   /api/tasks/{id}/toggle      Toggle completion
    POST   /api/tasks/complete         Bulk complete

  Admin:
    POST   /api/admin/regenerate       Force a full regeneration
    POST   /api/admin/refresh          Re-run the status machine
    GET    /api/holidays               The active holiday table

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Locked-task completion, series mutation on automatic task
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - engine/tracker.go: The domain logic these delegate to
*/
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clerkdesk/compliance-engine/engine"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Tracker *engine.Tracker

	// Holidays is the active table, exposed read-only for display surfaces.
	Holidays []string
}

// NewHandler creates a new handler around a loaded tracker.
func NewHandler(tracker *engine.Tracker, holidays []string) *Handler {
	return &Handler{Tracker: tracker, Holidays: holidays}
}

// =============================================================================
// ENTITY HANDLERS
// =============================================================================

// ListEntities returns all legal entities.
func (h *Handler) ListEntities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toEntityDTOs(h.Tracker.Entities()))
}

// GetEntity returns a single entity.
func (h *Handler) GetEntity(w http.ResponseWriter, r *http.Request) {
	id := engine.EntityID(chi.URLParam(r, "id"))

	e, ok := h.Tracker.Entity(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Entity not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEntityDTO(e))
}

// CreateEntity creates a new entity and regenerates its obligations.
func (h *Handler) CreateEntity(w http.ResponseWriter, r *http.Request) {
	var req SaveEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	e, err := fromEntityRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entity", err)
		return
	}

	if err := h.Tracker.PutEntity(r.Context(), e); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save entity", err)
		return
	}

	saved, _ := h.Tracker.Entity(e.ID)
	writeJSON(w, http.StatusCreated, toEntityDTO(saved))
}

// UpdateEntity replaces an entity and regenerates its obligations.
func (h *Handler) UpdateEntity(w http.ResponseWriter, r *http.Request) {
	id := engine.EntityID(chi.URLParam(r, "id"))
	if _, ok := h.Tracker.Entity(id); !ok {
		writeError(w, http.StatusNotFound, "Entity not found", nil)
		return
	}

	var req SaveEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.ID = string(id) // path wins over body

	e, err := fromEntityRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entity", err)
		return
	}

	if err := h.Tracker.PutEntity(r.Context(), e); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save entity", err)
		return
	}

	saved, _ := h.Tracker.Entity(id)
	writeJSON(w, http.StatusOK, toEntityDTO(saved))
}

// DeleteEntity removes an entity and every task tied to it.
func (h *Handler) DeleteEntity(w http.ResponseWriter, r *http.Request) {
	id := engine.EntityID(chi.URLParam(r, "id"))

	if err := h.Tracker.DeleteEntity(r.Context(), id); err != nil {
		if engine.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Entity not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete entity", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ArchiveEntity stops obligation generation for an entity.
func (h *Handler) ArchiveEntity(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, true)
}

// UnarchiveEntity resumes obligation generation for an entity.
func (h *Handler) UnarchiveEntity(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, false)
}

func (h *Handler) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	id := engine.EntityID(chi.URLParam(r, "id"))

	if err := h.Tracker.SetArchived(r.Context(), id, archived); err != nil {
		if engine.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Entity not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update entity", err)
		return
	}

	saved, _ := h.Tracker.Entity(id)
	writeJSON(w, http.StatusOK, toEntityDTO(saved))
}

// ListEntityTasks returns all tasks belonging to one entity.
func (h *Handler) ListEntityTasks(w http.ResponseWriter, r *http.Request) {
	id := engine.EntityID(chi.URLParam(r, "id"))
	if _, ok := h.Tracker.Entity(id); !ok {
		writeError(w, http.StatusNotFound, "Entity not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toTaskDTOs(h.Tracker.TasksForEntity(id)))
}

// =============================================================================
// TASK HANDLERS
// =============================================================================

// ListTasks returns all tasks.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toTaskDTOs(h.Tracker.Tasks()))
}

// CreateTask creates a manual task; with a recurrence cadence the planner
// fans out the whole occurrence set.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req SaveTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.EntityID == "" || req.Title == "" {
		writeError(w, http.StatusBadRequest, "entity_id and title are required", nil)
		return
	}
	if _, ok := h.Tracker.Entity(engine.EntityID(req.EntityID)); !ok {
		writeError(w, http.StatusNotFound, "Entity not found", nil)
		return
	}

	req.ID = "" // creation always mints ids
	t, err := fromTaskRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task", err)
		return
	}

	created, err := h.Tracker.SaveManualTask(r.Context(), t)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create task", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskDTOs(created))
}

// UpdateTask edits a manual task through the series planner. Cadence and
// date changes ripple to series siblings per the mutation rules.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id := engine.TaskID(chi.URLParam(r, "id"))

	existing, ok := h.Tracker.Task(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found", nil)
		return
	}
	if existing.Automatic {
		writeError(w, http.StatusConflict, "Automatic tasks are managed by regeneration", nil)
		return
	}

	var req SaveTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.ID = string(id)
	if req.EntityID == "" {
		req.EntityID = string(existing.EntityID)
	}

	t, err := fromTaskRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task", err)
		return
	}

	affected, err := h.Tracker.SaveManualTask(r.Context(), t)
	if err != nil {
		if engine.IsClientError(err) {
			writeError(w, http.StatusConflict, "Task cannot be edited", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update task", err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskDTOs(affected))
}

// DeleteTask removes one occurrence or a whole series, per ?scope=.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := engine.TaskID(chi.URLParam(r, "id"))
	scope, ok := parseScope(r.URL.Query().Get("scope"))
	if !ok {
		writeError(w, http.StatusBadRequest, "scope must be 'occurrence' or 'series'", nil)
		return
	}

	if err := h.Tracker.DeleteManualTask(r.Context(), id, scope); err != nil {
		switch {
		case engine.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Task not found", nil)
		case engine.IsClientError(err):
			writeError(w, http.StatusConflict, "Task cannot be deleted", err)
		default:
			writeError(w, http.StatusInternalServerError, "Failed to delete task", err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PreviewDeletion returns the ids a deletion with the given scope would
// remove, so the UI can confirm before a series-wide delete.
func (h *Handler) PreviewDeletion(w http.ResponseWriter, r *http.Request) {
	id := engine.TaskID(chi.URLParam(r, "id"))
	scope, ok := parseScope(r.URL.Query().Get("scope"))
	if !ok {
		writeError(w, http.StatusBadRequest, "scope must be 'occurrence' or 'series'", nil)
		return
	}
	if _, found := h.Tracker.Task(id); !found {
		writeError(w, http.StatusNotFound, "Task not found", nil)
		return
	}

	candidates := h.Tracker.DeletionCandidates(id, scope)
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = string(c)
	}
	writeJSON(w, http.StatusOK, DeletePreviewDTO{Scope: string(scope), IDs: ids})
}

// ToggleComplete flips a task's completion state. Completing a locked task
// is a 409; the UI shows the task unchanged.
func (h *Handler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	id := engine.TaskID(chi.URLParam(r, "id"))

	toggled, err := h.Tracker.ToggleComplete(r.Context(), id)
	if err != nil {
		switch {
		case engine.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Task not found", nil)
		case engine.IsClientError(err):
			writeError(w, http.StatusConflict, "Task is locked until its reporting period opens", err)
		default:
			writeError(w, http.StatusInternalServerError, "Failed to toggle task", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, toTaskDTO(toggled))
}

// BulkComplete marks a batch of tasks completed; locked tasks are skipped.
func (h *Handler) BulkComplete(w http.ResponseWriter, r *http.Request) {
	var req BulkCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids must not be empty", nil)
		return
	}

	ids := make([]engine.TaskID, len(req.IDs))
	for i, id := range req.IDs {
		ids[i] = engine.TaskID(id)
	}

	completed, err := h.Tracker.CompleteMany(r.Context(), ids)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to complete tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, BulkCompleteResultDTO{
		Completed: completed,
		Requested: len(req.IDs),
	})
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// TriggerRegenerate forces a full generation + reconciliation pass.
func (h *Handler) TriggerRegenerate(w http.ResponseWriter, r *http.Request) {
	if err := h.Tracker.Regenerate(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to regenerate", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// TriggerRefresh re-runs the status machine over all tasks.
func (h *Handler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.Tracker.RefreshStatuses(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to refresh statuses", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListHolidays returns the active holiday table as ISO dates.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Holidays)
}

// =============================================================================
// HELPERS
// =============================================================================

func parseScope(raw string) (engine.DeleteScope, bool) {
	switch raw {
	case "", string(engine.DeleteOccurrence):
		return engine.DeleteOccurrence, true
	case string(engine.DeleteSeries):
		return engine.DeleteSeries, true
	}
	return "", false
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
