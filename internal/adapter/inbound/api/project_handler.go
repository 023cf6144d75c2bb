package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"codeatlas/internal/application/dto"
	"codeatlas/internal/port/inbound"

	"github.com/google/uuid"
)

const (
	maxProjectListLimit = 100
	maxJobListLimit     = 100
	maxRequestBodySize  = 1 << 20 // 1 MiB
)

// ProjectHandler handles HTTP requests for project operations.
type ProjectHandler struct {
	projectService inbound.ProjectService
	errorHandler   ErrorHandler
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService inbound.ProjectService, errorHandler ErrorHandler) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		errorHandler:   errorHandler,
	}
}

// CreateProject handles POST /projects. On success the project is returned
// with 202 Accepted because analysis runs asynchronously.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var request dto.CreateProjectRequest
	if err := decodeJSONBody(r, &request); err != nil {
		h.errorHandler.HandleValidationError(w, r, err)
		return
	}
	if request.RootPath == "" {
		h.errorHandler.HandleValidationError(w, r, errors.New("root_path is required"))
		return
	}

	response, err := h.projectService.CreateProject(r.Context(), request)
	if err != nil {
		h.errorHandler.HandleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusAccepted, response)
}

// GetProject handles GET /projects/{id}.
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseProjectID(w, r)
	if !ok {
		return
	}

	response, err := h.projectService.GetProject(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, response)
}

// ListProjects handles GET /projects.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	query := dto.DefaultListProjectsQuery()

	if err := parsePagination(r, &query.Limit, &query.Offset, maxProjectListLimit); err != nil {
		h.errorHandler.HandleValidationError(w, r, err)
		return
	}
	if sort := r.URL.Query().Get("sort"); sort != "" {
		query.Sort = sort
	}

	response, err := h.projectService.ListProjects(r.Context(), query)
	if err != nil {
		h.errorHandler.HandleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, response)
}

// DeleteProject handles DELETE /projects/{id}.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseProjectID(w, r)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(r.Context(), id); err != nil {
		h.errorHandler.HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetProjectJobs handles GET /projects/{id}/jobs.
func (h *ProjectHandler) GetProjectJobs(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseProjectID(w, r)
	if !ok {
		return
	}

	query := dto.DefaultListJobsQuery()
	if err := parsePagination(r, &query.Limit, &query.Offset, maxJobListLimit); err != nil {
		h.errorHandler.HandleValidationError(w, r, err)
		return
	}

	response, err := h.projectService.GetProjectJobs(r.Context(), id, query)
	if err != nil {
		h.errorHandler.HandleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, response)
}

func (h *ProjectHandler) parseProjectID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.errorHandler.HandleValidationError(w, r, fmt.Errorf("invalid project ID: %w", err))
		return uuid.Nil, false
	}
	return id, true
}

func (h *ProjectHandler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if err := WriteJSON(w, status, data); err != nil {
		h.errorHandler.HandleServiceError(w, r, err)
	}
}

// decodeJSONBody decodes a bounded JSON request body, rejecting unknown fields.
func decodeJSONBody(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBodySize))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// parsePagination reads limit and offset query parameters into the given
// destinations, enforcing bounds.
func parsePagination(r *http.Request, limit, offset *int, maxLimit int) error {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 || value > maxLimit {
			return fmt.Errorf("limit must be an integer between 1 and %d", maxLimit)
		}
		*limit = value
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			return errors.New("offset must be a non-negative integer")
		}
		*offset = value
	}
	return nil
}
