package api

import (
	"errors"
	"fmt"
	"net/http"

	"codeatlas/internal/application/dto"
	"codeatlas/internal/port/inbound"

	"github.com/google/uuid"
)

// AnalysisHandler handles HTTP requests for descriptor queries and diagram
// synthesis.
type AnalysisHandler struct {
	queryService   inbound.AnalysisQueryService
	diagramService inbound.DiagramService
	errorHandler   ErrorHandler
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(
	queryService inbound.AnalysisQueryService,
	diagramService inbound.DiagramService,
	errorHandler ErrorHandler,
) *AnalysisHandler {
	return &AnalysisHandler{
		queryService:   queryService,
		diagramService: diagramService,
		errorHandler:   errorHandler,
	}
}

// GetVariables handles GET /projects/{id}/variables.
func (h *AnalysisHandler) GetVariables(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseProjectID(w, r)
	if !ok {
		return
	}

	response, err := h.queryService.GetVariables(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, response)
}

// GetFunctions handles GET /projects/{id}/functions.
func (h *AnalysisHandler) GetFunctions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseProjectID(w, r)
	if !ok {
		return
	}

	response, err := h.queryService.GetFunctions(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, response)
}

// GetComponents handles GET /projects/{id}/components.
func (h *AnalysisHandler) GetComponents(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseProjectID(w, r)
	if !ok {
		return
	}

	response, err := h.queryService.GetComponents(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, response)
}

// GenerateDiagram handles POST /diagrams. The source body travels in the
// request; nothing is persisted.
func (h *AnalysisHandler) GenerateDiagram(w http.ResponseWriter, r *http.Request) {
	var request dto.DiagramRequest
	if err := decodeJSONBody(r, &request); err != nil {
		h.errorHandler.HandleValidationError(w, r, err)
		return
	}
	if request.Source == "" {
		h.errorHandler.HandleValidationError(w, r, errors.New("source is required"))
		return
	}
	if request.Kind == "" {
		h.errorHandler.HandleValidationError(w, r, errors.New("kind is required"))
		return
	}

	response, err := h.diagramService.GenerateDiagram(r.Context(), request)
	if err != nil {
		h.errorHandler.HandleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, response)
}

func (h *AnalysisHandler) parseProjectID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.errorHandler.HandleValidationError(w, r, fmt.Errorf("invalid project ID: %w", err))
		return uuid.Nil, false
	}
	return id, true
}

func (h *AnalysisHandler) writeJSON(w http.ResponseWriter, r *http.Request, data interface{}) {
	if err := WriteJSON(w, http.StatusOK, data); err != nil {
		h.errorHandler.HandleServiceError(w, r, err)
	}
}
