// Package api provides the HTTP surface of the analysis service: route
// registration, request handlers, middleware, and error mapping from domain
// errors to structured JSON responses.
package api

import (
	"errors"
	"net/http"

	"codeatlas/internal/application/common/slogger"
	"codeatlas/internal/application/dto"
	"codeatlas/internal/domain/errors/domain"
)

// ErrorHandler defines methods for handling HTTP errors.
type ErrorHandler interface {
	HandleValidationError(w http.ResponseWriter, r *http.Request, err error)
	HandleServiceError(w http.ResponseWriter, r *http.Request, err error)
}

// errorHandlingConfig maps one domain error to its HTTP representation.
type errorHandlingConfig struct {
	LogMessage      string
	ErrorType       string
	HTTPStatus      int
	ErrorCode       dto.ErrorCode
	ResponseMessage string
	UseDetailedMsg  bool
}

// DefaultErrorHandler implements ErrorHandler with standard HTTP error responses.
type DefaultErrorHandler struct {
	errorConfigs map[error]errorHandlingConfig
}

// NewDefaultErrorHandler creates a new DefaultErrorHandler with predefined
// domain error mappings.
func NewDefaultErrorHandler() ErrorHandler {
	configs := map[error]errorHandlingConfig{
		domain.ErrInvalidProjectPath: {
			LogMessage:     "Invalid project path",
			ErrorType:      "invalid_path",
			HTTPStatus:     http.StatusBadRequest,
			ErrorCode:      dto.ErrorCodeInvalidPath,
			UseDetailedMsg: true,
		},
		domain.ErrProjectNotFound: {
			LogMessage:      "Project not found",
			ErrorType:       "not_found",
			HTTPStatus:      http.StatusNotFound,
			ErrorCode:       dto.ErrorCodeProjectNotFound,
			ResponseMessage: "Project not found",
		},
		domain.ErrProjectAlreadyExists: {
			LogMessage:      "Project already exists",
			ErrorType:       "already_exists",
			HTTPStatus:      http.StatusConflict,
			ErrorCode:       dto.ErrorCodeProjectExists,
			ResponseMessage: "Project already exists",
		},
		domain.ErrJobNotFound: {
			LogMessage:      "Analysis job not found",
			ErrorType:       "job_not_found",
			HTTPStatus:      http.StatusNotFound,
			ErrorCode:       dto.ErrorCodeJobNotFound,
			ResponseMessage: "Analysis job not found",
		},
		domain.ErrInvalidInput: {
			LogMessage:     "Invalid request input",
			ErrorType:      "invalid_input",
			HTTPStatus:     http.StatusBadRequest,
			ErrorCode:      dto.ErrorCodeInvalidRequest,
			UseDetailedMsg: true,
		},
	}

	return &DefaultErrorHandler{
		errorConfigs: configs,
	}
}

// logError logs an error with consistent context fields.
func (h *DefaultErrorHandler) logError(r *http.Request, message, errorType string, err error) {
	slogger.Error(r.Context(), message, slogger.Fields{
		"error": err.Error(),
		"path":  r.URL.Path,
		"type":  errorType,
	})
}

func (h *DefaultErrorHandler) handleErrorWithConfig(w http.ResponseWriter, r *http.Request, err error, config errorHandlingConfig) {
	h.logError(r, config.LogMessage, config.ErrorType, err)

	message := config.ResponseMessage
	if config.UseDetailedMsg {
		message = err.Error()
	}

	response := dto.NewErrorResponse(config.ErrorCode, message, nil)
	h.writeErrorResponse(w, r, config.HTTPStatus, response)
}

// HandleValidationError handles request validation errors by returning 400 Bad Request.
func (h *DefaultErrorHandler) HandleValidationError(w http.ResponseWriter, r *http.Request, err error) {
	h.logError(r, "Validation error occurred", "validation", err)

	response := dto.NewErrorResponse(dto.ErrorCodeInvalidRequest, err.Error(), nil)
	h.writeErrorResponse(w, r, http.StatusBadRequest, response)
}

// HandleServiceError maps service errors to HTTP status codes. Unrecognized
// errors fall through to 500 without leaking internals.
func (h *DefaultErrorHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for domainErr, config := range h.errorConfigs {
		if errors.Is(err, domainErr) {
			h.handleErrorWithConfig(w, r, err, config)
			return
		}
	}

	defaultConfig := errorHandlingConfig{
		LogMessage:      "Internal server error",
		ErrorType:       "internal",
		HTTPStatus:      http.StatusInternalServerError,
		ErrorCode:       dto.ErrorCodeInternalError,
		ResponseMessage: "An internal error occurred",
	}
	h.handleErrorWithConfig(w, r, err, defaultConfig)
}

// writeErrorResponse writes an error response as JSON with correlation ID preservation.
func (h *DefaultErrorHandler) writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, response dto.ErrorResponse) {
	if correlationID := r.Header.Get("X-Correlation-ID"); correlationID != "" {
		w.Header().Set("X-Correlation-ID", correlationID)
	}

	if err := WriteJSON(w, statusCode, response); err != nil {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Internal Server Error"))
	}
}
