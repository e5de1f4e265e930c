package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/restchat/internal/errs"
	"github.com/sbilibin2017/restchat/internal/logger"
	"github.com/sbilibin2017/restchat/internal/middlewares"
)

// EntityErrorDetail describes a missing or duplicate entity.
// swagger:model EntityErrorDetail
type EntityErrorDetail struct {
	Type        string `json:"type" example:"entity_not_found"`
	EntityName  string `json:"entity_name" example:"Chat"`
	EntityID    *int64 `json:"entity_id,omitempty" example:"1"`
	EntityField string `json:"entity_field,omitempty" example:"username"`
	EntityValue string `json:"entity_value,omitempty" example:"alice"`
}

// EntityErrorResponse is the body of 404 and duplicate-value 422 responses.
// swagger:model EntityErrorResponse
type EntityErrorResponse struct {
	Detail EntityErrorDetail `json:"detail"`
}

// ErrorDetail is an OAuth-style error.
// swagger:model ErrorDetail
type ErrorDetail struct {
	Error            string `json:"error" example:"no_permission"`
	ErrorDescription string `json:"error_description" example:"requires permission to view chat"`
}

// ErrorResponse is the body of 400, 401, 403, invalid-state 422 and 500 responses.
// swagger:model ErrorResponse
type ErrorResponse struct {
	Detail ErrorDetail `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Errorw("failed to encode response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, ErrorResponse{Detail: ErrorDetail{Error: code, ErrorDescription: description}})
}

// writeError maps a service error to its status code and body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound  *errs.NotFoundError
		duplicate *errs.DuplicateFieldError
		denied    *errs.NoPermissionError
		invalid   *errs.InvalidStateError
		malformed *errs.ValidationError
	)

	switch {
	case errors.As(err, &notFound):
		id := notFound.ID
		writeJSON(w, http.StatusNotFound, EntityErrorResponse{Detail: EntityErrorDetail{
			Type:       "entity_not_found",
			EntityName: notFound.Entity,
			EntityID:   &id,
		}})
	case errors.As(err, &duplicate):
		writeJSON(w, http.StatusUnprocessableEntity, EntityErrorResponse{Detail: EntityErrorDetail{
			Type:        "duplicate_value",
			EntityName:  duplicate.Entity,
			EntityField: duplicate.Field,
			EntityValue: duplicate.Value,
		}})
	case errors.As(err, &denied):
		writeDetail(w, http.StatusForbidden, "no_permission", denied.Reason)
	case errors.As(err, &invalid):
		writeDetail(w, http.StatusUnprocessableEntity, "invalid_state", invalid.Reason)
	case errors.As(err, &malformed):
		writeDetail(w, http.StatusBadRequest, "invalid_request", malformed.Reason)
	case errors.Is(err, errs.ErrInvalidCredentials),
		errors.Is(err, errs.ErrTokenInvalid),
		errors.Is(err, errs.ErrTokenExpired),
		errors.Is(err, errs.ErrNotAuthenticated):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, "invalid_client", err.Error())
	default:
		logger.Log.Errorw("internal server error",
			"request_id", middlewares.RequestIDFromContext(r.Context()),
			"method", r.Method,
			"uri", r.RequestURI,
			"error", err,
		)
		writeDetail(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
