package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
)

// APIError is the error body every endpoint returns. It implements
// huma.StatusError.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Errors  string `json:"errors" doc:"Human-readable error message"`
	Code    string `json:"code" doc:"Machine-readable error code"`
	Details any    `json:"details,omitempty" doc:"Per-field messages for validation errors"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Errors
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// errorLogger records the causes of 5xx responses, which clients never see.
var errorLogger = slog.New(slog.DiscardHandler)

// RegisterErrorHandler makes huma render domain errors and its own
// request validation failures as APIError. Call it before registering routes.
func RegisterErrorHandler(log *slog.Logger) {
	if log != nil {
		errorLogger = log
	}
	huma.NewError = newAPIError
}

// register is huma.Register with handler errors routed through newAPIError,
// so a domain error keeps its own status instead of becoming a 500.
func register[I, O any](api huma.API, op huma.Operation, handler func(context.Context, *I) (*O, error)) {
	huma.Register(api, op, func(ctx context.Context, input *I) (*O, error) {
		out, err := handler(ctx, input)
		if err != nil {
			var statusErr huma.StatusError
			if errors.As(err, &statusErr) {
				return nil, err
			}
			return nil, huma.NewError(http.StatusInternalServerError, "unexpected error occurred", err)
		}
		return out, nil
	})
}

func newAPIError(status int, message string, errs ...error) huma.StatusError {
	for _, err := range errs {
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			return &APIError{
				status:  domainErr.HTTPStatus(),
				Errors:  domainErr.Message,
				Code:    string(domainErr.Code),
				Details: domainErr.Details,
			}
		}
	}

	// Schema violations are reported like any other validation error.
	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
	}

	apiErr := &APIError{
		status: status,
		Errors: message,
		Code:   statusToCode(status),
	}
	if status == http.StatusBadRequest {
		if details := fieldDetails(errs); len(details) > 0 {
			apiErr.Details = details
		}
	}
	if status >= http.StatusInternalServerError {
		errorLogger.Error("request failed", "status", status, "error", errors.Join(errs...), "message", message)
		apiErr.Errors = "internal server error"
	}
	return apiErr
}

// fieldDetails flattens huma's per-location validation errors into
// {"field": "message"}.
func fieldDetails(errs []error) map[string]string {
	details := make(map[string]string)
	for _, err := range errs {
		var detail *huma.ErrorDetail
		if !errors.As(err, &detail) {
			continue
		}
		field := detail.Location
		for _, prefix := range []string{"body.", "query.", "path.", "header."} {
			field = strings.TrimPrefix(field, prefix)
		}
		if field == "" {
			field = "body"
		}
		details[field] = detail.Message
	}
	return details
}

// statusToCode maps HTTP status codes to our domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(domainerrors.CodeValidation)
	case http.StatusUnauthorized:
		return string(domainerrors.CodeUnauthorized)
	case http.StatusForbidden:
		return string(domainerrors.CodeForbidden)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeConflict)
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		return string(domainerrors.CodeInternal)
	}
}
