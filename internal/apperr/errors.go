package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrArtifactInvalid  = errors.New("artifact invalid")
	ErrValidation       = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
	ErrNotFound         = errors.New("not found")
	ErrInternal         = errors.New("internal error")
)

// AppError carries a user-facing message and an HTTP mapping for a failure.
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	HTTPStatus int               `json:"-"`
	Details    map[string]string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func ArtifactNotFound(name string, cause error) *AppError {
	err := ErrArtifactNotFound
	if cause != nil {
		err = fmt.Errorf("%w: %v", ErrArtifactNotFound, cause)
	}
	return &AppError{
		Err:        err,
		Message:    fmt.Sprintf("Model file '%s' not found.", name),
		Code:       "ARTIFACT_NOT_FOUND",
		HTTPStatus: http.StatusServiceUnavailable,
		Details:    map[string]string{"artifact": name},
	}
}

func ArtifactInvalid(name string, cause error) *AppError {
	return &AppError{
		Err:        fmt.Errorf("%w: %v", ErrArtifactInvalid, cause),
		Message:    fmt.Sprintf("Model file '%s' could not be used.", name),
		Code:       "ARTIFACT_INVALID",
		HTTPStatus: http.StatusServiceUnavailable,
		Details:    map[string]string{"artifact": name},
	}
}

// Validation creates a validation error with per-field messages.
func Validation(message string, details map[string]string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Message:    message,
		Code:       "VALIDATION_FAILED",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Message:    message,
		Code:       "BAD_REQUEST",
		HTTPStatus: http.StatusBadRequest,
	}
}

func NotFound(message string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Message:    message,
		Code:       "NOT_FOUND",
		HTTPStatus: http.StatusNotFound,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "internal server error",
		Code:       "INTERNAL_ERROR",
		HTTPStatus: http.StatusInternalServerError,
	}
}

// HTTPStatus resolves the status code for any error, defaulting to 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// FieldErrors collects per-field validation messages in insertion order.
type FieldErrors struct {
	keys   []string
	values map[string]string
}

func (f *FieldErrors) Add(field, message string) {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	if _, ok := f.values[field]; !ok {
		f.keys = append(f.keys, field)
	}
	f.values[field] = message
}

func (f *FieldErrors) Empty() bool {
	return len(f.keys) == 0
}

// Err returns nil when no field failed, otherwise a Validation AppError.
func (f *FieldErrors) Err(message string) error {
	if f.Empty() {
		return nil
	}
	details := make(map[string]string, len(f.values))
	for k, v := range f.values {
		details[k] = v
	}
	return Validation(message, details)
}

// Fields lists failing field names in the order they were added.
func (f *FieldErrors) Fields() []string {
	return append([]string(nil), f.keys...)
}
