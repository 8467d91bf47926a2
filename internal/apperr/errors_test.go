package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactNotFoundUnwraps(t *testing.T) {
	err := fmt.Errorf("load diabetes: %w", ArtifactNotFound("diabetes_model.json", errors.New("no such file")))
	require.ErrorIs(t, err, ErrArtifactNotFound)
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(err))

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ARTIFACT_NOT_FOUND", appErr.Code)
	assert.Contains(t, appErr.Message, "diabetes_model.json")
}

func TestFieldErrors(t *testing.T) {
	var fe FieldErrors
	require.NoError(t, fe.Err("invalid"))

	fe.Add("glucose", "must be positive")
	fe.Add("bmi", "must be positive")
	fe.Add("glucose", "must be positive")

	assert.Equal(t, []string{"glucose", "bmi"}, fe.Fields())

	err := fe.Err("invalid input")
	require.ErrorIs(t, err, ErrValidation)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Len(t, appErr.Details, 2)
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(err))
}

func TestHTTPStatusDefaultsToInternal(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestNotFound(t *testing.T) {
	err := NotFound("Dataset 'heart' is not loaded.")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}
