package predictor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"health-risk-predictor/internal/apperr"
	"health-risk-predictor/internal/features"
)

const diabetesArtifact = `{
  "name": "diabetes",
  "kind": "logistic_classifier",
  "version": "2025.1",
  "features": ["pregnancies", "glucose", "blood_pressure", "insulin", "bmi", "age", "pedigree", "gender_encoded"],
  "coefficients": [0.12, 0.035, -0.013, -0.001, 0.09, 0.015, 0.9, 0.1],
  "intercept": -8.4
}`

const insuranceArtifact = `{
  "name": "insurance",
  "kind": "linear_regressor",
  "features": ["age", "sex", "bmi", "children", "smoker", "region"],
  "coefficients": [256.9, -131.3, 339.2, 475.5, 23848.5, -353.0],
  "intercept": -11938.5
}`

func writeArtifact(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(dir, zap.NewNop())
	require.NoError(t, err)
	return store, dir
}

func TestStoreLoadsClassifier(t *testing.T) {
	store, dir := newTestStore(t)
	writeArtifact(t, dir, "diabetes_model.json", diabetesArtifact)

	model, err := store.Load(context.Background(), "diabetes_model")
	require.NoError(t, err)
	assert.Equal(t, "diabetes", model.Name())
	assert.Len(t, model.Features(), 8)

	high, err := model.Predict([]float64{6, 190, 72, 0, 40, 55, 1.5, 1})
	require.NoError(t, err)
	assert.Equal(t, 1.0, high)

	low, err := model.Predict([]float64{0, 85, 66, 0, 22, 25, 0.2, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, low)
}

func TestStoreLoadsRegressor(t *testing.T) {
	store, dir := newTestStore(t)
	writeArtifact(t, dir, "insurance_model.json", insuranceArtifact)

	model, err := store.Load(context.Background(), "insurance_model.json")
	require.NoError(t, err)
	cost, err := model.Predict([]float64{40, 1, 30, 1, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, -11938.5+256.9*40-131.3+339.2*30+475.5+23848.5-353.0, cost, 1e-6)

	_, err = model.Predict([]float64{1, 2})
	assert.Error(t, err)
}

func TestStoreMissingArtifact(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Load(context.Background(), "heart_model")
	require.ErrorIs(t, err, apperr.ErrArtifactNotFound)

	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Model file 'heart_model.json' not found.", appErr.Message)
}

func TestStoreRejectsInvalidArtifacts(t *testing.T) {
	store, dir := newTestStore(t)
	writeArtifact(t, dir, "broken.json", `{"name": "x"`)
	writeArtifact(t, dir, "nokind.json", `{"name": "x", "features": ["a"], "coefficients": [1], "intercept": 0}`)
	writeArtifact(t, dir, "forest.json", `{"name": "x", "kind": "random_forest", "features": ["a"], "coefficients": [1], "intercept": 0}`)
	writeArtifact(t, dir, "mismatch.json", `{"name": "x", "kind": "linear_regressor", "features": ["a", "b"], "coefficients": [1], "intercept": 0}`)

	for _, name := range []string{"broken", "nokind", "forest", "mismatch", "../etc/passwd", ""} {
		_, err := store.Load(context.Background(), name)
		assert.ErrorIs(t, err, apperr.ErrArtifactInvalid, "artifact %q", name)
	}
}

func TestStoreRereadsOnEveryLoad(t *testing.T) {
	store, dir := newTestStore(t)
	writeArtifact(t, dir, "insurance_model.json", insuranceArtifact)
	_, err := store.Load(context.Background(), "insurance_model")
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "insurance_model.json")))
	_, err = store.Load(context.Background(), "insurance_model")
	assert.ErrorIs(t, err, apperr.ErrArtifactNotFound)
}

func TestLogisticThreshold(t *testing.T) {
	threshold := 0.9
	model, err := Artifact{
		Name: "t", Kind: KindLogisticClassifier,
		Features: []string{"x"}, Coefficients: []float64{1}, Threshold: &threshold,
	}.Build()
	require.NoError(t, err)

	label, err := model.Predict([]float64{1})
	require.NoError(t, err)
	assert.Equal(t, 0.0, label)

	label, err = model.Predict([]float64{3})
	require.NoError(t, err)
	assert.Equal(t, 1.0, label)
}

func TestShippedArtifacts(t *testing.T) {
	store, err := NewStore(filepath.Join("..", "..", "models"), nil)
	require.NoError(t, err)

	cases := map[string][]string{
		"diabetes_model":  features.DiabetesInput{}.FeatureNames(),
		"heart_model":     features.HeartInput{}.FeatureNames(),
		"insurance_model": features.InsuranceFeatureNames(),
	}
	for name, want := range cases {
		model, err := store.Load(context.Background(), name)
		require.NoError(t, err, name)
		assert.Equal(t, want, model.Features(), name)
	}
}
