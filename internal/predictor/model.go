package predictor

import (
	"fmt"
	"math"
)

const (
	KindLogisticClassifier = "logistic_classifier"
	KindLinearRegressor    = "linear_regressor"

	defaultThreshold = 0.5
)

// Model is a pre-trained predictor. Classifiers return a class label
// (0 or 1); regressors return the predicted value.
type Model interface {
	Name() string
	Features() []string
	Predict(vector []float64) (float64, error)
}

// Artifact is the serialized form written by the training pipeline.
type Artifact struct {
	Name         string    `json:"name"`
	Kind         string    `json:"kind"`
	Version      string    `json:"version,omitempty"`
	Features     []string  `json:"features"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Threshold    *float64  `json:"threshold,omitempty"`
}

type linearModel struct {
	name         string
	features     []string
	coefficients []float64
	intercept    float64
}

func (m *linearModel) Name() string { return m.name }

func (m *linearModel) Features() []string {
	return append([]string(nil), m.features...)
}

func (m *linearModel) score(vector []float64) (float64, error) {
	if len(vector) != len(m.coefficients) {
		return 0, fmt.Errorf("model %s expects %d features, got %d", m.name, len(m.coefficients), len(vector))
	}
	sum := m.intercept
	for i, c := range m.coefficients {
		sum += c * vector[i]
	}
	return sum, nil
}

func (m *linearModel) Predict(vector []float64) (float64, error) {
	return m.score(vector)
}

type logisticModel struct {
	linearModel
	threshold float64
}

func (m *logisticModel) Predict(vector []float64) (float64, error) {
	z, err := m.score(vector)
	if err != nil {
		return 0, err
	}
	if sigmoid(z) >= m.threshold {
		return 1, nil
	}
	return 0, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Build turns a decoded artifact into a callable model.
func (a Artifact) Build() (Model, error) {
	if len(a.Features) != len(a.Coefficients) {
		return nil, fmt.Errorf("artifact %s has %d features but %d coefficients", a.Name, len(a.Features), len(a.Coefficients))
	}
	base := linearModel{
		name:         a.Name,
		features:     append([]string(nil), a.Features...),
		coefficients: append([]float64(nil), a.Coefficients...),
		intercept:    a.Intercept,
	}
	switch a.Kind {
	case KindLinearRegressor:
		return &base, nil
	case KindLogisticClassifier:
		threshold := defaultThreshold
		if a.Threshold != nil {
			threshold = *a.Threshold
		}
		return &logisticModel{linearModel: base, threshold: threshold}, nil
	default:
		return nil, fmt.Errorf("unsupported model kind %q", a.Kind)
	}
}
