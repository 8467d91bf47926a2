package assessment

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"health-risk-predictor/internal/apperr"
	"health-risk-predictor/internal/features"
	"health-risk-predictor/internal/predictor"
)

func insuranceModel(value float64) *stubModel {
	return &stubModel{name: "insurance", features: features.InsuranceFeatureNames(), value: value}
}

func TestInsuranceAdvisorUsesPlaceholderDemographics(t *testing.T) {
	model := insuranceModel(31000.5)
	loader := new(MockLoader)
	loader.On("Load", mock.Anything, "insurance").Return(model, nil).Once()

	est := NewInsuranceAdvisor(loader, "insurance", nil).Estimate(context.Background(), 32.5, 45, "Diabetes")

	assert.True(t, est.Available)
	assert.Equal(t, "Diabetes", est.Condition)
	assert.Equal(t, "₹31,000.50", est.String())
	assert.Equal(t, [][]float64{{45, 1, 32.5, 1, 1, float64(features.RegionSouthwest)}}, model.seen)
}

func TestInsuranceAdvisorSkipsRangeChecks(t *testing.T) {
	model := insuranceModel(9000)
	loader := new(MockLoader)
	loader.On("Load", mock.Anything, "insurance").Return(model, nil)

	est := NewInsuranceAdvisor(loader, "insurance", nil).Estimate(context.Background(), 4.2, 12, "Heart")

	assert.True(t, est.Available)
	require.Len(t, model.seen, 1)
	assert.Equal(t, 4.2, model.seen[0][2])
}

func TestInsuranceAdvisorMissingArtifact(t *testing.T) {
	loader := new(MockLoader)
	loader.On("Load", mock.Anything, "insurance").Return(nil, apperr.ArtifactNotFound("insurance", os.ErrNotExist))

	est := NewInsuranceAdvisor(loader, "insurance", nil).Estimate(context.Background(), 30, 50, "Heart")

	assert.False(t, est.Available)
	assert.Equal(t, "Model file 'insurance' not found.", est.Warning)
	assert.Equal(t, "Not Available", est.String())
}

func validInsurance() features.InsuranceInput {
	return features.InsuranceInput{Age: 40, Sex: "Female", BMI: 27.3, Children: 2, Smoker: "No", Region: "northeast"}
}

func TestInsuranceEstimatorEstimated(t *testing.T) {
	model := insuranceModel(12345.678)
	loader := new(MockLoader)
	loader.On("Load", mock.Anything, "insurance").Return(model, nil).Once()

	res := NewInsuranceEstimator(loader, "insurance", nil).Estimate(context.Background(), validInsurance())

	assert.Equal(t, StateEstimated, res.State)
	assert.Equal(t, []State{StateAwaitingInput, StateValidated, StateModelInvoked, StateEstimated}, res.Trace)
	assert.Equal(t, "Estimated Insurance Cost: ₹12,345.68", res.Message)
	assert.True(t, res.Estimate.Available)
	region, err := features.EncodeRegion("northeast")
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{40, 0, 27.3, 2, 0, float64(region)}}, model.seen)
	assert.Equal(t, "northeast", res.Region)
}

func TestInsuranceEstimatorRegionNormalized(t *testing.T) {
	loader := new(MockLoader)
	loader.On("Load", mock.Anything, "insurance").Return(nil, apperr.ArtifactNotFound("insurance", nil))
	in := validInsurance()
	in.Region = " northwest "

	res := NewInsuranceEstimator(loader, "insurance", nil).Estimate(context.Background(), in)

	assert.Equal(t, StateUnavailable, res.State)
	assert.Equal(t, "northwest", res.Region)
}

func TestInsuranceEstimatorRejected(t *testing.T) {
	loader := new(MockLoader)
	in := validInsurance()
	in.Region = "central"
	in.Age = 10

	res := NewInsuranceEstimator(loader, "insurance", nil).Estimate(context.Background(), in)

	assert.Equal(t, StateRejected, res.State)
	assert.Contains(t, res.Details, "region")
	assert.Contains(t, res.Details, "age")
	assert.False(t, res.Estimate.Available)
	assert.Empty(t, res.Region)
	loader.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
}

func TestInsuranceEstimatorUnavailable(t *testing.T) {
	loader := new(MockLoader)
	loader.On("Load", mock.Anything, "insurance").Return(nil, apperr.ArtifactNotFound("insurance", nil))

	res := NewInsuranceEstimator(loader, "insurance", nil).Estimate(context.Background(), validInsurance())

	assert.Equal(t, StateUnavailable, res.State)
	assert.Equal(t, "Model file 'insurance' not found.", res.Message)
	assert.False(t, res.Estimate.Available)
}

func TestInsuranceEstimateFormat(t *testing.T) {
	cases := map[string]string{
		"0":          "₹0.00",
		"999.999":    "₹1,000.00",
		"12345.678":  "₹12,345.68",
		"1234567.1":  "₹1,234,567.10",
		"-2500.5":    "₹-2,500.50",
		"100":        "₹100.00",
		"-100000.25": "₹-100,000.25",
	}
	for in, want := range cases {
		est := InsuranceEstimate{Amount: decimal.RequireFromString(in).Round(2), Available: true}
		assert.Equal(t, want, est.Format(DefaultCurrency), "amount %s", in)
	}
	assert.Equal(t, "$1,000.00", NewInsuranceEstimate(1000, "").Format("$"))
	assert.Equal(t, "Not Available", InsuranceEstimate{}.Format("$"))
}

func TestInsuranceEstimateJSON(t *testing.T) {
	data, err := json.Marshal(NewInsuranceEstimate(4321.5, "Heart"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"available":true,"amount":"4321.50","display":"₹4,321.50","condition":"Heart"}`, string(data))

	var back InsuranceEstimate
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Available)
	assert.True(t, back.Amount.Equal(decimal.RequireFromString("4321.5")))

	data, err = json.Marshal(UnavailableEstimate("", "missing"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"available":false,"display":"Not Available","warning":"missing"}`, string(data))

	assert.Error(t, json.Unmarshal([]byte(`{"amount":"abc"}`), &back))
}

func TestInsuranceAdvisorNonFinitePrediction(t *testing.T) {
	loader := new(MockLoader)
	loader.On("Load", mock.Anything, "insurance").Return(insuranceModel(math.Inf(1)), nil)

	var est InsuranceEstimate
	assert.NotPanics(t, func() {
		est = NewInsuranceAdvisor(loader, "insurance", nil).Estimate(context.Background(), 1e308, 45, "Diabetes")
	})
	assert.False(t, est.Available)
	assert.Equal(t, "Diabetes", est.Condition)
	assert.Equal(t, "Model file 'insurance' could not be used.", est.Warning)
}

func TestInsuranceEstimatorNonFinitePrediction(t *testing.T) {
	for _, value := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		loader := new(MockLoader)
		loader.On("Load", mock.Anything, "insurance").Return(insuranceModel(value), nil)

		res := NewInsuranceEstimator(loader, "insurance", nil).Estimate(context.Background(), validInsurance())

		assert.Equal(t, StateUnavailable, res.State, "value %v", value)
		assert.False(t, res.Estimate.Available)
		assert.Equal(t, "Model file 'insurance' could not be used.", res.Message)
	}
}

func TestNewInsuranceEstimateNonFinite(t *testing.T) {
	assert.NotPanics(t, func() {
		est := NewInsuranceEstimate(math.Inf(1), "Heart")
		assert.False(t, est.Available)
		assert.Equal(t, "Heart", est.Condition)
	})
}

func TestDiabetesHugeBMIWithShippedModels(t *testing.T) {
	store, err := predictor.NewStore(filepath.Join("..", "..", "models"), nil)
	require.NoError(t, err)
	advisor := NewInsuranceAdvisor(store, "insurance_model", nil)
	a := NewDiabetesAssessor(store, "diabetes_model", advisor, nil)

	in := validDiabetes()
	in.BMI = 1e308

	var res Assessment
	require.NotPanics(t, func() { res = a.Assess(context.Background(), in) })
	assert.Equal(t, HighRisk, res.Outcome)
	require.NotNil(t, res.Insurance)
	assert.False(t, res.Insurance.Available)
	assert.NotEmpty(t, res.Insurance.Warning)
}
