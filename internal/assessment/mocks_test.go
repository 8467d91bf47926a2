package assessment

import (
	"context"

	"github.com/stretchr/testify/mock"

	"health-risk-predictor/internal/predictor"
	"health-risk-predictor/internal/profile"
)

type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) Load(ctx context.Context, name string) (predictor.Model, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(predictor.Model), args.Error(1)
}

type MockAdvisor struct {
	mock.Mock
}

func (m *MockAdvisor) Estimate(ctx context.Context, bmi float64, age int, condition string) InsuranceEstimate {
	args := m.Called(ctx, bmi, age, condition)
	return args.Get(0).(InsuranceEstimate)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Export(ctx context.Context, format ExportFormat, p profile.UserProfile, outcomes Outcomes) (*ReportFile, error) {
	args := m.Called(ctx, format, p, outcomes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ReportFile), args.Error(1)
}

// stubModel returns a fixed value and remembers the last vector it saw.
type stubModel struct {
	name     string
	features []string
	value    float64
	err      error
	seen     [][]float64
}

func (s *stubModel) Name() string       { return s.name }
func (s *stubModel) Features() []string { return s.features }

func (s *stubModel) Predict(vector []float64) (float64, error) {
	s.seen = append(s.seen, append([]float64(nil), vector...))
	return s.value, s.err
}
