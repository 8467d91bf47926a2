package assessment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"health-risk-predictor/internal/features"
	"health-risk-predictor/internal/profile"
)

// ReportService renders a finished session into a downloadable document.
type ReportService interface {
	Export(ctx context.Context, format ExportFormat, p profile.UserProfile, outcomes Outcomes) (*ReportFile, error)
}

type Service interface {
	BuildProfile(in profile.Input) (profile.UserProfile, error)
	AssessDiabetes(ctx context.Context, in features.DiabetesInput) Assessment
	AssessHeart(ctx context.Context, in features.HeartInput) Assessment
	EstimateInsurance(ctx context.Context, in features.InsuranceInput) InsuranceAssessment
	RunSession(ctx context.Context, req SessionRequest) (SessionResult, error)
	ExportSession(ctx context.Context, format ExportFormat, req SessionRequest) (*ReportFile, error)
	ExportReport(ctx context.Context, format ExportFormat, req ReportRequest) (*ReportFile, error)
}

type service struct {
	diabetes  *RiskAssessor[features.DiabetesInput]
	heart     *RiskAssessor[features.HeartInput]
	insurance *InsuranceEstimator
	reportSvc ReportService
	logger    *zap.Logger
}

func NewService(
	diabetes *RiskAssessor[features.DiabetesInput],
	heart *RiskAssessor[features.HeartInput],
	insurance *InsuranceEstimator,
	report ReportService,
	logger *zap.Logger,
) Service {
	return &service{
		diabetes:  diabetes,
		heart:     heart,
		insurance: insurance,
		reportSvc: report,
		logger:    orNop(logger),
	}
}

func (s *service) BuildProfile(in profile.Input) (profile.UserProfile, error) {
	return profile.New(in)
}

func (s *service) AssessDiabetes(ctx context.Context, in features.DiabetesInput) Assessment {
	return s.diabetes.Assess(ctx, in)
}

func (s *service) AssessHeart(ctx context.Context, in features.HeartInput) Assessment {
	return s.heart.Assess(ctx, in)
}

func (s *service) EstimateInsurance(ctx context.Context, in features.InsuranceInput) InsuranceAssessment {
	return s.insurance.Estimate(ctx, in)
}

// RunSession runs every submitted flow for one profile, one after another.
// Only an invalid profile fails the session; rejected or unavailable
// assessments are carried in the result.
func (s *service) RunSession(ctx context.Context, req SessionRequest) (SessionResult, error) {
	p, err := profile.New(req.Profile)
	if err != nil {
		return SessionResult{}, err
	}
	result := SessionResult{Profile: p}

	if req.Diabetes != nil {
		res := s.diabetes.Assess(ctx, *req.Diabetes)
		result.Diabetes = &res
	}
	if req.Heart != nil {
		res := s.heart.Assess(ctx, *req.Heart)
		result.Heart = &res
	}
	if req.Insurance != nil {
		res := s.insurance.Estimate(ctx, *req.Insurance)
		result.Insurance = &res
	}

	outcomes := result.Outcomes()
	s.logger.Info("session completed",
		zap.String("bmi_status", string(p.BMIStatus)),
		zap.String("diabetes", outcomes.Diabetes.String()),
		zap.String("heart", outcomes.Heart.String()),
		zap.Bool("insurance_available", outcomes.Insurance.Available),
	)
	return result, nil
}

func (s *service) ExportSession(ctx context.Context, format ExportFormat, req SessionRequest) (*ReportFile, error) {
	result, err := s.RunSession(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.export(ctx, format, result.Profile, result.Outcomes())
}

func (s *service) ExportReport(ctx context.Context, format ExportFormat, req ReportRequest) (*ReportFile, error) {
	p, err := profile.New(req.Profile)
	if err != nil {
		return nil, err
	}
	return s.export(ctx, format, p, req.Outcomes)
}

func (s *service) export(ctx context.Context, format ExportFormat, p profile.UserProfile, outcomes Outcomes) (*ReportFile, error) {
	if s.reportSvc == nil {
		return nil, fmt.Errorf("report service not configured")
	}
	file, err := s.reportSvc.Export(ctx, format, p, outcomes)
	if err != nil {
		return nil, fmt.Errorf("export %s report: %w", format, err)
	}
	return file, nil
}
