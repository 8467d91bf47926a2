package assessment

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"health-risk-predictor/internal/apperr"
	"health-risk-predictor/internal/features"
	"health-risk-predictor/internal/platform/metrics"
	"health-risk-predictor/internal/predictor"
)

const InsuranceTip = "Tip: Maintain a healthy BMI and avoid smoking to reduce insurance costs."

// Placeholder demographics for the chained estimate. The high-risk flows
// collect no sex, children, smoker or region values, so these constants
// stand in for them.
var advisorDefaults = features.InsuranceRecord{
	Sex:      1,
	Children: 1,
	Smoker:   1,
	Region:   features.RegionSouthwest,
}

// InsuranceAdvisor is the secondary estimate triggered by a HighRisk outcome.
type InsuranceAdvisor struct {
	loader   predictor.Loader
	artifact string
	logger   *zap.Logger
}

func NewInsuranceAdvisor(loader predictor.Loader, artifact string, logger *zap.Logger) *InsuranceAdvisor {
	return &InsuranceAdvisor{loader: loader, artifact: artifact, logger: orNop(logger)}
}

// Estimate always attempts the insurance model. A missing artifact yields
// a NotAvailable estimate carrying the warning; it never fails the caller.
// Inputs are not range checked: the heart flow's BMI proxy may fall outside
// the insurance form's limits.
func (a *InsuranceAdvisor) Estimate(ctx context.Context, bmi float64, age int, condition string) InsuranceEstimate {
	rec := advisorDefaults
	rec.Age = float64(age)
	rec.BMI = bmi

	value, err := invoke(ctx, a.loader, a.artifact, features.InsuranceFeatureNames(), rec.Vector())
	if err != nil {
		a.logger.Warn("insurance estimate unavailable", zap.String("condition", condition), zap.Error(err))
		metrics.RecordInsuranceEstimate(condition, false)
		return UnavailableEstimate(condition, userMessage(err))
	}
	metrics.RecordInsuranceEstimate(condition, true)
	return NewInsuranceEstimate(value, condition)
}

// InsuranceEstimator runs the direct insurance cost flow from the full form.
type InsuranceEstimator struct {
	loader   predictor.Loader
	artifact string
	logger   *zap.Logger
}

func NewInsuranceEstimator(loader predictor.Loader, artifact string, logger *zap.Logger) *InsuranceEstimator {
	return &InsuranceEstimator{loader: loader, artifact: artifact, logger: orNop(logger)}
}

func (e *InsuranceEstimator) Estimate(ctx context.Context, in features.InsuranceInput) InsuranceAssessment {
	res := InsuranceAssessment{
		Domain: DomainInsurance,
		State:  StateAwaitingInput,
		Trace:  []State{StateAwaitingInput},
	}
	defer func() { metrics.RecordAssessment(string(DomainInsurance), string(res.State)) }()

	rec, err := in.Record()
	if err != nil {
		res.advance(StateRejected)
		res.Message = userMessage(err)
		var appErr *apperr.AppError
		if errors.As(err, &appErr) {
			res.Details = appErr.Details
		}
		return res
	}
	res.advance(StateValidated)
	res.Region, _ = features.DecodeRegion(rec.Region)

	value, err := invoke(ctx, e.loader, e.artifact, in.FeatureNames(), rec.Vector())
	if err != nil {
		res.advance(StateUnavailable)
		res.Message = userMessage(err)
		res.Estimate = UnavailableEstimate("", res.Message)
		e.logger.Warn("insurance estimate unavailable", zap.Error(err))
		return res
	}
	res.advance(StateModelInvoked)
	res.advance(StateEstimated)
	res.Estimate = NewInsuranceEstimate(value, "")
	res.Message = "Estimated Insurance Cost: " + res.Estimate.String()
	metrics.RecordInsuranceEstimate("direct", true)
	return res
}
