package assessment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"

	"health-risk-predictor/internal/apperr"
	"health-risk-predictor/internal/features"
	"health-risk-predictor/internal/platform/metrics"
	"health-risk-predictor/internal/predictor"
)

// Advisor estimates an insurance cost for a subject flagged as high risk.
type Advisor interface {
	Estimate(ctx context.Context, bmi float64, age int, condition string) InsuranceEstimate
}

type riskTexts struct {
	condition string
	high      string
	low       string
}

// RiskAssessor walks one prediction request through
// AwaitingInput -> Validated -> ModelInvoked -> HighRisk|LowRisk,
// ending early in Rejected or Unavailable.
type RiskAssessor[T features.Input] struct {
	domain   Domain
	artifact string
	loader   predictor.Loader
	advisor  Advisor
	texts    riskTexts
	// chain derives the insurance model inputs used on HighRisk.
	chain  func(T) (bmi float64, age int)
	logger *zap.Logger
}

func NewDiabetesAssessor(loader predictor.Loader, artifact string, advisor Advisor, logger *zap.Logger) *RiskAssessor[features.DiabetesInput] {
	return &RiskAssessor[features.DiabetesInput]{
		domain:   DomainDiabetes,
		artifact: artifact,
		loader:   loader,
		advisor:  advisor,
		texts: riskTexts{
			condition: "Diabetes",
			high:      "High Risk of Diabetes Detected",
			low:       "You are at Low Risk for Diabetes",
		},
		chain: func(in features.DiabetesInput) (float64, int) {
			return in.BMI, in.Age
		},
		logger: orNop(logger),
	}
}

func NewHeartAssessor(loader predictor.Loader, artifact string, advisor Advisor, logger *zap.Logger) *RiskAssessor[features.HeartInput] {
	return &RiskAssessor[features.HeartInput]{
		domain:   DomainHeart,
		artifact: artifact,
		loader:   loader,
		advisor:  advisor,
		texts: riskTexts{
			condition: "Heart",
			high:      "Risk of Heart Disease Detected",
			low:       "No Heart Disease Detected",
		},
		chain: func(in features.HeartInput) (float64, int) {
			return in.ProxyBMI(), in.Age
		},
		logger: orNop(logger),
	}
}

// Assess runs one full traversal. Every call is independent; nothing from a
// previous call is reused.
func (a *RiskAssessor[T]) Assess(ctx context.Context, in T) Assessment {
	res := newAssessment(a.domain)
	defer func() { metrics.RecordAssessment(string(a.domain), string(res.State)) }()

	vector, err := in.Vector()
	if err != nil {
		reject(&res, err)
		a.logger.Info("assessment rejected", zap.String("domain", string(a.domain)), zap.Any("details", res.Details))
		return res
	}
	res.advance(StateValidated)

	label, err := invoke(ctx, a.loader, a.artifact, in.FeatureNames(), vector)
	if err != nil {
		res.advance(StateUnavailable)
		res.Message = userMessage(err)
		a.logger.Warn("assessment unavailable", zap.String("domain", string(a.domain)), zap.Error(err))
		return res
	}
	res.advance(StateModelInvoked)

	if label == 1 {
		res.advance(StateHighRisk)
		res.Outcome = HighRisk
		res.Message = a.texts.high
		if a.advisor != nil {
			bmi, age := a.chain(in)
			estimate := a.advisor.Estimate(ctx, bmi, age, a.texts.condition)
			res.Insurance = &estimate
			res.Tip = InsuranceTip
		}
	} else {
		res.advance(StateLowRisk)
		res.Outcome = LowRisk
		res.Message = a.texts.low
	}
	a.logger.Info("assessment completed",
		zap.String("domain", string(a.domain)),
		zap.String("outcome", res.Outcome.String()),
	)
	return res
}

// invoke loads the artifact, checks its feature order and predicts. A
// non-finite prediction makes the artifact unusable for that input.
func invoke(ctx context.Context, loader predictor.Loader, artifact string, names []string, vector []float64) (float64, error) {
	model, err := loader.Load(ctx, artifact)
	if err != nil {
		return 0, err
	}
	if got := model.Features(); !slices.Equal(got, names) {
		return 0, apperr.ArtifactInvalid(artifact, fmt.Errorf("feature order %v does not match %v", got, names))
	}
	value, err := model.Predict(vector)
	if err != nil {
		return 0, apperr.ArtifactInvalid(artifact, err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, apperr.ArtifactInvalid(artifact, fmt.Errorf("prediction %v is not finite", value))
	}
	return value, nil
}

func reject(res *Assessment, err error) {
	res.advance(StateRejected)
	res.Message = userMessage(err)
	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		res.Details = appErr.Details
	}
}

func userMessage(err error) string {
	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
