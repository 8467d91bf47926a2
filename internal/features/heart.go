package features

import "health-risk-predictor/internal/apperr"

var heartFeatureNames = []string{
	"age", "sex", "chest_pain_type", "resting_bp",
	"cholesterol", "max_heart_rate", "exercise_angina", "oldpeak",
}

// HeartInput is the heart tab form. Sex, chest pain and angina arrive
// already encoded from their select boxes.
type HeartInput struct {
	Age            int     `json:"age"`
	Sex            int     `json:"sex"`
	ChestPainType  int     `json:"chest_pain_type"`
	RestingBP      float64 `json:"resting_bp"`
	Cholesterol    float64 `json:"cholesterol"`
	MaxHeartRate   float64 `json:"max_heart_rate"`
	ExerciseAngina int     `json:"exercise_angina"`
	Oldpeak        float64 `json:"oldpeak"`
}

func (HeartInput) FeatureNames() []string {
	return append([]string(nil), heartFeatureNames...)
}

func (in HeartInput) Validate() error {
	var fe apperr.FieldErrors
	if in.Age < 1 || in.Age > 100 {
		fe.Add("age", "must be between 1 and 100")
	}
	if !boolFlag(in.Sex) {
		fe.Add("sex", "must be 0 or 1")
	}
	if in.ChestPainType < 0 || in.ChestPainType > 3 {
		fe.Add("chest_pain_type", "must be between 0 and 3")
	}
	if !inRange(in.RestingBP, 80, 200) {
		fe.Add("resting_bp", "must be between 80 and 200")
	}
	if !inRange(in.Cholesterol, 100, 600) {
		fe.Add("cholesterol", "must be between 100 and 600")
	}
	if !inRange(in.MaxHeartRate, 60, 220) {
		fe.Add("max_heart_rate", "must be between 60 and 220")
	}
	if !boolFlag(in.ExerciseAngina) {
		fe.Add("exercise_angina", "must be 0 or 1")
	}
	if !inRange(in.Oldpeak, 0, 6) {
		fe.Add("oldpeak", "must be between 0.0 and 6.0")
	}
	return fe.Err("Please enter heart health values within the allowed ranges.")
}

func (in HeartInput) Vector() ([]float64, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return []float64{
		float64(in.Age),
		float64(in.Sex),
		float64(in.ChestPainType),
		in.RestingBP,
		in.Cholesterol,
		in.MaxHeartRate,
		float64(in.ExerciseAngina),
		in.Oldpeak,
	}, nil
}

// ProxyBMI is the BMI stand-in used when chaining to the insurance model.
func (in HeartInput) ProxyBMI() float64 {
	return in.Cholesterol / 25
}
