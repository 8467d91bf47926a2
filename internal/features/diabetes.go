package features

import "health-risk-predictor/internal/apperr"

var diabetesFeatureNames = []string{
	"pregnancies", "glucose", "blood_pressure", "insulin",
	"bmi", "age", "pedigree", "gender_encoded",
}

// DiabetesInput is the diabetes tab form.
type DiabetesInput struct {
	Pregnancies   int     `json:"pregnancies"`
	Glucose       float64 `json:"glucose"`
	BloodPressure float64 `json:"blood_pressure"`
	Insulin       float64 `json:"insulin"`
	BMI           float64 `json:"bmi"`
	Age           int     `json:"age"`
	Pedigree      float64 `json:"pedigree"`
	Gender        string  `json:"gender"`
}

func (DiabetesInput) FeatureNames() []string {
	return append([]string(nil), diabetesFeatureNames...)
}

// Validate checks ranges and the positive glucose, blood pressure and BMI
// required before a prediction may run.
func (in DiabetesInput) Validate() error {
	var fe apperr.FieldErrors
	if in.Pregnancies < 0 {
		fe.Add("pregnancies", "must not be negative")
	}
	if !(in.Glucose > 0) {
		fe.Add("glucose", "must be positive")
	}
	if !(in.BloodPressure > 0) {
		fe.Add("blood_pressure", "must be positive")
	}
	if !(in.Insulin >= 0) {
		fe.Add("insulin", "must not be negative")
	}
	if !(in.BMI > 0) {
		fe.Add("bmi", "must be positive")
	}
	if in.Age < 20 || in.Age > 80 {
		fe.Add("age", "must be between 20 and 80")
	}
	if !inRange(in.Pedigree, 0, 2.5) {
		fe.Add("pedigree", "must be between 0.0 and 2.5")
	}
	if _, err := EncodeSex(in.Gender); err != nil {
		fe.Add("gender", "must be Male or Female")
	}
	message := "Please enter diabetes values within the allowed ranges."
	for _, field := range fe.Fields() {
		if field == "glucose" || field == "blood_pressure" || field == "bmi" {
			message = "Please enter valid positive values for Glucose, BP, and BMI."
			break
		}
	}
	return fe.Err(message)
}

// Vector validates and encodes the input in artifact order.
func (in DiabetesInput) Vector() ([]float64, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	gender, _ := EncodeSex(in.Gender)
	return []float64{
		float64(in.Pregnancies),
		in.Glucose,
		in.BloodPressure,
		in.Insulin,
		in.BMI,
		float64(in.Age),
		in.Pedigree,
		float64(gender),
	}, nil
}
