package profile

import (
	"math"
	"strings"

	"health-risk-predictor/internal/apperr"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

type BMIStatus string

const (
	BMIUnknown     BMIStatus = "Not calculated"
	BMIUnderweight BMIStatus = "Underweight"
	BMINormal      BMIStatus = "Normal weight"
	BMIOverweight  BMIStatus = "Overweight"
	BMIObese       BMIStatus = "Obese"
)

// Input is the raw sidebar form.
type Input struct {
	Name     string  `json:"name"`
	Age      int     `json:"age"`
	Gender   string  `json:"gender"`
	HeightCM float64 `json:"height_cm"`
	WeightKG float64 `json:"weight_kg"`
}

// UserProfile is computed once per session and never mutated.
type UserProfile struct {
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Gender    Gender    `json:"gender"`
	HeightCM  float64   `json:"height_cm"`
	WeightKG  float64   `json:"weight_kg"`
	BMI       float64   `json:"bmi"`
	BMIStatus BMIStatus `json:"bmi_status"`
}

func New(in Input) (UserProfile, error) {
	var fe apperr.FieldErrors
	if in.Age < 1 || in.Age > 120 {
		fe.Add("age", "must be between 1 and 120")
	}
	gender, err := ParseGender(in.Gender)
	if err != nil {
		fe.Add("gender", "must be one of Male, Female, Other")
	}
	if !(in.HeightCM > 0) {
		fe.Add("height_cm", "must be positive")
	}
	if !(in.WeightKG > 0) {
		fe.Add("weight_kg", "must be positive")
	}
	if err := fe.Err("invalid user profile"); err != nil {
		return UserProfile{}, err
	}

	bmi := ComputeBMI(in.HeightCM, in.WeightKG)
	return UserProfile{
		Name:      strings.TrimSpace(in.Name),
		Age:       in.Age,
		Gender:    gender,
		HeightCM:  in.HeightCM,
		WeightKG:  in.WeightKG,
		BMI:       bmi,
		BMIStatus: ClassifyBMI(bmi),
	}, nil
}

func ParseGender(s string) (Gender, error) {
	switch Gender(strings.TrimSpace(s)) {
	case GenderMale:
		return GenderMale, nil
	case GenderFemale:
		return GenderFemale, nil
	case GenderOther:
		return GenderOther, nil
	}
	return "", apperr.Validation("unknown gender", map[string]string{"gender": s})
}

// ComputeBMI returns weight(kg) / height(m)^2, or 0 when height is not positive.
func ComputeBMI(heightCM, weightKG float64) float64 {
	if heightCM <= 0 {
		return 0
	}
	m := heightCM / 100
	return weightKG / (m * m)
}

// ClassifyBMI bands: [0,18.5) underweight, [18.5,24.9) normal,
// [24.9,30) overweight, [30,inf) obese.
func ClassifyBMI(bmi float64) BMIStatus {
	switch {
	case math.IsNaN(bmi) || bmi <= 0:
		return BMIUnknown
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 24.9:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}

// DisplayName falls back to "User" for anonymous sessions.
func (p UserProfile) DisplayName() string {
	if p.Name == "" {
		return "User"
	}
	return p.Name
}
