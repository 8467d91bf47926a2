package features

import "health-risk-predictor/internal/apperr"

var insuranceFeatureNames = []string{"age", "sex", "bmi", "children", "smoker", "region"}

// InsuranceInput is the insurance tab form with UI-level strings.
type InsuranceInput struct {
	Age      int     `json:"age"`
	Sex      string  `json:"sex"`
	BMI      float64 `json:"bmi"`
	Children int     `json:"children"`
	Smoker   string  `json:"smoker"`
	Region   string  `json:"region"`
}

// InsuranceRecord is the numeric record the insurance artifact consumes.
type InsuranceRecord struct {
	Age      float64 `json:"age"`
	Sex      int     `json:"sex"`
	BMI      float64 `json:"bmi"`
	Children int     `json:"children"`
	Smoker   int     `json:"smoker"`
	Region   int     `json:"region"`
}

func InsuranceFeatureNames() []string {
	return append([]string(nil), insuranceFeatureNames...)
}

func (InsuranceInput) FeatureNames() []string {
	return InsuranceFeatureNames()
}

func (in InsuranceInput) Validate() error {
	_, err := in.Record()
	return err
}

// Record validates the form and maps its categorical fields to codes.
func (in InsuranceInput) Record() (InsuranceRecord, error) {
	var fe apperr.FieldErrors
	if in.Age < 18 || in.Age > 100 {
		fe.Add("age", "must be between 18 and 100")
	}
	sex, err := EncodeSex(in.Sex)
	if err != nil {
		fe.Add("sex", "must be Male or Female")
	}
	if !inRange(in.BMI, 10, 50) {
		fe.Add("bmi", "must be between 10.0 and 50.0")
	}
	if in.Children < 0 || in.Children > 10 {
		fe.Add("children", "must be between 0 and 10")
	}
	smoker, err := EncodeSmoker(in.Smoker)
	if err != nil {
		fe.Add("smoker", "must be Yes or No")
	}
	region, err := EncodeRegion(in.Region)
	if err != nil {
		fe.Add("region", "must be one of southeast, southwest, northeast, northwest")
	}
	if err := fe.Err("Please enter insurance details within the allowed ranges."); err != nil {
		return InsuranceRecord{}, err
	}
	return InsuranceRecord{
		Age:      float64(in.Age),
		Sex:      sex,
		BMI:      in.BMI,
		Children: in.Children,
		Smoker:   smoker,
		Region:   region,
	}, nil
}

func (in InsuranceInput) Vector() ([]float64, error) {
	rec, err := in.Record()
	if err != nil {
		return nil, err
	}
	return rec.Vector(), nil
}

// Vector returns the record in artifact column order.
func (r InsuranceRecord) Vector() []float64 {
	return []float64{
		r.Age,
		float64(r.Sex),
		r.BMI,
		float64(r.Children),
		float64(r.Smoker),
		float64(r.Region),
	}
}
