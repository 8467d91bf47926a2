package features

import (
	"strings"

	"health-risk-predictor/internal/apperr"
)

// Input is a validated form that encodes itself into a model feature vector.
type Input interface {
	FeatureNames() []string
	Validate() error
	Vector() ([]float64, error)
}

// Region codes used by the insurance artifact.
const (
	RegionSoutheast = 0
	RegionSouthwest = 1
	RegionNortheast = 2
	RegionNorthwest = 3
)

var regionCodes = map[string]int{
	"southeast": RegionSoutheast,
	"southwest": RegionSouthwest,
	"northeast": RegionNortheast,
	"northwest": RegionNorthwest,
}

// Regions lists the accepted region names in code order.
var Regions = []string{"southeast", "southwest", "northeast", "northwest"}

func EncodeSex(s string) (int, error) {
	switch strings.TrimSpace(s) {
	case "Male":
		return 1, nil
	case "Female":
		return 0, nil
	}
	return 0, apperr.Validation("unknown sex", map[string]string{"sex": s})
}

func EncodeSmoker(s string) (int, error) {
	switch strings.TrimSpace(s) {
	case "Yes":
		return 1, nil
	case "No":
		return 0, nil
	}
	return 0, apperr.Validation("unknown smoker value", map[string]string{"smoker": s})
}

func EncodeRegion(s string) (int, error) {
	code, ok := regionCodes[strings.TrimSpace(s)]
	if !ok {
		return 0, apperr.Validation("unknown region", map[string]string{"region": s})
	}
	return code, nil
}

func DecodeRegion(code int) (string, error) {
	if code < 0 || code >= len(Regions) {
		return "", apperr.Validation("unknown region code", nil)
	}
	return Regions[code], nil
}

func boolFlag(v int) bool {
	return v == 0 || v == 1
}

func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
