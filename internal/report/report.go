package report

import (
	"strings"
	"time"
	"unicode"

	"health-risk-predictor/internal/assessment"
	"health-risk-predictor/internal/profile"
)

const timestampLayout = "2006-01-02 15:04:05"

// HealthReport is the write-once aggregate a document is rendered from.
type HealthReport struct {
	Profile     profile.UserProfile
	Diabetes    assessment.RiskOutcome
	Heart       assessment.RiskOutcome
	Insurance   assessment.InsuranceEstimate
	GeneratedAt time.Time
}

func New(p profile.UserProfile, outcomes assessment.Outcomes, at time.Time) HealthReport {
	return HealthReport{
		Profile:     p,
		Diabetes:    outcomes.Diabetes,
		Heart:       outcomes.Heart,
		Insurance:   outcomes.Insurance,
		GeneratedAt: at,
	}
}

// Treatment selects the visual block style for an outcome.
type Treatment string

const (
	TreatmentAlert   Treatment = "highlight"
	TreatmentSuccess Treatment = "success"
	TreatmentNeutral Treatment = "neutral"
)

func TreatmentFor(o assessment.RiskOutcome) Treatment {
	switch o {
	case assessment.HighRisk:
		return TreatmentAlert
	case assessment.LowRisk:
		return TreatmentSuccess
	case assessment.NotAvailable:
		return TreatmentNeutral
	}
	return TreatmentNeutral
}

type DietItem struct {
	Icon string
	Text string
}

// DietPlan is a fixed recommendation block.
type DietPlan []DietItem

func (d DietPlan) Lines() []string {
	out := make([]string, len(d))
	for i, item := range d {
		out[i] = item.Text
	}
	return out
}

var notAvailablePlan = DietPlan{
	{Icon: "⚠️", Text: "No prediction available. Please complete the input fields and try again."},
}

var dietPlans = map[assessment.Domain]map[assessment.RiskOutcome]DietPlan{
	assessment.DomainDiabetes: {
		assessment.HighRisk: {
			{Icon: "🥗", Text: "Eat more whole grains, legumes, green vegetables"},
			{Icon: "🚫", Text: "Avoid sugary snacks, white bread, soda"},
			{Icon: "💧", Text: "Stay hydrated and avoid fruit juices"},
			{Icon: "🕒", Text: "Eat on time and maintain portion control"},
		},
		assessment.LowRisk: {
			{Icon: "🥦", Text: "Continue eating balanced meals"},
			{Icon: "🍎", Text: "Include fruits, vegetables, and lean proteins"},
			{Icon: "💧", Text: "Drink plenty of water"},
			{Icon: "🏃", Text: "Stay physically active"},
		},
	},
	assessment.DomainHeart: {
		assessment.HighRisk: {
			{Icon: "🥬", Text: "Follow a DASH or Mediterranean diet"},
			{Icon: "❌", Text: "Avoid salty, fried, and processed foods"},
			{Icon: "🐟", Text: "Include omega-3-rich fish (like salmon)"},
			{Icon: "🚶", Text: "Walk at least 30 minutes daily"},
		},
		assessment.LowRisk: {
			{Icon: "🥗", Text: "Maintain a heart-healthy diet"},
			{Icon: "🍌", Text: "Eat potassium-rich foods (bananas, avocados)"},
			{Icon: "🧂", Text: "Limit excessive salt and fat"},
			{Icon: "🧘", Text: "Practice stress management"},
		},
	},
}

// DietPlanFor looks up the plan for a domain and outcome. NotAvailable
// shares one message across domains.
func DietPlanFor(domain assessment.Domain, o assessment.RiskOutcome) DietPlan {
	switch o {
	case assessment.HighRisk, assessment.LowRisk:
		if plan, ok := dietPlans[domain][o]; ok {
			return plan
		}
	case assessment.NotAvailable:
	}
	return notAvailablePlan
}

// Filename builds "health_report_<id>.<ext>" from a user supplied name.
func Filename(name, ext string) string {
	return "health_report_" + SanitizeIdentifier(name) + "." + ext
}

// SanitizeIdentifier lower-cases the name, turns spaces into underscores and
// drops everything outside [a-z0-9_-]. An empty result becomes "user".
func SanitizeIdentifier(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r == '_' || r == '-':
			b.WriteRune(r)
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
