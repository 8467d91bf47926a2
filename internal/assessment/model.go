package assessment

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"health-risk-predictor/internal/features"
	"health-risk-predictor/internal/profile"
)

type Domain string

const (
	DomainDiabetes  Domain = "diabetes"
	DomainHeart     Domain = "heart"
	DomainInsurance Domain = "insurance"
)

// RiskOutcome is the tri-state result of a risk prediction. The zero value
// is NotAvailable, which holds until a prediction completes.
type RiskOutcome int

const (
	NotAvailable RiskOutcome = iota
	LowRisk
	HighRisk
)

func (o RiskOutcome) String() string {
	switch o {
	case HighRisk:
		return "High Risk"
	case LowRisk:
		return "Low Risk"
	default:
		return "Not Available"
	}
}

func ParseRiskOutcome(s string) (RiskOutcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high risk", "high_risk", "high":
		return HighRisk, nil
	case "low risk", "low_risk", "low":
		return LowRisk, nil
	case "", "not available", "not_available", "n/a":
		return NotAvailable, nil
	}
	return NotAvailable, fmt.Errorf("unknown risk outcome %q", s)
}

func (o RiskOutcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *RiskOutcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRiskOutcome(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// State is a node of the assessment state machine.
type State string

const (
	StateAwaitingInput State = "awaiting_input"
	StateValidated     State = "validated"
	StateModelInvoked  State = "model_invoked"
	StateHighRisk      State = "high_risk"
	StateLowRisk       State = "low_risk"
	StateEstimated     State = "estimated"
	StateRejected      State = "rejected"
	StateUnavailable   State = "unavailable"
)

// Terminal reports whether no further transition may follow s.
func (s State) Terminal() bool {
	switch s {
	case StateHighRisk, StateLowRisk, StateEstimated, StateRejected, StateUnavailable:
		return true
	}
	return false
}

// DefaultCurrency prefixes formatted insurance amounts.
const DefaultCurrency = "₹"

// InsuranceEstimate is a currency amount at two decimal places, or
// NotAvailable when Available is false.
type InsuranceEstimate struct {
	Amount    decimal.Decimal
	Available bool
	Condition string
	Warning   string
}

// NewInsuranceEstimate rounds value to two decimals. NaN and ±Inf have no
// amount and yield an unavailable estimate.
func NewInsuranceEstimate(value float64, condition string) InsuranceEstimate {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return UnavailableEstimate(condition, "")
	}
	return InsuranceEstimate{
		Amount:    decimal.NewFromFloat(value).Round(2),
		Available: true,
		Condition: condition,
	}
}

func UnavailableEstimate(condition, warning string) InsuranceEstimate {
	return InsuranceEstimate{Condition: condition, Warning: warning}
}

// Format renders the amount as "<symbol>12,345.67" or "Not Available".
func (e InsuranceEstimate) Format(symbol string) string {
	if !e.Available {
		return NotAvailable.String()
	}
	return symbol + groupThousands(e.Amount.StringFixed(2))
}

func (e InsuranceEstimate) String() string {
	return e.Format(DefaultCurrency)
}

type estimateJSON struct {
	Available bool    `json:"available"`
	Amount    *string `json:"amount,omitempty"`
	Display   string  `json:"display"`
	Condition string  `json:"condition,omitempty"`
	Warning   string  `json:"warning,omitempty"`
}

func (e InsuranceEstimate) MarshalJSON() ([]byte, error) {
	out := estimateJSON{
		Available: e.Available,
		Display:   e.String(),
		Condition: e.Condition,
		Warning:   e.Warning,
	}
	if e.Available {
		amount := e.Amount.StringFixed(2)
		out.Amount = &amount
	}
	return json.Marshal(out)
}

func (e *InsuranceEstimate) UnmarshalJSON(data []byte) error {
	var in estimateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*e = InsuranceEstimate{Condition: in.Condition, Warning: in.Warning}
	if in.Amount == nil {
		return nil
	}
	amount, err := decimal.NewFromString(*in.Amount)
	if err != nil {
		return fmt.Errorf("invalid insurance amount: %w", err)
	}
	e.Amount = amount.Round(2)
	e.Available = true
	return nil
}

func groupThousands(fixed string) string {
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac := fixed, ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, frac = fixed[:i], fixed[i:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}

// Assessment is the outcome of one diabetes or heart traversal.
type Assessment struct {
	Domain    Domain             `json:"domain"`
	State     State              `json:"state"`
	Outcome   RiskOutcome        `json:"outcome"`
	Message   string             `json:"message"`
	Details   map[string]string  `json:"details,omitempty"`
	Trace     []State            `json:"trace"`
	Insurance *InsuranceEstimate `json:"insurance,omitempty"`
	Tip       string             `json:"tip,omitempty"`
}

func newAssessment(domain Domain) Assessment {
	return Assessment{
		Domain: domain,
		State:  StateAwaitingInput,
		Trace:  []State{StateAwaitingInput},
	}
}

// advance moves to s and records it. A terminal state is final.
func (a *Assessment) advance(s State) {
	if a.State.Terminal() {
		return
	}
	a.State = s
	a.Trace = append(a.Trace, s)
}

// InsuranceAssessment is the outcome of a direct insurance estimate.
type InsuranceAssessment struct {
	Domain   Domain            `json:"domain"`
	State    State             `json:"state"`
	Estimate InsuranceEstimate `json:"estimate"`
	Region   string            `json:"region,omitempty"`
	Message  string            `json:"message"`
	Details  map[string]string `json:"details,omitempty"`
	Trace    []State           `json:"trace"`
}

func (a *InsuranceAssessment) advance(s State) {
	if a.State.Terminal() {
		return
	}
	a.State = s
	a.Trace = append(a.Trace, s)
}

// SessionRequest carries the sidebar profile and whichever tabs were submitted.
type SessionRequest struct {
	Profile   profile.Input            `json:"profile"`
	Diabetes  *features.DiabetesInput  `json:"diabetes,omitempty"`
	Heart     *features.HeartInput     `json:"heart,omitempty"`
	Insurance *features.InsuranceInput `json:"insurance,omitempty"`
}

type SessionResult struct {
	Profile   profile.UserProfile  `json:"profile"`
	Diabetes  *Assessment          `json:"diabetes,omitempty"`
	Heart     *Assessment          `json:"heart,omitempty"`
	Insurance *InsuranceAssessment `json:"insurance,omitempty"`
}

// Outcomes is the per-session state a health report is folded from.
type Outcomes struct {
	Diabetes  RiskOutcome       `json:"diabetes"`
	Heart     RiskOutcome       `json:"heart"`
	Insurance InsuranceEstimate `json:"insurance"`
}

// Outcomes folds the session result; flows that were not run degrade to
// NotAvailable.
func (r SessionResult) Outcomes() Outcomes {
	var out Outcomes
	if r.Diabetes != nil {
		out.Diabetes = r.Diabetes.Outcome
	}
	if r.Heart != nil {
		out.Heart = r.Heart.Outcome
	}
	if r.Insurance != nil {
		out.Insurance = r.Insurance.Estimate
	}
	return out
}

// ReportRequest exports a report from outcomes gathered by earlier,
// separately triggered assessments.
type ReportRequest struct {
	Profile profile.Input `json:"profile"`
	Outcomes
}

type ExportFormat string

const (
	FormatHTML ExportFormat = "html"
	FormatPDF  ExportFormat = "pdf"
	FormatXLSX ExportFormat = "xlsx"
)

func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatHTML:
		return FormatHTML, nil
	case FormatPDF:
		return FormatPDF, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported report format %q", s)
}

// ReportFile is an exported health report ready for download.
type ReportFile struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"-"`
}
