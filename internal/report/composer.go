package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"health-risk-predictor/internal/assessment"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html.tmpl"))

// Document is a rendered, self-contained export.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Composer renders a HealthReport into a standalone HTML page. It holds no
// state besides the currency symbol and never changes its input.
type Composer struct {
	currency string
}

func NewComposer(currency string) *Composer {
	if currency == "" {
		currency = assessment.DefaultCurrency
	}
	return &Composer{currency: currency}
}

type riskView struct {
	Icon    string
	Title   string
	Class   Treatment
	Outcome string
}

type dietView struct {
	Icon  string
	Title string
	Items DietPlan
}

type pageView struct {
	Date      string
	Name      string
	Age       int
	Gender    string
	BMI       string
	BMIStatus string
	Risks     []riskView
	Insurance string
	Diets     []dietView
}

func (c *Composer) view(r HealthReport) pageView {
	return pageView{
		Date:      r.GeneratedAt.Format(timestampLayout),
		Name:      r.Profile.DisplayName(),
		Age:       r.Profile.Age,
		Gender:    string(r.Profile.Gender),
		BMI:       fmt.Sprintf("%.2f", r.Profile.BMI),
		BMIStatus: string(r.Profile.BMIStatus),
		Risks: []riskView{
			{Icon: "🩺", Title: "Diabetes Risk", Class: TreatmentFor(r.Diabetes), Outcome: r.Diabetes.String()},
			{Icon: "❤️", Title: "Heart Disease Risk", Class: TreatmentFor(r.Heart), Outcome: r.Heart.String()},
		},
		Insurance: r.Insurance.Format(c.currency),
		Diets: []dietView{
			{Icon: "🥦", Title: "Diet Plan for Diabetes", Items: DietPlanFor(assessment.DomainDiabetes, r.Diabetes)},
			{Icon: "🍎", Title: "Diet Plan for Heart Health", Items: DietPlanFor(assessment.DomainHeart, r.Heart)},
		},
	}
}

// Compose renders the report. Output depends only on the report value, so
// two calls differing only in GeneratedAt differ only in the date line.
func (c *Composer) Compose(r HealthReport) (Document, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, c.view(r)); err != nil {
		return Document{}, fmt.Errorf("render html report: %w", err)
	}
	return Document{
		Filename:    Filename(r.Profile.Name, "html"),
		ContentType: "text/html; charset=utf-8",
		Body:        buf.Bytes(),
	}, nil
}
