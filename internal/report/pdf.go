package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/signintech/gopdf"
	"go.uber.org/zap"

	"health-risk-predictor/internal/assessment"
)

const pdfFont = "DejaVu"

// DefaultFontPaths are the usual DejaVuSans locations on Debian and Alpine images.
var DefaultFontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

type PDFRenderer struct {
	fontPaths []string
	currency  string
	logger    *zap.Logger
}

func NewPDFRenderer(fontPaths []string, currency string, logger *zap.Logger) *PDFRenderer {
	if len(fontPaths) == 0 {
		fontPaths = DefaultFontPaths
	}
	if currency == "" {
		currency = assessment.DefaultCurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFRenderer{fontPaths: fontPaths, currency: currency, logger: logger}
}

func (p *PDFRenderer) loadFont(pdf *gopdf.GoPdf) error {
	var fontErr error
	for _, path := range p.fontPaths {
		if err := pdf.AddTTFFont(pdfFont, path); err == nil {
			p.logger.Debug("pdf font loaded", zap.String("path", path))
			return nil
		} else {
			fontErr = err
		}
	}
	return fmt.Errorf("failed to load font for PDF, tried %s: %w", strings.Join(p.fontPaths, ", "), fontErr)
}

type rgb struct{ r, g, b uint8 }

var treatmentColors = map[Treatment]rgb{
	TreatmentAlert:   {0xFF, 0x4B, 0x4B},
	TreatmentSuccess: {0x2E, 0xCC, 0x71},
	TreatmentNeutral: {0x99, 0x99, 0x99},
}

// Render lays out the same sections as the HTML report on one A4 page.
func (p *PDFRenderer) Render(r HealthReport) (Document, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := p.loadFont(&pdf); err != nil {
		return Document{}, err
	}

	w := &pdfWriter{pdf: &pdf}
	w.font(20)
	w.line("Health Report", 30)

	w.font(12)
	w.line(fmt.Sprintf("Date: %s", r.GeneratedAt.Format(timestampLayout)), 15)
	w.line(fmt.Sprintf("Name: %s", r.Profile.DisplayName()), 15)
	w.line(fmt.Sprintf("Age: %d", r.Profile.Age), 15)
	w.line(fmt.Sprintf("Gender: %s", r.Profile.Gender), 15)
	w.line(fmt.Sprintf("BMI: %.2f (%s)", r.Profile.BMI, r.Profile.BMIStatus), 25)

	for _, risk := range []struct {
		title   string
		outcome assessment.RiskOutcome
	}{
		{"Diabetes Risk", r.Diabetes},
		{"Heart Disease Risk", r.Heart},
	} {
		w.font(14)
		w.line(risk.title, 18)
		c := treatmentColors[TreatmentFor(risk.outcome)]
		pdf.SetTextColor(c.r, c.g, c.b)
		w.font(12)
		w.line(risk.outcome.String(), 20)
		pdf.SetTextColor(0, 0, 0)
	}

	w.font(14)
	w.line("Insurance Estimate", 18)
	w.font(12)
	w.line("Estimated Cost: "+r.Insurance.Format(p.currency), 25)

	for _, diet := range []struct {
		title string
		plan  DietPlan
	}{
		{"Diet Plan for Diabetes", DietPlanFor(assessment.DomainDiabetes, r.Diabetes)},
		{"Diet Plan for Heart Health", DietPlanFor(assessment.DomainHeart, r.Heart)},
	} {
		w.font(14)
		w.line(diet.title, 18)
		w.font(11)
		for _, text := range diet.plan.Lines() {
			w.wrapped("- "+text, 500, 14)
		}
		pdf.Br(10)
	}

	if w.err != nil {
		return Document{}, w.err
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return Document{}, fmt.Errorf("failed to write PDF: %w", err)
	}
	return Document{
		Filename:    Filename(r.Profile.Name, "pdf"),
		ContentType: "application/pdf",
		Body:        buf.Bytes(),
	}, nil
}

// pdfWriter keeps the first error so the layout code reads top to bottom.
type pdfWriter struct {
	pdf *gopdf.GoPdf
	err error
}

func (w *pdfWriter) font(size float64) {
	if w.err != nil {
		return
	}
	w.err = w.pdf.SetFont(pdfFont, "", size)
}

func (w *pdfWriter) line(text string, br float64) {
	if w.err != nil {
		return
	}
	w.pdf.SetX(40)
	w.err = w.pdf.Cell(nil, text)
	w.pdf.Br(br)
}

func (w *pdfWriter) wrapped(text string, width, br float64) {
	if w.err != nil {
		return
	}
	lines, err := w.pdf.SplitText(text, width)
	if err != nil {
		w.err = err
		return
	}
	for _, l := range lines {
		w.line(l, br)
	}
}
