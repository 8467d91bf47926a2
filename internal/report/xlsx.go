package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"health-risk-predictor/internal/assessment"
)

const xlsxSheet = "Health Report"

var treatmentFills = map[Treatment]string{
	TreatmentAlert:   "#FFECEC",
	TreatmentSuccess: "#E7F6E7",
	TreatmentNeutral: "#F0F0F0",
}

type XLSXRenderer struct {
	currency string
}

func NewXLSXRenderer(currency string) *XLSXRenderer {
	if currency == "" {
		currency = assessment.DefaultCurrency
	}
	return &XLSXRenderer{currency: currency}
}

// Render writes a two column summary sheet: label, value.
func (x *XLSXRenderer) Render(r HealthReport) (Document, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return Document{}, fmt.Errorf("failed to name sheet: %w", err)
	}

	rows := [][2]string{
		{"Date", r.GeneratedAt.Format(timestampLayout)},
		{"Name", r.Profile.DisplayName()},
		{"Age", fmt.Sprintf("%d", r.Profile.Age)},
		{"Gender", string(r.Profile.Gender)},
		{"BMI", fmt.Sprintf("%.2f (%s)", r.Profile.BMI, r.Profile.BMIStatus)},
		{"Diabetes Risk", r.Diabetes.String()},
		{"Heart Disease Risk", r.Heart.String()},
		{"Insurance Estimate", r.Insurance.Format(x.currency)},
		{"Diet Plan for Diabetes", strings.Join(DietPlanFor(assessment.DomainDiabetes, r.Diabetes).Lines(), "\n")},
		{"Diet Plan for Heart Health", strings.Join(DietPlanFor(assessment.DomainHeart, r.Heart).Lines(), "\n")},
	}
	for i, row := range rows {
		if err := f.SetSheetRow(xlsxSheet, fmt.Sprintf("A%d", i+1), &[]any{row[0], row[1]}); err != nil {
			return Document{}, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return Document{}, fmt.Errorf("failed to create style: %w", err)
	}
	if err := f.SetCellStyle(xlsxSheet, "A1", fmt.Sprintf("A%d", len(rows)), labelStyle); err != nil {
		return Document{}, err
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return Document{}, fmt.Errorf("failed to create style: %w", err)
	}
	if err := f.SetCellStyle(xlsxSheet, "B9", "B10", wrapStyle); err != nil {
		return Document{}, err
	}

	for cell, outcome := range map[string]assessment.RiskOutcome{"B6": r.Diabetes, "B7": r.Heart} {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{treatmentFills[TreatmentFor(outcome)]}, Pattern: 1},
		})
		if err != nil {
			return Document{}, fmt.Errorf("failed to create style: %w", err)
		}
		if err := f.SetCellStyle(xlsxSheet, cell, cell, style); err != nil {
			return Document{}, err
		}
	}

	if err := f.SetColWidth(xlsxSheet, "A", "A", 28); err != nil {
		return Document{}, err
	}
	if err := f.SetColWidth(xlsxSheet, "B", "B", 70); err != nil {
		return Document{}, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Document{}, fmt.Errorf("failed to write workbook: %w", err)
	}
	return Document{
		Filename:    Filename(r.Profile.Name, "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Body:        buf.Bytes(),
	}, nil
}
