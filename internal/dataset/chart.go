package dataset

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	chartWidth  = "900px"
	chartHeight = "420px"
)

var metricColors = map[string]string{
	"diabetes": "#00BFFF",
	"heart":    "#FF4B4B",
}

// RenderChart writes a standalone page with the age trend and metric
// distribution bar charts.
func RenderChart(w io.Writer, t Trend) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("%s dataset trends", t.Name)
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(ageTrendChart(t), histogramChart(t))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render %s chart: %w", t.Name, err)
	}
	return nil
}

func ageTrendChart(t Trend) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Age vs Outcome Rate",
			Subtitle: fmt.Sprintf("%s, %d records", t.Name, t.Records),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 1}),
	)

	labels := make([]string, len(t.AgeTrend))
	data := make([]opts.BarData, len(t.AgeTrend))
	for i, b := range t.AgeTrend {
		labels[i] = b.Label
		if b.Rate == nil {
			data[i] = opts.BarData{Value: nil}
			continue
		}
		data[i] = opts.BarData{Value: *b.Rate}
	}
	bar.SetXAxis(labels).AddSeries("Outcome rate", data)
	return bar
}

func histogramChart(t Trend) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: t.MetricLabel + " Distribution"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	labels := make([]string, len(t.Histogram))
	data := make([]opts.BarData, len(t.Histogram))
	for i, b := range t.Histogram {
		labels[i] = fmt.Sprintf("%.1f", b.Lower)
		data[i] = opts.BarData{Value: b.Count}
	}
	bar.SetXAxis(labels).AddSeries(t.MetricLabel, data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: metricColors[t.Name]}),
		charts.WithBarChartOpts(opts.BarChart{BarCategoryGap: "0%"}),
	)
	return bar
}
