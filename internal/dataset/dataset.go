package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Spec names the columns of a reference CSV and its age bucket upper bound.
type Spec struct {
	Name          string
	AgeColumn     string
	OutcomeColumn string
	MetricColumn  string
	MetricLabel   string
	AgeUpper      float64
}

var (
	DiabetesSpec = Spec{
		Name:          "diabetes",
		AgeColumn:     "Age",
		OutcomeColumn: "Outcome",
		MetricColumn:  "BMI",
		MetricLabel:   "BMI",
		AgeUpper:      90,
	}
	HeartSpec = Spec{
		Name:          "heart",
		AgeColumn:     "age",
		OutcomeColumn: "target",
		MetricColumn:  "chol",
		MetricLabel:   "Cholesterol",
		AgeUpper:      100,
	}
)

var ageLabels = []string{"20s", "30s", "40s", "50s", "60s", "70+"}

type Record struct {
	Age     float64
	Outcome float64
	Metric  float64
}

// Dataset is a read-only table of reference records.
type Dataset struct {
	Spec    Spec
	Records []Record
}

func LoadCSV(path string, spec Spec) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s dataset: %w", spec.Name, err)
	}
	defer f.Close()
	return Parse(f, spec)
}

// Parse reads a CSV with a header row. Only the three configured columns
// are read; others are ignored.
func Parse(r io.Reader, spec Spec) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", spec.Name, err)
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))] = i
	}
	cols := make([]int, 3)
	for i, name := range []string{spec.AgeColumn, spec.OutcomeColumn, spec.MetricColumn} {
		idx, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("%s dataset is missing column %q", spec.Name, name)
		}
		cols[i] = idx
	}

	ds := &Dataset{Spec: spec}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s row %d: %w", spec.Name, line, err)
		}
		var values [3]float64
		for i, idx := range cols {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d column %q: %w", spec.Name, line, header[idx], err)
			}
			values[i] = v
		}
		ds.Records = append(ds.Records, Record{Age: values[0], Outcome: values[1], Metric: values[2]})
	}
	if len(ds.Records) == 0 {
		return nil, fmt.Errorf("%s dataset has no rows", spec.Name)
	}
	return ds, nil
}

// AgeBucket is the mean outcome of one age group. Rate is nil when the
// group has no records.
type AgeBucket struct {
	Label string   `json:"label"`
	Lower float64  `json:"lower"`
	Upper float64  `json:"upper"`
	Count int      `json:"count"`
	Rate  *float64 `json:"rate"`
}

// AgeTrend groups records into (20,30], (30,40] ... (70,upper] and averages
// the outcome. Ages on or below 20 or above the upper edge are dropped.
func (d *Dataset) AgeTrend() []AgeBucket {
	edges := []float64{20, 30, 40, 50, 60, 70, d.Spec.AgeUpper}
	buckets := make([]AgeBucket, len(ageLabels))
	sums := make([]float64, len(ageLabels))
	for i := range buckets {
		buckets[i] = AgeBucket{Label: ageLabels[i], Lower: edges[i], Upper: edges[i+1]}
	}
	for _, rec := range d.Records {
		for i := range buckets {
			if rec.Age > edges[i] && rec.Age <= edges[i+1] {
				buckets[i].Count++
				sums[i] += rec.Outcome
				break
			}
		}
	}
	for i := range buckets {
		if buckets[i].Count > 0 {
			rate := sums[i] / float64(buckets[i].Count)
			buckets[i].Rate = &rate
		}
	}
	return buckets
}

func (d *Dataset) Metrics() []float64 {
	out := make([]float64, len(d.Records))
	for i, rec := range d.Records {
		out[i] = rec.Metric
	}
	return out
}

type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram splits [min, max] into equal width bins. Every bin is half open
// except the last, which includes max. A constant series is spread over
// [v-0.5, v+0.5].
func Histogram(values []float64, bins int) []Bin {
	if len(values) == 0 || bins <= 0 {
		return nil
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lower: lo + float64(i)*width, Upper: lo + float64(i+1)*width}
	}
	out[bins-1].Upper = hi
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out
}

// Trend is the JSON view of a dataset served to the dashboard.
type Trend struct {
	Name        string      `json:"name"`
	Records     int         `json:"records"`
	AgeTrend    []AgeBucket `json:"age_trend"`
	MetricLabel string      `json:"metric_label"`
	Histogram   []Bin       `json:"histogram"`
}

const DefaultBins = 30

func (d *Dataset) Trend(bins int) Trend {
	return Trend{
		Name:        d.Spec.Name,
		Records:     len(d.Records),
		AgeTrend:    d.AgeTrend(),
		MetricLabel: d.Spec.MetricLabel,
		Histogram:   Histogram(d.Metrics(), bins),
	}
}
