package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"health-risk-predictor/internal/assessment"
	"health-risk-predictor/internal/platform/metrics"
	"health-risk-predictor/internal/profile"
)

type Options struct {
	Currency  string
	FontPaths []string
}

// Service folds a finished session into a HealthReport and renders it in
// the requested export format.
type Service struct {
	composer *Composer
	pdf      *PDFRenderer
	xlsx     *XLSXRenderer
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		composer: NewComposer(opts.Currency),
		pdf:      NewPDFRenderer(opts.FontPaths, opts.Currency, logger),
		xlsx:     NewXLSXRenderer(opts.Currency),
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock replaces the timestamp source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Export(ctx context.Context, format assessment.ExportFormat, p profile.UserProfile, outcomes assessment.Outcomes) (*assessment.ReportFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := uuid.New()
	r := New(p, outcomes, s.now())
	s.logger.Info("generating health report", zap.String("report_id", id.String()), zap.String("format", string(format)))

	var (
		doc Document
		err error
	)
	switch format {
	case assessment.FormatHTML:
		doc, err = s.composer.Compose(r)
	case assessment.FormatPDF:
		doc, err = s.pdf.Render(r)
	case assessment.FormatXLSX:
		doc, err = s.xlsx.Render(r)
	default:
		err = fmt.Errorf("unsupported report format %q", format)
	}
	if err != nil {
		s.logger.Error("report generation failed", zap.String("report_id", id.String()), zap.Error(err))
		return nil, err
	}

	metrics.RecordReport(string(format))
	return &assessment.ReportFile{
		ID:          id.String(),
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
		Body:        doc.Body,
	}, nil
}
