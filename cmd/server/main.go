package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"health-risk-predictor/internal/assessment"
	"health-risk-predictor/internal/config"
	"health-risk-predictor/internal/dataset"
	"health-risk-predictor/internal/platform/logger"
	"health-risk-predictor/internal/platform/metrics"
	"health-risk-predictor/internal/platform/middleware"
	"health-risk-predictor/internal/predictor"
	"health-risk-predictor/internal/report"
)

func main() {
	// 1. Infrastructure
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, "health-risk-predictor")
	if err != nil {
		os.Stderr.WriteString("logger error: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	store, err := predictor.NewStore(cfg.ModelDir, log.Named("predictor"))
	if err != nil {
		log.Fatal("model store init failed", zap.Error(err))
	}

	datasets := loadDatasets(cfg, log)

	// 2. Services
	advisor := assessment.NewInsuranceAdvisor(store, cfg.InsuranceModel, log.Named("advisor"))
	diabetes := assessment.NewDiabetesAssessor(store, cfg.DiabetesModel, advisor, log.Named("diabetes"))
	heart := assessment.NewHeartAssessor(store, cfg.HeartModel, advisor, log.Named("heart"))
	insurance := assessment.NewInsuranceEstimator(store, cfg.InsuranceModel, log.Named("insurance"))

	reportSvc := report.NewService(report.Options{
		Currency:  cfg.ReportCurrency,
		FontPaths: cfg.ReportFontPaths,
	}, log.Named("report"))

	assessmentSvc := assessment.NewService(diabetes, heart, insurance, reportSvc, log)
	assessmentHandler := assessment.NewHandler(assessmentSvc, log)
	datasetHandler := dataset.NewHandler(log.Named("dataset"), datasets...)

	// 3. Router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS)
	r.Use(middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		assessment.RegisterRoutes(r, assessmentHandler)
		dataset.RegisterRoutes(r, datasetHandler)
	})
	dataset.RegisterChartRoutes(r, datasetHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.Port), zap.String("model_dir", cfg.ModelDir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}

// loadDatasets reads the configured reference CSVs. A configured but
// unreadable dataset stops startup.
func loadDatasets(cfg *config.Config, log *zap.Logger) []*dataset.Dataset {
	var out []*dataset.Dataset
	for _, src := range []struct {
		path string
		spec dataset.Spec
	}{
		{cfg.DiabetesDataset, dataset.DiabetesSpec},
		{cfg.HeartDataset, dataset.HeartSpec},
	} {
		if src.path == "" {
			continue
		}
		ds, err := dataset.LoadCSV(src.path, src.spec)
		if err != nil {
			log.Fatal("dataset load failed", zap.String("dataset", src.spec.Name), zap.Error(err))
		}
		log.Info("dataset loaded", zap.String("dataset", src.spec.Name), zap.Int("records", len(ds.Records)))
		out = append(out, ds)
	}
	return out
}
