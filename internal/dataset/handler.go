package dataset

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"health-risk-predictor/internal/apperr"
)

// Handler serves trend JSON and chart pages for the loaded datasets. The
// set is fixed at startup and never written afterwards.
type Handler struct {
	datasets map[string]*Dataset
	logger   *zap.Logger
}

func NewHandler(logger *zap.Logger, datasets ...*Dataset) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{datasets: make(map[string]*Dataset, len(datasets)), logger: logger}
	for _, ds := range datasets {
		if ds != nil {
			h.datasets[ds.Spec.Name] = ds
		}
	}
	return h
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*Dataset, bool) {
	name := chi.URLParam(r, "name")
	ds, ok := h.datasets[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, apperr.NotFound("Dataset '"+name+"' is not loaded."))
		return nil, false
	}
	return ds, true
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.datasets))
	for name := range h.datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	writeJSON(w, http.StatusOK, map[string][]string{"datasets": names})
}

func (h *Handler) GetTrend(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ds.Trend(DefaultBins))
}

func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := RenderChart(&buf, ds.Trend(DefaultBins)); err != nil {
		h.logger.Error("chart render failed", zap.String("dataset", ds.Spec.Name), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, apperr.Internal(err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RegisterRoutes mounts the JSON endpoints under the API router.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/datasets", h.List)
	r.Get("/datasets/{name}/trend", h.GetTrend)
}

// RegisterChartRoutes mounts the HTML chart pages.
func RegisterChartRoutes(r chi.Router, h *Handler) {
	r.Get("/charts/{name}", h.GetChart)
}
