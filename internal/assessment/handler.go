package assessment

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"health-risk-predictor/internal/apperr"
	"health-risk-predictor/internal/features"
	"health-risk-predictor/internal/profile"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(svc Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: orNop(logger)}
}

func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req profile.Input
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.svc.BuildProfile(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) AssessDiabetes(w http.ResponseWriter, r *http.Request) {
	var req features.DiabetesInput
	if !h.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.AssessDiabetes(r.Context(), req))
}

func (h *Handler) AssessHeart(w http.ResponseWriter, r *http.Request) {
	var req features.HeartInput
	if !h.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.AssessHeart(r.Context(), req))
}

func (h *Handler) EstimateInsurance(w http.ResponseWriter, r *http.Request) {
	var req features.InsuranceInput
	if !h.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.EstimateInsurance(r.Context(), req))
}

func (h *Handler) RunSession(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.svc.RunSession(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ExportSession runs the submitted flows and returns the report as a download.
func (h *Handler) ExportSession(w http.ResponseWriter, r *http.Request) {
	format, ok := h.format(w, r)
	if !ok {
		return
	}
	var req SessionRequest
	if !h.decode(w, r, &req) {
		return
	}
	file, err := h.svc.ExportSession(r.Context(), format, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeFile(w, file)
}

// ExportReport builds the report from outcomes the client already holds.
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	format, ok := h.format(w, r)
	if !ok {
		return
	}
	var req ReportRequest
	if !h.decode(w, r, &req) {
		return
	}
	file, err := h.svc.ExportReport(r.Context(), format, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeFile(w, file)
}

func (h *Handler) format(w http.ResponseWriter, r *http.Request) (ExportFormat, bool) {
	format, err := ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, apperr.BadRequest(err.Error()))
		return "", false
	}
	return format, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, apperr.BadRequest("Invalid request"))
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *apperr.AppError
	if !errors.As(err, &appErr) {
		h.logger.Error("request failed", zap.Error(err))
		appErr = apperr.Internal(err)
	}
	writeJSON(w, apperr.HTTPStatus(appErr), appErr)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFile(w http.ResponseWriter, file *ReportFile) {
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("X-Report-ID", file.ID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Body)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/profile", h.CreateProfile)
	r.Post("/assess/diabetes", h.AssessDiabetes)
	r.Post("/assess/heart", h.AssessHeart)
	r.Post("/assess/insurance", h.EstimateInsurance)
	r.Post("/session", h.RunSession)
	r.Post("/session/report", h.ExportSession)
	r.Post("/report", h.ExportReport)
}
