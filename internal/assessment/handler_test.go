package assessment

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(f *serviceFixture) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(f.svc, nil))
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCreateProfile(t *testing.T) {
	h := newTestRouter(newServiceFixture())

	rec := doJSON(t, h, http.MethodPost, "/profile", validProfile())
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Normal weight", body["bmi_status"])

	rec = doJSON(t, h, http.MethodPost, "/profile", map[string]any{"age": 200, "gender": "Male", "height_cm": 170, "weight_kg": 60})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"VALIDATION_FAILED"`)
	assert.Contains(t, rec.Body.String(), `"age"`)
}

func TestHandlerInvalidJSON(t *testing.T) {
	h := newTestRouter(newServiceFixture())

	rec := doJSON(t, h, http.MethodPost, "/assess/diabetes", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request")
}

func TestHandlerAssessDiabetes(t *testing.T) {
	f := newServiceFixture()
	f.loader.On("Load", mock.Anything, "diabetes").Return(diabetesModel(1), nil).Once()
	f.advisor.On("Estimate", mock.Anything, 32.5, 45, "Diabetes").Return(NewInsuranceEstimate(12000, "Diabetes")).Once()

	rec := doJSON(t, newTestRouter(f), http.MethodPost, "/assess/diabetes", validDiabetes())
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		State     State  `json:"state"`
		Outcome   string `json:"outcome"`
		Insurance struct {
			Display string `json:"display"`
		} `json:"insurance"`
		Tip string `json:"tip"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, StateHighRisk, res.State)
	assert.Equal(t, "High Risk", res.Outcome)
	assert.Equal(t, "₹12,000.00", res.Insurance.Display)
	assert.Equal(t, InsuranceTip, res.Tip)
}

func TestHandlerRejectedAssessmentIsOK(t *testing.T) {
	in := validDiabetes()
	in.Glucose = 0

	rec := doJSON(t, newTestRouter(newServiceFixture()), http.MethodPost, "/assess/diabetes", in)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"rejected"`)
	assert.Contains(t, rec.Body.String(), `"outcome":"Not Available"`)
}

func TestHandlerEstimateInsurance(t *testing.T) {
	f := newServiceFixture()
	f.loader.On("Load", mock.Anything, "insurance").Return(insuranceModel(5432.1), nil).Once()

	rec := doJSON(t, newTestRouter(f), http.MethodPost, "/assess/insurance", validInsurance())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"estimated"`)
	assert.Contains(t, rec.Body.String(), `"amount":"5432.10"`)
}

func TestHandlerExportReport(t *testing.T) {
	f := newServiceFixture()
	file := &ReportFile{
		ID:          "0b7c",
		Filename:    "health_report_arjun.pdf",
		ContentType: "application/pdf",
		Body:        []byte("%PDF-1.4"),
	}
	f.report.On("Export", mock.Anything, FormatPDF, mock.Anything, Outcomes{Diabetes: HighRisk, Heart: LowRisk}).Return(file, nil).Once()

	body := `{"profile":{"name":"Arjun","age":45,"gender":"Male","height_cm":175,"weight_kg":70},"diabetes":"High Risk","heart":"Low Risk"}`
	rec := doJSON(t, newTestRouter(f), http.MethodPost, "/report?format=pdf", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="health_report_arjun.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "0b7c", rec.Header().Get("X-Report-ID"))
	assert.Equal(t, "%PDF-1.4", rec.Body.String())
}

func TestHandlerExportUnsupportedFormat(t *testing.T) {
	f := newServiceFixture()

	rec := doJSON(t, newTestRouter(f), http.MethodPost, "/report?format=docx", ReportRequest{Profile: validProfile()})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.report.AssertNotCalled(t, "Export", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandlerExportSession(t *testing.T) {
	f := newServiceFixture()
	f.report.On("Export", mock.Anything, FormatHTML, mock.Anything, Outcomes{}).
		Return(&ReportFile{ID: "x", Filename: "health_report_arjun.html", ContentType: "text/html; charset=utf-8", Body: []byte("<html></html>")}, nil).Once()

	rec := doJSON(t, newTestRouter(f), http.MethodPost, "/session/report", SessionRequest{Profile: validProfile()})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html></html>", rec.Body.String())
}
