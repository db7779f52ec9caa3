package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DevarneniSindhuja/medical/data"
	"github.com/DevarneniSindhuja/medical/formulary"
	"github.com/DevarneniSindhuja/medical/formulary/entities"
	"github.com/DevarneniSindhuja/medical/health"
	"github.com/DevarneniSindhuja/medical/validation"
	"github.com/go-chi/chi/v5"
)

// stubAnalyzer returns a canned result so handler tests never reach the
// inference endpoint
type stubAnalyzer struct {
	result entities.AnalysisResult
	err    error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, text string, age int) (entities.AnalysisResult, error) {
	return s.result, s.err
}

func newTestStore(t *testing.T) *data.FormularyContainer {
	t.Helper()

	drugs, alternatives, err := formulary.NewDefaultLoader().Load()
	if err != nil {
		t.Fatalf("Failed to load default formulary: %v", err)
	}

	store := data.NewFormularyContainer()
	store.UpdateFormulary(drugs, alternatives)
	store.SetServerStartTime(time.Now())
	return store
}

func newTestHandler(t *testing.T, analyzer *stubAnalyzer) *HTTPHandlerImpl {
	t.Helper()

	store := newTestStore(t)
	return NewHTTPHandler(store, analyzer, validation.NewInputValidator(), health.NewHealthChecker(store, false))
}

// newTestRouter mounts the handler the same way the server does so that
// chi URL params resolve
func newTestRouter(t *testing.T, analyzer *stubAnalyzer) *chi.Mux {
	t.Helper()

	handler := newTestHandler(t, analyzer)

	router := chi.NewRouter()
	router.Post("/analyze", handler.AnalyzePrescription)
	router.Get("/drugs", handler.ServeFormulary)
	router.Get("/drugs/{name}", handler.FindDrug)
	router.Get("/alternatives/{name}", handler.FindAlternative)
	router.Get("/health", handler.HealthCheck)
	return router
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestAnalyzePrescription(t *testing.T) {
	analyzer := &stubAnalyzer{result: entities.AnalysisResult{
		ExtractedDrugs: []string{"aspirin", "ibuprofen"},
		Interactions:   []string{"aspirin interacts with ibuprofen"},
		DosageInfo:     map[string]string{"aspirin": "100mg", "ibuprofen": "200mg"},
		Alternatives:   map[string]string{"aspirin": "paracetamol", "ibuprofen": "paracetamol"},
	}}
	router := newTestRouter(t, analyzer)

	rr := doRequest(t, router, http.MethodPost, "/analyze",
		`{"text":"Take ibuprofen and aspirin daily","age":25}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, body %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}

	var result entities.AnalysisResult
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("Response was not valid JSON: %v", err)
	}
	if len(result.ExtractedDrugs) != 2 {
		t.Errorf("ExtractedDrugs = %v", result.ExtractedDrugs)
	}
	if len(result.Interactions) != 1 {
		t.Errorf("Interactions = %v", result.Interactions)
	}
}

func TestAnalyzePrescriptionBadRequests(t *testing.T) {
	router := newTestRouter(t, &stubAnalyzer{})

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"text": "aspirin", "age":`},
		{name: "empty text", body: `{"text":"","age":25}`},
		{name: "negative age", body: `{"text":"take aspirin","age":-5}`},
		{name: "age too high", body: `{"text":"take aspirin","age":150}`},
		{name: "dangerous text", body: `{"text":"<script>alert(1)</script>","age":25}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, router, http.MethodPost, "/analyze", tt.body)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("Status = %d, want 400", rr.Code)
			}

			var envelope map[string]any
			if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("Error response was not valid JSON: %v", err)
			}
			if envelope["error"] != http.StatusText(http.StatusBadRequest) {
				t.Errorf("error field = %v", envelope["error"])
			}
			if envelope["message"] == "" {
				t.Error("Expected a message in the error envelope")
			}
		})
	}
}

func TestAnalyzePrescriptionExtractorFailure(t *testing.T) {
	router := newTestRouter(t, &stubAnalyzer{err: errors.New("model unavailable")})

	rr := doRequest(t, router, http.MethodPost, "/analyze", `{"text":"take aspirin","age":25}`)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("Status = %d, want 502", rr.Code)
	}

	var envelope map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Error response was not valid JSON: %v", err)
	}
	if envelope["message"] != "Entity extraction service unavailable" {
		t.Errorf("message = %v", envelope["message"])
	}
}

func TestServeFormulary(t *testing.T) {
	router := newTestRouter(t, &stubAnalyzer{})

	rr := doRequest(t, router, http.MethodGet, "/drugs", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d", rr.Code)
	}
	if rr.Header().Get("Last-Modified") == "" {
		t.Error("Expected a Last-Modified header")
	}

	var records []entities.DrugRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &records); err != nil {
		t.Fatalf("Response was not valid JSON: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	// Records come back sorted by name
	if records[0].Name != "aspirin" || records[1].Name != "ibuprofen" || records[2].Name != "paracetamol" {
		t.Errorf("Records not sorted: %v %v %v", records[0].Name, records[1].Name, records[2].Name)
	}
}

func TestFindDrug(t *testing.T) {
	router := newTestRouter(t, &stubAnalyzer{})

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "existing drug", path: "/drugs/ibuprofen", wantStatus: http.StatusOK},
		{name: "case insensitive lookup", path: "/drugs/IBUPROFEN", wantStatus: http.StatusOK},
		{name: "unknown drug", path: "/drugs/christmas", wantStatus: http.StatusNotFound},
		{name: "invalid name", path: "/drugs/a%3Bb", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, router, http.MethodGet, tt.path, "")

			if rr.Code != tt.wantStatus {
				t.Fatalf("Status = %d, want %d, body %s", rr.Code, tt.wantStatus, rr.Body.String())
			}

			if tt.wantStatus == http.StatusOK {
				var record entities.DrugRecord
				if err := json.Unmarshal(rr.Body.Bytes(), &record); err != nil {
					t.Fatalf("Response was not valid JSON: %v", err)
				}
				if record.Name != "ibuprofen" {
					t.Errorf("Name = %q", record.Name)
				}
			}
		})
	}
}

func TestFindAlternative(t *testing.T) {
	router := newTestRouter(t, &stubAnalyzer{})

	rr := doRequest(t, router, http.MethodGet, "/alternatives/Ibuprofen", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d", rr.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Response was not valid JSON: %v", err)
	}
	if body["ibuprofen"] != "paracetamol" {
		t.Errorf("Alternative = %v", body)
	}

	rr = doRequest(t, router, http.MethodGet, "/alternatives/paracetamol", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("Status for unmapped drug = %d, want 404", rr.Code)
	}
}

func TestHealthCheckEndpoint(t *testing.T) {
	router := newTestRouter(t, &stubAnalyzer{})

	rr := doRequest(t, router, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, body %s", rr.Code, rr.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Response was not valid JSON: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %v", body["status"])
	}
	if _, ok := body["drugs"]; !ok {
		t.Error("Expected a drugs count in the health payload")
	}
}
