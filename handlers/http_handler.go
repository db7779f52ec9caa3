// Package handlers provides the HTTP request handlers for the prescription
// analysis API endpoints, with dependencies injected through interfaces.
package handlers

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/DevarneniSindhuja/medical/formulary"
	"github.com/DevarneniSindhuja/medical/formulary/entities"
	"github.com/DevarneniSindhuja/medical/interfaces"
	"github.com/DevarneniSindhuja/medical/logging"
	"github.com/DevarneniSindhuja/medical/metrics"
	"github.com/go-chi/chi/v5"
)

// HTTPHandlerImpl serves the analysis and formulary endpoints
type HTTPHandlerImpl struct {
	store     interfaces.FormularyStore
	analyzer  interfaces.Analyzer
	validator interfaces.InputValidator
	health    interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(store interfaces.FormularyStore, analyzer interfaces.Analyzer,
	validator interfaces.InputValidator, health interfaces.HealthChecker) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		store:     store,
		analyzer:  analyzer,
		validator: validator,
		health:    health,
	}
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// AnalyzePrescription handles POST /analyze. It extracts drug names from
// the prescription text, checks interactions, recommends dosage for the
// patient age and suggests alternatives.
func (h *HTTPHandlerImpl) AnalyzePrescription(w http.ResponseWriter, r *http.Request) {
	var req entities.PrescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.Warn("Malformed analyze request body", "error", err, "remote_addr", r.RemoteAddr)
		metrics.AnalysesTotal.WithLabelValues("bad_request").Inc()
		h.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.ValidatePrescriptionText(req.Text); err != nil {
		metrics.AnalysesTotal.WithLabelValues("bad_request").Inc()
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.validator.ValidatePatientAge(req.Age); err != nil {
		metrics.AnalysesTotal.WithLabelValues("bad_request").Inc()
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), req.Text, req.Age)
	if err != nil {
		logging.Error("Prescription analysis failed", "error", err)
		metrics.AnalysesTotal.WithLabelValues("extractor_error").Inc()
		h.RespondWithError(w, http.StatusBadGateway, "Entity extraction service unavailable")
		return
	}

	metrics.AnalysesTotal.WithLabelValues("success").Inc()
	h.RespondWithJSON(w, http.StatusOK, result)
}

// ServeFormulary handles GET /drugs and returns every drug record sorted
// by canonical name
func (h *HTTPHandlerImpl) ServeFormulary(w http.ResponseWriter, r *http.Request) {
	drugs := h.store.GetDrugs()

	records := make([]entities.DrugRecord, 0, len(drugs))
	for _, record := range drugs {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})

	h.RespondWithJSON(w, http.StatusOK, records)
}

// FindDrug handles GET /drugs/{name}
func (h *HTTPHandlerImpl) FindDrug(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing drug name")
		return
	}

	if err := h.validator.ValidateDrugName(name); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, ok := h.store.GetDrug(formulary.Canonicalize(name))
	if !ok {
		h.RespondWithError(w, http.StatusNotFound, "Drug not found in formulary")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, record)
}

// FindAlternative handles GET /alternatives/{name}
func (h *HTTPHandlerImpl) FindAlternative(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing drug name")
		return
	}

	if err := h.validator.ValidateDrugName(name); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	canonical := formulary.Canonicalize(name)
	alternative, ok := h.store.GetAlternative(canonical)
	if !ok {
		h.RespondWithError(w, http.StatusNotFound, "No alternative found")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, map[string]string{canonical: alternative})
}

// HealthCheck handles GET /health
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, httpStatus := h.health.HealthCheck()

	response := map[string]any{
		"status": status,
	}
	for key, value := range details {
		response[key] = value
	}

	h.RespondWithJSON(w, httpStatus, response)
}
