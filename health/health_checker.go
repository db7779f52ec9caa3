// Package health provides health checking for the prescription analysis API.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/DevarneniSindhuja/medical/interfaces"
)

// Compile-time check to ensure HealthCheckerImpl implements HealthChecker
var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	store interfaces.FormularyStore
	// fileBacked marks whether the formulary reloads from a file; the
	// embedded table never goes stale
	fileBacked bool
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(store interfaces.FormularyStore, fileBacked bool) *HealthCheckerImpl {
	return &HealthCheckerImpl{
		store:      store,
		fileBacked: fileBacked,
	}
}

// HealthCheck returns the current service health. The service is unhealthy
// without a loaded formulary and degraded when a file-backed formulary has
// missed its reload window.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	drugs := h.store.GetDrugs()
	alternatives := h.store.GetAlternatives()
	lastUpdate := h.store.GetLastUpdated()
	isUpdating := h.store.IsUpdating()

	dataAge := time.Since(lastUpdate)

	switch {
	case len(drugs) == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case h.fileBacked && dataAge > 48*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"last_update":    lastUpdate.Format(time.RFC3339),
		"data_age_hours": math.Round(dataAge.Hours()*10) / 10,
		"drugs":          len(drugs),
		"alternatives":   len(alternatives),
		"is_updating":    isUpdating,
	}

	return status, data, httpStatus
}

// CalculateNextReload returns the next scheduled formulary reload time.
// Reloads run daily at 06:00 local time.
func (h *HealthCheckerImpl) CalculateNextReload() time.Time {
	now := time.Now()

	sixAM := time.Date(now.Year(), now.Month(), now.Day(), 6, 0, 0, 0, now.Location())
	if now.Before(sixAM) {
		return sixAM
	}

	return sixAM.AddDate(0, 0, 1)
}
