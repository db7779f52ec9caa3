package health

import (
	"net/http"
	"testing"
	"time"

	"github.com/DevarneniSindhuja/medical/data"
	"github.com/DevarneniSindhuja/medical/formulary"
)

func loadedStore(t *testing.T) *data.FormularyContainer {
	t.Helper()

	drugs, alternatives, err := formulary.NewDefaultLoader().Load()
	if err != nil {
		t.Fatalf("Failed to load default formulary: %v", err)
	}

	store := data.NewFormularyContainer()
	store.UpdateFormulary(drugs, alternatives)
	return store
}

func TestHealthCheckHealthy(t *testing.T) {
	checker := NewHealthChecker(loadedStore(t), false)

	status, details, httpStatus := checker.HealthCheck()

	if status != "healthy" {
		t.Errorf("status = %q, want healthy", status)
	}
	if httpStatus != http.StatusOK {
		t.Errorf("httpStatus = %d, want 200", httpStatus)
	}
	if details["drugs"] != 3 {
		t.Errorf("drugs = %v, want 3", details["drugs"])
	}
	if details["alternatives"] != 2 {
		t.Errorf("alternatives = %v, want 2", details["alternatives"])
	}
	if details["is_updating"] != false {
		t.Errorf("is_updating = %v", details["is_updating"])
	}
}

func TestHealthCheckUnhealthyWithoutFormulary(t *testing.T) {
	checker := NewHealthChecker(data.NewFormularyContainer(), false)

	status, _, httpStatus := checker.HealthCheck()

	if status != "unhealthy" {
		t.Errorf("status = %q, want unhealthy", status)
	}
	if httpStatus != http.StatusServiceUnavailable {
		t.Errorf("httpStatus = %d, want 503", httpStatus)
	}
}

func TestHealthCheckEmbeddedTableNeverGoesStale(t *testing.T) {
	// A non file-backed formulary stays healthy no matter how old the
	// last update looks, since there is nothing to reload from.
	checker := NewHealthChecker(loadedStore(t), false)

	status, _, _ := checker.HealthCheck()
	if status != "healthy" {
		t.Errorf("status = %q, want healthy", status)
	}
}

func TestHealthCheckFileBackedFreshData(t *testing.T) {
	checker := NewHealthChecker(loadedStore(t), true)

	status, details, httpStatus := checker.HealthCheck()

	if status != "healthy" {
		t.Errorf("status = %q, want healthy", status)
	}
	if httpStatus != http.StatusOK {
		t.Errorf("httpStatus = %d", httpStatus)
	}

	age, ok := details["data_age_hours"].(float64)
	if !ok {
		t.Fatalf("data_age_hours has type %T", details["data_age_hours"])
	}
	if age > 1 {
		t.Errorf("data_age_hours = %v for a fresh load", age)
	}
}

func TestCalculateNextReload(t *testing.T) {
	checker := NewHealthChecker(loadedStore(t), true)

	next := checker.CalculateNextReload()
	now := time.Now()

	if !next.After(now) {
		t.Errorf("Next reload %v is not in the future", next)
	}
	if next.Hour() != 6 || next.Minute() != 0 {
		t.Errorf("Next reload %v is not at 06:00", next)
	}
	if next.Sub(now) > 24*time.Hour {
		t.Errorf("Next reload %v is more than a day away", next)
	}
}
