// Package interfaces defines core abstractions for the prescription analysis API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"time"

	"github.com/DevarneniSindhuja/medical/formulary/entities"
)

// FormularyStore defines the contract for formulary storage operations.
// It provides thread-safe access to the drug table and alternatives map
// with atomic operations for zero-downtime reloads.
type FormularyStore interface {
	// Data retrieval methods
	GetDrugs() map[string]entities.DrugRecord
	GetDrug(name string) (entities.DrugRecord, bool)
	GetAlternatives() map[string]string
	GetAlternative(name string) (string, bool)
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time

	// Data update methods
	UpdateFormulary(drugs map[string]entities.DrugRecord, alternatives map[string]string)
	BeginUpdate() bool
	EndUpdate()
}

// FormularyLoader defines the contract for loading formulary data, either
// from the embedded default table or from an external file.
type FormularyLoader interface {
	// Load returns the drug table and the alternatives map
	Load() (map[string]entities.DrugRecord, map[string]string, error)
}

// EntityExtractor defines the contract for the external named-entity model.
// Given raw text it returns every labeled span the model emits; callers
// decide which entity groups they care about.
type EntityExtractor interface {
	Extract(ctx context.Context, text string) ([]entities.Span, error)
}

// Analyzer defines the contract for prescription analysis.
type Analyzer interface {
	Analyze(ctx context.Context, text string, age int) (entities.AnalysisResult, error)
}

// Scheduler defines the contract for job scheduling and health monitoring.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current system health status
	HealthCheck() (status string, details map[string]any, httpStatus int)

	// CalculateNextReload returns the next scheduled formulary reload time
	CalculateNextReload() time.Time
}

// InputValidator defines the contract for validating user supplied input.
type InputValidator interface {
	// ValidatePrescriptionText validates the free-form prescription text
	ValidatePrescriptionText(text string) error

	// ValidatePatientAge validates the patient age
	ValidatePatientAge(age int) error

	// ValidateDrugName validates a drug name path parameter
	ValidateDrugName(name string) error
}
