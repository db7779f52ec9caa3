// Package data provides thread-safe storage for the formulary used by the
// prescription analysis API. The FormularyContainer uses atomic pointers so
// reloads swap the whole table with zero downtime and readers never block.
package data

import (
	"sync/atomic"
	"time"

	"github.com/DevarneniSindhuja/medical/formulary/entities"
	"github.com/DevarneniSindhuja/medical/interfaces"
	"github.com/DevarneniSindhuja/medical/logging"
)

// Compile-time check to ensure FormularyContainer implements FormularyStore
var _ interfaces.FormularyStore = (*FormularyContainer)(nil)

// FormularyContainer holds the drug table and alternatives map with atomic
// pointers for zero-downtime updates
type FormularyContainer struct {
	drugs           atomic.Value // map[string]entities.DrugRecord
	alternatives    atomic.Value // map[string]string
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewFormularyContainer creates a new FormularyContainer with empty data
func NewFormularyContainer() *FormularyContainer {
	fc := &FormularyContainer{}
	fc.drugs.Store(make(map[string]entities.DrugRecord))
	fc.alternatives.Store(make(map[string]string))
	fc.lastUpdated.Store(time.Time{})
	fc.serverStartTime.Store(time.Time{})
	return fc
}

// Thread-safe getters with type check

// GetDrugs returns the drug table keyed by canonical name
func (fc *FormularyContainer) GetDrugs() map[string]entities.DrugRecord {
	if v := fc.drugs.Load(); v != nil {
		if drugs, ok := v.(map[string]entities.DrugRecord); ok {
			return drugs
		}
	}

	logging.Warn("Drug table is empty or invalid")
	return make(map[string]entities.DrugRecord)
}

// GetDrug returns a single drug record by canonical name
func (fc *FormularyContainer) GetDrug(name string) (entities.DrugRecord, bool) {
	record, ok := fc.GetDrugs()[name]
	return record, ok
}

// GetAlternatives returns the alternative suggestions map
func (fc *FormularyContainer) GetAlternatives() map[string]string {
	if v := fc.alternatives.Load(); v != nil {
		if alternatives, ok := v.(map[string]string); ok {
			return alternatives
		}
	}

	logging.Warn("Alternatives map is empty or invalid")
	return make(map[string]string)
}

// GetAlternative returns the suggested alternative for a canonical name
func (fc *FormularyContainer) GetAlternative(name string) (string, bool) {
	alternative, ok := fc.GetAlternatives()[name]
	return alternative, ok
}

// GetLastUpdated returns the timestamp of the last formulary update
func (fc *FormularyContainer) GetLastUpdated() time.Time {
	if v := fc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating reports whether a formulary update is in progress
func (fc *FormularyContainer) IsUpdating() bool {
	return fc.updating.Load()
}

// GetServerStartTime returns the time the server started
func (fc *FormularyContainer) GetServerStartTime() time.Time {
	if v := fc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time")
	return time.Time{}
}

// SetServerStartTime records the time the server started
func (fc *FormularyContainer) SetServerStartTime(t time.Time) {
	fc.serverStartTime.Store(t)
}

// UpdateFormulary atomically swaps in a new drug table and alternatives map
func (fc *FormularyContainer) UpdateFormulary(drugs map[string]entities.DrugRecord, alternatives map[string]string) {
	fc.drugs.Store(drugs)
	fc.alternatives.Store(alternatives)
	fc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of an update, returns false if one is running
func (fc *FormularyContainer) BeginUpdate() bool {
	return fc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of an update
func (fc *FormularyContainer) EndUpdate() {
	fc.updating.Store(false)
}
