// Package scheduler provides the formulary reload scheduling and staleness
// monitoring for the prescription analysis API. When the formulary is
// file-backed, reloads run daily so operators can ship table updates
// without a redeploy; the embedded table is loaded once at startup.
package scheduler

import (
	"fmt"
	"time"

	"github.com/DevarneniSindhuja/medical/interfaces"
	"github.com/DevarneniSindhuja/medical/logging"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements the Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles formulary reloads and staleness monitoring
type Scheduler struct {
	store      interfaces.FormularyStore
	loader     interfaces.FormularyLoader
	scheduler  *gocron.Scheduler
	fileBacked bool
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(store interfaces.FormularyStore, loader interfaces.FormularyLoader, fileBacked bool) *Scheduler {
	return &Scheduler{
		store:      store,
		loader:     loader,
		scheduler:  gocron.NewScheduler(time.Local),
		fileBacked: fileBacked,
	}
}

// Start performs the initial formulary load and, for file-backed
// formularies, schedules daily reloads and staleness monitoring
func (s *Scheduler) Start() error {
	// Initial load
	if err := s.reloadFormulary(); err != nil {
		logging.Error("Failed to perform initial formulary load", "error", err)
		return fmt.Errorf("initial formulary load failed: %w", err)
	}

	if !s.fileBacked {
		// Embedded table never changes, nothing to schedule
		return nil
	}

	// Schedule reloads at 06:00 daily
	_, err := s.scheduler.Every(1).Days().At("06:00").Do(func() {
		if err := s.reloadFormulary(); err != nil {
			logging.Error("Failed to reload formulary", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule formulary reloads", "error", err)
		return fmt.Errorf("failed to schedule formulary reloads: %w", err)
	}

	s.scheduler.StartAsync()

	s.startStalenessMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// reloadFormulary loads the formulary and swaps it into the store
func (s *Scheduler) reloadFormulary() error {
	// Prevent concurrent reloads
	if !s.store.BeginUpdate() {
		logging.Info("Formulary reload already in progress, skipping...")
		return nil
	}
	defer s.store.EndUpdate()

	start := time.Now()

	drugs, alternatives, err := s.loader.Load()
	if err != nil {
		return fmt.Errorf("formulary load failed: %w", err)
	}

	s.store.UpdateFormulary(drugs, alternatives)

	logging.Info("Formulary reload completed",
		"duration", time.Since(start).String(),
		"drug_count", len(drugs),
		"alternative_count", len(alternatives))

	return nil
}

// startStalenessMonitoring warns when a file-backed formulary misses its
// reload window
func (s *Scheduler) startStalenessMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			lastUpdate := s.store.GetLastUpdated()
			if time.Since(lastUpdate) > 25*time.Hour {
				logging.Warn("Formulary hasn't been reloaded in over 25 hours")
			}
		}
	}()
}
