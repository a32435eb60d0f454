// Package monitor owns the long-running watch loop over monitored
// spreadsheets. Configs are processed one at a time; the loop is
// single-threaded on purpose so two cycles can never race on the same
// spreadsheet's read-modify-write.
package monitor

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jordan/resume-pilot/internal/db"
	"github.com/jordan/resume-pilot/internal/drive"
	"github.com/jordan/resume-pilot/internal/engine"
)

// DefaultInterval is the pause between polling cycles.
const DefaultInterval = 60 * time.Second

// MetadataFetcher looks up file metadata, used to resolve a spreadsheet's
// display name when monitoring starts. Satisfied by drive.Service.
type MetadataFetcher interface {
	Metadata(ctx context.Context, fileID string) (drive.FileMeta, error)
}

// ConfigStore is the persistence surface for monitor configs.
type ConfigStore interface {
	UpsertMonitorConfig(ctx context.Context, c *db.MonitorConfig) error
	SetMonitoring(ctx context.Context, excelFileID string, on bool) error
	ConfigByFileID(ctx context.Context, excelFileID string) (*db.MonitorConfig, error)
	MonitoredConfigs(ctx context.Context) ([]db.MonitorConfig, error)
	TouchConfig(ctx context.Context, id uuid.UUID) error
}

// Processor runs one reconciliation pass over one spreadsheet. Satisfied by
// engine.Engine.
type Processor interface {
	ProcessSheet(ctx context.Context, cfg *db.MonitorConfig, force bool) (engine.CycleResult, error)
}

// Service runs reconciliation cycles for every monitored spreadsheet.
type Service struct {
	Store    ConfigStore
	Metadata MetadataFetcher
	Engine   Processor

	// Interval between cycles; zero means DefaultInterval.
	Interval time.Duration
}

// WatchOptions are the per-spreadsheet policy toggles persisted when a
// spreadsheet is placed under monitoring.
type WatchOptions struct {
	OutputFolderID            string
	GenerateNewResume         bool
	GenerateRecommendations   bool
	AlwaysGenerateCoverLetter bool
	AutoCleanupOldJobs        bool
}

// StartMonitoring registers a spreadsheet for monitoring, resolving its
// display name from file metadata. Calling it again for the same file
// updates the stored policy in place.
func (s *Service) StartMonitoring(ctx context.Context, excelFileID string, opts WatchOptions) (*db.MonitorConfig, error) {
	name := excelFileID
	if s.Metadata != nil {
		meta, err := s.Metadata.Metadata(ctx, excelFileID)
		if err != nil {
			log.Printf("[MONITOR] could not fetch metadata for %s: %v", excelFileID, err)
		} else {
			name = meta.Name
		}
	}

	cfg := &db.MonitorConfig{
		ExcelFileID:               excelFileID,
		ExcelFileName:             name,
		OutputFolderID:            opts.OutputFolderID,
		IsMonitoring:              true,
		GenerateNewResume:         opts.GenerateNewResume,
		GenerateRecommendations:   opts.GenerateRecommendations,
		AlwaysGenerateCoverLetter: opts.AlwaysGenerateCoverLetter,
		AutoCleanupOldJobs:        opts.AutoCleanupOldJobs,
	}
	if err := s.Store.UpsertMonitorConfig(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to register spreadsheet %s: %w", excelFileID, err)
	}
	log.Printf("[MONITOR] now monitoring %q (%s)", cfg.ExcelFileName, cfg.ExcelFileID)
	return cfg, nil
}

// StopMonitoring turns off monitoring for a spreadsheet without discarding
// its config or job history.
func (s *Service) StopMonitoring(ctx context.Context, excelFileID string) error {
	if err := s.Store.SetMonitoring(ctx, excelFileID, false); err != nil {
		return fmt.Errorf("failed to stop monitoring %s: %w", excelFileID, err)
	}
	log.Printf("[MONITOR] stopped monitoring %s", excelFileID)
	return nil
}

// Run polls every monitored spreadsheet until the context is canceled. A
// failing config logs and moves on; only context cancellation stops the loop.
func (s *Service) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	log.Printf("[MONITOR] loop started, interval %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			log.Printf("[MONITOR] cycle failed: %v", err)
		}
		select {
		case <-ctx.Done():
			log.Printf("[MONITOR] loop stopped: %v", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce processes every monitored spreadsheet exactly once, sequentially.
func (s *Service) RunOnce(ctx context.Context) error {
	configs, err := s.Store.MonitoredConfigs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list monitored spreadsheets: %w", err)
	}

	for i := range configs {
		cfg := &configs[i]
		res, err := s.Engine.ProcessSheet(ctx, cfg, false)
		if err != nil {
			log.Printf("[MONITOR] %q (%s): %v", cfg.ExcelFileName, cfg.ExcelFileID, err)
			continue
		}
		if err := s.Store.TouchConfig(ctx, cfg.ID); err != nil {
			log.Printf("[MONITOR] %s: failed to stamp check time: %v", cfg.ExcelFileID, err)
		}
		if res.Processed > 0 || res.Errors > 0 {
			log.Printf("[MONITOR] %q: %d processed, %d skipped, %d errors",
				cfg.ExcelFileName, res.Processed, res.Skipped, res.Errors)
		}
	}
	return nil
}
