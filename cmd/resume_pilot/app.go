package main

import (
	"context"
	"fmt"

	"github.com/jordan/resume-pilot/internal/config"
	"github.com/jordan/resume-pilot/internal/db"
	"github.com/jordan/resume-pilot/internal/docs"
	"github.com/jordan/resume-pilot/internal/drive"
	"github.com/jordan/resume-pilot/internal/engine"
	"github.com/jordan/resume-pilot/internal/llm"
	"github.com/jordan/resume-pilot/internal/monitor"
	"github.com/jordan/resume-pilot/internal/scrape"
	"github.com/jordan/resume-pilot/internal/sheet"
)

// app bundles the wired services behind the CLI commands.
type app struct {
	cfg     *config.Config
	store   *db.Store
	drive   *drive.Service
	sheets  *sheet.Adapter
	llm     *llm.GeminiClient
	engine  *engine.Engine
	monitor *monitor.Service
}

// newApp connects to every backing service and wires the engine.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	store, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	driveSvc, err := drive.NewService(ctx, cfg.GoogleCredentialsFile)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create Drive client: %w", err)
	}
	docsSvc, err := docs.NewService(ctx, cfg.GoogleCredentialsFile)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create Docs client: %w", err)
	}

	model := cfg.GeminiModel
	if model == "" {
		model = llm.DefaultModel
	}
	gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, model)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	extractor := scrape.New()
	extractor.Timeout = cfg.ScrapeTimeout
	extractor.UseBrowser = cfg.UseBrowser
	extractor.Verbose = cfg.Verbose

	sheets := sheet.NewAdapter(driveSvc)

	eng := &engine.Engine{
		Sheets:  sheets,
		Docs:    docsSvc,
		Gen:     gemini,
		Scraper: extractor,
		Store:   store,
	}

	return &app{
		cfg:    cfg,
		store:  store,
		drive:  driveSvc,
		sheets: sheets,
		llm:    gemini,
		engine: eng,
		monitor: &monitor.Service{
			Store:    store,
			Metadata: driveSvc,
			Engine:   eng,
			Interval: cfg.MonitorInterval,
		},
	}, nil
}

func (a *app) Close() {
	if a.llm != nil {
		_ = a.llm.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
}
