package app

import (
	"context"
	"log/slog"

	"AgendaScanner/internal/config"
	"AgendaScanner/internal/infrastructure/content"
	"AgendaScanner/internal/infrastructure/httpapi"
	"AgendaScanner/internal/infrastructure/llm"
	"AgendaScanner/internal/infrastructure/scheduler"
	"AgendaScanner/internal/infrastructure/sources"
	"AgendaScanner/internal/infrastructure/storage"
	"AgendaScanner/internal/logging"
	"AgendaScanner/internal/ports"
	"AgendaScanner/internal/scraper"
	"AgendaScanner/internal/summary"
	"AgendaScanner/internal/usecase"
)

// Application wires configuration to the pipeline, API server and
// periodic trigger.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *storage.SQLStore
	pipeline *usecase.Pipeline
	server   *httpapi.Server
	trigger  ports.Trigger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.Open(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	pipeline := BuildPipeline(cfg, store, baseLogger)
	server := httpapi.NewServer(store, pipeline, baseLogger.With("component", "api"))
	trigger := scheduler.NewIntervalTrigger(cfg.Scheduler.IntervalDuration())

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		store:    store,
		pipeline: pipeline,
		server:   server,
		trigger:  trigger,
	}, nil
}

// BuildPipeline assembles the ingestion pipeline and its adapters on
// top of an opened store. Shared between the daemon and agendactl.
func BuildPipeline(cfg config.Config, store *storage.SQLStore, logger *slog.Logger) *usecase.Pipeline {
	fetch := scraper.NewFetchClient(nil)

	registry := scraper.NewRegistry()
	registry.Register(sources.NewWilliamsburgScraper(fetch, cfg.Sources.WilliamsburgBaseURL,
		logger.With("component", "scraper.williamsburg")))
	registry.Register(sources.NewJamesCityScraper(fetch, cfg.Sources.JamesCityBaseURL,
		logger.With("component", "scraper.jamescity")))

	var generation ports.GenerationClient
	if cfg.OpenAI.APIKey != "" {
		generation = llm.NewOpenAIClient(cfg.OpenAI, logger.With("component", "llm"))
	}

	return usecase.NewPipeline(usecase.PipelineDeps{
		Sources:    registry.All(),
		Store:      store,
		Content:    content.NewFetcher(fetch, logger.With("component", "content")),
		Engine:     summary.NewEngine(generation, logger.With("component", "summary")),
		Generation: generation,
		MaxAgeDays: cfg.Ingestion.MaxAgeDays,
		Logger:     logger.With("component", "pipeline"),
	})
}

// Run initializes the schema, starts the periodic ingestion trigger,
// and serves the API until the listener stops.
func (a *Application) Run(ctx context.Context) error {
	defer a.store.Close()

	if err := a.store.InitSchema(ctx); err != nil {
		return err
	}

	job := func() {
		if _, err := a.pipeline.RunIngestion(ctx); err != nil {
			a.logger.Error("scheduled ingestion failed", "error", err)
		}
	}
	if err := a.trigger.Start(ctx, job); err != nil {
		return err
	}
	defer func() { _ = a.trigger.Stop(ctx) }()

	a.logger.Info("serving API", "addr", a.cfg.HTTP.Addr)
	return a.server.Run(a.cfg.HTTP.Addr)
}
