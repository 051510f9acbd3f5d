package app

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	_ "github.com/lib/pq"

	"ReputationMonitor/internal/config"
	"ReputationMonitor/internal/domain"
	"ReputationMonitor/internal/infrastructure/export"
	"ReputationMonitor/internal/infrastructure/harvest"
	"ReputationMonitor/internal/infrastructure/ml"
	"ReputationMonitor/internal/infrastructure/scheduler"
	"ReputationMonitor/internal/infrastructure/storage"
	"ReputationMonitor/internal/infrastructure/telegram"
	"ReputationMonitor/internal/logging"
	"ReputationMonitor/internal/ports"
	"ReputationMonitor/internal/scrape"
	"ReputationMonitor/internal/sentiment"
	"ReputationMonitor/internal/usecase"
)

// Application wires configuration to the pipeline and its adapters.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	db       *sql.DB
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	client := resty.New().SetTimeout(cfg.Site.Timeout())
	if cfg.Site.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.Site.UserAgent)
	}

	harvester := harvest.NewHarvester(client, cfg.Site.BaseURL, scrape.DefaultRegistry(),
		logging.Component(baseLogger, "harvester"))
	source := harvest.NewSource(harvester, toResources(cfg), logging.Component(baseLogger, "source"))

	var primary ports.Classifier
	if cfg.Sentiment.InferenceURL != "" {
		primary = ml.NewClient(cfg.Sentiment.InferenceURL, cfg.Sentiment.APIKey)
	}

	var repository ports.RecordRepository
	var db *sql.DB
	if cfg.Database.DSN != "" {
		opened, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			baseLogger.Warn("postgres disabled", "error", err)
		} else {
			db = opened
			repository = storage.NewPostgresRepository(db)
		}
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:          source,
		Classifier:      primary,
		Fallback:        sentiment.NewLexicon(),
		Repository:      repository,
		Exporter:        export.NewCSVExporter(cfg.Export.Dir, logging.Component(baseLogger, "export")),
		Notifier:        notifier,
		Logger:          logging.Component(baseLogger, "pipeline"),
		Sources:         sourceOrder(cfg),
		TargetYear:      cfg.Pipeline.TargetYear,
		ClassifyReviews: !cfg.Pipeline.SkipClassification,
	})

	return &Application{cfg: cfg, pipeline: pipeline, db: db}
}

// Run performs a single pipeline execution.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	_, err := a.pipeline.Run(ctx)
	return err
}

// RunScheduled reruns the pipeline on the configured interval until the
// context is canceled.
func (a *Application) RunScheduled(ctx context.Context) error {
	driver := scheduler.NewTickerScheduler(a.cfg.Scheduler.Interval())
	recurring := usecase.NewScheduler(driver, a.pipeline)

	if err := recurring.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return recurring.Stop(stopCtx)
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func toResources(cfg config.Config) []harvest.Resource {
	resources := make([]harvest.Resource, 0, len(cfg.Resources))
	for _, res := range cfg.Resources {
		resources = append(resources, harvest.Resource{
			Source:    domain.SourceType(res.Source),
			Path:      res.Path,
			Referer:   res.Referer,
			MaxPages:  res.MaxPages,
			PageDelay: cfg.Site.PageDelay(),
			Rules: scrape.FilterRules{
				MinLength:   res.MinLength,
				Boilerplate: cfg.Site.Boilerplate,
				MaxPerPage:  res.MaxPerPage,
			},
		})
	}
	return resources
}

func sourceOrder(cfg config.Config) []domain.SourceType {
	order := make([]domain.SourceType, 0, len(cfg.Resources))
	for _, res := range cfg.Resources {
		order = append(order, domain.SourceType(res.Source))
	}
	return order
}
