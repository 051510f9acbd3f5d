package ports

import (
	"context"
	"time"

	"ReputationMonitor/internal/domain"
)

// RecordSource harvests records for a single resource type from the site.
type RecordSource interface {
	Harvest(ctx context.Context, source domain.SourceType) ([]domain.Record, error)
}

// Classifier batch-scores review texts, one prediction per input, order
// preserved. Implementations never partially succeed: either the whole
// batch is scored or an error is returned.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, texts []string) ([]domain.Prediction, error)
}

// RecordRepository persists the outcome of a run for history and audit.
type RecordRepository interface {
	SaveRun(ctx context.Context, result domain.RunResult) error
}

// Exporter writes a run result to its external representation (CSV files).
type Exporter interface {
	Export(result domain.RunResult) error
}

// Notifier publishes a human-readable digest of a finished run.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
