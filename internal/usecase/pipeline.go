package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ReputationMonitor/internal/domain"
	"ReputationMonitor/internal/ports"
	"ReputationMonitor/internal/report"
	"ReputationMonitor/internal/timeline"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
// Classifier is the strategy selected once per run by capability check;
// Fallback is the lexicon scorer used when the primary fails mid-batch.
type PipelineDeps struct {
	Source          ports.RecordSource
	Classifier      ports.Classifier
	Fallback        ports.Classifier
	Repository      ports.RecordRepository
	Exporter        ports.Exporter
	Notifier        ports.Notifier
	Logger          *slog.Logger
	Sources         []domain.SourceType
	TargetYear      int
	ClassifyReviews bool
}

// Pipeline implements the harvest → resolve → classify → aggregate flow.
// Stages run strictly in that order; each completes for the whole corpus
// before the next begins, which keeps backfill and label semantics
// reproducible.
type Pipeline struct {
	source          ports.RecordSource
	classifier      ports.Classifier
	fallback        ports.Classifier
	repository      ports.RecordRepository
	exporter        ports.Exporter
	notifier        ports.Notifier
	logger          *slog.Logger
	sources         []domain.SourceType
	targetYear      int
	classifyReviews bool
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:          deps.Source,
		classifier:      deps.Classifier,
		fallback:        deps.Fallback,
		repository:      deps.Repository,
		exporter:        deps.Exporter,
		notifier:        deps.Notifier,
		logger:          deps.Logger,
		sources:         deps.Sources,
		targetYear:      deps.TargetYear,
		classifyReviews: deps.ClassifyReviews,
	}
}

// Run executes one full harvest across the configured resource types.
// A failure in one resource never aborts its siblings, and partial
// results already collected are always carried downstream.
func (p *Pipeline) Run(ctx context.Context) ([]domain.RunResult, error) {
	if p.source == nil {
		return nil, fmt.Errorf("record source is not configured")
	}

	var results []domain.RunResult
	for _, source := range p.sources {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := p.processResource(ctx, source)
		results = append(results, result)

		if p.exporter != nil {
			if err := p.exporter.Export(result); err != nil {
				p.warn("export failed", "source", source, "error", err)
			}
		}
		if p.repository != nil {
			if err := p.repository.SaveRun(ctx, result); err != nil {
				p.warn("persist failed", "source", source, "error", err)
			}
		}
	}

	if p.notifier != nil && len(results) > 0 {
		if err := p.notifier.PublishDigest(ctx, buildDigest(results)); err != nil {
			p.warn("digest publish failed", "error", err)
		}
	}

	return results, nil
}

func (p *Pipeline) processResource(ctx context.Context, source domain.SourceType) domain.RunResult {
	records, err := p.source.Harvest(ctx, source)
	if err != nil {
		// Keep whatever pages were accepted before the failure.
		p.warn("harvest ended with error", "source", source, "kept", len(records), "error", err)
	}

	result := domain.RunResult{Source: source, Records: records}
	if source != domain.SourceReview {
		return result
	}

	result.Backfilled = timeline.Resolve(records, p.targetYear)
	if result.Backfilled {
		p.debug("no real timestamps in corpus, backfill applied", "records", len(records))
	}

	if p.classifyReviews && len(records) > 0 {
		result.Classified = p.classify(ctx, records)
	}

	result.Buckets = report.BucketByMonth(records, p.targetYear)
	return result
}

// availabilityChecker is implemented by classifiers that can be probed
// before a batch is committed to them.
type availabilityChecker interface {
	Ping(ctx context.Context) error
}

// selectClassifier picks the strategy for the whole run: the primary if
// it is configured and passes its capability check, the fallback
// otherwise. The choice is made once per run, never per record.
func (p *Pipeline) selectClassifier(ctx context.Context) ports.Classifier {
	if p.classifier == nil {
		return p.fallback
	}
	if checker, ok := p.classifier.(availabilityChecker); ok {
		if err := checker.Ping(ctx); err != nil {
			p.warn("primary classifier unavailable, using fallback",
				"classifier", p.classifier.Name(), "error", err)
			return p.fallback
		}
	}
	return p.classifier
}

// classify labels the corpus with the selected strategy. Any primary
// error triggers a whole-batch rerun on the fallback, never a per-item
// switch, so label semantics stay consistent within one aggregation.
func (p *Pipeline) classify(ctx context.Context, records []domain.Record) bool {
	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.Text
	}

	classifier := p.selectClassifier(ctx)
	if classifier == nil {
		return false
	}

	predictions, err := classifier.Classify(ctx, texts)
	if err != nil && p.fallback != nil && classifier.Name() != p.fallback.Name() {
		p.warn("classifier failed, falling back for the whole batch",
			"classifier", classifier.Name(), "fallback", p.fallback.Name(), "error", err)
		predictions, err = p.fallback.Classify(ctx, texts)
	}
	if err != nil || len(predictions) != len(records) {
		p.warn("classification skipped", "error", err)
		return false
	}

	for i := range records {
		records[i].Sentiment = predictions[i].Label
		records[i].Confidence = predictions[i].Confidence
	}
	return true
}

func buildDigest(results []domain.RunResult) string {
	var b strings.Builder
	b.WriteString("Reputation harvest finished\n")

	for _, result := range results {
		fmt.Fprintf(&b, "- %s: %d records\n", result.Source, len(result.Records))
		if result.Source != domain.SourceReview || len(result.Buckets) == 0 {
			continue
		}

		var pos, neg int
		for _, bucket := range result.Buckets {
			pos += bucket.Positive
			neg += bucket.Negative
		}
		if result.Classified {
			fmt.Fprintf(&b, "  sentiment: %d positive / %d negative\n", pos, neg)
		}

		busiest, count := "", 0
		for _, month := range report.Months(result.Buckets) {
			if bucket := result.Buckets[month]; bucket.Records > count {
				busiest, count = month, bucket.Records
			}
		}
		if busiest != "" {
			fmt.Fprintf(&b, "  busiest month: %s (%d records)\n", busiest, count)
		}
		if result.Backfilled {
			b.WriteString("  note: timestamps are synthetic backfill\n")
		}
	}

	return b.String()
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
