package harvest

import (
	"context"
	"fmt"
	"log/slog"

	"ReputationMonitor/internal/domain"
	"ReputationMonitor/internal/ports"
)

// Source implements ports.RecordSource over config-defined resources.
type Source struct {
	harvester *Harvester
	resources map[domain.SourceType]Resource
	logger    *slog.Logger
}

var _ ports.RecordSource = (*Source)(nil)

// NewSource indexes the configured resources by their source type.
func NewSource(harvester *Harvester, resources []Resource, log *slog.Logger) *Source {
	indexed := make(map[domain.SourceType]Resource, len(resources))
	for _, res := range resources {
		indexed[res.Source] = res
	}
	return &Source{harvester: harvester, resources: indexed, logger: log}
}

// Harvest collects all pages for one source type. A transport failure
// mid-crawl ends that resource only; whatever was already accepted is
// returned to the caller.
func (s *Source) Harvest(ctx context.Context, source domain.SourceType) ([]domain.Record, error) {
	if s.harvester == nil {
		return nil, fmt.Errorf("harvester is not configured")
	}

	res, ok := s.resources[source]
	if !ok {
		return nil, fmt.Errorf("source %s is not configured", source)
	}

	s.debug("harvest start", "source", source, "path", res.Path, "max_pages", res.MaxPages)
	records, err := s.harvester.Run(ctx, res)
	if err != nil {
		return records, fmt.Errorf("harvest %s: %w", source, err)
	}

	s.debug("harvest done", "source", source, "records", len(records))
	return records, nil
}

func (s *Source) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
