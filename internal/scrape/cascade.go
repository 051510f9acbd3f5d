package scrape

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"ReputationMonitor/internal/domain"
)

// Candidate is one raw text block pulled from a page, together with any
// embedded timestamp text the strategy managed to capture.
type Candidate struct {
	Text    string
	RawDate string
}

// Strategy extracts candidate blocks from a parsed document. Strategies
// are pure: they never filter, normalize, or deduplicate.
type Strategy struct {
	Name   string
	Select func(doc *goquery.Document) []Candidate
}

// Cascade is an ordered strategy list. Selection returns the first
// strategy's non-empty result and never merges across strategies, so the
// most markup-specific match always wins.
type Cascade struct {
	strategies []Strategy
}

// NewCascade builds a cascade from strategies in priority order.
func NewCascade(strategies ...Strategy) Cascade {
	return Cascade{strategies: strategies}
}

// Select runs strategies in order and returns the winning strategy name
// with its candidates. An empty result means no strategy matched.
func (c Cascade) Select(doc *goquery.Document) (string, []Candidate) {
	for _, s := range c.strategies {
		if candidates := s.Select(doc); len(candidates) > 0 {
			return s.Name, candidates
		}
	}
	return "", nil
}

// Registry maps source types to their selection cascades.
type Registry struct {
	cascades map[domain.SourceType]Cascade
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{cascades: map[domain.SourceType]Cascade{}}
}

// Register adds or replaces the cascade for a source type.
func (r *Registry) Register(source domain.SourceType, cascade Cascade) {
	if r.cascades == nil {
		r.cascades = map[domain.SourceType]Cascade{}
	}
	r.cascades[source] = cascade
}

// Resolve returns the cascade for a source type or an error if absent.
func (r *Registry) Resolve(source domain.SourceType) (Cascade, error) {
	if cascade, ok := r.cascades[source]; ok {
		return cascade, nil
	}
	return Cascade{}, fmt.Errorf("no cascade registered for source %s", source)
}
