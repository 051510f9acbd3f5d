package scrape

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"ReputationMonitor/internal/domain"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

func TestCascadeFirstNonEmptyWins(t *testing.T) {
	t.Parallel()

	cascade := NewCascade(
		Strategy{Name: "specific", Select: selectTexts(".missing")},
		Strategy{Name: "generic", Select: selectTexts("p")},
	)

	doc := mustDoc(t, `<div><p>first block</p><p>second block</p></div>`)

	name, candidates := cascade.Select(doc)
	if name != "generic" {
		t.Fatalf("expected generic strategy to win, got %q", name)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
}

func TestCascadeNeverMergesStrategies(t *testing.T) {
	t.Parallel()

	cascade := NewCascade(
		Strategy{Name: "cards", Select: selectTexts(".card")},
		Strategy{Name: "paragraphs", Select: selectTexts("p")},
	)

	doc := mustDoc(t, `<div class="card">card text</div><p>paragraph text</p>`)

	name, candidates := cascade.Select(doc)
	if name != "cards" {
		t.Fatalf("expected cards strategy, got %q", name)
	}
	if len(candidates) != 1 || candidates[0].Text != "card text" {
		t.Fatalf("unexpected candidates: %+v", candidates)
	}
}

func TestCascadeEmptyDocument(t *testing.T) {
	t.Parallel()

	cascade := NewCascade(Strategy{Name: "paragraphs", Select: selectTexts("p")})

	name, candidates := cascade.Select(mustDoc(t, `<div>no paragraphs here</div>`))
	if name != "" || candidates != nil {
		t.Fatalf("expected no match, got %q with %d candidates", name, len(candidates))
	}
}

func TestReviewCascadeCapturesTimestamps(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()
	cascade, err := reg.Resolve(domain.SourceReview)
	if err != nil {
		t.Fatalf("resolve review cascade: %v", err)
	}

	html := `
	<div class="review">
	  <time datetime="2023-05-12">May 12, 2023</time>
	  <p>Great flavor, would order again.</p>
	</div>
	<div class="review">
	  <span class="review-date">2023-06-01</span>
	  <p>Shipping was slow and the box arrived broken.</p>
	</div>`

	name, candidates := cascade.Select(mustDoc(t, html))
	if name != "timestamp-anchored" {
		t.Fatalf("expected timestamp-anchored strategy, got %q", name)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].RawDate != "2023-05-12" {
		t.Fatalf("expected datetime attribute captured, got %q", candidates[0].RawDate)
	}
	if candidates[1].RawDate != "2023-06-01" {
		t.Fatalf("expected date text captured, got %q", candidates[1].RawDate)
	}
}

func TestReviewCascadeFallsBackToContainers(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()
	cascade, err := reg.Resolve(domain.SourceReview)
	if err != nil {
		t.Fatalf("resolve review cascade: %v", err)
	}

	html := `<article>No timestamps anywhere in this markup.</article>`

	name, candidates := cascade.Select(mustDoc(t, html))
	if name != "content-containers" {
		t.Fatalf("expected content-containers strategy, got %q", name)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].RawDate != "" {
		t.Fatalf("expected no raw date, got %q", candidates[0].RawDate)
	}
}

func TestRegistryResolveUnknown(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	if _, err := reg.Resolve(domain.SourceProduct); err == nil {
		t.Fatal("expected error for unregistered source")
	}
}
