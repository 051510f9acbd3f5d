package harvest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"

	"ReputationMonitor/internal/domain"
	"ReputationMonitor/internal/scrape"
)

func reviewPage(texts ...string) string {
	page := ""
	for _, text := range texts {
		page += fmt.Sprintf(`<div class="review">%s</div>`, text)
	}
	return page
}

func testResource(maxPages int) Resource {
	return Resource{
		Source:   domain.SourceReview,
		Path:     "/reviews",
		MaxPages: maxPages,
		Rules:    scrape.FilterRules{MinLength: 5},
	}
}

func newTestHarvester(serverURL string) *Harvester {
	client := resty.New().SetTimeout(5 * time.Second)
	return NewHarvester(client, serverURL, scrape.DefaultRegistry(), nil)
}

func TestRunStopsOnFetchFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, reviewPage("excellent quality, loved it"))
		case "2":
			fmt.Fprint(w, reviewPage("arrived broken, bad experience"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	records, err := newTestHarvester(server.URL).Run(context.Background(), testResource(10))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records from pages before the failure, got %d", len(records))
	}
	if records[0].Page != 1 || records[1].Page != 2 {
		t.Fatalf("unexpected page assignment: %+v", records)
	}
}

func TestRunStopsOnEmptyCascade(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, reviewPage("totally worth the price"))
			return
		}
		fmt.Fprint(w, `<html><body><span>nothing matching here</span></body></html>`)
	}))
	defer server.Close()

	records, err := newTestHarvester(server.URL).Run(context.Background(), testResource(10))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected exactly the first page's record, got %d", len(records))
	}
}

func TestRunContinuesWhenPageFiltersOut(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			// Cascade matches but every candidate is boilerplate.
			fmt.Fprint(w, reviewPage("see more at web-scraping.dev today"))
		case "2":
			fmt.Fprint(w, reviewPage("a survivor of the boilerplate purge"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	res := testResource(10)
	res.Rules.Boilerplate = []string{"web-scraping.dev"}

	records, err := newTestHarvester(server.URL).Run(context.Background(), res)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(records) != 1 || records[0].Page != 2 {
		t.Fatalf("expected page 2 to still be crawled, got %+v", records)
	}
}

func TestRunHonorsMaxPages(t *testing.T) {
	t.Parallel()

	var served int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served++
		fmt.Fprint(w, reviewPage("endless identical-looking content"))
	}))
	defer server.Close()

	records, err := newTestHarvester(server.URL).Run(context.Background(), testResource(3))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if served != 3 {
		t.Fatalf("expected exactly 3 fetches, got %d", served)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
}

func TestRunStopsOnEmptyBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, reviewPage("the only page with content"))
			return
		}
		fmt.Fprint(w, "   ")
	}))
	defer server.Close()

	records, err := newTestHarvester(server.URL).Run(context.Background(), testResource(10))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestSourceSendsReferer(t *testing.T) {
	t.Parallel()

	var gotReferer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("Referer")
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	harvester := newTestHarvester(server.URL)
	source := NewSource(harvester, []Resource{{
		Source:   domain.SourceTestimonial,
		Path:     "/api/testimonials",
		Referer:  server.URL + "/testimonials",
		MaxPages: 3,
		Rules:    scrape.FilterRules{MinLength: 5},
	}}, nil)

	records, err := source.Harvest(context.Background(), domain.SourceTestimonial)
	if err != nil {
		t.Fatalf("Harvest error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records from a 404, got %d", len(records))
	}
	if gotReferer != server.URL+"/testimonials" {
		t.Fatalf("unexpected referer: %q", gotReferer)
	}
}

func TestSourceUnknownResource(t *testing.T) {
	t.Parallel()

	source := NewSource(newTestHarvester("http://localhost:0"), nil, nil)
	if _, err := source.Harvest(context.Background(), domain.SourceProduct); err == nil {
		t.Fatal("expected error for unconfigured source")
	}
}
