package harvest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"ReputationMonitor/internal/domain"
	"ReputationMonitor/internal/scrape"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0 Safari/537.36"

// Resource describes one paginated endpoint and its cleaning thresholds.
type Resource struct {
	Source    domain.SourceType
	Path      string
	Referer   string
	MaxPages  int
	PageDelay time.Duration
	Rules     scrape.FilterRules
}

// Harvester drives the fetch → select → filter loop for one resource,
// page by page, in strictly increasing page order.
type Harvester struct {
	client   *resty.Client
	baseURL  string
	registry *scrape.Registry
	logger   *slog.Logger
}

// NewHarvester wires the shared HTTP client; a nil client gets a
// 30-second timeout and the default browser user agent.
func NewHarvester(client *resty.Client, baseURL string, registry *scrape.Registry, log *slog.Logger) *Harvester {
	if client == nil {
		client = resty.New().SetTimeout(30 * time.Second)
	}
	if client.Header.Get("User-Agent") == "" {
		client.SetHeader("User-Agent", defaultUserAgent)
	}
	return &Harvester{client: client, baseURL: baseURL, registry: registry, logger: log}
}

// Run pages through the resource until the first fetch failure or the
// first page whose cascade yields no candidates. Both conditions are the
// normal end of pagination: a false stop only loses trailing data, while
// treating them as retryable would loop forever on this kind of source.
// Records from already accepted pages are always kept.
func (h *Harvester) Run(ctx context.Context, res Resource) ([]domain.Record, error) {
	cascade, err := h.registry.Resolve(res.Source)
	if err != nil {
		return nil, err
	}

	maxPages := res.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	var records []domain.Record
	for page := 1; page <= maxPages; page++ {
		pageURL, err := buildPageURL(h.baseURL, res.Path, page)
		if err != nil {
			return records, fmt.Errorf("resource %s: %w", res.Source, err)
		}

		doc, err := h.fetchDocument(ctx, pageURL, res.Referer)
		if errors.Is(err, ErrParse) {
			h.debug("skipping malformed page", "source", res.Source, "page", page, "error", err)
			continue
		}
		if err != nil {
			h.debug("pagination ended", "source", res.Source, "page", page, "reason", err)
			break
		}

		strategy, candidates := cascade.Select(doc)
		if len(candidates) == 0 {
			h.debug("no candidates, end of content", "source", res.Source, "page", page)
			break
		}

		clean := res.Rules.Clean(candidates)
		if len(clean) == 0 {
			// Cascade matched but everything filtered out; the page still
			// counts as content, so pagination continues.
			h.debug("page filtered out entirely", "source", res.Source, "page", page, "strategy", strategy)
		}
		for _, candidate := range clean {
			records = append(records, domain.Record{
				Source:  res.Source,
				Text:    candidate.Text,
				Page:    page,
				RawDate: candidate.RawDate,
			})
		}

		if page < maxPages && res.PageDelay > 0 {
			select {
			case <-time.After(res.PageDelay):
			case <-ctx.Done():
				return records, ctx.Err()
			}
		}
	}

	return records, nil
}

func (h *Harvester) fetchDocument(ctx context.Context, pageURL, referer string) (*goquery.Document, error) {
	req := h.client.R().SetContext(ctx)
	if referer != "" {
		req.SetHeader("Referer", referer)
	}

	resp, err := req.Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: status %s", ErrTransport, resp.Status())
	}

	body := resp.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrTransport)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return doc, nil
}

func buildPageURL(base, path string, page int) (string, error) {
	parsed, err := url.Parse(base + path)
	if err != nil {
		return "", fmt.Errorf("invalid resource url %s%s: %w", base, path, err)
	}

	query := parsed.Query()
	query.Set("page", strconv.Itoa(page))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func (h *Harvester) debug(msg string, args ...any) {
	if h.logger != nil {
		h.logger.Debug(msg, args...)
	}
}
