// Package timeline reconciles record timestamps. Real embedded dates are
// preferred; when the whole corpus carries none, synthetic dates are
// backfilled deterministically so month bucketing stays usable.
package timeline

import (
	"regexp"
	"strings"
	"time"

	"ReputationMonitor/internal/domain"
)

var layouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

var (
	isoExpr  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	longExpr = regexp.MustCompile(`\d{1,2} [A-Za-z]{3} \d{4}`)
)

// Resolve populates PostedAt across the corpus and reports whether
// synthetic backfill was used. The decision is all-or-nothing at corpus
// level: if at least one record's raw date parses, each record keeps its
// own parse and failures stay unresolved (downstream aggregation skips
// them). If zero records parse, every record gets a synthetic date
// spaced evenly across the target year in insertion order. Mixing real
// and synthetic dates would corrupt month comparisons.
func Resolve(records []domain.Record, targetYear int) bool {
	if len(records) == 0 {
		return false
	}

	parsed := make([]time.Time, len(records))
	anyReal := false

	for i, record := range records {
		if ts, ok := ParseDate(record.RawDate); ok {
			parsed[i] = ts
			anyReal = true
		}
	}

	if anyReal {
		for i := range records {
			records[i].PostedAt = parsed[i]
		}
		return false
	}

	backfill(records, targetYear)
	return true
}

// ParseDate tries the known layouts against the raw value, then against
// date-looking substrings inside it.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}

	if match := isoExpr.FindString(raw); match != "" {
		if ts, err := time.Parse("2006-01-02", match); err == nil {
			return ts, true
		}
	}
	if match := longExpr.FindString(raw); match != "" {
		if ts, err := time.Parse("2 Jan 2006", match); err == nil {
			return ts, true
		}
	}

	return time.Time{}, false
}

// backfill spreads N records across [Jan 1, Dec 31] of the target year.
// Integer day arithmetic keeps the assignment identical across runs for
// a fixed corpus size and order.
func backfill(records []domain.Record, targetYear int) {
	n := len(records)
	if n == 0 {
		return
	}

	start := time.Date(targetYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(targetYear, time.December, 31, 0, 0, 0, 0, time.UTC)
	spanDays := int(end.Sub(start).Hours() / 24)

	if n == 1 {
		records[0].PostedAt = start
		return
	}

	for i := range records {
		offset := spanDays * i / (n - 1)
		records[i].PostedAt = start.AddDate(0, 0, offset)
	}
}
