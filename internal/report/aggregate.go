// Package report groups resolved, classified records into calendar-month
// buckets for downstream querying.
package report

import (
	"sort"
	"time"

	"ReputationMonitor/internal/domain"
)

const monthKeyLayout = "2006-01"

// MonthKey renders the bucket key; lexicographic order of keys equals
// chronological order.
func MonthKey(t time.Time) string {
	return t.Format(monthKeyLayout)
}

// BucketByMonth groups records by month. Only records whose resolved
// timestamp falls inside the target year participate; unresolved records
// are skipped entirely. Unclassified records count toward the month's
// record total but not toward label counts or means.
func BucketByMonth(records []domain.Record, targetYear int) map[string]domain.MonthBucket {
	type tally struct {
		records int
		pos     int
		neg     int
		posSum  float64
		negSum  float64
	}

	tallies := map[string]*tally{}
	for _, record := range records {
		if !record.Resolved() || record.PostedAt.Year() != targetYear {
			continue
		}

		key := MonthKey(record.PostedAt)
		t, ok := tallies[key]
		if !ok {
			t = &tally{}
			tallies[key] = t
		}

		t.records++
		if !record.Classified() {
			continue
		}
		switch record.Sentiment {
		case domain.SentimentPositive:
			t.pos++
			t.posSum += record.Confidence
		case domain.SentimentNegative:
			t.neg++
			t.negSum += record.Confidence
		}
	}

	buckets := make(map[string]domain.MonthBucket, len(tallies))
	for key, t := range tallies {
		bucket := domain.MonthBucket{
			Records:  t.records,
			Positive: t.pos,
			Negative: t.neg,
		}
		if t.pos > 0 {
			mean := t.posSum / float64(t.pos)
			bucket.MeanPositive = &mean
		}
		if t.neg > 0 {
			mean := t.negSum / float64(t.neg)
			bucket.MeanNegative = &mean
		}
		buckets[key] = bucket
	}

	return buckets
}

// Query answers a point lookup; unknown months yield a zero-filled
// bucket rather than an error.
func Query(buckets map[string]domain.MonthBucket, month string) domain.MonthBucket {
	if bucket, ok := buckets[month]; ok {
		return bucket
	}
	return domain.MonthBucket{}
}

// Months lists the bucket keys in chronological order.
func Months(buckets map[string]domain.MonthBucket) []string {
	months := make([]string, 0, len(buckets))
	for key := range buckets {
		months = append(months, key)
	}
	sort.Strings(months)
	return months
}
