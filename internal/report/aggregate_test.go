package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ReputationMonitor/internal/domain"
)

func classifiedReview(day time.Time, label domain.SentimentLabel, confidence float64) domain.Record {
	return domain.Record{
		Source:     domain.SourceReview,
		Text:       "review body",
		Page:       1,
		PostedAt:   day,
		Sentiment:  label,
		Confidence: confidence,
	}
}

func TestBucketByMonthExample(t *testing.T) {
	t.Parallel()

	may := time.Date(2023, time.May, 15, 0, 0, 0, 0, time.UTC)

	var records []domain.Record
	for i := 0; i < 6; i++ {
		records = append(records, classifiedReview(may, domain.SentimentPositive, 0.9))
	}
	for i := 0; i < 4; i++ {
		records = append(records, classifiedReview(may, domain.SentimentNegative, 0.6))
	}

	buckets := BucketByMonth(records, 2023)
	bucket := Query(buckets, "2023-05")

	assert.Equal(t, 10, bucket.Records)
	assert.Equal(t, 6, bucket.Positive)
	assert.Equal(t, 4, bucket.Negative)
	require.NotNil(t, bucket.MeanPositive)
	require.NotNil(t, bucket.MeanNegative)
	assert.InDelta(t, 0.9, *bucket.MeanPositive, 1e-9)
	assert.InDelta(t, 0.6, *bucket.MeanNegative, 1e-9)
}

func TestQueryUnknownMonthIsZeroBucket(t *testing.T) {
	t.Parallel()

	bucket := Query(BucketByMonth(nil, 2023), "2023-01")
	assert.Equal(t, domain.MonthBucket{}, bucket)
	assert.Nil(t, bucket.MeanPositive)
	assert.Nil(t, bucket.MeanNegative)
}

func TestBucketByMonthExcludesOutOfYearAndUnresolved(t *testing.T) {
	t.Parallel()

	records := []domain.Record{
		classifiedReview(time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC), domain.SentimentPositive, 0.8),
		classifiedReview(time.Date(2022, time.April, 1, 0, 0, 0, 0, time.UTC), domain.SentimentPositive, 0.8),
		{Source: domain.SourceReview, Text: "never resolved", Page: 2},
	}

	buckets := BucketByMonth(records, 2023)
	require.Len(t, buckets, 1)
	assert.Equal(t, 1, Query(buckets, "2023-04").Records)
}

func TestBucketByMonthUnclassifiedRecords(t *testing.T) {
	t.Parallel()

	records := []domain.Record{
		{
			Source:   domain.SourceReview,
			Text:     "unclassified review",
			Page:     1,
			PostedAt: time.Date(2023, time.July, 3, 0, 0, 0, 0, time.UTC),
		},
		classifiedReview(time.Date(2023, time.July, 9, 0, 0, 0, 0, time.UTC), domain.SentimentNegative, 0.7),
	}

	bucket := Query(BucketByMonth(records, 2023), "2023-07")
	assert.Equal(t, 2, bucket.Records)
	assert.Equal(t, 0, bucket.Positive)
	assert.Equal(t, 1, bucket.Negative)
	assert.Nil(t, bucket.MeanPositive, "no positives means undefined mean")
	require.NotNil(t, bucket.MeanNegative)
	assert.InDelta(t, 0.7, *bucket.MeanNegative, 1e-9)
}

func TestMonthsSortedChronologically(t *testing.T) {
	t.Parallel()

	records := []domain.Record{
		classifiedReview(time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC), domain.SentimentPositive, 0.9),
		classifiedReview(time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC), domain.SentimentPositive, 0.9),
		classifiedReview(time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC), domain.SentimentPositive, 0.9),
	}

	months := Months(BucketByMonth(records, 2023))
	assert.Equal(t, []string{"2023-02", "2023-07", "2023-11"}, months)
}

func TestMonthKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2023-05", MonthKey(time.Date(2023, time.May, 31, 23, 59, 0, 0, time.UTC)))
}
