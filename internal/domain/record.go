package domain

import "time"

// SourceType identifies which site resource a record was harvested from.
type SourceType string

const (
	SourceProduct     SourceType = "product"
	SourceTestimonial SourceType = "testimonial"
	SourceReview      SourceType = "review"
)

// SentimentLabel is the binary classification outcome for review text.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNegative SentimentLabel = "Negative"
)

// Record is the unit flowing through the pipeline. Text and Page are set
// at extraction time; PostedAt is filled by the timestamp resolver and
// Sentiment/Confidence by the classifier, each exactly once.
type Record struct {
	Source     SourceType
	Text       string
	Page       int
	RawDate    string
	PostedAt   time.Time
	Sentiment  SentimentLabel
	Confidence float64
}

// Resolved reports whether the record carries a usable timestamp.
func (r Record) Resolved() bool {
	return !r.PostedAt.IsZero()
}

// Classified reports whether the sentiment pass has labeled the record.
func (r Record) Classified() bool {
	return r.Sentiment != ""
}

// Prediction is one classifier result; Confidence is in [0,1].
type Prediction struct {
	Label      SentimentLabel
	Confidence float64
}

// MonthBucket aggregates one calendar month of records. The mean
// confidences are nil when the corresponding label count is zero.
type MonthBucket struct {
	Records      int
	Positive     int
	Negative     int
	MeanPositive *float64
	MeanNegative *float64
}

// RunResult is the outcome of one full pipeline execution for a single
// resource, handed to exporters, storage, and the notifier.
type RunResult struct {
	Source     SourceType
	Records    []Record
	Classified bool
	Backfilled bool
	Buckets    map[string]MonthBucket
}
