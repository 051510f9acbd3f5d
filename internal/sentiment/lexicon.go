// Package sentiment holds the deterministic lexicon scorer used whenever
// the model-backed classifier is unavailable or fails mid-run.
package sentiment

import (
	"context"
	"regexp"
	"strings"

	"ReputationMonitor/internal/domain"
	"ReputationMonitor/internal/ports"
)

const (
	confidenceDecisive = 0.75
	confidenceTie      = 0.55
)

var wordExpr = regexp.MustCompile(`[a-z']+`)

var positiveWords = map[string]struct{}{
	"great": {}, "awesome": {}, "love": {}, "good": {},
	"fantastic": {}, "recommended": {}, "best": {}, "amazing": {},
}

var negativeWords = map[string]struct{}{
	"bad": {}, "worst": {}, "hate": {}, "problem": {},
	"issues": {}, "broken": {}, "slow": {}, "terrible": {},
}

// Lexicon labels text by keyword counts: Positive when the positive
// count is at least the negative count. Confidence reflects certainty,
// lower on a tie. It never fails, which makes it a safe whole-run
// fallback.
type Lexicon struct{}

var _ ports.Classifier = Lexicon{}

// NewLexicon returns the stateless fallback classifier.
func NewLexicon() Lexicon {
	return Lexicon{}
}

// Name identifies the strategy in logs and digests.
func (Lexicon) Name() string {
	return "lexicon"
}

// Classify scores the batch order-preservingly; one prediction per text.
func (Lexicon) Classify(_ context.Context, texts []string) ([]domain.Prediction, error) {
	predictions := make([]domain.Prediction, len(texts))
	for i, text := range texts {
		predictions[i] = score(text)
	}
	return predictions, nil
}

func score(text string) domain.Prediction {
	var pos, neg int
	for _, word := range wordExpr.FindAllString(strings.ToLower(text), -1) {
		if _, ok := positiveWords[word]; ok {
			pos++
		}
		if _, ok := negativeWords[word]; ok {
			neg++
		}
	}

	label := domain.SentimentNegative
	if pos >= neg {
		label = domain.SentimentPositive
	}

	confidence := confidenceDecisive
	if pos == neg {
		confidence = confidenceTie
	}

	return domain.Prediction{Label: label, Confidence: confidence}
}
