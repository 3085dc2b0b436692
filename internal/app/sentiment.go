package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/adapters/observability"
	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/domain"
)

// AttachSentiment invokes the external scorer once for the review text and
// maps its label space onto the internal positive/negative taxonomy.
// Any scorer failure, unknown label, or out-of-range confidence marks the
// review unscored with confidence 0 — the review is kept either way.
func AttachSentiment(ctx context.Context, review domain.CleanReview, scorer domain.SentimentScorer) (string, float64) {
	label, conf, err := scorer.Score(ctx, review.Text)
	if err != nil {
		log.Warn().Err(err).Str("bank", review.Bank).Msg("sentiment scoring failed, keeping review unscored")
		observability.ScoringFailures.Inc()
		return domain.SentimentUnscored, 0
	}
	mapped, ok := mapSentimentLabel(label)
	if !ok || conf < 0 || conf > 1 {
		log.Warn().Str("label", label).Float64("confidence", conf).Msg("invalid scorer output, keeping review unscored")
		observability.ScoringFailures.Inc()
		return domain.SentimentUnscored, 0
	}
	return mapped, conf
}

// mapSentimentLabel accepts the common label spellings of binary sentiment
// checkpoints: POSITIVE/NEGATIVE in any case and the SST-2 LABEL_0/LABEL_1
// convention (0 = negative, 1 = positive).
func mapSentimentLabel(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "positive", "pos", "label_1":
		return domain.SentimentPositive, true
	case "negative", "neg", "label_0":
		return domain.SentimentNegative, true
	default:
		return "", false
	}
}
