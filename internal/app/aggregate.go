package app

import (
	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/domain"
)

// Aggregate computes per-bank, per-theme, and global descriptive statistics
// from classified reviews. Fully recomputed each call; order-independent.
// Empty subsets yield zero statistics, never an error.
func Aggregate(records []domain.ClassifiedReview) domain.AggregateStats {
	stats := domain.AggregateStats{Banks: make(map[string]domain.BankStats)}

	byBank := make(map[string][]domain.ClassifiedReview)
	for _, r := range records {
		byBank[r.Bank] = append(byBank[r.Bank], r)
	}
	for bank, rs := range byBank {
		stats.Banks[bank] = bankStats(rs)
	}
	stats.Global = bankStats(records)
	return stats
}

func bankStats(rs []domain.ClassifiedReview) domain.BankStats {
	bs := domain.BankStats{
		Total:  len(rs),
		Themes: make(map[string]domain.ThemeStats),
	}

	var confSum float64
	themeCount := make(map[string]int)
	themeConfSum := make(map[string]float64)

	for _, r := range rs {
		switch r.SentimentLabel {
		case domain.SentimentPositive:
			bs.Positive++
			confSum += r.SentimentConfidence
		case domain.SentimentNegative:
			bs.Negative++
			confSum += r.SentimentConfidence
		default:
			bs.Unscored++
		}
		for _, theme := range r.Themes {
			themeCount[theme]++
			themeConfSum[theme] += r.ThemeConfidence[theme]
		}
	}

	// Sentiment percentages are over scored reviews only, so they sum to
	// 100 whenever anything was scored.
	scored := bs.Positive + bs.Negative
	bs.PositivePct = pct(bs.Positive, scored)
	bs.NegativePct = pct(bs.Negative, scored)
	if scored > 0 {
		bs.MeanSentimentConfidence = confSum / float64(scored)
	}

	// Theme percentages are over all of the scope's reviews; multi-label
	// reviews count toward every assigned theme.
	for theme, count := range themeCount {
		bs.Themes[theme] = domain.ThemeStats{
			Count:          count,
			Pct:            pct(count, bs.Total),
			MeanConfidence: themeConfSum[theme] / float64(count),
		}
	}
	return bs
}

func pct(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
