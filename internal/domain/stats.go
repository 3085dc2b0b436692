package domain

// ThemeStats describes one theme within one bank (or globally).
// Pct is the share of that scope's reviews bearing the theme; multi-label
// reviews count toward every assigned theme, so theme percentages for one
// scope need not sum to 100.
type ThemeStats struct {
	Count          int     `json:"count"`
	Pct            float64 `json:"pct"`
	MeanConfidence float64 `json:"mean_confidence"`
}

// BankStats is the sentiment and theme breakdown for one bank (or globally).
// Unscored reviews are excluded from sentiment percentages and the
// confidence mean but still counted in Total and theme stats.
type BankStats struct {
	Total                   int                   `json:"total"`
	Positive                int                   `json:"positive"`
	Negative                int                   `json:"negative"`
	Unscored                int                   `json:"unscored"`
	PositivePct             float64               `json:"positive_pct"`
	NegativePct             float64               `json:"negative_pct"`
	MeanSentimentConfidence float64               `json:"mean_sentiment_confidence"`
	Themes                  map[string]ThemeStats `json:"themes"`
}

// AggregateStats is the full per-run report, recomputed wholly each run.
type AggregateStats struct {
	Banks  map[string]BankStats `json:"banks"`
	Global BankStats            `json:"global"`
}
