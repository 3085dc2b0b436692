package domain

// RawReview is a review record exactly as a source produced it. Rating and
// Date stay strings at this boundary; parsing them is the Normalizer's job.
type RawReview struct {
	Text   string
	Rating string
	Date   string
	Bank   string
	Source string
}

// CleanReview is a validated, normalized review. Date is always an ISO
// calendar date (2006-01-02) and Rating is within [1,5].
type CleanReview struct {
	Text   string
	Rating int
	Date   string
	Bank   string
	Source string
}

// Key is the deduplication identity: no two CleanReviews in one run share it.
func (c CleanReview) Key() string {
	return c.Text + "|" + c.Bank + "|" + c.Date
}

// Sentiment labels used internally. Unscored marks reviews the external
// scorer could not handle; they stay in theme aggregates.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentUnscored = "unscored"
)

// ClassifiedReview merges theme and sentiment results for one CleanReview.
// Themes are ordered by descending confidence.
type ClassifiedReview struct {
	CleanReview
	SentimentLabel      string
	SentimentConfidence float64
	Themes              []string
	ThemeConfidence     map[string]float64
}

// KeywordScore is one term's importance within a scope ("global" or a bank
// name). Derived per run, advisory only.
type KeywordScore struct {
	Term  string
	Score float64
	Scope string
}

// ScopeGlobal is the corpus-wide keyword scope; every other scope is a bank name.
const ScopeGlobal = "global"

// ThemeDefinition is one entry of the fixed theme taxonomy. Declaration
// order across the taxonomy is the tie-break order for equal confidences.
type ThemeDefinition struct {
	Name        string   `json:"name"`
	Keywords    []string `json:"keywords"`
	Description string   `json:"description,omitempty"`
}

// Bank is a row of the fixed bank reference table.
type Bank struct {
	ID    int64
	Name  string
	AppID string
}

// DropReason says why the Normalizer discarded a raw row.
type DropReason string

const (
	DropMissingText DropReason = "missing-text"
	DropBadRating   DropReason = "bad-rating"
	DropBadDate     DropReason = "bad-date"
	DropDuplicate   DropReason = "duplicate"
)

// NormalizeReport counts what a normalization pass kept and dropped.
type NormalizeReport struct {
	Kept    int
	Dropped map[DropReason]int
}

func (r NormalizeReport) DroppedTotal() int {
	n := 0
	for _, c := range r.Dropped {
		n += c
	}
	return n
}
