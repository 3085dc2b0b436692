package app

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog/log"

	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/adapters/observability"
	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/domain"
)

// dateLayouts are the textual date formats sources are known to emit.
// Output is always the first layout (ISO calendar date).
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"January 2, 2006",
	"Jan 2, 2006",
	"2006/01/02",
	"01/02/2006",
}

// Normalizer cleans raw review rows and removes duplicates. Failure is
// per-row: a bad row is dropped with a counted reason, never an error.
type Normalizer struct{}

func NewNormalizer() *Normalizer { return &Normalizer{} }

// Normalize validates and deduplicates raw rows. Dedup key is
// (normalized text, bank, normalized date); first occurrence wins.
// Running it twice over the same input yields the same output.
func (n *Normalizer) Normalize(raw []domain.RawReview) ([]domain.CleanReview, domain.NormalizeReport) {
	report := domain.NormalizeReport{Dropped: map[domain.DropReason]int{}}
	seen := make(map[string]struct{}, len(raw))
	out := make([]domain.CleanReview, 0, len(raw))

	drop := func(reason domain.DropReason) {
		report.Dropped[reason]++
		observability.ObserveDrop(string(reason), 1)
	}

	for _, r := range raw {
		text := collapseSpace(r.Text)
		if text == "" {
			drop(domain.DropMissingText)
			continue
		}
		rating, ok := parseRating(r.Rating)
		if !ok {
			log.Debug().Str("rating", r.Rating).Str("bank", r.Bank).Msg("dropping row with bad rating")
			drop(domain.DropBadRating)
			continue
		}
		date, ok := parseDate(r.Date)
		if !ok {
			log.Debug().Str("date", r.Date).Str("bank", r.Bank).Msg("dropping row with bad date")
			drop(domain.DropBadDate)
			continue
		}

		c := domain.CleanReview{
			Text:   text,
			Rating: rating,
			Date:   date,
			Bank:   strings.TrimSpace(r.Bank),
			Source: strings.TrimSpace(r.Source),
		}
		if _, dup := seen[c.Key()]; dup {
			drop(domain.DropDuplicate)
			continue
		}
		seen[c.Key()] = struct{}{}
		out = append(out, c)
	}

	report.Kept = len(out)
	observability.ObserveStage("clean", len(out))
	log.Info().
		Int("in", len(raw)).
		Int("kept", report.Kept).
		Int("dropped", report.DroppedTotal()).
		Interface("reasons", report.Dropped).
		Msg("normalization complete")
	return out, report
}

// parseRating accepts an integer rating in [1,5], also tolerating values
// serialized as floats ("5.0").
func parseRating(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, false
		}
		n = int(f)
	}
	if n < 1 || n > 5 {
		return 0, false
	}
	return n, true
}

// parseDate normalizes any accepted layout to 2006-01-02.
func parseDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// collapseSpace trims and collapses internal whitespace runs to one space.
func collapseSpace(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return unicode.IsSpace(r) })
	return strings.Join(fields, " ")
}
