package app_test

import (
	"reflect"
	"testing"

	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/app"
	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/domain"
)

func TestNormalize_CleansFields(t *testing.T) {
	n := app.NewNormalizer()
	clean, report := n.Normalize([]domain.RawReview{
		{Text: "  Great app!  ", Rating: "5", Date: "July 2, 2025", Bank: " CBE ", Source: "Google Play"},
	})
	if len(clean) != 1 {
		t.Fatalf("expected 1 clean review, got %d (report %+v)", len(clean), report)
	}
	got := clean[0]
	want := domain.CleanReview{Text: "Great app!", Rating: 5, Date: "2025-07-02", Bank: "CBE", Source: "Google Play"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestNormalize_DateFormats(t *testing.T) {
	n := app.NewNormalizer()
	cases := map[string]string{
		"2025-07-02":   "2025-07-02",
		"July 2, 2025": "2025-07-02",
		"Jul 2, 2025":  "2025-07-02",
		"2025/07/02":   "2025-07-02",
	}
	for in, want := range cases {
		clean, _ := n.Normalize([]domain.RawReview{
			{Text: "ok app", Rating: "3", Date: in, Bank: "BOA"},
		})
		if len(clean) != 1 || clean[0].Date != want {
			t.Fatalf("date %q: got %+v, want %s", in, clean, want)
		}
	}
}

func TestNormalize_DropReasons(t *testing.T) {
	n := app.NewNormalizer()
	raw := []domain.RawReview{
		{Text: "   ", Rating: "4", Date: "2025-01-01", Bank: "CBE"},
		{Text: "rating is words", Rating: "six", Date: "2025-01-01", Bank: "CBE"},
		{Text: "rating too big", Rating: "9", Date: "2025-01-01", Bank: "CBE"},
		{Text: "bad date", Rating: "4", Date: "sometime last week", Bank: "CBE"},
		{Text: "keeper", Rating: "4", Date: "2025-01-01", Bank: "CBE"},
	}
	clean, report := n.Normalize(raw)
	if len(clean) != 1 || clean[0].Text != "keeper" {
		t.Fatalf("expected only the keeper, got %+v", clean)
	}
	if report.Dropped[domain.DropMissingText] != 1 {
		t.Fatalf("missing-text count: %+v", report.Dropped)
	}
	if report.Dropped[domain.DropBadRating] != 2 {
		t.Fatalf("bad-rating count: %+v", report.Dropped)
	}
	if report.Dropped[domain.DropBadDate] != 1 {
		t.Fatalf("bad-date count: %+v", report.Dropped)
	}
	if report.Kept != 1 || report.DroppedTotal() != 4 {
		t.Fatalf("report totals: %+v", report)
	}
}

func TestNormalize_DedupFirstWins(t *testing.T) {
	n := app.NewNormalizer()
	raw := []domain.RawReview{
		{Text: "Fast transfers", Rating: "5", Date: "2025-03-10", Bank: "Dashen", Source: "Google Play"},
		{Text: "Fast transfers", Rating: "5", Date: "2025-03-10", Bank: "Dashen", Source: "App Store"},
	}
	clean, report := n.Normalize(raw)
	if len(clean) != 1 {
		t.Fatalf("expected 1 review after dedup, got %d", len(clean))
	}
	if clean[0].Source != "Google Play" {
		t.Fatalf("first occurrence should win, got source %q", clean[0].Source)
	}
	if report.Dropped[domain.DropDuplicate] != 1 {
		t.Fatalf("duplicate count: %+v", report.Dropped)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := app.NewNormalizer()
	raw := []domain.RawReview{
		{Text: " one ", Rating: "1", Date: "Jan 5, 2025", Bank: "CBE"},
		{Text: "two", Rating: "2", Date: "2025-01-06", Bank: "BOA"},
		{Text: "two", Rating: "2", Date: "2025-01-06", Bank: "BOA"},
	}
	first, _ := n.Normalize(raw)
	second, _ := n.Normalize(raw)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalize not idempotent:\n%+v\n%+v", first, second)
	}
}
