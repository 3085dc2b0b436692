package app

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/domain"
)

// DefaultTaxonomy is the fixed five-theme taxonomy. Declaration order here
// is the tie-break order when two themes score the same confidence.
func DefaultTaxonomy() []domain.ThemeDefinition {
	return []domain.ThemeDefinition{
		{
			Name:        "Account Access",
			Keywords:    []string{"login", "password", "authentication", "access", "account", "sign", "credentials"},
			Description: "Signing in, credentials, and account lockouts.",
		},
		{
			Name:        "Transaction Issues",
			Keywords:    []string{"transfer", "payment", "transaction", "send", "receive", "money", "balance"},
			Description: "Transfers, payments, and balance problems.",
		},
		{
			Name:        "App Performance",
			Keywords:    []string{"slow", "crash", "bug", "error", "loading", "freeze", "performance"},
			Description: "Speed, crashes, and reliability.",
		},
		{
			Name:        "Customer Support",
			Keywords:    []string{"support", "service", "help", "contact", "response", "assistance", "agent"},
			Description: "Support channels and responsiveness.",
		},
		{
			Name:        "User Interface",
			Keywords:    []string{"interface", "design", "ui", "layout", "button", "screen", "menu", "navigation"},
			Description: "Look, layout, and navigation.",
		},
	}
}

// LoadTaxonomy reads a JSON taxonomy override file ([]ThemeDefinition).
func LoadTaxonomy(path string) ([]domain.ThemeDefinition, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy %s: %w", path, err)
	}
	var defs []domain.ThemeDefinition
	if err := json.Unmarshal(b, &defs); err != nil {
		return nil, fmt.Errorf("parse taxonomy %s: %w", path, err)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("taxonomy %s is empty", path)
	}
	return defs, nil
}

// ThemeClassifier assigns zero or more taxonomy themes to a review using
// keyword-membership rules. Stateless and deterministic per review: no
// corpus-wide statistics are consulted at classification time.
type ThemeClassifier struct {
	defs      []domain.ThemeDefinition
	order     map[string]int
	threshold float64
}

// NewThemeClassifier builds a classifier over an immutable taxonomy.
// A theme is assigned when its confidence exceeds threshold; the default 0
// means any keyword match counts.
func NewThemeClassifier(defs []domain.ThemeDefinition, threshold float64) *ThemeClassifier {
	order := make(map[string]int, len(defs))
	for i, d := range defs {
		order[d.Name] = i
	}
	return &ThemeClassifier{defs: defs, order: order, threshold: threshold}
}

// Classify returns the assigned theme names ordered by descending confidence
// (taxonomy order on ties) and the confidence for every matched theme.
// Confidence per theme = matched keywords / keywords in the definition,
// matched case-insensitively on word boundaries.
func (tc *ThemeClassifier) Classify(review domain.CleanReview) ([]string, map[string]float64) {
	padded := padTokens(review.Text)

	conf := make(map[string]float64)
	var assigned []string
	for _, def := range tc.defs {
		if len(def.Keywords) == 0 {
			continue
		}
		matched := 0
		for _, kw := range def.Keywords {
			if strings.Contains(padded, " "+padTokensInner(kw)+" ") {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		c := float64(matched) / float64(len(def.Keywords))
		conf[def.Name] = c
		if c > tc.threshold {
			assigned = append(assigned, def.Name)
		}
	}

	sort.SliceStable(assigned, func(i, j int) bool {
		a, b := assigned[i], assigned[j]
		if conf[a] != conf[b] {
			return conf[a] > conf[b]
		}
		return tc.order[a] < tc.order[b]
	})
	return assigned, conf
}

// padTokens normalizes text to a space-padded lowercase token string so
// keyword hits are whole-word (and whole-phrase) matches.
func padTokens(s string) string {
	return " " + padTokensInner(s) + " "
}

func padTokensInner(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	return strings.Join(fields, " ")
}
