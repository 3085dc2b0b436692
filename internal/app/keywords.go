package app

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"

	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/domain"
)

// KeywordExtractor surfaces candidate theme keywords from a cleaned corpus
// using mean TF-IDF per term. Output is advisory: it feeds curated
// ThemeDefinition keyword sets and makes no classification decision itself.
type KeywordExtractor struct {
	stopwords  map[string]struct{}
	minLength  int
	minDocFreq int
}

// NewKeywordExtractor builds an extractor. Terms appearing in fewer than
// minDocFreq reviews are excluded, which keeps singleton typos out.
func NewKeywordExtractor(minDocFreq int) *KeywordExtractor {
	if minDocFreq < 1 {
		minDocFreq = 1
	}
	return &KeywordExtractor{
		stopwords:  defaultStopwords(),
		minLength:  3,
		minDocFreq: minDocFreq,
	}
}

// Extract scores terms once over the whole corpus and once per bank.
// The map key is domain.ScopeGlobal or a bank name; each slice is ordered by
// descending score, ties broken by corpus term frequency then term.
func (ke *KeywordExtractor) Extract(reviews []domain.CleanReview, topN int) map[string][]domain.KeywordScore {
	out := make(map[string][]domain.KeywordScore)
	if len(reviews) == 0 {
		return out
	}

	byBank := make(map[string][]domain.CleanReview)
	for _, r := range reviews {
		byBank[r.Bank] = append(byBank[r.Bank], r)
	}

	out[domain.ScopeGlobal] = ke.score(reviews, domain.ScopeGlobal, topN)
	for bank, rs := range byBank {
		out[bank] = ke.score(rs, bank, topN)
	}

	if top := out[domain.ScopeGlobal]; len(top) > 0 {
		terms := make([]string, 0, len(top))
		for _, k := range top {
			terms = append(terms, k.Term)
		}
		log.Info().Strs("terms", terms).Msg("top global keywords")
	}
	return out
}

func (ke *KeywordExtractor) score(reviews []domain.CleanReview, scope string, topN int) []domain.KeywordScore {
	docs := make([][]string, len(reviews))
	for i, r := range reviews {
		docs[i] = ke.Tokenize(r.Text)
	}

	docFreq := make(map[string]int)
	termFreq := make(map[string]int)
	for _, doc := range docs {
		inDoc := make(map[string]struct{}, len(doc))
		for _, t := range doc {
			termFreq[t]++
			inDoc[t] = struct{}{}
		}
		for t := range inDoc {
			docFreq[t]++
		}
	}

	// Mean TF-IDF across documents; tf is length-normalized per document,
	// idf uses the smoothed form so single-document corpora still rank.
	n := float64(len(docs))
	sums := make(map[string]float64)
	for _, doc := range docs {
		if len(doc) == 0 {
			continue
		}
		counts := make(map[string]int, len(doc))
		for _, t := range doc {
			counts[t]++
		}
		dl := float64(len(doc))
		for t, c := range counts {
			idf := math.Log((1+n)/(1+float64(docFreq[t]))) + 1
			sums[t] += (float64(c) / dl) * idf
		}
	}

	scored := make([]domain.KeywordScore, 0, len(sums))
	for t, s := range sums {
		if docFreq[t] < ke.minDocFreq {
			continue
		}
		scored = append(scored, domain.KeywordScore{Term: t, Score: s / n, Scope: scope})
	}

	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if termFreq[a.Term] != termFreq[b.Term] {
			return termFreq[a.Term] > termFreq[b.Term]
		}
		return a.Term < b.Term
	})
	if topN > 0 && topN < len(scored) {
		scored = scored[:topN]
	}
	return scored
}

// Tokenize lowercases and splits on non-alphanumerics, dropping stopwords
// and tokens shorter than the minimum length.
func (ke *KeywordExtractor) Tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	out := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < ke.minLength {
			continue
		}
		if _, stop := ke.stopwords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"the", "and", "for", "are", "but", "not", "you", "your", "with", "this",
		"that", "have", "has", "had", "was", "were", "will", "can", "its", "app",
		"from", "they", "them", "then", "than", "when", "what", "very", "just",
		"all", "any", "our", "out", "too", "use", "get", "been", "being", "also",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
