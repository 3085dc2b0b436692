package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/adapters/observability"
	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/domain"
)

// PipelineService runs one full batch: fetch raw reviews, normalize,
// extract keywords, classify themes, attach sentiment, persist, aggregate.
// Each stage consumes a full snapshot and produces a new one; only fetching
// is concurrent, classification is serial in stable input order.
type PipelineService struct {
	source     domain.ReviewSource
	scorer     domain.SentimentScorer
	repo       domain.ReviewRepository
	normalizer *Normalizer
	extractor  *KeywordExtractor
	classifier *ThemeClassifier

	banks       []domain.Bank
	fetchCount  int
	workers     int
	topKeywords int
}

type PipelineOptions struct {
	Banks       []domain.Bank
	FetchCount  int
	Workers     int
	TopKeywords int
	MinDocFreq  int
	Taxonomy    []domain.ThemeDefinition
	Threshold   float64
}

func NewPipelineService(src domain.ReviewSource, scorer domain.SentimentScorer, repo domain.ReviewRepository, opts PipelineOptions) *PipelineService {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if len(opts.Taxonomy) == 0 {
		opts.Taxonomy = DefaultTaxonomy()
	}
	return &PipelineService{
		source:      src,
		scorer:      scorer,
		repo:        repo,
		normalizer:  NewNormalizer(),
		extractor:   NewKeywordExtractor(opts.MinDocFreq),
		classifier:  NewThemeClassifier(opts.Taxonomy, opts.Threshold),
		banks:       opts.Banks,
		fetchCount:  opts.FetchCount,
		workers:     opts.Workers,
		topKeywords: opts.TopKeywords,
	}
}

// Run executes the whole batch and returns the run's aggregate statistics.
// Per-bank fetch failures and per-review scoring failures are local; only an
// empty or unreadable corpus fails the run.
func (s *PipelineService) Run(ctx context.Context) (domain.AggregateStats, error) {
	raw, err := s.fetchAll(ctx)
	if err != nil {
		return domain.AggregateStats{}, err
	}
	observability.ObserveStage("raw", len(raw))

	clean, report := s.normalizer.Normalize(raw)
	if len(clean) == 0 {
		return domain.AggregateStats{}, fmt.Errorf("normalization left no reviews (dropped %d): %w",
			report.DroppedTotal(), domain.ErrEmptyCorpus)
	}

	// Advisory keyword pass; feeds taxonomy curation, not classification.
	s.extractor.Extract(clean, s.topKeywords)

	classified := s.classifyAll(ctx, clean)
	observability.ObserveStage("classified", len(classified))

	if err := s.persist(ctx, classified); err != nil {
		return domain.AggregateStats{}, err
	}
	observability.ObserveStage("persisted", len(classified))

	return Aggregate(classified), nil
}

// fetchAll pulls raw reviews for every registered bank with bounded
// concurrency. A failing bank is logged and skipped; all banks failing (or
// returning nothing) is a run-level failure.
func (s *PipelineService) fetchAll(ctx context.Context) ([]domain.RawReview, error) {
	sem := semaphore.NewWeighted(int64(s.workers))
	var wg sync.WaitGroup
	perBank := make([][]domain.RawReview, len(s.banks))

	for i, bank := range s.banks {
		if err := sem.Acquire(ctx, 1); err != nil {
			// drain in-flight fetchers before handing perBank back
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func(i int, bank domain.Bank) {
			defer wg.Done()
			defer sem.Release(1)
			rs, err := s.source.Fetch(ctx, bank, s.fetchCount)
			if err != nil {
				log.Warn().Err(err).Str("bank", bank.Name).Msg("fetch failed, skipping bank")
				return
			}
			log.Info().Str("bank", bank.Name).Int("reviews", len(rs)).Msg("fetched raw reviews")
			perBank[i] = rs
		}(i, bank)
	}
	wg.Wait()

	// Flatten in bank registry order so downstream logs are reproducible.
	var raw []domain.RawReview
	for _, rs := range perBank {
		raw = append(raw, rs...)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no raw reviews from any source: %w", domain.ErrEmptyCorpus)
	}
	return raw, nil
}

func (s *PipelineService) classifyAll(ctx context.Context, clean []domain.CleanReview) []domain.ClassifiedReview {
	out := make([]domain.ClassifiedReview, 0, len(clean))
	for _, c := range clean {
		themes, conf := s.classifier.Classify(c)
		label, sconf := AttachSentiment(ctx, c, s.scorer)
		out = append(out, domain.ClassifiedReview{
			CleanReview:         c,
			SentimentLabel:      label,
			SentimentConfidence: sconf,
			Themes:              themes,
			ThemeConfidence:     conf,
		})
	}
	return out
}

// persist upserts the bank reference rows and bulk-inserts the batch,
// grouped per bank. Insertion is idempotent on retry (dedup key index).
func (s *PipelineService) persist(ctx context.Context, classified []domain.ClassifiedReview) error {
	byBank := make(map[string][]domain.ClassifiedReview)
	for _, r := range classified {
		byBank[r.Bank] = append(byBank[r.Bank], r)
	}
	for _, bank := range s.banks {
		id, err := s.repo.UpsertBank(ctx, bank)
		if err != nil {
			return fmt.Errorf("upsert bank %s: %w", bank.Name, err)
		}
		rs := byBank[bank.Name]
		if len(rs) == 0 {
			continue
		}
		if err := s.repo.InsertReviews(ctx, id, rs); err != nil {
			return fmt.Errorf("insert reviews for %s: %w", bank.Name, err)
		}
		log.Info().Str("bank", bank.Name).Int("reviews", len(rs)).Msg("persisted batch")
	}
	return nil
}
