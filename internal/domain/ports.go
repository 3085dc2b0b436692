package domain

import (
	"context"
	"errors"
)

// ErrNotFound is returned by read paths when the requested row is absent.
var ErrNotFound = errors.New("not found")

// ErrEmptyCorpus is the run-level failure: the entire input corpus was empty
// or unreadable. Per-row problems never surface as this.
var ErrEmptyCorpus = errors.New("empty review corpus")

// ReviewRepository is the persistence port. Writes happen once per completed
// batch and are idempotent on retry.
type ReviewRepository interface {
	// Write paths
	UpsertBank(ctx context.Context, b Bank) (int64, error)
	InsertReviews(ctx context.Context, bankID int64, rs []ClassifiedReview) error

	// Read paths
	ListBanks(ctx context.Context) ([]Bank, error)
	ListReviews(ctx context.Context, bankID int64, pg PageQuery) (ReviewsPage, error)
	ListAllReviews(ctx context.Context) ([]ClassifiedReview, error)
}

// ReviewSource produces raw review records for one bank's app. The scraper
// behind it is an external collaborator; the pipeline only sees this shape.
// Implementations stamp the registry bank's Name on every row they return;
// persistence groups rows by that name.
type ReviewSource interface {
	Fetch(ctx context.Context, bank Bank, count int) ([]RawReview, error)
}

// SentimentScorer is the narrow capability interface over the external
// sentiment model: text in, label + confidence out. Implementations may fail
// per call; callers must treat failures as per-review, not fatal.
type SentimentScorer interface {
	Score(ctx context.Context, text string) (label string, confidence float64, err error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// PageQuery bounds a review listing. Sort accepts "review_date" (oldest
// first); anything else, including the default "-review_date", is newest
// first.
type PageQuery struct {
	Limit int
	Sort  string
}

type ReviewsPage struct {
	Items []ClassifiedReview
}
