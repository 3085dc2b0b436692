package mysql

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"strings"

	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// dedupHash fixes the review identity for the unique index; MySQL can't put
// a unique index on the full TEXT column directly.
func dedupHash(r domain.CleanReview) string {
	sum := sha1.Sum([]byte(r.Key()))
	return hex.EncodeToString(sum[:])
}

func (r *Repo) UpsertBank(ctx context.Context, b domain.Bank) (int64, error) {
	res, err := r.db.ExecContext(ctx, upsertBankSQL, b.Name, b.AppID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) InsertReviews(ctx context.Context, bankID int64, rs []domain.ClassifiedReview) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*9)
	for _, rv := range rs {
		values = append(values, "(?,?,?,?,?,?,?,?,?)")
		args = append(args,
			bankID,
			dedupHash(rv.CleanReview),
			rv.Text,
			rv.Rating,
			rv.Date,
			rv.Source,
			rv.SentimentLabel,
			rv.SentimentConfidence,
			EncodeThemes(rv.Themes),
		)
	}
	sqlStr := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) ListBanks(ctx context.Context) ([]domain.Bank, error) {
	rows, err := r.db.QueryContext(ctx, listBanksSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Bank
	for rows.Next() {
		var b domain.Bank
		if err := rows.Scan(&b.ID, &b.Name, &b.AppID); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) ListReviews(ctx context.Context, bankID int64, pg domain.PageQuery) (domain.ReviewsPage, error) {
	limit := pg.Limit
	if limit <= 0 {
		limit = 50
	}
	q := listReviewsSQL
	if pg.Sort == "review_date" {
		q = listReviewsAscSQL
	}
	rows, err := r.db.QueryContext(ctx, q, bankID, limit)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	defer rows.Close()

	items, err := scanReviews(rows)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	return domain.ReviewsPage{Items: items}, nil
}

func (r *Repo) ListAllReviews(ctx context.Context) ([]domain.ClassifiedReview, error) {
	rows, err := r.db.QueryContext(ctx, listAllReviewsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReviews(rows)
}

func scanReviews(rows *sql.Rows) ([]domain.ClassifiedReview, error) {
	var out []domain.ClassifiedReview
	for rows.Next() {
		var (
			rv     domain.ClassifiedReview
			date   sql.NullTime
			source sql.NullString
			themes sql.NullString
		)
		if err := rows.Scan(
			&rv.Text,
			&rv.Rating,
			&date,
			&rv.Bank,
			&source,
			&rv.SentimentLabel,
			&rv.SentimentConfidence,
			&themes,
		); err != nil {
			return nil, err
		}
		if date.Valid {
			rv.Date = date.Time.Format("2006-01-02")
		}
		if source.Valid {
			rv.Source = source.String
		}
		if themes.Valid {
			rv.Themes = DecodeThemes(themes.String)
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
