package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/domain"
)

// Source reads previously scraped review CSV files from a data directory.
// It implements domain.ReviewSource for offline runs: files are named
// <anything>_reviews_<anything>.csv and carry a header row.
type Source struct {
	dir string
}

func New(dir string) *Source { return &Source{dir: dir} }

// Column aliases across scrape generations; older exports used
// review/bank instead of review_text/bank_name.
var columnAliases = map[string][]string{
	"text":   {"review_text", "review"},
	"rating": {"rating"},
	"date":   {"date"},
	"bank":   {"bank_name", "bank"},
	"source": {"source"},
}

// Fetch loads raw rows for one bank across all review files in the
// directory. count limits the result (0 means no limit).
func (s *Source) Fetch(ctx context.Context, bank domain.Bank, count int) ([]domain.RawReview, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, "*_reviews_*.csv"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no review files in %s: %w", s.dir, domain.ErrEmptyCorpus)
	}

	var out []domain.RawReview
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := readFile(file)
		if err != nil {
			// A broken file is logged and skipped; other files still load.
			log.Warn().Err(err).Str("file", file).Msg("skipping unreadable review file")
			continue
		}
		for _, r := range rows {
			if !strings.EqualFold(strings.TrimSpace(r.Bank), bank.Name) {
				continue
			}
			// Registry spelling wins over the cell's casing; persistence
			// groups rows by the registry name.
			r.Bank = bank.Name
			out = append(out, r)
			if count > 0 && len(out) >= count {
				return out, nil
			}
		}
	}
	return out, nil
}

func readFile(path string) ([]domain.RawReview, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := indexColumns(header)

	var out []domain.RawReview
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, domain.RawReview{
			Text:   field(rec, idx["text"]),
			Rating: field(rec, idx["rating"]),
			Date:   field(rec, idx["date"]),
			Bank:   field(rec, idx["bank"]),
			Source: field(rec, idx["source"]),
		})
	}
	return out, nil
}

func indexColumns(header []string) map[string]int {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.ToLower(strings.TrimSpace(h))] = i
	}
	idx := make(map[string]int, len(columnAliases))
	for key, aliases := range columnAliases {
		idx[key] = -1
		for _, a := range aliases {
			if i, ok := pos[a]; ok {
				idx[key] = i
				break
			}
		}
	}
	return idx
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}
