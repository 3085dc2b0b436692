//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/domain"
	mysqlrepo "github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/storage/mysql"
)

// ---------- helpers ----------

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/migrations)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=bank_reviews",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/bank_reviews?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC", hostPort)

	var db *sql.DB
	pool.MaxWait = 2 * time.Minute
	if err := pool.Retry(func() error {
		var oerr error
		db, oerr = sql.Open("mysql", dsn)
		if oerr != nil {
			return oerr
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("mysql never became ready: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

// ---------- the test ----------

func TestRepo_MySQL_UpsertAndRoundTrip(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// bank upsert is idempotent and keeps the id stable
	id1, err := repo.UpsertBank(ctx, domain.Bank{Name: "CBE", AppID: "com.combanketh.mobilebanking"})
	if err != nil {
		t.Fatalf("upsert bank: %v", err)
	}
	id2, err := repo.UpsertBank(ctx, domain.Bank{Name: "CBE", AppID: "com.combanketh.mobilebanking"})
	if err != nil {
		t.Fatalf("upsert bank again: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("bank id changed on re-upsert: %d vs %d", id1, id2)
	}

	reviews := []domain.ClassifiedReview{
		{
			CleanReview: domain.CleanReview{
				Text: "Transfers and payments both fail after login",
				Rating: 2, Date: "2025-06-01", Bank: "CBE", Source: "Google Play",
			},
			SentimentLabel:      domain.SentimentNegative,
			SentimentConfidence: 0.87,
			Themes:              []string{"Transaction Issues", "Account Access"},
		},
		{
			CleanReview: domain.CleanReview{
				Text: "Clean design, very nice",
				Rating: 5, Date: "2025-06-02", Bank: "CBE", Source: "Google Play",
			},
			SentimentLabel:      domain.SentimentPositive,
			SentimentConfidence: 0.95,
			Themes:              []string{"User Interface"},
		},
	}
	if err := repo.InsertReviews(ctx, id1, reviews); err != nil {
		t.Fatalf("insert reviews: %v", err)
	}
	// idempotent on retry: same batch again must not duplicate rows
	if err := repo.InsertReviews(ctx, id1, reviews); err != nil {
		t.Fatalf("re-insert reviews: %v", err)
	}

	page, err := repo.ListReviews(ctx, id1, domain.PageQuery{Limit: 10})
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 rows after idempotent retry, got %d", len(page.Items))
	}
	// default order is newest first; Sort "review_date" flips it
	if page.Items[0].Date != "2025-06-02" {
		t.Fatalf("expected newest review first, got %s", page.Items[0].Date)
	}
	asc, err := repo.ListReviews(ctx, id1, domain.PageQuery{Limit: 10, Sort: "review_date"})
	if err != nil {
		t.Fatalf("list reviews ascending: %v", err)
	}
	if asc.Items[0].Date != "2025-06-01" {
		t.Fatalf("expected oldest review first when sorting ascending, got %s", asc.Items[0].Date)
	}

	// round-trip field fidelity, including the ordered theme list
	byText := map[string]domain.ClassifiedReview{}
	for _, r := range page.Items {
		byText[r.Text] = r
	}
	for _, want := range reviews {
		got, ok := byText[want.Text]
		if !ok {
			t.Fatalf("review %q not found after round-trip", want.Text)
		}
		if got.Rating != want.Rating || got.Date != want.Date || got.Bank != want.Bank ||
			got.Source != want.Source || got.SentimentLabel != want.SentimentLabel ||
			got.SentimentConfidence != want.SentimentConfidence {
			t.Fatalf("round-trip mismatch:\n got %+v\nwant %+v", got, want)
		}
		if !reflect.DeepEqual(got.Themes, want.Themes) {
			t.Fatalf("theme list not lossless: got %v want %v", got.Themes, want.Themes)
		}
	}

	all, err := repo.ListAllReviews(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 total rows, got %d", len(all))
	}

	banks, err := repo.ListBanks(ctx)
	if err != nil {
		t.Fatalf("list banks: %v", err)
	}
	if len(banks) != 1 || banks[0].Name != "CBE" {
		t.Fatalf("unexpected banks: %+v", banks)
	}
}
