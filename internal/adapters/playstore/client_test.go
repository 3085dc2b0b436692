package playstore_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/adapters/playstore"
	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/domain"
)

var cbe = domain.Bank{Name: "CBE", AppID: "com.combanketh.mobilebanking"}

func TestFetch_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"content": "Great app", "score": 5, "at": "2025-06-01"},
				{"content": "Crashes a lot", "score": 1, "at": "2025-06-02"},
			})
		}
	}))
	defer ts.Close()

	cl := playstore.New(ts.URL, "en", "et", 100) // high RPS for tests
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got, err := cl.Fetch(ctx, cbe, 10)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected reviews: %+v", got)
	}
	if got[0].Bank != "CBE" || got[0].Source != "Google Play" {
		t.Fatalf("bank/source not stamped: %+v", got[0])
	}
	if got[0].Rating != "5" || got[1].Rating != "1" {
		t.Fatalf("ratings should pass through as text: %+v", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestFetch_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl := playstore.New(ts.URL, "en", "et", 100)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := cl.Fetch(ctx, cbe, 10)
	if !errors.Is(err, playstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
