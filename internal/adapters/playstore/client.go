package playstore

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/adapters/observability"
	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/domain"
)

var (
	ErrNotFound     = errors.New("playstore: app not found")
	ErrUnauthorized = errors.New("playstore: unauthorized")
)

// Client fetches app reviews from the review export service. It implements
// domain.ReviewSource; the scraping itself lives behind that service.
type Client struct {
	base    string
	hc      *http.Client
	rl      *rate.Limiter
	lang    string
	country string
}

func New(base, lang, country string, rps int) *Client {
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:    strings.TrimRight(base, "/"),
		hc:      &http.Client{Timeout: 20 * time.Second},
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
		lang:    lang,
		country: country,
	}
}

// wireReview is the service's review row. Score arrives as a JSON number;
// it is forwarded as text because validation belongs to the Normalizer.
type wireReview struct {
	Content string      `json:"content"`
	Score   json.Number `json:"score"`
	At      string      `json:"at"`
}

// Fetch returns up to count raw reviews for one bank's app, newest first.
func (c *Client) Fetch(ctx context.Context, bank domain.Bank, count int) ([]domain.RawReview, error) {
	q := url.Values{}
	q.Set("count", strconv.Itoa(count))
	q.Set("lang", c.lang)
	q.Set("country", c.country)
	u := fmt.Sprintf("%s/apps/%s/reviews?%s", c.base, url.PathEscape(bank.AppID), q.Encode())

	var rows []wireReview
	if err := c.get(ctx, u, &rows); err != nil {
		return nil, err
	}

	out := make([]domain.RawReview, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.RawReview{
			Text:   r.Content,
			Rating: r.Score.String(),
			Date:   r.At,
			Bank:   bank.Name,
			Source: "Google Play",
		})
	}
	return out, nil
}

// get performs a GET with client-side rate limiting, retries on transient
// failures, and JSON decode into out. Honors Retry-After when provided.
func (c *Client) get(ctx context.Context, url string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "fintech-review-analytics/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			return lastErr
		}

		observability.ObserveExternal("playstore", "reviews", resp.StatusCode)
		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized, http.StatusForbidden:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up to
// +50% jitter from crypto/rand so concurrent fetchers don't sync up.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
