package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/adapters/observability"
)

var ErrUnavailable = errors.New("sentiment: service unavailable")

// Client calls the external sentiment inference service. It implements
// domain.SentimentScorer; the model behind the endpoint is a black box that
// returns a label and a confidence per text.
type Client struct {
	base string
	key  string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base, key string, rps int) *Client {
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		key:  key,
		hc:   &http.Client{Timeout: 30 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

type scoreRequest struct {
	Text string `json:"text"`
}

type scoreResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Score sends one text and returns the model's raw label and confidence.
// Callers own the per-review failure policy; this client only reports.
func (c *Client) Score(ctx context.Context, text string) (string, float64, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", 0, err
	}

	body, err := json.Marshal(scoreRequest{Text: text})
	if err != nil {
		return "", 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v1/score", bytes.NewReader(body))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", 0, ctx.Err()
		}
		return "", 0, err
	}
	defer resp.Body.Close()

	observability.ObserveExternal("sentiment", "score", resp.StatusCode)
	switch resp.StatusCode {
	case http.StatusOK:
		var out scoreResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return "", 0, fmt.Errorf("decode score response: %w", err)
		}
		return out.Label, out.Confidence, nil
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return "", 0, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", 0, fmt.Errorf("sentiment: bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}
