package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/app"
	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/domain"
)

type stubScorer struct {
	label string
	conf  float64
	err   error
}

func (s stubScorer) Score(ctx context.Context, text string) (string, float64, error) {
	return s.label, s.conf, s.err
}

func TestAttachSentiment_LabelMapping(t *testing.T) {
	cases := []struct {
		raw  string
		conf float64
		want string
	}{
		{"POSITIVE", 0.92, domain.SentimentPositive},
		{"negative", 0.71, domain.SentimentNegative},
		{"LABEL_1", 0.88, domain.SentimentPositive},
		{"LABEL_0", 0.66, domain.SentimentNegative},
	}
	for _, tc := range cases {
		label, conf := app.AttachSentiment(context.Background(), review("fine"), stubScorer{label: tc.raw, conf: tc.conf})
		if label != tc.want || conf != tc.conf {
			t.Fatalf("%q: got (%s, %v), want (%s, %v)", tc.raw, label, conf, tc.want, tc.conf)
		}
	}
}

func TestAttachSentiment_ScorerErrorKeepsReviewUnscored(t *testing.T) {
	label, conf := app.AttachSentiment(context.Background(), review("fine"),
		stubScorer{err: errors.New("model timeout")})
	if label != domain.SentimentUnscored || conf != 0 {
		t.Fatalf("got (%s, %v), want unscored/0", label, conf)
	}
}

func TestAttachSentiment_InvalidOutputs(t *testing.T) {
	cases := []stubScorer{
		{label: "POSITIVE", conf: 1.3},  // confidence out of range
		{label: "NEGATIVE", conf: -0.1}, // confidence out of range
		{label: "NEUTRAL", conf: 0.5},   // unknown label space
		{label: "", conf: 0.5},
	}
	for _, sc := range cases {
		label, conf := app.AttachSentiment(context.Background(), review("fine"), sc)
		if label != domain.SentimentUnscored || conf != 0 {
			t.Fatalf("%+v: got (%s, %v), want unscored/0", sc, label, conf)
		}
	}
}
