// Package insights writes a short daily coaching note from the last week of
// summaries.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/fitlog/internal/cache"
	"github.com/2beens/fitlog/internal/fitlog/calendar"
	"github.com/2beens/fitlog/internal/fitlog/ledger"
	"github.com/2beens/fitlog/internal/fitlog/summaries"
	"github.com/2beens/fitlog/internal/telemetry/metrics"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=coach_mocks_test.go -package=insights_test

const (
	DefaultTTL = time.Hour
	windowDays = 7
)

const coachPrompt = `Eres un coach de nutrición y entrenamiento breve y directo.
Given the user's last days (one line per day), write 2-3 sentences in spanish:
one observation about the trend, one concrete suggestion for today.
No greetings, no lists, no medical advice.`

const noDataText = "Todavía no hay registros esta semana. Empieza registrando tu desayuno o tu peso."

type summariesRepo interface {
	List(ctx context.Context, userID string, from, to time.Time) ([]*summaries.DailySummary, error)
}

type completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type Insight struct {
	UserID      string    `json:"userId"`
	Date        string    `json:"date"`
	Text        string    `json:"text"`
	Cached      bool      `json:"cached"`
	GeneratedAt time.Time `json:"generatedAt"`
}

type Coach struct {
	repo    summariesRepo
	llm     completer
	cache   cache.Cache
	ttl     time.Duration
	metrics *metrics.Manager
}

func NewCoach(repo summariesRepo, llm completer, c cache.Cache, ttl time.Duration, m *metrics.Manager) *Coach {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Coach{
		repo:    repo,
		llm:     llm,
		cache:   c,
		ttl:     ttl,
		metrics: m,
	}
}

// Insight returns today's note for the user, from cache when a fresh one exists.
func (c *Coach) Insight(ctx context.Context, userID string, today time.Time) (_ *Insight, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "insights.coach.insight")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	key := cacheKey(userID, today)
	if raw, ok := c.cache.Get(key); ok {
		var cached Insight
		if err := json.Unmarshal(raw, &cached); err == nil {
			cached.Cached = true
			span.SetAttributes(attribute.Bool("cached", true))
			c.metrics.CounterInsights.WithLabelValues("cache").Inc()
			return &cached, nil
		}
		log.Warnf("drop unreadable cached insight [%s]", key)
	}

	list, err := c.repo.List(ctx, userID, today.AddDate(0, 0, -(windowDays-1)), today)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}

	insight := &Insight{
		UserID:      userID,
		Date:        calendar.Format(today),
		GeneratedAt: time.Now(),
	}
	if len(list) == 0 {
		insight.Text = noDataText
		return insight, nil
	}

	text, err := c.llm.Complete(ctx, coachPrompt, Digest(list))
	if err != nil {
		return nil, fmt.Errorf("generate insight: %w", err)
	}
	insight.Text = text
	c.metrics.CounterInsights.WithLabelValues("llm").Inc()

	if raw, err := json.Marshal(insight); err == nil {
		c.cache.Set(key, raw, c.ttl)
	}
	return insight, nil
}

// Digest renders summaries as the compact lines the coach prompt expects.
func Digest(list []*summaries.DailySummary) string {
	var sb strings.Builder
	for _, s := range list {
		fmt.Fprintf(&sb, "%s: kcal=%d tdee=%d balance=%d protein=%dg carbs=%dg fat=%dg steps=%d exercise_kcal=%d",
			s.Day(), s.Calories, s.TDEE, s.Balance(), s.Protein, s.Carbs, s.Fat, s.Steps, ledger.Parse(s.Notes))
		if s.Weight != nil {
			fmt.Fprintf(&sb, " weight=%.1fkg", *s.Weight)
		}
		if s.Sleep != nil {
			fmt.Fprintf(&sb, " sleep=%.1fh", *s.Sleep)
		}
		if s.Training != "" {
			fmt.Fprintf(&sb, " training=%q", s.Training)
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

func cacheKey(userID string, day time.Time) string {
	return "insight:" + userID + ":" + calendar.Format(day)
}
