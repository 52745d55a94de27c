package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/fitlog/internal/fitlog/profiles"
	"github.com/2beens/fitlog/internal/fitlog/summaries"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=stats_test

const (
	DefaultDays = 30
	MaxDays     = 366
)

var ErrInvalidWindow = errors.New("invalid stats window")

type summariesRepo interface {
	List(ctx context.Context, userID string, from, to time.Time) ([]*summaries.DailySummary, error)
}

type profileSource interface {
	ForUser(ctx context.Context, userID string) (profiles.Profile, error)
}

type Analyzer struct {
	repo     summariesRepo
	profiles profileSource
}

func NewAnalyzer(repo summariesRepo, profiles profileSource) *Analyzer {
	return &Analyzer{
		repo:     repo,
		profiles: profiles,
	}
}

func (a *Analyzer) Report(ctx context.Context, userID string, today time.Time, days int) (_ *Report, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.report")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.Int("days", days))

	if days <= 0 || days > MaxDays {
		return nil, fmt.Errorf("%w: days must be in [1, %d]", ErrInvalidWindow, MaxDays)
	}

	from := today.AddDate(0, 0, -(days - 1))
	list, err := a.repo.List(ctx, userID, from, today)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	profile, err := a.profiles.ForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	report := Compute(list, profile, today, days)
	return &report, nil
}
