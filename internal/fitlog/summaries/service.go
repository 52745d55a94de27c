package summaries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/fitlog/internal/fitlog/calendar"
	"github.com/2beens/fitlog/internal/fitlog/energy"
	"github.com/2beens/fitlog/internal/fitlog/ledger"
	"github.com/2beens/fitlog/internal/fitlog/profiles"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=summaries_test

const (
	DefaultRangeDays = 30
	MaxRangeDays     = 366
)

var ErrInvalidRange = errors.New("invalid date range")

type summariesRepo interface {
	Get(ctx context.Context, userID string, day time.Time) (*DailySummary, error)
	List(ctx context.Context, userID string, from, to time.Time) ([]*DailySummary, error)
	LatestWeightBefore(ctx context.Context, userID string, day time.Time) (*float64, error)
}

type profileSource interface {
	ForUser(ctx context.Context, userID string) (profiles.Profile, error)
}

// DayView is one summary with everything the dashboard shows next to it.
type DayView struct {
	Summary      *DailySummary    `json:"summary"`
	Breakdown    energy.Breakdown `json:"breakdown"`
	ExerciseKcal int              `json:"exerciseKcal"`
	Balance      int              `json:"balance"`
	// FormulaWeight differs from Summary.Weight when it was borrowed.
	FormulaWeight float64 `json:"formulaWeight"`
}

type Service struct {
	repo     summariesRepo
	profiles profileSource
}

func NewService(repo summariesRepo, profiles profileSource) *Service {
	return &Service{
		repo:     repo,
		profiles: profiles,
	}
}

func (s *Service) List(ctx context.Context, userID string, from, to time.Time) (_ []*DailySummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.summaries.list")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if to.Before(from) {
		return nil, fmt.Errorf("%w: from %s is after to %s", ErrInvalidRange, calendar.Format(from), calendar.Format(to))
	}
	if to.Sub(from) > MaxRangeDays*24*time.Hour {
		return nil, fmt.Errorf("%w: at most %d days", ErrInvalidRange, MaxRangeDays)
	}

	list, err := s.repo.List(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	return list, nil
}

func (s *Service) Day(ctx context.Context, userID string, day time.Time) (_ *DayView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.summaries.day")
	defer func() {
		if err != nil && !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	summary, err := s.repo.Get(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}
	return s.View(ctx, summary)
}

// View recomputes the energy breakdown of a stored summary.
func (s *Service) View(ctx context.Context, summary *DailySummary) (*DayView, error) {
	profile, err := s.profiles.ForUser(ctx, summary.UserID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	weight, err := FormulaWeight(ctx, s.repo, *summary)
	if err != nil {
		return nil, err
	}

	kcal := ledger.Parse(summary.Notes)
	breakdown := profile.Breakdown(summary.Date, weight, summary.Steps, kcal)
	return &DayView{
		Summary:       summary,
		Breakdown:     breakdown,
		ExerciseKcal:  kcal,
		Balance:       summary.Calories - breakdown.TDEE,
		FormulaWeight: weight,
	}, nil
}
