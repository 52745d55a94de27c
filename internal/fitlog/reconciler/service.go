package reconciler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/fitlog/internal/fitlog/calendar"
	"github.com/2beens/fitlog/internal/fitlog/energy"
	"github.com/2beens/fitlog/internal/fitlog/entry"
	"github.com/2beens/fitlog/internal/fitlog/events"
	"github.com/2beens/fitlog/internal/fitlog/profiles"
	"github.com/2beens/fitlog/internal/fitlog/summaries"
	"github.com/2beens/fitlog/internal/telemetry/metrics"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=reconciler_test

type summaryStore interface {
	Get(ctx context.Context, userID string, day time.Time) (*summaries.DailySummary, error)
	Upsert(ctx context.Context, s summaries.DailySummary) (*summaries.DailySummary, error)
	LatestWeightBefore(ctx context.Context, userID string, day time.Time) (*float64, error)
}

type eventStore interface {
	Add(ctx context.Context, event events.LogEvent) (*events.LogEvent, error)
	Get(ctx context.Context, id uuid.UUID) (*events.LogEvent, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListForDay(ctx context.Context, userID string, day time.Time) ([]*events.LogEvent, error)
}

type profileSource interface {
	ForUser(ctx context.Context, userID string) (profiles.Profile, error)
}

// Extractor turns free text into a structured guess.
type Extractor interface {
	Extract(ctx context.Context, text string) (entry.Guess, error)
}

// Locker serializes writes to one (user, date) row.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type ApplyResult struct {
	Summary        *summaries.DailySummary
	Breakdown      energy.Breakdown
	BurnedCalories int
	Guess          entry.Guess
	// Event is nil when the summary was saved but the event append failed.
	Event *events.LogEvent
}

type RemoveResult struct {
	// Summary is nil when there was no summary row to reverse.
	Summary        *summaries.DailySummary
	Breakdown      *energy.Breakdown
	BurnedCalories int
	RemovedEventID uuid.UUID
}

type WorkoutCompletion struct {
	Routine        string  `json:"routine" validate:"required"`
	DurationMin    int     `json:"durationMin" validate:"gte=0"`
	BurnedCalories float64 `json:"burnedCalories" validate:"gte=0"`
}

type Params struct {
	Summaries summaryStore
	Events    eventStore
	Profiles  profileSource
	Extractor Extractor
	// Locker is optional; without it concurrent writes to one day can lose updates.
	Locker   Locker
	Metrics  *metrics.Manager
	Location *time.Location
	Now      func() time.Time
}

type Service struct {
	summaries summaryStore
	events    eventStore
	profiles  profileSource
	extractor Extractor
	locker    Locker
	metrics   *metrics.Manager
	location  *time.Location
	now       func() time.Time
}

func NewService(params Params) *Service {
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		summaries: params.Summaries,
		events:    params.Events,
		profiles:  params.Profiles,
		extractor: params.Extractor,
		locker:    params.Locker,
		metrics:   params.Metrics,
		location:  loc,
		now:       now,
	}
}

// Today is the calendar day "now" falls on in the configured timezone.
func (s *Service) Today() time.Time {
	return calendar.Day(s.now(), s.location)
}

// LogText extracts a guess from free text and applies it to today's summary.
// Nothing is read or written when extraction fails.
func (s *Service) LogText(ctx context.Context, userID, text string, source events.Source) (_ *ApplyResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.reconciler.logtext")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("source", string(source)))

	if strings.TrimSpace(userID) == "" {
		return nil, missingField("userId")
	}
	if strings.TrimSpace(text) == "" {
		return nil, missingField("text")
	}

	extractStart := time.Now()
	guess, err := s.extractor.Extract(ctx, text)
	s.metrics.HistExtractionDuration.Observe(time.Since(extractStart).Seconds())
	if err != nil {
		s.metrics.CounterExtractionFailures.Inc()
		return nil, &ExtractionError{Err: err}
	}

	return s.ApplyEntry(ctx, userID, text, guess, s.Today(), source)
}

// LogWorkout applies a finished workout routine without calling the extractor.
func (s *Service) LogWorkout(ctx context.Context, userID string, wc WorkoutCompletion) (_ *ApplyResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.reconciler.logworkout")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if strings.TrimSpace(userID) == "" {
		return nil, missingField("userId")
	}
	if err := validateWorkout(wc); err != nil {
		return nil, err
	}

	label := strings.TrimSpace(wc.Routine)
	if wc.DurationMin > 0 {
		label = fmt.Sprintf("%s %dmin", label, wc.DurationMin)
	}
	guess := entry.Guess{
		Training:       entry.Text(label),
		BurnedCalories: entry.Float(wc.BurnedCalories),
		TrainingMode:   entry.ModeAdd,
	}
	rawText := fmt.Sprintf("Rutina: %s (%d kcal)", label, entry.Int(guess.BurnedCalories))

	return s.ApplyEntry(ctx, userID, rawText, guess, s.Today(), events.SourceWorkout)
}

// ApplyEntry folds guess into the (userID, day) summary, recomputes TDEE,
// upserts the row and then appends the log event.
//
// Additive fields are not idempotent: applying the same guess twice counts it
// twice. Callers must deliver each user action at most once.
func (s *Service) ApplyEntry(
	ctx context.Context,
	userID, rawText string,
	guess entry.Guess,
	day time.Time,
	source events.Source,
) (_ *ApplyResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.reconciler.applyentry")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("date", calendar.Format(day)))

	unlock, err := s.lock(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := s.summaries.Get(ctx, userID, day)
	switch {
	case errors.Is(err, summaries.ErrNotFound):
		zero := summaries.Zero(userID, day)
		existing = &zero
	case err != nil:
		return nil, fmt.Errorf("load summary: %w", err)
	}

	next, kcal := Merge(*existing, guess, rawText, source)
	next.UserID = userID
	next.Date = day

	breakdown, err := s.breakdown(ctx, next, kcal)
	if err != nil {
		return nil, err
	}
	next.TDEE = breakdown.TDEE

	saved, err := s.summaries.Upsert(ctx, next)
	if err != nil {
		return nil, fmt.Errorf("save summary: %w", err)
	}

	result := &ApplyResult{
		Summary:        saved,
		Breakdown:      breakdown,
		BurnedCalories: kcal,
		Guess:          guess,
	}

	event, err := s.events.Add(ctx, events.New(userID, day, rawText, guess, source))
	if err != nil {
		// the summary stands; the history misses one entry
		s.metrics.CounterOrphanedSummaries.Inc()
		log.Errorf("summary for [%s] on %s saved, but log event append failed: %s", userID, calendar.Format(day), err)
		span.AddEvent("event-append-failed")
	} else {
		result.Event = event
	}

	s.metrics.CounterEntriesApplied.WithLabelValues(string(source)).Inc()
	return result, nil
}

// RemoveEntry reverses an event's contribution to its day and deletes it.
// The event is only deleted after the reversed summary is stored.
func (s *Service) RemoveEntry(ctx context.Context, userID string, eventID uuid.UUID) (_ *RemoveResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.reconciler.removeentry")
	defer func() {
		if err != nil && !errors.Is(err, events.ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if strings.TrimSpace(userID) == "" {
		return nil, missingField("userId")
	}

	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load event: %w", err)
	}
	if event.UserID != userID {
		return nil, fmt.Errorf("load event: %w", events.ErrNotFound)
	}

	unlock, err := s.lock(ctx, userID, event.Date)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := &RemoveResult{RemovedEventID: event.ID}

	current, err := s.summaries.Get(ctx, userID, event.Date)
	switch {
	case errors.Is(err, summaries.ErrNotFound):
		log.Warnf("no summary for [%s] on %s, removing event %s only", userID, calendar.Format(event.Date), event.ID)
	case err != nil:
		return nil, fmt.Errorf("load summary: %w", err)
	default:
		next, kcal := Reverse(*current, *event)
		if event.Parsed.HasTraining() {
			next.Training, err = s.remainingTraining(ctx, *event)
			if err != nil {
				return nil, err
			}
		}

		breakdown, err := s.breakdown(ctx, next, kcal)
		if err != nil {
			return nil, err
		}
		next.TDEE = breakdown.TDEE

		saved, err := s.summaries.Upsert(ctx, next)
		if err != nil {
			return nil, fmt.Errorf("save summary: %w", err)
		}
		result.Summary = saved
		result.Breakdown = &breakdown
		result.BurnedCalories = kcal
	}

	if err := s.events.Delete(ctx, event.ID); err != nil {
		return nil, fmt.Errorf("delete event: %w", err)
	}

	s.metrics.CounterEntriesRemoved.Inc()
	return result, nil
}

// remainingTraining returns the label of the latest other same-day event
// that carried one, or empty when none is left.
func (s *Service) remainingTraining(ctx context.Context, removed events.LogEvent) (string, error) {
	dayEvents, err := s.events.ListForDay(ctx, removed.UserID, removed.Date)
	if err != nil {
		return "", fmt.Errorf("list remaining events: %w", err)
	}

	label := ""
	var latest time.Time
	for _, e := range dayEvents {
		if e.ID == removed.ID {
			continue
		}
		l := e.Parsed.TrainingLabel()
		if l == "" {
			continue
		}
		if label == "" || !e.CreatedAt.Before(latest) {
			label = l
			latest = e.CreatedAt
		}
	}
	return label, nil
}

// breakdown computes the energy breakdown for row. A row without weight
// borrows the last weight logged before it, then the formula default.
func (s *Service) breakdown(ctx context.Context, row summaries.DailySummary, exerciseKcal int) (energy.Breakdown, error) {
	profile, err := s.profiles.ForUser(ctx, row.UserID)
	if err != nil {
		return energy.Breakdown{}, fmt.Errorf("load profile: %w", err)
	}

	weight, err := summaries.FormulaWeight(ctx, s.summaries, row)
	if err != nil {
		return energy.Breakdown{}, err
	}

	return profile.Breakdown(row.Date, weight, row.Steps, exerciseKcal), nil
}

func (s *Service) lock(ctx context.Context, userID string, day time.Time) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	unlock, err := s.locker.Lock(ctx, fmt.Sprintf("fitlog:summary:%s:%s", userID, calendar.Format(day)))
	if err != nil {
		return nil, fmt.Errorf("lock summary: %w", err)
	}
	return unlock, nil
}
