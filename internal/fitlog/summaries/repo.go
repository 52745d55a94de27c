package summaries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/fitlog/internal/fitlog/calendar"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"
)

const summaryColumns = `
	user_id, date, weight, waist, body_fat,
	calories, protein, carbs, fat, steps,
	sleep, training, tdee, notes, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context, userID string, day time.Time) (_ *DailySummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.summaries.get")
	defer func() {
		if err != nil && !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("date", calendar.Format(day)))

	row := r.db.QueryRow(ctx, `
		SELECT `+summaryColumns+`
		FROM daily_summaries
		WHERE user_id = $1 AND date = $2
	`, userID, day)

	s, err := scanSummary(row)
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// Upsert writes the full row keyed by (user_id, date). The row carries
// absolute values, so replaying the same upsert is harmless; replaying the
// computation that produced it is not.
func (r *Repo) Upsert(ctx context.Context, s DailySummary) (_ *DailySummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.summaries.upsert")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("date", calendar.Format(s.Date)))

	row := r.db.QueryRow(ctx, `
		INSERT INTO daily_summaries (
			user_id, date, weight, waist, body_fat,
			calories, protein, carbs, fat, steps,
			sleep, training, tdee, notes, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now())
		ON CONFLICT (user_id, date) DO UPDATE SET
			weight = EXCLUDED.weight,
			waist = EXCLUDED.waist,
			body_fat = EXCLUDED.body_fat,
			calories = EXCLUDED.calories,
			protein = EXCLUDED.protein,
			carbs = EXCLUDED.carbs,
			fat = EXCLUDED.fat,
			steps = EXCLUDED.steps,
			sleep = EXCLUDED.sleep,
			training = EXCLUDED.training,
			tdee = EXCLUDED.tdee,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
		RETURNING `+summaryColumns,
		s.UserID, s.Date, s.Weight, s.Waist, s.BodyFat,
		s.Calories, s.Protein, s.Carbs, s.Fat, s.Steps,
		s.Sleep, s.Training, s.TDEE, s.Notes,
	)

	saved, err := scanSummary(row)
	if err != nil {
		if pkg.IsCheckViolationError(err) {
			return nil, fmt.Errorf("upsert summary, negative total rejected: %w", err)
		}
		return nil, fmt.Errorf("upsert summary: %w", err)
	}
	return saved, nil
}

// List returns summaries in [from, to], oldest first.
func (r *Repo) List(ctx context.Context, userID string, from, to time.Time) (_ []*DailySummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.summaries.list")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.String("from", calendar.Format(from)),
		attribute.String("to", calendar.Format(to)),
	)

	rows, err := r.db.Query(ctx, `
		SELECT `+summaryColumns+`
		FROM daily_summaries
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*DailySummary, 0)
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// LatestWeightBefore returns the most recent weight recorded strictly before
// day, or nil when the user never logged one.
func (r *Repo) LatestWeightBefore(ctx context.Context, userID string, day time.Time) (_ *float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.summaries.latestweight")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var weight float64
	err = r.db.QueryRow(ctx, `
		SELECT weight
		FROM daily_summaries
		WHERE user_id = $1 AND date < $2 AND weight IS NOT NULL
		ORDER BY date DESC
		LIMIT 1
	`, userID, day).Scan(&weight)
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, nil
		}
		return nil, err
	}
	return &weight, nil
}

func scanSummary(row pgx.Row) (*DailySummary, error) {
	s := &DailySummary{}
	if err := row.Scan(
		&s.UserID, &s.Date, &s.Weight, &s.Waist, &s.BodyFat,
		&s.Calories, &s.Protein, &s.Carbs, &s.Fat, &s.Steps,
		&s.Sleep, &s.Training, &s.TDEE, &s.Notes, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	s.Date = calendar.Day(s.Date, time.UTC)
	return s, nil
}
