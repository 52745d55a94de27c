package routines

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/fitlog/internal/telemetry/tracing"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, routine WorkoutRoutine) (_ *WorkoutRoutine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.add")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	exercises, err := json.Marshal(routine.Exercises)
	if err != nil {
		return nil, fmt.Errorf("marshal exercises: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO workout_routines (user_id, name, exercises, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, created_at
	`, routine.UserID, routine.Name, exercises).Scan(&routine.ID, &routine.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &routine, nil
}

func (r *Repo) List(ctx context.Context, userID string) (_ []*WorkoutRoutine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.list")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, exercises, created_at
		FROM workout_routines
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*WorkoutRoutine
	for rows.Next() {
		var (
			routine   WorkoutRoutine
			exercises []byte
		)
		if err := rows.Scan(&routine.ID, &routine.UserID, &routine.Name, &exercises, &routine.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(exercises, &routine.Exercises); err != nil {
			return nil, fmt.Errorf("unmarshal exercises of routine %d: %w", routine.ID, err)
		}
		list = append(list, &routine)
	}
	return list, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, userID string, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.delete")
	defer func() {
		if err != nil && !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM workout_routines WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
