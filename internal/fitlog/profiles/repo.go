package profiles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/fitlog/internal/fitlog/energy"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context, userID string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.get")
	defer func() {
		if err != nil && !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	p := &Profile{}
	var sex string
	err = r.db.QueryRow(ctx, `
		SELECT id, height_cm, birth_date, sex,
			goal_weight, goal_waist, goal_body_fat, goal_steps, updated_at
		FROM profiles
		WHERE id = $1
	`, userID).Scan(
		&p.UserID, &p.HeightCm, &p.BirthDate, &sex,
		&p.GoalWeight, &p.GoalWaist, &p.GoalBodyFat, &p.GoalSteps, &p.UpdatedAt,
	)
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.Sex = energy.ParseSex(sex)
	return p, nil
}

func (r *Repo) Upsert(ctx context.Context, p Profile) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.upsert")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	err = r.db.QueryRow(ctx, `
		INSERT INTO profiles (
			id, height_cm, birth_date, sex,
			goal_weight, goal_waist, goal_body_fat, goal_steps, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (id) DO UPDATE SET
			height_cm = EXCLUDED.height_cm,
			birth_date = EXCLUDED.birth_date,
			sex = EXCLUDED.sex,
			goal_weight = EXCLUDED.goal_weight,
			goal_waist = EXCLUDED.goal_waist,
			goal_body_fat = EXCLUDED.goal_body_fat,
			goal_steps = EXCLUDED.goal_steps,
			updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`,
		p.UserID, p.HeightCm, p.BirthDate, string(p.Sex),
		p.GoalWeight, p.GoalWaist, p.GoalBodyFat, p.GoalSteps,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
