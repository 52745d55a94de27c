package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/fitlog/internal/fitlog/calendar"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"
)

type ListParams struct {
	UserID string
	Page   int
	Size   int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, event LogEvent) (_ *LogEvent, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.events.add")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("type", string(event.Type)))

	// keep the extractor output as it came, for audit
	parsed := []byte(event.Parsed.Raw)
	if len(parsed) == 0 {
		parsed, err = json.Marshal(event.Parsed)
		if err != nil {
			return nil, fmt.Errorf("marshal parsed guess: %w", err)
		}
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO log_events (id, user_id, date, raw_text, parsed, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING created_at
	`,
		event.ID,
		event.UserID,
		event.Date,
		event.RawText,
		parsed,
		string(event.Type),
	).Scan(&event.CreatedAt)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, fmt.Errorf("event %s already recorded: %w", event.ID, err)
		}
		return nil, err
	}
	return &event, nil
}

func (r *Repo) Get(ctx context.Context, id uuid.UUID) (_ *LogEvent, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.events.get")
	defer func() {
		if err != nil && !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	event, err := scanEvent(r.db.QueryRow(ctx, `
		SELECT id, user_id, date, created_at, raw_text, parsed, type
		FROM log_events
		WHERE id = $1
	`, id))
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.events.delete")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM log_events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForDay returns the user's events of one day, oldest first.
func (r *Repo) ListForDay(ctx context.Context, userID string, day time.Time) (_ []*LogEvent, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.events.listforday")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("date", calendar.Format(day)))

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, date, created_at, raw_text, parsed, type
		FROM log_events
		WHERE user_id = $1 AND date = $2
		ORDER BY created_at ASC
	`, userID, day)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

// List returns a page of the user's events, newest first.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []*LogEvent, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.events.list")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.Int("page", params.Page), attribute.Int("size", params.Size))

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, date, created_at, raw_text, parsed, type
		FROM log_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, params.UserID, params.Size, params.Size*params.Page)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *Repo) Count(ctx context.Context, userID string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.events.count")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var count int
	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM log_events WHERE user_id = $1
	`, userID).Scan(&count); err != nil {
		return -1, err
	}
	return count, nil
}

func collectEvents(rows pgx.Rows) ([]*LogEvent, error) {
	defer rows.Close()

	events := make([]*LogEvent, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func scanEvent(row pgx.Row) (*LogEvent, error) {
	event := &LogEvent{}
	var (
		parsed []byte
		source string
	)
	if err := row.Scan(
		&event.ID, &event.UserID, &event.Date, &event.CreatedAt,
		&event.RawText, &parsed, &source,
	); err != nil {
		return nil, err
	}
	if len(parsed) > 0 {
		if err := json.Unmarshal(parsed, &event.Parsed); err != nil {
			return nil, fmt.Errorf("unmarshal parsed guess of event %s: %w", event.ID, err)
		}
		event.Parsed.Raw = parsed
	}
	event.Type = Source(source)
	event.Date = calendar.Day(event.Date, time.UTC)
	return event, nil
}
