package events

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/fitlog/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=events_test

type eventsRepo interface {
	ListForDay(ctx context.Context, userID string, day time.Time) ([]*LogEvent, error)
	List(ctx context.Context, params ListParams) ([]*LogEvent, error)
	Count(ctx context.Context, userID string) (int, error)
}

type Service struct {
	repo eventsRepo
}

func NewService(repo eventsRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) ListForDay(ctx context.Context, userID string, day time.Time) (_ []*LogEvent, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.events.listforday")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	list, err := s.repo.ListForDay(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("list events for day: %w", err)
	}
	return list, nil
}

func (s *Service) List(ctx context.Context, params ListParams) (_ []*LogEvent, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.events.list")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	list, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	total, err = s.repo.Count(ctx, params.UserID)
	if err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}
	return list, total, nil
}
