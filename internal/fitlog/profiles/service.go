package profiles

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/fitlog/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=profiles_test

type profilesRepo interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, p Profile) (*Profile, error)
}

type Service struct {
	repo profilesRepo
}

func NewService(repo profilesRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) Get(ctx context.Context, userID string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profiles.get")
	defer func() {
		if err != nil && !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// ForUser returns the stored profile, or the default one if the user has none.
func (s *Service) ForUser(ctx context.Context, userID string) (Profile, error) {
	p, err := s.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		log.Warnf("no profile for user [%s], using default", userID)
		return Default(userID), nil
	}
	if err != nil {
		return Profile{}, err
	}
	return *p, nil
}

func (s *Service) Upsert(ctx context.Context, userID string, req UpsertRequest) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profiles.upsert")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	p, err := req.Profile(userID)
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return saved, nil
}
