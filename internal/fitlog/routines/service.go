package routines

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=routines_test

type routinesRepo interface {
	Add(ctx context.Context, routine WorkoutRoutine) (*WorkoutRoutine, error)
	List(ctx context.Context, userID string) ([]*WorkoutRoutine, error)
	Delete(ctx context.Context, userID string, id int) error
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type Service struct {
	repo routinesRepo
}

func NewService(repo routinesRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*WorkoutRoutine, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid routine: %w", err)
	}
	return s.repo.Add(ctx, WorkoutRoutine{
		UserID:    userID,
		Name:      strings.TrimSpace(req.Name),
		Exercises: req.Exercises,
	})
}

func (s *Service) List(ctx context.Context, userID string) ([]*WorkoutRoutine, error) {
	list, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*WorkoutRoutine{}
	}
	return list, nil
}

func (s *Service) Delete(ctx context.Context, userID string, id int) error {
	return s.repo.Delete(ctx, userID, id)
}
