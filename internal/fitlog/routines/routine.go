package routines

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("routine not found")

type Exercise struct {
	Name    string   `json:"name" validate:"required,max=120"`
	Sets    int      `json:"sets" validate:"gte=0,lte=100"`
	Reps    int      `json:"reps" validate:"gte=0,lte=1000"`
	Weight  *float64 `json:"weight,omitempty" validate:"omitempty,gte=0"`
	RestSec int      `json:"restSec,omitempty" validate:"gte=0"`
}

// WorkoutRoutine is stored and listed only, the daily summary never reads it.
type WorkoutRoutine struct {
	ID        int        `json:"id"`
	UserID    string     `json:"userId"`
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
	CreatedAt time.Time  `json:"createdAt"`
}

type CreateRequest struct {
	Name      string     `json:"name" validate:"required,max=120"`
	Exercises []Exercise `json:"exercises" validate:"required,min=1,max=50,dive"`
}
