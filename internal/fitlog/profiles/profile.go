package profiles

import (
	"errors"
	"time"

	"github.com/2beens/fitlog/internal/fitlog/calendar"
	"github.com/2beens/fitlog/internal/fitlog/energy"
)

var ErrNotFound = errors.New("profile not found")

const (
	DefaultHeightCm = 170.0
	defaultBirth    = "1990-01-01"
)

type Profile struct {
	UserID    string     `json:"userId"`
	HeightCm  float64    `json:"heightCm"`
	BirthDate time.Time  `json:"-"`
	Sex       energy.Sex `json:"sex"`

	GoalWeight  *float64 `json:"goalWeight,omitempty"`
	GoalWaist   *float64 `json:"goalWaist,omitempty"`
	GoalBodyFat *float64 `json:"goalBodyFat,omitempty"`
	GoalSteps   *int     `json:"goalSteps,omitempty"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Default is used for users that never saved a profile, so the energy
// formula still has a body to work with.
func Default(userID string) Profile {
	birth, _ := calendar.Parse(defaultBirth)
	return Profile{
		UserID:    userID,
		HeightCm:  DefaultHeightCm,
		BirthDate: birth,
		Sex:       energy.SexMale,
	}
}

// AgeOn returns the profile's age in whole years on day.
func (p Profile) AgeOn(day time.Time) int {
	return energy.AgeOn(p.BirthDate, day)
}

// Breakdown runs the energy formula for this profile.
func (p Profile) Breakdown(day time.Time, weightKg float64, steps, exerciseKcal int) energy.Breakdown {
	return energy.Compute(weightKg, steps, exerciseKcal, p.HeightCm, p.AgeOn(day), p.Sex)
}
