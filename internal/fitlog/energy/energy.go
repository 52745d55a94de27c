// Package energy computes daily energy expenditure.
//
// BMR uses the Mifflin-St Jeor equation. On top of it comes a sedentary-plus
// baseline (10% of BMR), a step bonus scaled by body mass, and the calories
// burned in logged exercise for the day.
package energy

import (
	"math"
	"strings"
	"time"
)

const (
	// DefaultWeightKg is used by the formula when no weight was ever logged.
	// It is never stored as a measurement.
	DefaultWeightKg = 80.0

	baseActivityFactor = 1.1
	stepKcalPerKg      = 0.0005
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

func (s Sex) String() string {
	return string(s)
}

// ParseSex accepts the english and spanish spellings the dashboard has used.
func ParseSex(s string) Sex {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "man", "hombre", "masculino", "h":
		return SexMale
	default:
		return SexFemale
	}
}

type Breakdown struct {
	BMR        float64 `json:"bmr"`
	ActiveKcal float64 `json:"activeKcal"`
	TDEE       int     `json:"tdee"`
}

func BMR(weightKg, heightCm float64, ageYears int, sex Sex) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	if sex == SexMale {
		return bmr + 5
	}
	return bmr - 161
}

// Compute is a pure function of its inputs.
func Compute(weightKg float64, steps, exerciseKcal int, heightCm float64, ageYears int, sex Sex) Breakdown {
	bmr := BMR(weightKg, heightCm, ageYears, sex)
	stepBonus := float64(steps) * (weightKg * stepKcalPerKg)
	baseTdee := bmr * baseActivityFactor
	totalActive := (baseTdee - bmr) + stepBonus + float64(exerciseKcal)

	return Breakdown{
		BMR:        bmr,
		ActiveKcal: totalActive,
		TDEE:       int(math.Round(bmr + totalActive)),
	}
}

// AgeOn returns the age in full years on the given day. The birthday itself
// counts as the new age; the day before does not.
func AgeOn(birthDate, on time.Time) int {
	by, bm, bd := birthDate.Date()
	oy, om, od := on.Date()

	age := oy - by
	if om < bm || (om == bm && od < bd) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
