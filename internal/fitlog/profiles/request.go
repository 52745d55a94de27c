package profiles

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/2beens/fitlog/internal/fitlog/calendar"
	"github.com/2beens/fitlog/internal/fitlog/energy"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names, the client never sees Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// UpsertRequest is the body of PUT /profiles/{userId}.
type UpsertRequest struct {
	HeightCm  float64 `json:"heightCm" validate:"required,gt=50,lt=280"`
	BirthDate string  `json:"birthDate" validate:"required,datetime=2006-01-02"`
	Sex       string  `json:"sex" validate:"required"`

	GoalWeight  *float64 `json:"goalWeight" validate:"omitempty,gt=0,lt=500"`
	GoalWaist   *float64 `json:"goalWaist" validate:"omitempty,gt=0,lt=300"`
	GoalBodyFat *float64 `json:"goalBodyFat" validate:"omitempty,gte=1,lte=70"`
	GoalSteps   *int     `json:"goalSteps" validate:"omitempty,gt=0"`
}

func (r UpsertRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}
	return nil
}

func (r UpsertRequest) Profile(userID string) (Profile, error) {
	birth, err := calendar.Parse(r.BirthDate)
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		UserID:      userID,
		HeightCm:    r.HeightCm,
		BirthDate:   birth,
		Sex:         energy.ParseSex(r.Sex),
		GoalWeight:  r.GoalWeight,
		GoalWaist:   r.GoalWaist,
		GoalBodyFat: r.GoalBodyFat,
		GoalSteps:   r.GoalSteps,
	}, nil
}

type profileJSON struct {
	profileAlias
	BirthDate string `json:"birthDate"`
}

type profileAlias Profile

func (p Profile) MarshalJSON() ([]byte, error) {
	return json.Marshal(profileJSON{
		profileAlias: profileAlias(p),
		BirthDate:    calendar.Format(p.BirthDate),
	})
}
