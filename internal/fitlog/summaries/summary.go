package summaries

import (
	"errors"
	"time"

	"github.com/2beens/fitlog/internal/fitlog/calendar"
)

var ErrNotFound = errors.New("daily summary not found")

// DailySummary is the single aggregated row per (user, date).
// Intake and steps are never negative; TDEE is recomputed on every write.
type DailySummary struct {
	UserID string    `json:"userId"`
	Date   time.Time `json:"-"`

	Weight  *float64 `json:"weight"`
	Waist   *float64 `json:"waist"`
	BodyFat *float64 `json:"bodyFat"`

	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
	Steps    int `json:"steps"`

	Sleep    *float64 `json:"sleep"`
	Training string   `json:"training"`
	TDEE     int      `json:"tdee"`
	Notes    string   `json:"notes"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Day returns the summary date as YYYY-MM-DD.
func (s DailySummary) Day() string {
	return calendar.Format(s.Date)
}

// Balance is intake minus expenditure; negative means a deficit.
func (s DailySummary) Balance() int {
	return s.Calories - s.TDEE
}

// Zero returns the empty row a first entry of the day starts from.
func Zero(userID string, day time.Time) DailySummary {
	return DailySummary{
		UserID: userID,
		Date:   day,
	}
}
