// Package entry holds the structured guess extracted from a free-text log entry.
package entry

import (
	"encoding/json"
	"math"
	"strings"
)

// Mode tells the reconciler whether a metric adds to the day or replaces it.
type Mode int

const (
	ModeAdd Mode = iota
	ModeSet
)

func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "set") {
		return ModeSet
	}
	return ModeAdd
}

func (m Mode) String() string {
	if m == ModeSet {
		return "set"
	}
	return "add"
}

func (m Mode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON never fails: null, unknown strings and non-strings all mean add.
func (m *Mode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*m = ModeAdd
		return nil
	}
	*m = ParseMode(s)
	return nil
}

// Guess is the extractor's best effort. A nil field means the input did not
// mention that metric; it is never read as zero.
type Guess struct {
	Weight  *float64 `json:"weight,omitempty"`
	Waist   *float64 `json:"waist,omitempty"`
	BodyFat *float64 `json:"body_fat,omitempty"`

	Calories      *float64 `json:"calories,omitempty"`
	Protein       *float64 `json:"protein,omitempty"`
	Carbs         *float64 `json:"carbs,omitempty"`
	Fat           *float64 `json:"fat,omitempty"`
	NutritionMode Mode     `json:"nutrition_mode"`

	Steps     *float64 `json:"steps,omitempty"`
	StepsMode Mode     `json:"steps_mode"`

	BurnedCalories *float64 `json:"burned_calories,omitempty"`
	TrainingMode   Mode     `json:"training_mode"`

	Sleep    *float64 `json:"sleep,omitempty"`
	Training *string  `json:"training,omitempty"`
	Notes    *string  `json:"notes,omitempty"`

	// Raw is the extractor output this guess was decoded from, unknown keys
	// included. Empty for guesses built in code.
	Raw json.RawMessage `json:"-"`
}

// AnySet reports whether any of the modes asks for a correction.
func (g Guess) AnySet() bool {
	return g.NutritionMode == ModeSet || g.StepsMode == ModeSet || g.TrainingMode == ModeSet
}

// TrainingLabel returns the trimmed training text, empty when absent.
func (g Guess) TrainingLabel() string {
	if g.Training == nil {
		return ""
	}
	return strings.TrimSpace(*g.Training)
}

// HasTraining reports whether removing this guess touches the training label.
func (g Guess) HasTraining() bool {
	return g.TrainingLabel() != "" || Int(g.BurnedCalories) != 0
}

// Int rounds an optional amount, absent counts as 0.
func Int(v *float64) int {
	if v == nil {
		return 0
	}
	return int(math.Round(*v))
}

func Float(v float64) *float64 {
	return &v
}

func Text(s string) *string {
	return &s
}
