package reconciler

import (
	"github.com/2beens/fitlog/internal/fitlog/entry"
	"github.com/2beens/fitlog/internal/fitlog/events"
	"github.com/2beens/fitlog/internal/fitlog/ledger"
	"github.com/2beens/fitlog/internal/fitlog/summaries"
)

// Merge folds one guess into the existing row and returns the next row along
// with the new exercise-calories ledger value. TDEE is left to the caller.
func Merge(existing summaries.DailySummary, g entry.Guess, rawText string, source events.Source) (summaries.DailySummary, int) {
	next := existing

	next.Calories = mergeInt(existing.Calories, g.Calories, g.NutritionMode)
	next.Protein = mergeInt(existing.Protein, g.Protein, g.NutritionMode)
	next.Carbs = mergeInt(existing.Carbs, g.Carbs, g.NutritionMode)
	next.Fat = mergeInt(existing.Fat, g.Fat, g.NutritionMode)
	next.Steps = mergeInt(existing.Steps, g.Steps, g.StepsMode)

	kcal := ledger.Parse(existing.Notes)
	if g.TrainingMode == entry.ModeSet {
		kcal = entry.Int(g.BurnedCalories)
	} else {
		kcal += entry.Int(g.BurnedCalories)
	}
	kcal = max(kcal, 0)

	next.Weight = carry(existing.Weight, g.Weight)
	next.Waist = carry(existing.Waist, g.Waist)
	next.BodyFat = carry(existing.BodyFat, g.BodyFat)
	next.Sleep = carry(existing.Sleep, g.Sleep)

	if label := g.TrainingLabel(); label != "" {
		next.Training = label
	}

	line := ledger.EntryLine(rawText, g.AnySet(), source == events.SourceVoice)
	next.Notes = ledger.AppendEntry(existing.Notes, line, kcal)

	return next, kcal
}

// Reverse subtracts one event's contribution from the current row. The
// training label is left untouched; see Service.RemoveEntry.
func Reverse(current summaries.DailySummary, e events.LogEvent) (summaries.DailySummary, int) {
	next := current
	g := e.Parsed

	next.Calories = max(current.Calories-entry.Int(g.Calories), 0)
	next.Protein = max(current.Protein-entry.Int(g.Protein), 0)
	next.Carbs = max(current.Carbs-entry.Int(g.Carbs), 0)
	next.Fat = max(current.Fat-entry.Int(g.Fat), 0)
	next.Steps = max(current.Steps-entry.Int(g.Steps), 0)

	kcal := max(ledger.Parse(current.Notes)-entry.Int(g.BurnedCalories), 0)
	next.Notes = ledger.RemoveEntry(current.Notes, e.RawText, kcal)

	return next, kcal
}

func mergeInt(existing int, v *float64, mode entry.Mode) int {
	if v == nil {
		return max(existing, 0)
	}
	if mode == entry.ModeSet {
		return max(entry.Int(v), 0)
	}
	return max(existing+entry.Int(v), 0)
}

func carry(existing, v *float64) *float64 {
	if v != nil {
		val := *v
		return &val
	}
	return existing
}
