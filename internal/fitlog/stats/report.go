// Package stats derives the dashboard figures (streaks, averages, energy
// balance, trends, goals, achievements) from stored daily summaries.
package stats

import (
	"math"
	"time"

	"github.com/2beens/fitlog/internal/fitlog/calendar"
	"github.com/2beens/fitlog/internal/fitlog/profiles"
	"github.com/2beens/fitlog/internal/fitlog/summaries"
)

const (
	weightGoalTolerance  = 0.5
	waistGoalTolerance   = 1.0
	bodyFatGoalTolerance = 0.5
)

type Report struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Days       int    `json:"days"`
	LoggedDays int    `json:"loggedDays"`

	CurrentStreak int `json:"currentStreak"`
	LongestStreak int `json:"longestStreak"`

	Averages      Averages      `json:"averages"`
	EnergyBalance []DayBalance  `json:"energyBalance"`
	TotalBalance  int           `json:"totalBalance"`
	Weight        WeightTrend   `json:"weight"`
	Goals         []Goal        `json:"goals"`
	StepGoalDays  int           `json:"stepGoalDays"`
	Achievements  []Achievement `json:"achievements"`
}

// Averages are taken over logged days only; Sleep only over days that have it.
type Averages struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Steps    float64 `json:"steps"`
	TDEE     float64 `json:"tdee"`
	Sleep    float64 `json:"sleep"`
}

type DayBalance struct {
	Date    string `json:"date"`
	Intake  int    `json:"intake"`
	TDEE    int    `json:"tdee"`
	Balance int    `json:"balance"`
}

type WeightTrend struct {
	FirstDate string   `json:"firstDate,omitempty"`
	First     *float64 `json:"first,omitempty"`
	LastDate  string   `json:"lastDate,omitempty"`
	Last      *float64 `json:"last,omitempty"`
	Delta     *float64 `json:"delta,omitempty"`
}

type Goal struct {
	Metric  string   `json:"metric"`
	Target  float64  `json:"target"`
	Current *float64 `json:"current,omitempty"`
	// Remaining is Current - Target; negative means below the target.
	Remaining *float64 `json:"remaining,omitempty"`
	Reached   bool     `json:"reached"`
}

type Achievement struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Unlocked bool   `json:"unlocked"`
}

// Compute builds the report for the window of days ending on today. list may
// hold rows outside the window; they are ignored.
func Compute(list []*summaries.DailySummary, profile profiles.Profile, today time.Time, days int) Report {
	from := today.AddDate(0, 0, -(days - 1))
	report := Report{
		From:          calendar.Format(from),
		To:            calendar.Format(today),
		Days:          days,
		EnergyBalance: make([]DayBalance, 0),
		Goals:         make([]Goal, 0),
	}

	byDay := make(map[string]*summaries.DailySummary, len(list))
	for _, s := range list {
		if s.Date.Before(from) || s.Date.After(today) {
			continue
		}
		byDay[s.Day()] = s
	}
	report.LoggedDays = len(byDay)

	var (
		sleepDays    int
		deficitRun   int
		bestDeficits int
		streak       int
	)
	for d := from; !d.After(today); d = d.AddDate(0, 0, 1) {
		s, ok := byDay[calendar.Format(d)]
		if !ok {
			streak = 0
			deficitRun = 0
			continue
		}

		streak++
		report.LongestStreak = max(report.LongestStreak, streak)

		report.Averages.Calories += float64(s.Calories)
		report.Averages.Protein += float64(s.Protein)
		report.Averages.Carbs += float64(s.Carbs)
		report.Averages.Fat += float64(s.Fat)
		report.Averages.Steps += float64(s.Steps)
		report.Averages.TDEE += float64(s.TDEE)
		if s.Sleep != nil {
			report.Averages.Sleep += *s.Sleep
			sleepDays++
		}

		balance := s.Balance()
		report.EnergyBalance = append(report.EnergyBalance, DayBalance{
			Date:    s.Day(),
			Intake:  s.Calories,
			TDEE:    s.TDEE,
			Balance: balance,
		})
		report.TotalBalance += balance
		if balance < 0 && s.Calories > 0 {
			deficitRun++
			bestDeficits = max(bestDeficits, deficitRun)
		} else {
			deficitRun = 0
		}

		if s.Weight != nil {
			if report.Weight.First == nil {
				report.Weight.First = copyFloat(s.Weight)
				report.Weight.FirstDate = s.Day()
			}
			report.Weight.Last = copyFloat(s.Weight)
			report.Weight.LastDate = s.Day()
		}

		if profile.GoalSteps != nil && s.Steps >= *profile.GoalSteps {
			report.StepGoalDays++
		}
	}

	report.CurrentStreak = currentStreak(byDay, from, today)

	if n := float64(report.LoggedDays); n > 0 {
		report.Averages.Calories = round1(report.Averages.Calories / n)
		report.Averages.Protein = round1(report.Averages.Protein / n)
		report.Averages.Carbs = round1(report.Averages.Carbs / n)
		report.Averages.Fat = round1(report.Averages.Fat / n)
		report.Averages.Steps = round1(report.Averages.Steps / n)
		report.Averages.TDEE = round1(report.Averages.TDEE / n)
	}
	if sleepDays > 0 {
		report.Averages.Sleep = round1(report.Averages.Sleep / float64(sleepDays))
	}

	if report.Weight.First != nil && report.Weight.Last != nil {
		delta := round1(*report.Weight.Last - *report.Weight.First)
		report.Weight.Delta = &delta
	}

	report.Goals = goals(profile, report, byDay, from, today)
	report.Achievements = achievements(report, bestDeficits)
	return report
}

// currentStreak counts logged days back from today. A day not logged yet
// does not break the streak until it is over.
func currentStreak(byDay map[string]*summaries.DailySummary, from, today time.Time) int {
	d := today
	if _, ok := byDay[calendar.Format(d)]; !ok {
		d = d.AddDate(0, 0, -1)
	}
	streak := 0
	for ; !d.Before(from); d = d.AddDate(0, 0, -1) {
		if _, ok := byDay[calendar.Format(d)]; !ok {
			break
		}
		streak++
	}
	return streak
}

func goals(profile profiles.Profile, report Report, byDay map[string]*summaries.DailySummary, from, today time.Time) []Goal {
	list := make([]Goal, 0, 4)

	if profile.GoalWeight != nil {
		list = append(list, absoluteGoal("weight", *profile.GoalWeight, report.Weight.Last, weightGoalTolerance))
	}
	if profile.GoalWaist != nil {
		list = append(list, absoluteGoal("waist", *profile.GoalWaist, lastValue(byDay, from, today, func(s *summaries.DailySummary) *float64 { return s.Waist }), waistGoalTolerance))
	}
	if profile.GoalBodyFat != nil {
		list = append(list, absoluteGoal("bodyFat", *profile.GoalBodyFat, lastValue(byDay, from, today, func(s *summaries.DailySummary) *float64 { return s.BodyFat }), bodyFatGoalTolerance))
	}
	if profile.GoalSteps != nil {
		target := float64(*profile.GoalSteps)
		g := Goal{Metric: "steps", Target: target}
		if report.LoggedDays > 0 {
			current := report.Averages.Steps
			remaining := round1(current - target)
			g.Current = &current
			g.Remaining = &remaining
			g.Reached = current >= target
		}
		list = append(list, g)
	}

	return list
}

func absoluteGoal(metric string, target float64, current *float64, tolerance float64) Goal {
	g := Goal{Metric: metric, Target: target}
	if current == nil {
		return g
	}
	remaining := round1(*current - target)
	g.Current = copyFloat(current)
	g.Remaining = &remaining
	g.Reached = math.Abs(remaining) <= tolerance
	return g
}

func lastValue(byDay map[string]*summaries.DailySummary, from, today time.Time, field func(*summaries.DailySummary) *float64) *float64 {
	for d := today; !d.Before(from); d = d.AddDate(0, 0, -1) {
		if s, ok := byDay[calendar.Format(d)]; ok {
			if v := field(s); v != nil {
				return v
			}
		}
	}
	return nil
}

func achievements(report Report, bestDeficitRun int) []Achievement {
	return []Achievement{
		{ID: "first-log", Title: "Primer registro", Unlocked: report.LoggedDays > 0},
		{ID: "streak-7", Title: "Racha de 7 días", Unlocked: report.LongestStreak >= 7},
		{ID: "streak-30", Title: "Racha de 30 días", Unlocked: report.LongestStreak >= 30},
		{ID: "steps-goal-10", Title: "Objetivo de pasos 10 días", Unlocked: report.StepGoalDays >= 10},
		{ID: "deficit-week", Title: "Semana en déficit", Unlocked: bestDeficitRun >= 7},
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
