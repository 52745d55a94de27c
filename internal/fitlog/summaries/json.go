package summaries

import (
	"encoding/json"
	"fmt"

	"github.com/2beens/fitlog/internal/fitlog/calendar"
)

type summaryJSON struct {
	dailySummaryAlias
	Date string `json:"date"`
}

type dailySummaryAlias DailySummary

func (s DailySummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(summaryJSON{
		dailySummaryAlias: dailySummaryAlias(s),
		Date:              s.Day(),
	})
}

func (s *DailySummary) UnmarshalJSON(data []byte) error {
	var sj summaryJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		return err
	}
	*s = DailySummary(sj.dailySummaryAlias)
	if sj.Date == "" {
		return nil
	}
	day, err := calendar.Parse(sj.Date)
	if err != nil {
		return fmt.Errorf("summary date: %w", err)
	}
	s.Date = day
	return nil
}
