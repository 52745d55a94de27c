package summaries

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/fitlog/internal/fitlog/energy"
)

type weightSource interface {
	LatestWeightBefore(ctx context.Context, userID string, day time.Time) (*float64, error)
}

// FormulaWeight is the weight the energy formula runs with for row: its own,
// else the last one logged before it, else energy.DefaultWeightKg. The result
// is never written back to the row.
func FormulaWeight(ctx context.Context, ws weightSource, row DailySummary) (float64, error) {
	if row.Weight != nil {
		return *row.Weight, nil
	}
	last, err := ws.LatestWeightBefore(ctx, row.UserID, row.Date)
	if err != nil {
		return 0, fmt.Errorf("load last weight: %w", err)
	}
	if last != nil {
		return *last, nil
	}
	return energy.DefaultWeightKg, nil
}
