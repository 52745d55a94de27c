package mcp

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ServerParams struct {
	Pool      *pgxpool.Pool
	Summaries summaryReader
	Events    eventReader
	Stats     statsReporter
	Today     func() time.Time
}

// NewServer builds the fitlog MCP server. Mounted at /mcp by the backend and
// served over stdio by cmd/fitlog_mcp.
func NewServer(params ServerParams) *mcp.Server {
	svc := NewContextService(
		NewPoolSchemaRepo(params.Pool),
		params.Summaries,
		params.Events,
		params.Stats,
		params.Today,
	)
	h := NewHandler(svc)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "fitlog-context",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_fitlog_context",
		Description: "Returns the DB schema of the fitlog tables (daily_summaries, log_events, profiles, workout_routines): columns, types, nullable, default.",
	}, h.GetFitlogContextTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_daily_summaries",
		Description: "Returns the daily summaries (intake, macros, steps, weight, sleep, training, tdee, notes) of a user between from_date and to_date (YYYY-MM-DD, inclusive).",
	}, h.GetDailySummariesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_day_breakdown",
		Description: "Returns one day's summary with its TDEE breakdown (bmr, active kcal, tdee), exercise kcal ledger, energy balance and the weight the formula used.",
	}, h.GetDayBreakdownTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_events_for_day",
		Description: "Returns the raw log events of a user for a day, oldest first: raw text, parsed guess, source.",
	}, h.GetEventsForDayTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_stats",
		Description: "Returns streaks, averages, daily energy balance, weight trend, goal progress and achievements for the last N days (default 30).",
	}, h.GetStatsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "compute_tdee",
		Description: "Computes BMR, active kcal and TDEE (Mifflin-St Jeor, 1.1 base factor, step bonus) for arbitrary inputs. Use to explain or simulate a day's expenditure.",
	}, h.ComputeTDEETool())

	return s
}
