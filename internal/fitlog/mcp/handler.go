package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2beens/fitlog/internal/fitlog/calendar"
	"github.com/2beens/fitlog/internal/fitlog/energy"
	"github.com/2beens/fitlog/internal/fitlog/stats"
	"github.com/2beens/fitlog/internal/fitlog/summaries"
)

// Handler turns MCP tool calls into service calls and formats the results.
type Handler struct {
	service contextService
}

func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) GetFitlogContextTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	}
}

// SummariesRangeInput is the input for get_daily_summaries.
type SummariesRangeInput struct {
	UserID   string `json:"user_id" jsonschema:"User id"`
	FromDate string `json:"from_date" jsonschema:"Start date (YYYY-MM-DD)"`
	ToDate   string `json:"to_date" jsonschema:"End date (YYYY-MM-DD), inclusive"`
}

func (h *Handler) GetDailySummariesTool() func(context.Context, *mcp.CallToolRequest, SummariesRangeInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in SummariesRangeInput) (*mcp.CallToolResult, any, error) {
		from, err := calendar.Parse(in.FromDate)
		if err != nil {
			return errorResult("Invalid from_date: use YYYY-MM-DD"), nil, nil
		}
		to, err := calendar.Parse(in.ToDate)
		if err != nil {
			return errorResult("Invalid to_date: use YYYY-MM-DD"), nil, nil
		}
		list, err := h.service.ListSummaries(ctx, in.UserID, from, to)
		if err != nil {
			return errorResult("Error listing summaries: " + err.Error()), nil, nil
		}
		if list == nil {
			list = []*summaries.DailySummary{}
		}
		return jsonResult(list), nil, nil
	}
}

// DayInput is the input for the per-day tools.
type DayInput struct {
	UserID string `json:"user_id" jsonschema:"User id"`
	Date   string `json:"date" jsonschema:"Day (YYYY-MM-DD)"`
}

func (h *Handler) GetDayBreakdownTool() func(context.Context, *mcp.CallToolRequest, DayInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DayInput) (*mcp.CallToolResult, any, error) {
		day, err := calendar.Parse(in.Date)
		if err != nil {
			return errorResult("Invalid date: use YYYY-MM-DD"), nil, nil
		}
		view, err := h.service.GetDay(ctx, in.UserID, day)
		if err != nil {
			if errors.Is(err, summaries.ErrNotFound) {
				return errorResult("Nothing logged on " + in.Date), nil, nil
			}
			return errorResult("Error fetching day: " + err.Error()), nil, nil
		}
		return jsonResult(view), nil, nil
	}
}

func (h *Handler) GetEventsForDayTool() func(context.Context, *mcp.CallToolRequest, DayInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DayInput) (*mcp.CallToolResult, any, error) {
		day, err := calendar.Parse(in.Date)
		if err != nil {
			return errorResult("Invalid date: use YYYY-MM-DD"), nil, nil
		}
		list, err := h.service.ListEventsForDay(ctx, in.UserID, day)
		if err != nil {
			return errorResult("Error listing events: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

// StatsInput is the input for get_stats.
type StatsInput struct {
	UserID string `json:"user_id" jsonschema:"User id"`
	Days   int    `json:"days,omitempty" jsonschema:"Window length in days ending today (default 30)"`
}

func (h *Handler) GetStatsTool() func(context.Context, *mcp.CallToolRequest, StatsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in StatsInput) (*mcp.CallToolResult, any, error) {
		days := in.Days
		if days == 0 {
			days = stats.DefaultDays
		}
		report, err := h.service.GetStats(ctx, in.UserID, days)
		if err != nil {
			return errorResult("Error computing stats: " + err.Error()), nil, nil
		}
		return jsonResult(report), nil, nil
	}
}

// ComputeTDEEInput is the input for compute_tdee.
type ComputeTDEEInput struct {
	WeightKg     float64 `json:"weight_kg" jsonschema:"Body weight in kg"`
	Steps        int     `json:"steps,omitempty" jsonschema:"Steps walked"`
	ExerciseKcal int     `json:"exercise_kcal,omitempty" jsonschema:"Exercise kcal burned"`
	HeightCm     float64 `json:"height_cm" jsonschema:"Height in cm"`
	AgeYears     int     `json:"age_years" jsonschema:"Age in full years"`
	Sex          string  `json:"sex" jsonschema:"male or female"`
}

func (h *Handler) ComputeTDEETool() func(context.Context, *mcp.CallToolRequest, ComputeTDEEInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in ComputeTDEEInput) (*mcp.CallToolResult, any, error) {
		if in.WeightKg <= 0 || in.HeightCm <= 0 || in.AgeYears <= 0 {
			return errorResult("weight_kg, height_cm and age_years must be positive"), nil, nil
		}
		if in.Steps < 0 || in.ExerciseKcal < 0 {
			return errorResult("steps and exercise_kcal cannot be negative"), nil, nil
		}
		b := energy.Compute(in.WeightKg, in.Steps, in.ExerciseKcal, in.HeightCm, in.AgeYears, energy.ParseSex(in.Sex))
		return jsonResult(b), nil, nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return textResult(string(raw))
}
