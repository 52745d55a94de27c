package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/2beens/fitlog/internal/fitlog/events"
	"github.com/2beens/fitlog/internal/fitlog/stats"
	"github.com/2beens/fitlog/internal/fitlog/summaries"
)

type summaryReader interface {
	List(ctx context.Context, userID string, from, to time.Time) ([]*summaries.DailySummary, error)
	Day(ctx context.Context, userID string, day time.Time) (*summaries.DayView, error)
}

type eventReader interface {
	ListForDay(ctx context.Context, userID string, day time.Time) ([]*events.LogEvent, error)
}

type statsReporter interface {
	Report(ctx context.Context, userID string, today time.Time, days int) (*stats.Report, error)
}

// contextService is what the tool handlers read from.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	ListSummaries(ctx context.Context, userID string, from, to time.Time) ([]*summaries.DailySummary, error)
	GetDay(ctx context.Context, userID string, day time.Time) (*summaries.DayView, error)
	ListEventsForDay(ctx context.Context, userID string, day time.Time) ([]*events.LogEvent, error)
	GetStats(ctx context.Context, userID string, days int) (*stats.Report, error)
}

type ContextService struct {
	schema    SchemaRepo
	summaries summaryReader
	events    eventReader
	stats     statsReporter
	today     func() time.Time
}

func NewContextService(
	schema SchemaRepo,
	summaries summaryReader,
	events eventReader,
	stats statsReporter,
	today func() time.Time,
) *ContextService {
	return &ContextService{
		schema:    schema,
		summaries: summaries,
		events:    events,
		stats:     stats,
		today:     today,
	}
}

// GetSchema renders the fitlog tables as markdown.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetFitlogColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatFitlogSchema(cols), nil
}

func formatFitlogSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Fitlog DB Schema\n\nNo fitlog tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}
	tables := make([]string, 0, len(byTable))
	for t := range byTable {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	var b strings.Builder
	b.WriteString("# Fitlog DB Schema\n\n")
	b.WriteString("Notes of daily_summaries end with exactly one `[ExKcal: N]` line: the exercise kcal ledger of the day.\n\n")
	for _, table := range tables {
		b.WriteString("## ")
		b.WriteString(table)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range byTable[table] {
			def := "-"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def)
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

func (s *ContextService) ListSummaries(ctx context.Context, userID string, from, to time.Time) ([]*summaries.DailySummary, error) {
	return s.summaries.List(ctx, userID, from, to)
}

func (s *ContextService) GetDay(ctx context.Context, userID string, day time.Time) (*summaries.DayView, error) {
	return s.summaries.Day(ctx, userID, day)
}

func (s *ContextService) ListEventsForDay(ctx context.Context, userID string, day time.Time) ([]*events.LogEvent, error) {
	return s.events.ListForDay(ctx, userID, day)
}

// GetStats reports the window ending today in the configured timezone.
func (s *ContextService) GetStats(ctx context.Context, userID string, days int) (*stats.Report, error) {
	return s.stats.Report(ctx, userID, s.today(), days)
}
