// Package main runs the fitlog MCP server over stdio for local MCP clients.
// The same server is mounted on the backend at /mcp over HTTP.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitlog/internal/config"
	"github.com/2beens/fitlog/internal/db"
	"github.com/2beens/fitlog/internal/fitlog/calendar"
	"github.com/2beens/fitlog/internal/fitlog/events"
	fitlogmcp "github.com/2beens/fitlog/internal/fitlog/mcp"
	"github.com/2beens/fitlog/internal/fitlog/profiles"
	"github.com/2beens/fitlog/internal/fitlog/stats"
	"github.com/2beens/fitlog/internal/fitlog/summaries"
	"github.com/2beens/fitlog/internal/logging"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	// stdout belongs to the protocol, only a missing file is tolerated silently
	_ = godotenv.Load()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logging.Setup(logging.LoggerSetupParams{
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogFormatJSON,
		Console:       os.Stderr,
	})
	location, err := calendar.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("load timezone: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     os.Getenv("FITLOG_POSTGRES_PASS"),
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	summariesRepo := summaries.NewRepo(dbPool)
	profilesService := profiles.NewService(profiles.NewRepo(dbPool))

	server := fitlogmcp.NewServer(fitlogmcp.ServerParams{
		Pool:      dbPool,
		Summaries: summaries.NewService(summariesRepo, profilesService),
		Events:    events.NewService(events.NewRepo(dbPool)),
		Stats:     stats.NewAnalyzer(summariesRepo, profilesService),
		Today: func() time.Time {
			return calendar.Day(time.Now(), location)
		},
	})

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatalf("mcp server: %s", err)
	}
}
