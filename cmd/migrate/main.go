package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"

	"github.com/2beens/fitlog/internal/config"
	"github.com/2beens/fitlog/internal/db"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	migrationsDir := flag.String("path", "migrations", "migrations directory")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found")
	}

	// FITLOG_DB_URL wins over the config file
	dbURL := os.Getenv("FITLOG_DB_URL")
	if dbURL == "" {
		cfg, err := config.Load(*env, *configPath)
		if err != nil {
			log.Fatalf("load config: %s", err)
		}
		dbURL = db.NewDBPoolParams{
			DBHost:     cfg.PostgresHost,
			DBPort:     cfg.PostgresPort,
			DBName:     cfg.PostgresDBName,
			DBUser:     cfg.PostgresUser,
			DBPassword: os.Getenv("FITLOG_POSTGRES_PASS"),
		}.ConnString() + "?sslmode=disable"
	}

	absMigrationsPath, err := filepath.Abs(*migrationsDir)
	if err != nil {
		log.Fatal(err)
	}
	if info, err := os.Stat(absMigrationsPath); err != nil || !info.IsDir() {
		log.Fatalf("migrations directory not found: %s", absMigrationsPath)
	}

	m, err := migrate.New("file://"+absMigrationsPath, dbURL)
	if err != nil {
		log.Fatal(err)
	}

	cmd := "up"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	switch cmd {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal(err)
		}
		log.Println("migration up successful")
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal(err)
		}
		log.Println("migration down successful")
	default:
		log.Fatalf("unknown command %q, use up or down", cmd)
	}
}
