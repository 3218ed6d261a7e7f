package main

import (
	"context"
	"flag"
	"time"

	"github.com/joho/godotenv"

	"github.com/kodbank/kodbank-api/internal/infrastructure/config"
	"github.com/kodbank/kodbank-api/internal/infrastructure/db/mysql"
	"github.com/kodbank/kodbank-api/pkg/logger"
)

func main() {
	command := flag.String("command", "up", "migrate command (up|status|down)")
	timeout := flag.Duration("timeout", time.Minute, "command timeout")
	target := flag.Int64("target", 0, "target version for down command (optional)")
	flag.Parse()

	_ = godotenv.Load()
	log := logger.Init(logger.Options{Service: "kodbank-migrate"})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	db, err := mysql.Open(ctx, mysql.Config{URL: cfg.MySQL.URL, MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer db.Close()

	migrator, err := mysql.NewMigrator(db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("configure migrations")
	}

	switch *command {
	case "up":
		err = migrator.Up(ctx)
	case "status":
		err = migrator.Status(ctx)
	case "down":
		err = migrator.Down(ctx, *target)
	default:
		log.Fatal().Str("command", *command).Msg("unsupported command")
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", *command).Msg("migration command failed")
	}

	log.Info().Str("command", *command).Msg("migration command completed")
}
