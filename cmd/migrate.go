package main

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/kameqazi1/Manaakhah-sub002/internal/config"
	"github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/migrations"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/dbmetrics"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Применить миграции схемы базы данных",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
		if err != nil {
			return err
		}
		defer log.Close()

		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		if err := db.PingContext(cmd.Context()); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}

		if err := migrations.Run(cmd.Context(), dbmetrics.Wrap(db, nil), log); err != nil {
			return err
		}
		log.Info("Migrations applied (host=%s, db=%s)", cfg.Database.Host, cfg.Database.DBName)
		return nil
	},
}
