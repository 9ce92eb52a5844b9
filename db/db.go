package db

import (
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/showdeck/showdeck/config"
)

func Initialize(cfg config.Config) *sqlx.DB {
	db, err := sqlx.Connect("sqlite", cfg.Showdeck.DbPath)
	if err != nil {
		panic(err)
	}
	slog.Info("Initialised DB connection", slog.String("path", cfg.Showdeck.DbPath))
	return db
}
