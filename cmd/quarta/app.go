package main

import (
	"context"
	"database/sql"
	"io"

	"github.com/rs/zerolog"

	"github.com/jask/quarta/internal/config"
	"github.com/jask/quarta/internal/database"
	"github.com/jask/quarta/internal/database/repository"
	"github.com/jask/quarta/internal/logger"
	"github.com/jask/quarta/internal/service"
)

// app holds the wiring shared by every command.
type app struct {
	cfg    config.Config
	db     *sql.DB
	log    zerolog.Logger
	sheets *service.SheetService
	maint  *service.MaintenanceService
	out    io.Writer
	errOut io.Writer
}

func newApp(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) (*app, error) {
	log, err := logger.New(stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	db, err := database.Setup(ctx, cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", cfg.Database.Path).Msg("database ready")

	repo := repository.NewSheetRepo(db)
	return &app{
		cfg: cfg,
		db:  db,
		log: log,
		sheets: &service.SheetService{
			Sheets:       repo,
			FrameOptions: cfg.FrameOptions(log),
			Concurrency:  cfg.Import.Concurrency,
			Log:          log,
		},
		maint:  &service.MaintenanceService{DB: db, Sheets: repo},
		out:    stdout,
		errOut: stderr,
	}, nil
}

func (a *app) close() {
	_ = a.db.Close()
}
