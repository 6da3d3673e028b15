package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jask/quarta/internal/database"
	"github.com/jask/quarta/internal/database/repository"
)

// MaintenanceService houses destructive/ops actions.
type MaintenanceService struct {
	DB     *sql.DB
	Sheets *repository.SheetRepo
}

// Reset wipes all stored sheets. It keeps the schema intact so the app can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM sheets"); err != nil {
			return fmt.Errorf("reset table sheets: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}

// Prune deletes sheets not opened since before and reports how many.
func (s *MaintenanceService) Prune(ctx context.Context, before time.Time) (int64, error) {
	if s.Sheets == nil {
		return 0, fmt.Errorf("maintenance: sheets not configured")
	}
	return s.Sheets.DeleteOpenedBefore(ctx, before)
}
