package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jask/quarta/internal/database"
	"github.com/jask/quarta/internal/database/repository"
	"github.com/jask/quarta/internal/dataframe"
	"github.com/jask/quarta/internal/logger"
)

const sampleCSV = `Date,Transaction,Amount,Tags,ID,Remarks
2024-01-02,Salary,1000,income,,
2024-01-05,Lent to Ana,-200,loan,Ana,
2024-02-01,Ana paid back,50,loan,Ana,`

func newTestService(t *testing.T) (*SheetService, *sql.DB) {
	t.Helper()
	db, err := database.Setup(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &SheetService{Sheets: repository.NewSheetRepo(db)}, db
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestUploadAndOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)
	uploaded := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.Clock = fixedClock(uploaded)

	sheet, report, err := svc.Upload(ctx, "  Budget ", sampleCSV)
	require.NoError(t, err)
	require.NotEmpty(t, sheet.ID)
	require.Equal(t, "Budget", sheet.Name)
	require.Equal(t, 3, report.RowsParsed)

	opened := uploaded.Add(time.Hour)
	svc.Clock = fixedClock(opened)
	sess, err := svc.Open(ctx, sheet.ID)
	require.NoError(t, err)
	t.Cleanup(sess.Close)
	require.NotNil(t, sess.Report)
	require.True(t, opened.Equal(sess.Sheet.LastOpenedAt))
	require.InDelta(t, 1050.0, sess.Frame.TotalEarnedVsSpent().TotalEarned, 0)

	debts := sess.Frame.SearchDebtors("ana")
	require.Len(t, debts, 1)
	require.Equal(t, dataframe.DebtRecord{ID: "Ana", Balance: -150, Direction: dataframe.OwedByUser}, debts[0])

	stored, err := svc.Sheets.Get(ctx, sheet.ID)
	require.NoError(t, err)
	require.True(t, opened.Equal(stored.LastOpenedAt))
	require.True(t, uploaded.Equal(stored.CreatedAt))
}

func TestUploadBlankNameUsesTimestamp(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	svc.Clock = fixedClock(at)

	sheet, _, err := svc.Upload(context.Background(), "", sampleCSV)
	require.NoError(t, err)
	require.Equal(t, "2024-05-06T07:08:09Z", sheet.Name)
}

func TestUploadUnreadable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)
	for _, content := range []string{"", "Date,Amount", "hello,world"} {
		_, report, err := svc.Upload(ctx, "bad", content)
		require.ErrorIs(t, err, ErrUnreadableSheet)
		require.Nil(t, report)
	}
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestOpenMissingSheet(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, err := svc.Open(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRenameAndDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)
	sheet, _, err := svc.Upload(ctx, "a", sampleCSV)
	require.NoError(t, err)

	require.Error(t, svc.Rename(ctx, sheet.ID, "   "))
	require.NoError(t, svc.Rename(ctx, sheet.ID, "b"))
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "b", list[0].Name)

	require.NoError(t, svc.Delete(ctx, sheet.ID))
	require.ErrorIs(t, svc.Delete(ctx, sheet.ID), repository.ErrNotFound)
}

func TestImportFiles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)
	svc.Concurrency = 2

	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}
	paths := []string{
		write("january.csv", sampleCSV),
		write("empty.csv", ""),
		filepath.Join(dir, "missing.csv"),
		write("february.csv", "2024-02-01,10,Coffee refund"),
		write("march.csv", sampleCSV),
	}

	var logs bytes.Buffer
	res, err := svc.ImportFiles(logger.WithContext(ctx, logger.NewWithWriter(zerolog.SyncWriter(&logs))), paths)
	require.NoError(t, err)
	require.Equal(t, 3, res.Imported)
	require.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 2)
	require.Equal(t, []string{"january", "february", "march"},
		[]string{res.Sheets[0].Sheet.Name, res.Sheets[1].Sheet.Name, res.Sheets[2].Sheet.Name})
	require.Equal(t, 1, res.Sheets[1].Report.RowsParsed)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	var imported, failed int
	dec := json.NewDecoder(&logs)
	for dec.More() {
		var entry map[string]any
		require.NoError(t, dec.Decode(&entry))
		require.NotEmpty(t, entry["path"])
		switch entry["message"] {
		case "file imported":
			imported++
			require.Equal(t, "info", entry["level"])
		case "import failed":
			failed++
			require.Equal(t, "warn", entry["level"])
			require.NotEmpty(t, entry["error"])
		}
	}
	require.Equal(t, 3, imported)
	require.Equal(t, 2, failed)
}

func TestImportFilesCancelled(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ImportFiles(ctx, []string{"a.csv", "b.csv"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestMaintenanceResetAndPrune(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, db := newTestService(t)
	maint := &MaintenanceService{DB: db, Sheets: svc.Sheets}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.Clock = fixedClock(base)
	_, _, err := svc.Upload(ctx, "old", sampleCSV)
	require.NoError(t, err)
	svc.Clock = fixedClock(base.AddDate(0, 2, 0))
	_, _, err = svc.Upload(ctx, "new", sampleCSV)
	require.NoError(t, err)

	removed, err := maint.Prune(ctx, base.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "new", list[0].Name)

	require.NoError(t, maint.Reset(ctx))
	n, err := svc.Sheets.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	require.Error(t, (&MaintenanceService{}).Reset(ctx))
}
