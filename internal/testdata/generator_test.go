package testdata

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/quarta/internal/database"
	"github.com/jask/quarta/internal/database/repository"
	"github.com/jask/quarta/internal/dataframe"
	"github.com/jask/quarta/internal/service"
)

func TestGenerateIsDeterministic(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	require.NoError(t, Generate(&a, Options{Months: 3, Seed: 7}))
	require.NoError(t, Generate(&b, Options{Months: 3, Seed: 7}))
	require.Equal(t, a.String(), b.String())
	require.True(t, strings.HasPrefix(a.String(), strings.Join(Header, ",")+"\n"))
}

func TestGeneratedSheetParses(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, Options{Months: 4, Seed: 1}))

	df := dataframe.New()
	t.Cleanup(df.Close)
	report := df.ParseCSV(buf.String())
	require.NotNil(t, report)
	require.Zero(t, report.RowsSkipped)
	require.True(t, report.HeaderDetected)
	// salary + 8 spends per month, a loan and repayment every other month
	require.Equal(t, 4*9+2*2, report.RowsParsed)

	series := df.InflowsVsOutflows()
	require.Equal(t, []string{"2024-01", "2024-02", "2024-03", "2024-04"}, series.Months)
	require.NotEmpty(t, df.SearchDebtors(""))
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	require.Equal(t, "₱1,234.05", formatAmount(123405))
	require.Equal(t, "-₱549.00", formatAmount(-54900))
	require.Equal(t, "₱0.99", formatAmount(99))
	require.Equal(t, "₱1,000,000.00", formatAmount(100000000))
}

func TestSeed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := database.Setup(ctx, filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := &service.SheetService{Sheets: repository.NewSheetRepo(db)}
	sheet, report, err := Seed(ctx, svc, "Sample", Options{Months: 2, Seed: 3})
	require.NoError(t, err)
	require.Equal(t, "Sample", sheet.Name)
	require.Equal(t, 2*9+2, report.RowsParsed)
}
