package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/quarta/internal/config"
	"github.com/jask/quarta/internal/dataframe"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Database: config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "cli.db")},
		Log:      config.LogConfig{Level: "error", Format: "json"},
		UI:       config.UIConfig{DateFormat: "2006-01-02", CurrencySymbol: "₱"},
		Import:   config.ImportConfig{Concurrency: 2},
	}
}

func runCLI(t *testing.T, cfg config.Config, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), cfg, args, &out, &errOut)
	return out.String(), err
}

func TestImportListReport(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "ledger.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"Date,Transaction,Amount,Tags,ID,Remarks",
		"2024-03-01,Salary,100,income,,",
		"2024-01-15,Bonus,200,income,,",
		"2024-02-10,Lent to Ana,-50,loan,Ana,",
	}, "\n")), 0o600))

	out, err := runCLI(t, cfg, "import", path)
	require.NoError(t, err)
	require.Contains(t, out, "imported 1, skipped 0")
	id := strings.Fields(out)[0]

	out, err = runCLI(t, cfg, "list")
	require.NoError(t, err)
	require.Contains(t, out, id)
	require.Contains(t, out, "ledger")

	out, err = runCLI(t, cfg, "report", id, "-min", "2024-02", "-q", "an")
	require.NoError(t, err)

	var rep struct {
		Parse    dataframe.ParseReport `json:"parse"`
		Insights struct {
			Stats   dataframe.AggregateStats `json:"stats"`
			Series  dataframe.MonthlySeries  `json:"series"`
			Window  dataframe.MonthlySeries  `json:"window"`
			Debtors []dataframe.DebtRecord   `json:"debtors"`
		} `json:"insights"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Equal(t, 3, rep.Parse.RowsParsed)
	require.InDelta(t, 300.0, rep.Insights.Stats.TotalEarned, 0)
	require.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, rep.Insights.Series.Months)
	require.Equal(t, []string{"2024-02", "2024-03"}, rep.Insights.Window.Months)
	require.Equal(t, []dataframe.DebtRecord{{ID: "Ana", Balance: -50, Direction: dataframe.OwedByUser}}, rep.Insights.Debtors)
}

func TestImportUnreadableFails(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "junk.csv")
	require.NoError(t, os.WriteFile(path, []byte("hello,world\n"), 0o600))

	out, err := runCLI(t, cfg, "import", path)
	require.Error(t, err)
	require.Contains(t, out, "imported 0, skipped 1")
}

func TestRenameDeleteReset(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	out, err := runCLI(t, cfg, "sample", "-months", "2", "-seed", "4", "-name", "Demo")
	require.NoError(t, err)
	id := strings.Fields(out)[0]

	_, err = runCLI(t, cfg, "rename", id, "Demo", "two")
	require.NoError(t, err)
	out, err = runCLI(t, cfg, "list")
	require.NoError(t, err)
	require.Contains(t, out, "Demo two")

	_, err = runCLI(t, cfg, "delete", id)
	require.NoError(t, err)
	_, err = runCLI(t, cfg, "delete", id)
	require.Error(t, err)

	_, err = runCLI(t, cfg, "sample", "-months", "1", "-seed", "1")
	require.NoError(t, err)
	_, err = runCLI(t, cfg, "reset")
	require.Error(t, err)
	_, err = runCLI(t, cfg, "reset", "-yes")
	require.NoError(t, err)
	out, err = runCLI(t, cfg, "list")
	require.NoError(t, err)
	require.Contains(t, out, "no sheets yet")
}

func TestPruneAndSamplePrint(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	_, err := runCLI(t, cfg, "sample", "-months", "1", "-seed", "2")
	require.NoError(t, err)

	out, err := runCLI(t, cfg, "prune", "-older-than", "30d")
	require.NoError(t, err)
	require.Contains(t, out, "pruned 0 sheets")

	_, err = runCLI(t, cfg, "prune")
	require.Error(t, err)

	out, err = runCLI(t, cfg, "sample", "-print", "-months", "1", "-seed", "2")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Date,Transaction,Amount,Tags,ID,Remarks"))
}

func TestParseAge(t *testing.T) {
	t.Parallel()

	d, err := parseAge("30d")
	require.NoError(t, err)
	require.Equal(t, 30*24*time.Hour, d)

	d, err = parseAge("90m")
	require.NoError(t, err)
	require.Equal(t, 90*time.Minute, d)

	for _, bad := range []string{"", "xd", "-1d", "soon", "-5h"} {
		_, err := parseAge(bad)
		require.Error(t, err, bad)
	}
}

func TestUsageAndUnknown(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, testConfig(t))
	require.NoError(t, err)
	require.Contains(t, out, "usage: quarta")

	_, err = runCLI(t, testConfig(t), "frobnicate")
	require.Error(t, err)
}
