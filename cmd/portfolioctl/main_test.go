package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/database"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/model"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dbPath, logLevel = "", "warn"

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPortfolioctl(t *testing.T) {
	db := filepath.Join(t.TempDir(), "portfolio.db")

	out, err := run(t, "migrate", "up", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "applied 1")
	assert.Contains(t, out, "applied 2")

	out, err = run(t, "migrate", "up", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "schema is up to date\n", out)

	out, err = run(t, "migrate", "status", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "applied")
	assert.NotContains(t, out, "pending")

	conn, err := database.Open(db)
	require.NoError(t, err)
	account := testutil.NewAccount().WithCash("2500").Build(t, conn)
	stock := testutil.NewStock().WithPrice("120").Build(t, conn)
	testutil.NewHolding(account.ID, stock.ID).Build(t, conn)
	dividend := testutil.NewDividend(stock.ID).WithAmountPerShare("0.25").Build(t, conn)
	require.NoError(t, conn.Close())

	t.Run("snapshot account on a given date", func(t *testing.T) {
		out, err := run(t, "snapshot", "account", account.ID, "--date", "2024-03-01", "--db", db)
		require.NoError(t, err)

		var snap model.PortfolioSnapshot
		require.NoError(t, json.Unmarshal([]byte(out), &snap))
		assert.Equal(t, "3700", snap.TotalValue.String())

		_, err = run(t, "snapshot", "account", account.ID, "--date", "2024-03-01", "--db", db)
		assert.Error(t, err)
	})

	t.Run("snapshot show", func(t *testing.T) {
		out, err := run(t, "snapshot", "show", account.ID, "--date", "2024-03-01", "--db", db)
		require.NoError(t, err)

		var snap model.PortfolioSnapshot
		require.NoError(t, json.Unmarshal([]byte(out), &snap))
		assert.Equal(t, "1000", snap.TotalInvested.String())

		_, err = run(t, "snapshot", "show", account.ID, "--date", "2024-02-29", "--db", db)
		assert.ErrorContains(t, err, "snapshot not found")
	})

	t.Run("snapshot account rejects a bad date", func(t *testing.T) {
		_, err := run(t, "snapshot", "account", account.ID, "--date", "03/01/2024", "--db", db)
		assert.ErrorContains(t, err, "invalid --date")
	})

	t.Run("snapshot all", func(t *testing.T) {
		out, err := run(t, "snapshot", "all", "--db", db)
		require.NoError(t, err)

		var result model.SnapshotBatchResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, 1, result.Total)
		assert.Equal(t, 1, result.Succeeded)
	})

	t.Run("dividend distribute", func(t *testing.T) {
		out, err := run(t, "dividend", "distribute", dividend.ID, "--db", db)
		require.NoError(t, err)

		var payments []model.DividendPayment
		require.NoError(t, json.Unmarshal([]byte(out), &payments))
		require.Len(t, payments, 1)
		assert.Equal(t, "2.5", payments[0].TotalAmount.String())

		out, err = run(t, "dividend", "distribute", dividend.ID, "--db", db)
		require.NoError(t, err)
		assert.Equal(t, "[]\n", out)

		_, err = run(t, "dividend", "distribute", "missing", "--db", db)
		assert.Error(t, err)
	})

	t.Run("argument count is enforced", func(t *testing.T) {
		_, err := run(t, "snapshot", "account", "--db", db)
		assert.Error(t, err)
	})
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "portfolioctl version dev\n", out)
}
