package command_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelschaepers/coolsulting-testing-area/cmd/quotectl/internal/command"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/config"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/database"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
	quoteStore "github.com/michaelschaepers/coolsulting-testing-area/internal/quote/store"
)

func setupEnv(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "quotes.db")

	t.Setenv("DB_URL", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_SQLITE_PATH", path)
	t.Setenv("MONDAY_API_TOKEN", "")
	t.Setenv("MONDAY_BOARD_ID", "")
	t.Setenv("CATALOG_EQUIPMENT_PATH", "")
	t.Setenv("CATALOG_ACCESSORY_PATH", "")

	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := command.New()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)

	err := root.ExecuteContext(context.Background())

	return out.String(), err
}

// saveQuote stores a quote for Mustermann GmbH through a separate connection.
func saveQuote(t *testing.T, path string) string {
	t.Helper()

	db, err := database.OpenSQLite(path)
	require.NoError(t, err)

	defer db.Close()

	require.NoError(t, database.Migrate(db, config.BackendSQLite))

	svc := quote.NewService(quoteStore.New(db, config.BackendSQLite, 5*time.Second), quote.Settings{
		Prefix:       "AN",
		ValidityDays: 7,
	})

	sess := svc.NewSession()
	sess.Cart.Add(quote.LineItem{
		Kind:        quote.KindSet,
		SKU:         "AR35TXFCAWKNEU",
		Description: "Wind-Free Set 3,5 kW",
		Quantity:    decimal.NewFromInt(2),
		UnitPrice:   decimal.NewFromInt(500),
	})

	res, err := svc.Save(context.Background(), sess, quote.Draft{
		CustomerName: "Mustermann GmbH",
		Preparer:     "Michael Schäpers",
		Params:       quote.Params{TaxRate: decimal.NewFromInt(20)},
	})
	require.NoError(t, err)

	return res.Quote.Number
}

func TestMigrate(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "migrate", "version")
	require.NoError(t, err)
	assert.Equal(t, "sqlite: no migrations applied\n", out)

	out, err = run(t, "migrate", "up")
	require.NoError(t, err)
	assert.Equal(t, "sqlite: schema version 1\n", out)

	out, err = run(t, "migrate", "down")
	require.NoError(t, err)
	assert.Equal(t, "sqlite: no migrations applied\n", out)
}

func TestNumber(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "number")
	require.NoError(t, err)
	assert.Regexp(t, `^AN-\d{4}-0001\n$`, out)

	out, err = run(t, "number")
	require.NoError(t, err)
	assert.Regexp(t, `^AN-\d{4}-0002\n$`, out)
}

func TestQuoteLifecycle(t *testing.T) {
	path := setupEnv(t)
	number := saveQuote(t, path)

	out, err := run(t, "show", number)
	require.NoError(t, err)
	assert.Contains(t, out, number)
	assert.Contains(t, out, "Customer: Mustermann GmbH")
	assert.Contains(t, out, "Wind-Free Set 3,5 kW")
	assert.Contains(t, out, "Gross 1.200,00 €")

	out, err = run(t, "search", "muster")
	require.NoError(t, err)
	assert.Contains(t, out, number)
	assert.Contains(t, out, "Created")

	out, err = run(t, "search", "nobody")
	require.NoError(t, err)
	assert.NotContains(t, out, number)

	_, err = run(t, "status", number, "Sent")
	require.NoError(t, err)

	_, err = run(t, "status", number, "Lost")
	require.ErrorIs(t, err, quote.ErrInvalid)

	out, err = run(t, "search")
	require.NoError(t, err)
	assert.Contains(t, out, "Sent")

	out, err = run(t, "delete", number)
	require.NoError(t, err)
	assert.Equal(t, "deleted "+number+"\n", out)

	_, err = run(t, "show", number)
	require.ErrorIs(t, err, quote.ErrNotFound)
}

func TestStats(t *testing.T) {
	path := setupEnv(t)
	saveQuote(t, path)

	out, err := run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Quotes:  1\n")
	assert.Contains(t, out, "Sum:     1.200,00 €\n")

	out, err = run(t, "stats", "--json")
	require.NoError(t, err)

	var stats quote.Statistics
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, int64(1), stats.Summary.Count)
	assert.True(t, decimal.NewFromInt(1200).Equal(stats.Summary.Sum))
}

func TestReport(t *testing.T) {
	path := setupEnv(t)
	saveQuote(t, path)

	target := filepath.Join(t.TempDir(), "out.xlsx")

	out, err := run(t, "report", "--out", target)
	require.NoError(t, err)
	assert.Equal(t, "wrote "+target+"\n", out)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestCatalog(t *testing.T) {
	setupEnv(t)

	dir := t.TempDir()
	equipment := filepath.Join(dir, "geraete.csv")
	accessories := filepath.Join(dir, "zubehoer.csv")

	require.NoError(t, os.WriteFile(equipment, []byte(
		"Artikelnummer;Bezeichnung;Listenpreis;Artikelgruppe\n"+
			"AJ050TXJ2KG;Multi Außengerät 5,0 kW;2.100,00;S_FJM\n"+
			"AR09TXFCAWKN;Wandgerät 2,5 kW;auf Anfrage;S_FJM\n"+
			"AR35TXFCAWKNEU;Wind-Free Set 3,5 kW;1.234,56;S_RAC\n"), 0o644))
	require.NoError(t, os.WriteFile(accessories, []byte(
		"Art.Nr.,Bezeichnung,Einheit,EK,VK\n"+
			"K-100,Kondensatpumpe,Stk,45.00,89.00\n"), 0o644))

	out, err := run(t, "catalog", equipment, accessories)
	require.NoError(t, err)
	assert.Regexp(t, `Single Split \(RAC\)\s+1\s+0`, out)
	assert.Regexp(t, `Multi Split \(FJM\)\s+2\s+1`, out)
	assert.Regexp(t, `Accessories\s+1\s+0`, out)
}

func TestExportCheck_NotConfigured(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "export-check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
