package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("DB_HOST", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.BackendSQLite, cfg.Backend())
	assert.Equal(t, "AN", cfg.Quote.Prefix)
	assert.Equal(t, "20", cfg.Quote.TaxRate.String())
	assert.Equal(t, "30", cfg.Quote.DefaultDiscount.String())
	assert.Equal(t, 7, cfg.Quote.ValidityDays)
	assert.Equal(t, "data/coolmatch.db", cfg.ConnectionString())
	assert.False(t, cfg.MondayEnabled())
}

func TestConfig_Backend(t *testing.T) {
	type testCase struct {
		name    string
		env     map[string]string
		want    config.Backend
		wantDSN string
	}

	tests := []testCase{
		{
			name:    "URL",
			env:     map[string]string{"DB_URL": "postgres://u:p@db:5432/q", "DB_HOST": ""},
			want:    config.BackendPostgres,
			wantDSN: "postgres://u:p@db:5432/q",
		},
		{
			name:    "Host",
			env:     map[string]string{"DB_URL": "", "DB_HOST": "db", "DB_USER": "app", "DB_PASSWORD": "s3cret", "DB_NAME": "quotes"},
			want:    config.BackendPostgres,
			wantDSN: "postgres://app:s3cret@db:5432/quotes?sslmode=disable",
		},
		{
			name:    "SQLite",
			env:     map[string]string{"DB_URL": "", "DB_HOST": "", "DB_SQLITE_PATH": "/tmp/q.db"},
			want:    config.BackendSQLite,
			wantDSN: "/tmp/q.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := config.Load()
			require.NoError(t, err)

			assert.Equal(t, tt.want, cfg.Backend())
			assert.Equal(t, tt.wantDSN, cfg.ConnectionString())
		})
	}
}

func TestConfig_ClosingText(t *testing.T) {
	t.Setenv("QUOTE_CLOSING_TEXT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	text := cfg.ClosingText("Erika Beispiel")
	assert.Contains(t, text, "Mit freundlichen Grüßen\nErika Beispiel")
	assert.Contains(t, text, "F-Gase-Verordnung")

	cfg.Quote.ClosingText = "Gruß, {preparer}"
	assert.Equal(t, "Gruß, Erika Beispiel", cfg.ClosingText("Erika Beispiel"))
}
