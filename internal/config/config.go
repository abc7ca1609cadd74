package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// Backend names a storage implementation.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"coolMATCH"`
		Port int    `envconfig:"PORT" default:"8080"`

		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	// DB selects PostgreSQL when DB_URL or DB_HOST is set, otherwise the
	// embedded SQLite file at DB_SQLITE_PATH.
	DB struct {
		URL          string        `envconfig:"DB_URL"`
		Host         string        `envconfig:"DB_HOST"`
		Port         int           `envconfig:"DB_PORT" default:"5432"`
		User         string        `envconfig:"DB_USER" default:"postgres"`
		Password     string        `envconfig:"DB_PASSWORD" default:""`
		Name         string        `envconfig:"DB_NAME" default:"coolmatch"`
		SSLMode      string        `envconfig:"DB_SSLMODE" default:"disable"`
		SQLitePath   string        `envconfig:"DB_SQLITE_PATH" default:"data/coolmatch.db"`
		Timeout      time.Duration `envconfig:"DB_TIMEOUT" default:"5s"`
		MaxOpenConns int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Quote struct {
		Prefix          string          `envconfig:"QUOTE_PREFIX" default:"AN"`
		TaxRate         decimal.Decimal `envconfig:"QUOTE_TAX_RATE" default:"20"`
		ValidityDays    int             `envconfig:"QUOTE_VALIDITY_DAYS" default:"7"`
		DefaultDiscount decimal.Decimal `envconfig:"QUOTE_DEFAULT_DISCOUNT" default:"30"`
		ClosingText     string          `envconfig:"QUOTE_CLOSING_TEXT"`
	}

	Partner struct {
		Company  string `envconfig:"PARTNER_COMPANY" default:"°coolsulting"`
		Name     string `envconfig:"PARTNER_NAME" default:"Michael Schäpers"`
		Street   string `envconfig:"PARTNER_STREET" default:"Mozartstraße 11"`
		Place    string `envconfig:"PARTNER_PLACE" default:"4020 Linz"`
		Email    string `envconfig:"PARTNER_EMAIL" default:"michael.schaepers@coolsulting.at"`
		Phone    string `envconfig:"PARTNER_PHONE" default:"+43 676 331 74 14"`
		TermsURL string `envconfig:"PARTNER_TERMS_URL" default:"https://www.coolsulting.at/agb"`
	}

	Monday struct {
		Token   string        `envconfig:"MONDAY_API_TOKEN"`
		BoardID string        `envconfig:"MONDAY_BOARD_ID"`
		APIURL  string        `envconfig:"MONDAY_API_URL" default:"https://api.monday.com/v2"`
		FileURL string        `envconfig:"MONDAY_FILE_URL" default:"https://api.monday.com/v2/file"`
		Timeout time.Duration `envconfig:"MONDAY_TIMEOUT" default:"30s"`

		DateColumn       string `envconfig:"MONDAY_COLUMN_DATE" default:"date_mknqdvj8"`
		FileColumn       string `envconfig:"MONDAY_COLUMN_FILE" default:"file_mkngj4yq"`
		GrossColumn      string `envconfig:"MONDAY_COLUMN_GROSS" default:"numeric_mknst7mm"`
		PartnerColumn    string `envconfig:"MONDAY_COLUMN_PARTNER" default:"dropdown_mknagc5a"`
		PostalCodeColumn string `envconfig:"MONDAY_COLUMN_POSTAL_CODE" default:"text_mkn9v26m"`
		StatusColumn     string `envconfig:"MONDAY_COLUMN_STATUS" default:"color_mkncgyk5"`
		StatusLabel      string `envconfig:"MONDAY_STATUS_LABEL" default:"Angebot"`
	}

	Admin struct {
		JWTSecret string `envconfig:"ADMIN_JWT_SECRET"`
	}

	Catalog struct {
		EquipmentPath string `envconfig:"CATALOG_EQUIPMENT_PATH"`
		AccessoryPath string `envconfig:"CATALOG_ACCESSORY_PATH"`
	}
}

// Backend reports which store the configuration points at.
func (c *Config) Backend() Backend {
	if c.DB.URL != "" || c.DB.Host != "" {
		return BackendPostgres
	}

	return BackendSQLite
}

// ConnectionString returns the DSN for the selected backend.
func (c *Config) ConnectionString() string {
	if c.Backend() == BackendSQLite {
		return c.DB.SQLitePath
	}

	if c.DB.URL != "" {
		return c.DB.URL
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port),
		Path:     "/" + c.DB.Name,
		RawQuery: "sslmode=" + c.DB.SSLMode,
	}

	return u.String()
}

// MondayEnabled reports whether task board credentials are configured.
func (c *Config) MondayEnabled() bool {
	return c.Monday.Token != "" && c.Monday.BoardID != ""
}

const fgasNotice = "Gemäß der F-Gase-Verordnung dürfen Arbeiten an Kälte-, Klima- und Wärmepumpenanlagen " +
	"nur von zertifizierten Kältetechnikern durchgeführt werden. " +
	"Auftraggeber haften für Verstöße mit Strafen bis zu 50.000 €."

// ClosingText returns the closing paragraph printed under a quote. An
// override from QUOTE_CLOSING_TEXT may use {preparer} as a placeholder.
func (c *Config) ClosingText(preparer string) string {
	if c.Quote.ClosingText != "" {
		return strings.ReplaceAll(c.Quote.ClosingText, "{preparer}", preparer)
	}

	return DefaultClosingText(preparer)
}

func DefaultClosingText(preparer string) string {
	return "Für Rückfragen stehen wir Ihnen jederzeit gerne zur Verfügung.\n\n" +
		"Mit freundlichen Grüßen\n" + preparer + "\n\n" +
		"In Bezug auf zusätzliche Produktoptionen und Zusätze gilt, dass nur diejenigen geliefert werden, " +
		"die explizit im Angebot bzw. in den technischen Daten und dem Angebot beigefügten Aufstellungen aufgeführt sind.\n\n" +
		fgasNotice
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
