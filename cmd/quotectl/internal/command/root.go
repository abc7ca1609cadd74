// Package command implements the quotectl maintenance commands.
package command

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/config"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/database"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
	quoteStore "github.com/michaelschaepers/coolsulting-testing-area/internal/quote/store"
)

// app carries what the subcommands share. The database is opened lazily so
// commands like export-check run without one.
type app struct {
	cfg     *config.Config
	db      *sql.DB
	backend config.Backend
}

func New() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "quotectl",
		Short: "Maintenance tool for the coolMATCH quote store",
		Long: `quotectl manages the quote database behind coolMATCH: schema migrations,
quote numbers, status changes, statistics and workbook exports.

Configuration is read from the environment (and a .env file), the same
variables the API server uses. Without DB_URL or DB_HOST the SQLite file at
DB_SQLITE_PATH is used.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			a.cfg = cfg

			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.db != nil {
				return a.db.Close()
			}

			return nil
		},
	}

	root.AddCommand(
		a.migrateCmd(),
		a.numberCmd(),
		a.showCmd(),
		a.searchCmd(),
		a.statusCmd(),
		a.deleteCmd(),
		a.statsCmd(),
		a.reportCmd(),
		a.catalogCmd(),
		a.exportCheckCmd(),
	)

	return root
}

// open connects to the configured store without migrating it.
func (a *app) open() (*sql.DB, error) {
	if a.db != nil {
		return a.db, nil
	}

	db, backend, err := database.Connect(a.cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", backend, err)
	}

	a.db, a.backend = db, backend

	return db, nil
}

// service opens and migrates the store and returns the quote service on it.
func (a *app) service() (*quote.Service, error) {
	db, err := a.open()
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(db, a.backend); err != nil {
		return nil, err
	}

	store := quoteStore.New(db, a.backend, a.cfg.DB.Timeout)

	return quote.NewService(store, quote.Settings{
		Prefix:       a.cfg.Quote.Prefix,
		ValidityDays: a.cfg.Quote.ValidityDays,
	}), nil
}
