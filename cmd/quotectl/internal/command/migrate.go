package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/database"
)

func (a *app) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, err := a.open()
				if err != nil {
					return err
				}

				if err := database.Migrate(db, a.backend); err != nil {
					return err
				}

				return a.printVersion(cmd)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration, dropping all quote data",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, err := a.open()
				if err != nil {
					return err
				}

				if err := database.MigrateDown(db, a.backend); err != nil {
					return err
				}

				return a.printVersion(cmd)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if _, err := a.open(); err != nil {
					return err
				}

				return a.printVersion(cmd)
			},
		},
	)

	return cmd
}

func (a *app) printVersion(cmd *cobra.Command) error {
	version, dirty, err := database.Version(a.db, a.backend)
	if err != nil {
		return err
	}

	switch {
	case version == 0:
		fmt.Fprintf(cmd.OutOrStdout(), "%s: no migrations applied\n", a.backend)
	case dirty:
		fmt.Fprintf(cmd.OutOrStdout(), "%s: schema version %d (dirty)\n", a.backend, version)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%s: schema version %d\n", a.backend, version)
	}

	return nil
}
