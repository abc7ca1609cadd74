package command

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/report"
)

func (a *app) statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print quote statistics",
		Args:  cobra.NoArgs,
	}

	asJSON := cmd.Flags().Bool("json", false, "print as JSON")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		svc, err := a.service()
		if err != nil {
			return err
		}

		stats, err := svc.Statistics(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		if *asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")

			return enc.Encode(stats)
		}

		fmt.Fprintf(out, "Quotes:  %d\nSum:     %s\nAverage: %s\nMin:     %s\nMax:     %s\n",
			stats.Summary.Count,
			quote.FormatEUR(stats.Summary.Sum),
			quote.FormatEUR(stats.Summary.Average),
			quote.FormatEUR(stats.Summary.Min),
			quote.FormatEUR(stats.Summary.Max),
		)

		for _, m := range stats.Monthly {
			fmt.Fprintf(out, "  %s  %4d  %s\n", m.Month, m.Count, quote.FormatEUR(m.Sum))
		}

		return nil
	}

	return cmd
}

func (a *app) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write quotes, line items and statistics to an Excel workbook",
		Args:  cobra.NoArgs,
	}

	path := cmd.Flags().StringP("out", "o", "", "output file (default angebote_YYYYMMDD.xlsx)")
	limit := cmd.Flags().Int("limit", 500, "number of recent quotes to include")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		svc, err := a.service()
		if err != nil {
			return err
		}

		target := *path
		if target == "" {
			target = report.Filename(time.Now())
		}

		f, err := os.Create(target)
		if err != nil {
			return fmt.Errorf("create %s: %w", target, err)
		}

		if err := report.NewBuilder(svc, *limit).Write(cmd.Context(), f); err != nil {
			_ = f.Close()
			return err
		}

		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", target, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", target)

		return nil
	}

	return cmd
}
