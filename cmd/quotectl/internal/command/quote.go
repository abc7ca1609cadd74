package command

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
)

func (a *app) numberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "number",
		Short: "Reserve and print the next quote number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			n, err := svc.NextNumber(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), n)

			return nil
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <number>",
		Short: "Print a quote with its line items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			q, err := svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printQuote(cmd.OutOrStdout(), q)

			return nil
		},
	}
}

func (a *app) searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "List quotes, optionally matching a customer, number or project",
		Args:  cobra.MaximumNArgs(1),
	}

	limit := cmd.Flags().Int("limit", 50, "number of recent quotes to list without a term")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		svc, err := a.service()
		if err != nil {
			return err
		}

		var quotes []*quote.Quote
		if len(args) == 1 {
			quotes, err = svc.Search(cmd.Context(), args[0])
		} else {
			quotes, err = svc.ListRecent(cmd.Context(), *limit)
		}

		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NUMBER\tDATE\tCUSTOMER\tGROSS\tSTATUS")

		for _, q := range quotes {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				q.Number, q.CreatedAt.Format("2006-01-02"), q.CustomerName, quote.FormatEUR(q.GrossTotal), q.Status)
		}

		return w.Flush()
	}

	return cmd
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "status <number> <status>",
		Short:     "Change the lifecycle status of a quote",
		Args:      cobra.ExactArgs(2),
		ValidArgs: statusNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			if err := svc.UpdateStatus(cmd.Context(), args[0], quote.Status(args[1])); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], args[1])

			return nil
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <number>",
		Short: "Delete a quote and its line items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			if err := svc.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])

			return nil
		},
	}
}

func statusNames() []string {
	names := make([]string, len(quote.Statuses))
	for i, s := range quote.Statuses {
		names[i] = string(s)
	}

	return names
}

func printQuote(out io.Writer, q *quote.Quote) {
	fmt.Fprintf(out, "%s  %s  valid until %s  [%s]\n",
		q.Number, q.CreatedAt.Format("2006-01-02"), q.ValidUntil.Format("2006-01-02"), q.Status)
	fmt.Fprintf(out, "Customer: %s\n", q.CustomerName)

	if q.ProjectReference != "" {
		fmt.Fprintf(out, "Project:  %s\n", q.ProjectReference)
	}

	if q.ExternalReferenceID != "" {
		fmt.Fprintf(out, "Board:    %s\n", q.ExternalReferenceID)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\nPOS\tARTICLE\tDESCRIPTION\tQTY\tPRICE\tDISC%\tTOTAL")

	for _, it := range q.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			it.Position, it.SKU, it.Description, it.Quantity,
			quote.FormatEUR(it.UnitPrice), it.DiscountPercent, quote.FormatEUR(it.Total()))
	}

	_ = w.Flush()

	fmt.Fprintf(out, "\nNet   %s\nGross %s\n", quote.FormatEUR(q.NetTotal), quote.FormatEUR(q.GrossTotal))
}
