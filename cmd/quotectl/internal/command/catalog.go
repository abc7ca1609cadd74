package command

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/catalog"
)

func (a *app) catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [equipment-file] [accessory-file]",
		Short: "Load the price lists and summarise them per system",
		Long: `Loads the equipment and accessory price lists (CSV or XLSX) and prints how
many products fall into each system and how many prices could not be read.
Without arguments the CATALOG_* paths from the environment are used.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			equipment, accessories := a.cfg.Catalog.EquipmentPath, a.cfg.Catalog.AccessoryPath
			if len(args) > 0 {
				equipment, accessories = args[0], ""
			}

			if len(args) > 1 {
				accessories = args[1]
			}

			c, err := catalog.Load(equipment, accessories)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SYSTEM\tPRODUCTS\tUNREADABLE PRICES")

			for _, s := range catalog.Systems {
				products := catalog.Filter(c.Equipment, s, "")
				fmt.Fprintf(w, "%s\t%d\t%d\n", s.Label(), len(products), recovered(products))
			}

			fmt.Fprintf(w, "Accessories\t%d\t%d\n", len(c.Accessories), recovered(c.Accessories))

			return w.Flush()
		},
	}
}

func recovered(products []catalog.Product) int {
	n := 0

	for _, p := range products {
		if p.PriceRecovered {
			n++
		}
	}

	return n
}
