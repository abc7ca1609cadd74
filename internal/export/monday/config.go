package monday

import "github.com/michaelschaepers/coolsulting-testing-area/internal/config"

// OptionsFromConfig maps the MONDAY_* settings onto client options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Token:   cfg.Monday.Token,
		BoardID: cfg.Monday.BoardID,
		APIURL:  cfg.Monday.APIURL,
		FileURL: cfg.Monday.FileURL,
		Timeout: cfg.Monday.Timeout,
		Columns: Columns{
			Date:        cfg.Monday.DateColumn,
			File:        cfg.Monday.FileColumn,
			Gross:       cfg.Monday.GrossColumn,
			Partner:     cfg.Monday.PartnerColumn,
			PostalCode:  cfg.Monday.PostalCodeColumn,
			Status:      cfg.Monday.StatusColumn,
			StatusLabel: cfg.Monday.StatusLabel,
		},
	}
}
