package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bartnow/internal/filter"
)

var stationsCmd = &cobra.Command{
	Use:   "stations [query]",
	Short: "List stations whose name matches query",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stations, err := stationRepository().Load()
		if err != nil {
			return err
		}

		var query string
		if len(args) == 1 {
			query = args[0]
		}
		matches := filter.Apply(stations, query)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, s := range matches {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.6f,%.6f\n", s.Abbr, s.Name, strings.TrimSpace(s.Address+", "+s.City), s.Latitude, s.Longitude)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "no stations match %q\n", query)
		}
		return nil
	},
}
