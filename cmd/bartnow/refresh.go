package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bartnow/internal/bart"
	"bartnow/internal/storage"
)

var forceFlag bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Download the current station list from the BART API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.StationsPath == "" {
			return errors.New("refresh needs --stations or BARTNOW_STATIONS_PATH; the bundled list is read-only")
		}

		db, err := storage.Open(cfg.DBPath, logger)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		client := bart.NewClient(cfg.APIURL, cfg.APIKey, logger)
		updated, err := bart.NewRefresher(client, db, cfg.StationsPath, logger).Refresh(cmd.Context(), forceFlag)
		if err != nil {
			return err
		}
		if updated {
			fmt.Fprintf(cmd.OutOrStdout(), "stations written to %s\n", cfg.StationsPath)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "stations already up to date")
		}
		return nil
	},
}

func init() {
	refreshCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Ignore cached validators and download unconditionally")
}
