package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"bartnow/data"
	"bartnow/internal/config"
	"bartnow/internal/realtime"
	"bartnow/internal/server"
	"bartnow/internal/session"
	"bartnow/internal/station"
	"bartnow/internal/storage"
)

var (
	cfg       *config.Config
	logger    *slog.Logger
	debugFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "bartnow",
	Short: "Serve the BART station map",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if debugFlag {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cfg = config.Load()

	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "v", false, "Enable debug logs")
	rootCmd.PersistentFlags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&cfg.StationsPath, "stations", cfg.StationsPath, "Station asset file (default: bundled)")
	rootCmd.Flags().IntVarP(&cfg.Port, "port", "p", cfg.Port, "HTTP server port")

	rootCmd.AddCommand(refreshCmd, stationsCmd)
}

func serve(ctx context.Context) error {
	stations, diagnostic := loadStations()

	db, err := storage.Open(cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if n, err := db.PurgeSelections(ctx, cfg.SelectionMaxAge); err != nil {
		logger.Warn("purging old selections failed", "error", err)
	} else if n > 0 {
		logger.Info("purged old selections", "count", n)
	}

	rtStore := realtime.NewStore()
	alertsFetcher := realtime.NewFetcher(cfg.AlertsURL, cfg.AlertsInterval, rtStore, logger)
	go alertsFetcher.Start(ctx)

	sessions := session.NewStore(stations, diagnostic, db, cfg.SessionCapacity, cfg.SessionTTL, logger)
	srv, err := server.New(cfg, sessions, rtStore, logger)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}

// loadStations reads the station asset. On failure the map still runs,
// empty, with a diagnostic explaining why.
func loadStations() ([]station.Station, string) {
	stations, err := stationRepository().Load()
	if err == nil {
		return stations, ""
	}

	logger.Error("loading stations failed", "error", err)
	switch {
	case errors.Is(err, station.ErrAssetNotFound):
		return nil, "the station list is missing"
	case errors.Is(err, station.ErrParse):
		return nil, "a station entry could not be read"
	default:
		return nil, "the station list is damaged"
	}
}

func stationRepository() *station.Repository {
	if cfg.StationsPath == "" {
		return station.NewRepository(data.FS, data.StationsFile, logger)
	}
	return station.NewRepository(assetDir(cfg.StationsPath), filepath.Base(cfg.StationsPath), logger)
}

func assetDir(path string) fs.FS {
	return os.DirFS(filepath.Dir(path))
}
