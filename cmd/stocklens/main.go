package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"StockLens/internal/config"
	"StockLens/internal/logging"
	"StockLens/internal/model"
	"StockLens/internal/recorder"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "stocklens",
	Short: "Stock data application: fetch daily prices and predict closing prices",
	Long: `stocklens fetches historical daily trading records for a stock and fits a
linear model predicting the closing price from the same day's open, high,
low and volume.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(config.ResolvePath(configPath))
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}
		logger, err = logging.New(cfg.Log.Level, cfg.Log.Development)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $CONFIG_PATH or configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(fetchCmd, predictCmd, inspectCmd, scheduleCmd, historyCmd)
}

// openRecorder falls back to a no-op recorder when SQLite cannot be opened.
func openRecorder() recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
	if err != nil {
		logger.Warn("init sqlite recorder failed, using noop", zap.Error(err))
		return recorder.NewNoopRecorder()
	}
	return sr
}

// userMessage translates pipeline failures into the text shown to the user.
func userMessage(err error) string {
	var notFound *model.NotFoundError
	var schemaErr *model.SchemaError
	var parseErr *model.ParseError
	var typeErr *model.TypeError
	var numErr *model.NumericalError
	switch {
	case errors.As(err, &notFound):
		return fmt.Sprintf("Error: Input file '%s' not found.", notFound.Path)
	case errors.As(err, &schemaErr), errors.As(err, &parseErr), errors.As(err, &typeErr):
		return fmt.Sprintf("Error: %v", err)
	case errors.As(err, &numErr):
		return fmt.Sprintf("Error during prediction: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, userMessage(err))
		os.Exit(1)
	}
}
