package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"StockLens/internal/artifact"
	"StockLens/internal/collector"
	"StockLens/internal/notifier"
	"StockLens/internal/prediction"
	"StockLens/internal/scheduler"
)

var scheduleRunNow bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Refresh data and re-run the prediction on a cron schedule",
	Args:  cobra.NoArgs,
	RunE:  runSchedule,
}

func init() {
	scheduleCmd.Flags().BoolVar(&scheduleRunNow, "run-now", false, "run one refresh immediately on start")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher := newFetcher()
	logger.Info("data source selected", zap.String("source", fetcher.Name()))

	rec := openRecorder()
	defer rec.Close()

	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
	}

	p := &prediction.Pipeline{
		Seed:         cfg.Prediction.Seed,
		TestFraction: cfg.Prediction.TestFraction,
		Writer:       artifact.NewWriter(logger),
		Logger:       logger,
	}
	sched := scheduler.NewScheduler(ctx, collector.NewCollector(fetcher, logger), p, tn, rec, scheduler.Options{
		Symbol:       cfg.DataSource.Symbol,
		LookbackDays: cfg.Schedule.LookbackDays,
		DataDir:      cfg.Fetch.DataDir,
		OutputDir:    cfg.Prediction.OutputDir,
	}, logger)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info("telegram polling started")
	}

	if scheduleRunNow {
		logger.Info("run-now enabled, executing refresh task")
		if _, err := sched.RunNow(); err != nil {
			logger.Error("initial refresh failed", zap.Error(err))
		}
	}

	logger.Info("stocklens is running, press Ctrl+C to stop", zap.String("cron", cfg.Schedule.Cron))
	<-ctx.Done()
	logger.Info("shutdown signal received, stopping")
	return nil
}
