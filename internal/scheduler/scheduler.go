package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"StockLens/internal/collector"
	"StockLens/internal/model"
	"StockLens/internal/notifier"
	"StockLens/internal/prediction"
	"StockLens/internal/recorder"
)

// Options configures the refresh job.
type Options struct {
	Symbol       string
	LookbackDays int
	DataDir      string
	OutputDir    string
}

// Scheduler periodically refreshes a symbol's history and re-runs the prediction.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Pipeline  *prediction.Pipeline
	Notifier  *notifier.TelegramNotifier // nil disables notifications
	Recorder  recorder.Recorder
	Options   Options
	Ctx       context.Context
	Logger    *zap.Logger

	now func() time.Time
	mu  sync.Mutex // one refresh at a time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, p *prediction.Pipeline, tn *notifier.TelegramNotifier,
	rec recorder.Recorder, opts Options, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Pipeline:  p,
		Notifier:  tn,
		Recorder:  rec,
		Options:   opts,
		Ctx:       ctx,
		Logger:    logger,
		now:       time.Now,
	}
}

// Register adds the refresh job under a six-field cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, func() {
		if _, err := s.RunNow(); err != nil {
			s.Logger.Error("scheduled refresh failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.String("symbol", s.Options.Symbol))
}

// Stop stops the cron scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// RunNow fetches the lookback window, saves it and runs the prediction pipeline.
func (s *Scheduler) RunNow() (*model.MetricsResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbol := s.Options.Symbol
	end := s.now()
	start := end.AddDate(0, 0, -s.Options.LookbackDays)
	dataPath := filepath.Join(s.Options.DataDir, fileSafe(symbol)+".csv")
	outDir := filepath.Join(s.Options.OutputDir, fileSafe(symbol))
	log := s.Logger.With(zap.String("symbol", symbol))
	log.Info("running refresh task")

	n, err := s.Collector.Collect(s.Ctx, symbol, start, end, dataPath)
	evt := &recorder.FetchEvent{
		Symbol: symbol, Source: s.Collector.Fetcher.Name(),
		StartDate: start, EndDate: end, Rows: n, OutputPath: dataPath,
	}
	if err != nil {
		evt.Error = err.Error()
	}
	if recErr := s.Recorder.RecordFetch(evt); recErr != nil {
		log.Error("record fetch", zap.Error(recErr))
	}
	if err != nil {
		s.trySend(notifier.FormatFailure(symbol, "fetch", err))
		return nil, err
	}

	res, err := s.Pipeline.Run(dataPath, outDir)
	if err != nil {
		s.trySend(notifier.FormatFailure(symbol, "prediction", err))
		return nil, fmt.Errorf("predict %s: %w", symbol, err)
	}

	if err := s.Recorder.RecordRun(&recorder.RunRecord{
		Symbol:          symbol,
		InputPath:       dataPath,
		OutputDir:       outDir,
		Seed:            s.Pipeline.Seed,
		TestFraction:    s.Pipeline.TestFraction,
		R2Score:         res.R2Score,
		Coefficients:    res.Coefficients,
		Intercept:       res.Intercept,
		TrainRows:       res.TrainRows,
		TestRows:        res.TestRows,
		RowsBeforeClean: res.RowsBeforeClean,
		RowsAfterClean:  res.RowsAfterClean,
	}); err != nil {
		log.Error("record run", zap.Error(err))
	}

	s.trySend(notifier.FormatPredictionReport(symbol, res, end))
	return res, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/run":
		if _, err := s.RunNow(); err != nil {
			s.Logger.Error("manual refresh failed", zap.Error(err))
		}
		return ""
	case "/history":
		runs, err := s.Recorder.ListRuns(5)
		if err != nil {
			return fmt.Sprintf("history unavailable: %v", err)
		}
		return notifier.FormatHistory(runs)
	default:
		return "Available commands:\n• /run\n• /history"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Logger.Error("send notification", zap.Error(err))
	}
}

// fileSafe maps a ticker such as "^GSPC" or "0050.TW" to a file name component.
func fileSafe(symbol string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, symbol)
}
