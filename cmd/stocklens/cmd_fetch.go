package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"StockLens/internal/collector"
	"StockLens/internal/recorder"
)

var fetchOutput string

var fetchCmd = &cobra.Command{
	Use:   "fetch <stock_id> <start_date> [end_date]",
	Short: "Fetch daily stock data into a CSV file",
	Example: `  stocklens fetch 0050.TW 2021-09-13
  stocklens fetch TSLA 2023-01-01 2023-12-31 --output result/TSLA.csv`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchOutput, "output", "", "output CSV file name (default from config, stock_data.csv)")
}

func newFetcher() collector.Fetcher {
	if cfg.DataSource.BaseURL != "" {
		return collector.NewVsTraderFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	}
	return collector.NewYahooFetcher(cfg.Proxy)
}

func runFetch(cmd *cobra.Command, args []string) error {
	symbol := args[0]
	start, err := time.Parse("2006-01-02", args[1])
	if err != nil {
		return fmt.Errorf("start date %q: want YYYY-MM-DD", args[1])
	}
	end := time.Now()
	if len(args) == 3 {
		if end, err = time.Parse("2006-01-02", args[2]); err != nil {
			return fmt.Errorf("end date %q: want YYYY-MM-DD", args[2])
		}
	}
	out := fetchOutput
	if out == "" {
		out = cfg.Fetch.Output
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Fetching stock data for %s...\n", symbol)
	fmt.Fprintf(cmd.OutOrStdout(), "Start date: %s\n", start.Format("2006-01-02"))
	if len(args) == 3 {
		fmt.Fprintf(cmd.OutOrStdout(), "End date: %s\n", end.Format("2006-01-02"))
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "End date: %s (today)\n", end.Format("2006-01-02"))
	}

	fetcher := newFetcher()
	rec := openRecorder()
	defer rec.Close()

	n, err := collector.NewCollector(fetcher, logger).Collect(ctx, symbol, start, end, out)
	evt := &recorder.FetchEvent{
		Symbol: symbol, Source: fetcher.Name(), StartDate: start, EndDate: end, Rows: n, OutputPath: out,
	}
	if err != nil {
		evt.Error = err.Error()
	}
	if recErr := rec.RecordFetch(evt); recErr != nil {
		logger.Warn("record fetch", zap.Error(recErr))
	}
	if err != nil {
		return fmt.Errorf("%w. Please check your stock ID and date range", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Data saved to %s\n", out)
	fmt.Fprintf(cmd.OutOrStdout(), "Successfully fetched %d records.\n", n)
	return nil
}
