package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"StockLens/internal/artifact"
	"StockLens/internal/prediction"
	"StockLens/internal/recorder"
)

var (
	predictInput        string
	predictOutputDir    string
	predictSeed         int64
	predictTestFraction float64
	predictSymbol       string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Perform linear regression prediction on stock data",
	Args:  cobra.NoArgs,
	RunE:  runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&predictInput, "input", "", "input CSV file path with stock data")
	predictCmd.Flags().StringVar(&predictOutputDir, "output-dir", "", "output directory for plots and results (default from config, result)")
	predictCmd.Flags().Int64Var(&predictSeed, "seed", 0, "seed of the train/test split (default from config)")
	predictCmd.Flags().Float64Var(&predictTestFraction, "test-fraction", 0, "share of rows held out for evaluation (default from config, 0.25)")
	predictCmd.Flags().StringVar(&predictSymbol, "symbol", "", "symbol recorded with the run history")
	_ = predictCmd.MarkFlagRequired("input")
}

func runPredict(cmd *cobra.Command, args []string) error {
	outDir := predictOutputDir
	if outDir == "" {
		outDir = cfg.Prediction.OutputDir
	}
	p := &prediction.Pipeline{
		Seed:         cfg.Prediction.Seed,
		TestFraction: cfg.Prediction.TestFraction,
		Writer:       artifact.NewWriter(logger),
		Logger:       logger,
	}
	if cmd.Flags().Changed("seed") {
		p.Seed = predictSeed
	}
	if cmd.Flags().Changed("test-fraction") {
		p.TestFraction = predictTestFraction
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Performing linear regression analysis on: %s\n", predictInput)
	fmt.Fprintf(cmd.OutOrStdout(), "Output directory: %s\n", outDir)

	res, err := p.Run(predictInput, outDir)
	if err != nil {
		return err
	}

	rec := openRecorder()
	defer rec.Close()
	if err := rec.RecordRun(&recorder.RunRecord{
		Symbol:          predictSymbol,
		InputPath:       predictInput,
		OutputDir:       outDir,
		Seed:            p.Seed,
		TestFraction:    p.TestFraction,
		R2Score:         res.R2Score,
		Coefficients:    res.Coefficients,
		Intercept:       res.Intercept,
		TrainRows:       res.TrainRows,
		TestRows:        res.TestRows,
		RowsBeforeClean: res.RowsBeforeClean,
		RowsAfterClean:  res.RowsAfterClean,
	}); err != nil {
		logger.Warn("record run", zap.Error(err))
	}

	fmt.Fprintln(cmd.OutOrStdout(), "\n=== Analysis Complete ===")
	if math.IsNaN(res.R2Score) {
		fmt.Fprintln(cmd.OutOrStdout(), "Model R² Score: undefined (constant test target)")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Model R² Score: %.6f\n", res.R2Score)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Number of predictions: %d\n", len(res.Predictions))
	return nil
}
