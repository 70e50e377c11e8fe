package prediction

import (
	"fmt"

	"go.uber.org/zap"

	"StockLens/internal/artifact"
	"StockLens/internal/calculator"
	"StockLens/internal/dataset"
	"StockLens/internal/model"
)

// DefaultOutputDir is used when no output directory is given.
const DefaultOutputDir = "result"

// Pipeline runs load, validate, clean, split, fit, score and write for one input file.
type Pipeline struct {
	Seed         int64
	TestFraction float64
	Writer       *artifact.Writer
	Logger       *zap.Logger
}

// NewPipeline returns a pipeline with seed 0 and a 25% test fraction.
func NewPipeline(logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		Seed:         0,
		TestFraction: DefaultTestFraction,
		Writer:       artifact.NewWriter(logger),
		Logger:       logger,
	}
}

// PerformLinearRegression runs the default pipeline on inputPath and writes artifacts to outputDir.
func PerformLinearRegression(inputPath, outputDir string) (*model.MetricsResult, error) {
	return NewPipeline(nil).Run(inputPath, outputDir)
}

// Run executes every stage in order and stops at the first failure.
// Artifacts are only written once the fit and the score have succeeded.
func (p *Pipeline) Run(inputPath, outputDir string) (*model.MetricsResult, error) {
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Writer == nil {
		p.Writer = artifact.NewWriter(p.Logger)
	}
	log := p.Logger.With(zap.String("input", inputPath))

	frame, err := dataset.Load(inputPath)
	if err != nil {
		return nil, err
	}
	rows, cols := frame.Shape()
	log.Info("data loaded", zap.Int("rows", rows), zap.Int("columns", cols), zap.Strings("schema", frame.Columns))

	if err := ValidateSchema(frame); err != nil {
		return nil, err
	}

	cleaned, err := Clean(frame)
	if err != nil {
		return nil, err
	}
	log.Info("data cleaned",
		zap.Int("rows_before", cleaned.RowsBefore),
		zap.Int("rows_after", cleaned.RowsAfter),
		zap.Strings("dropped_columns", cleaned.DroppedColumns))
	if log.Core().Enabled(zap.DebugLevel) {
		for _, s := range calculator.SummarizeTable(cleaned.Table) {
			log.Debug("column summary", zap.String("column", s.Name), zap.Int("count", s.Count),
				zap.Float64("mean", s.Mean), zap.Float64("std", s.Std), zap.Float64("min", s.Min), zap.Float64("max", s.Max))
		}
	}

	x, y := Partition(cleaned.Table)
	split, err := Split(x, y, p.TestFraction, p.Seed)
	if err != nil {
		return nil, err
	}
	log.Debug("rows split", zap.Int("train", len(split.TrainY)), zap.Int("test", len(split.TestY)), zap.Int64("seed", p.Seed))

	fitted, err := Fit(split.TrainX, split.TrainY)
	if err != nil {
		return nil, err
	}
	log.Info("model fitted", zap.Float64s("coefficients", fitted.Coefficients), zap.Float64("intercept", fitted.Intercept))

	predicted := fitted.Predict(split.TestX)
	r2 := RSquared(split.TestY, predicted)
	comparison := Compare(split.TestY, predicted)

	paths, err := p.Writer.Write(outputDir, comparison)
	if err != nil {
		return nil, fmt.Errorf("write artifacts: %w", err)
	}
	log.Info("prediction complete", zap.Float64("r2", r2), zap.Int("predictions", len(predicted)), zap.String("output_dir", outputDir))

	return &model.MetricsResult{
		R2Score:         r2,
		Coefficients:    append([]float64(nil), fitted.Coefficients...),
		Intercept:       fitted.Intercept,
		Predictions:     predicted,
		ActualValues:    append([]float64(nil), split.TestY...),
		TrainRows:       len(split.TrainY),
		TestRows:        len(split.TestY),
		RowsBeforeClean: cleaned.RowsBefore,
		RowsAfterClean:  cleaned.RowsAfter,
		Artifacts:       *paths,
	}, nil
}
