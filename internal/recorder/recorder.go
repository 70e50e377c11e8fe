package recorder

import "time"

// RunRecord holds the outcome of one prediction run.
type RunRecord struct {
	ID              string
	Symbol          string
	InputPath       string
	OutputDir       string
	Seed            int64
	TestFraction    float64
	R2Score         float64 // NaN is stored as NULL
	Coefficients    []float64
	Intercept       float64
	TrainRows       int
	TestRows        int
	RowsBeforeClean int
	RowsAfterClean  int
	CreatedAt       time.Time
}

// FetchEvent records one data retrieval.
type FetchEvent struct {
	Symbol     string
	Source     string
	StartDate  time.Time
	EndDate    time.Time
	Rows       int
	OutputPath string
	Error      string
}

// Recorder persists run history for later inspection.
type Recorder interface {
	RecordRun(run *RunRecord) error
	RecordFetch(evt *FetchEvent) error
	ListRuns(limit int) ([]RunRecord, error)
	Close() error
}
