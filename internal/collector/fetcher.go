package collector

import (
	"context"
	"time"

	"StockLens/internal/model"
)

// Fetcher defines the interface for fetching daily price history.
type Fetcher interface {
	// FetchDailyRange returns daily rows for symbol with start <= date <= end, oldest first.
	FetchDailyRange(ctx context.Context, symbol string, start, end time.Time) ([]model.PriceRow, error)
	Name() string
}
