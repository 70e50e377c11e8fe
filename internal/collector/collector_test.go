package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"StockLens/internal/dataset"
	"StockLens/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCollect_WritesCSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "data", "stock_data.csv")
	c := NewCollector(&MockFetcher{Price: 100}, zaptest.NewLogger(t))

	// 2024-01-01 is a Monday; two full weeks hold ten trading days.
	n, err := c.Collect(context.Background(), "TEST", day(2024, 1, 1), day(2024, 1, 14), out)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	frame, err := dataset.Load(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"}, frame.Columns)
	rows, _ := frame.Shape()
	assert.Equal(t, 10, rows)
	assert.Equal(t, "2024-01-01", frame.Records[0][0])
	assert.Equal(t, "2024-01-12", frame.Records[9][0])
}

func TestCollect_NoData(t *testing.T) {
	out := filepath.Join(t.TempDir(), "stock_data.csv")
	c := NewCollector(&MockFetcher{Rows: []model.PriceRow{}}, nil)
	_, err := c.Collect(context.Background(), "TEST", day(2024, 1, 1), day(2024, 1, 5), out)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestCollect_FetchError(t *testing.T) {
	boom := errors.New("boom")
	c := NewCollector(&MockFetcher{Err: boom}, nil)
	_, err := c.Collect(context.Background(), "TEST", day(2024, 1, 1), day(2024, 1, 5), filepath.Join(t.TempDir(), "x.csv"))
	assert.ErrorIs(t, err, boom)
}

func TestCollect_InvertedRange(t *testing.T) {
	c := NewCollector(&MockFetcher{Price: 1}, nil)
	_, err := c.Collect(context.Background(), "TEST", day(2024, 2, 1), day(2024, 1, 1), filepath.Join(t.TempDir(), "x.csv"))
	assert.Error(t, err)
}

const chartResponse = `{"chart":{"result":[{
  "meta":{"gmtoffset":28800},
  "timestamp":[1704243600,1704157200,1704330000],
  "indicators":{
    "quote":[{
      "open":[131.0,130.0,null],
      "high":[132.5,131.0,null],
      "low":[130.5,129.5,null],
      "close":[132.0,130.5,null],
      "volume":[2000,1500,null]
    }],
    "adjclose":[{"adjclose":[131.2,129.8,null]}]
  }
}],"error":null}}`

func TestYahooFetcher_ParsesChart(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		fmt.Fprint(w, chartResponse)
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	rows, err := f.FetchDailyRange(context.Background(), "0050.TW", day(2024, 1, 2), day(2024, 1, 4))
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/0050.TW", gotPath)
	assert.True(t, strings.Contains(gotQuery, "interval=1d"))
	assert.True(t, strings.Contains(gotQuery, fmt.Sprintf("period2=%d", day(2024, 1, 5).Unix())))

	require.Len(t, rows, 2, "null bar skipped")
	assert.Equal(t, day(2024, 1, 2), rows[0].Date, "sorted by date in exchange time")
	assert.Equal(t, 130.5, rows[0].Close)
	assert.Equal(t, day(2024, 1, 3), rows[1].Date)
	assert.Equal(t, 2000.0, rows[1].Volume)
	require.NotNil(t, rows[1].AdjClose)
	assert.Equal(t, 131.2, *rows[1].AdjClose)
}

func TestYahooFetcher_SymbolMap(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	rows, err := f.FetchDailyRange(context.Background(), "SPX", day(2024, 1, 2), day(2024, 1, 4))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, "/v8/finance/chart/^GSPC", gotPath)
}

func TestYahooFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	_, err := f.FetchDailyRange(context.Background(), "NOPE", day(2024, 1, 2), day(2024, 1, 4))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delisted")
}

func TestYahooFetcher_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	_, err := f.FetchDailyRange(context.Background(), "TSLA", day(2024, 1, 2), day(2024, 1, 4))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestVsTraderFetcher_Bars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/bars/daily", r.URL.Path)
		assert.Equal(t, "TSLA", r.URL.Query().Get("symbol"))
		assert.Equal(t, "2024-01-02", r.URL.Query().Get("start"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		fmt.Fprintf(w, `[{"timestamp":%d,"open":2,"high":3,"low":1,"close":2.5,"volume":10},
			{"timestamp":%d,"open":1,"high":2,"low":0.5,"close":1.5,"adj_close":1.4,"volume":20}]`,
			day(2024, 1, 3).Unix(), day(2024, 1, 2).Unix())
	}))
	defer srv.Close()

	f := NewVsTraderFetcher(srv.URL, "secret", "")
	rows, err := f.FetchDailyRange(context.Background(), "TSLA", day(2024, 1, 2), day(2024, 1, 3))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, day(2024, 1, 2), rows[0].Date)
	require.NotNil(t, rows[0].AdjClose)
	assert.Equal(t, 1.4, *rows[0].AdjClose)
	assert.Nil(t, rows[1].AdjClose)
}
