package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/model"
	"StockLens/internal/recorder"
)

func TestFormatPredictionReport(t *testing.T) {
	res := &model.MetricsResult{
		R2Score:         0.954321,
		Coefficients:    []float64{0.5, 0.3, 0.2, 1e-6},
		Intercept:       -0.75,
		Predictions:     []float64{101.2, 99.8},
		ActualValues:    []float64{100.9, 100.1},
		TrainRows:       75,
		TestRows:        25,
		RowsBeforeClean: 101,
		RowsAfterClean:  100,
	}
	msg := FormatPredictionReport("0050.TW", res, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC))

	assert.Contains(t, msg, "0050.TW | 2024-05-06")
	assert.Contains(t, msg, "R²: 0.954321")
	assert.Contains(t, msg, "Rows: 100 cleaned of 101 (train 75 / test 25)")
	assert.Contains(t, msg, "Volume: +1e-06")
	assert.Contains(t, msg, "Intercept: -0.75")
	assert.Contains(t, msg, "actual 100.10, predicted 99.80")
}

func TestFormatPredictionReport_UndefinedR2(t *testing.T) {
	msg := FormatPredictionReport("<X>", &model.MetricsResult{R2Score: math.NaN()}, time.Now())
	assert.Contains(t, msg, "R²: undefined")
	assert.Contains(t, msg, "&lt;X&gt;")
	assert.NotContains(t, msg, "Sample")
}

func TestFormatFailure(t *testing.T) {
	msg := FormatFailure("TSLA", "fetch", errors.New("status 404 <html>"))
	assert.Equal(t, "❌ <b>TSLA</b> fetch failed: status 404 &lt;html&gt;", msg)
}

func TestFormatHistory(t *testing.T) {
	assert.Equal(t, "No runs recorded yet.", FormatHistory(nil))

	msg := FormatHistory([]recorder.RunRecord{
		{Symbol: "TSLA", R2Score: 0.5, TestRows: 25, CreatedAt: time.Date(2024, 1, 2, 18, 30, 0, 0, time.UTC)},
		{Symbol: "0050.TW", R2Score: math.NaN(), TestRows: 3},
	})
	lines := strings.Split(strings.TrimSpace(msg), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "2024-01-02 18:30  TSLA  R² 0.500000  (25 test rows)", lines[2])
	assert.Contains(t, lines[3], "R² undefined")
}

func TestSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "", nil)
	tn.APIBase = srv.URL
	require.NoError(t, tn.Send(context.Background(), "hello"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, "HTML", got["parse_mode"])
}

func TestSendWithRetry_NoRetryOnSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("T", "1", "", nil)
	tn.APIBase = srv.URL
	require.NoError(t, tn.SendWithRetry(context.Background(), "x", 3))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSendWithRetry_ZeroRetriesFailsOnce(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad", http.StatusBadRequest)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("T", "1", "", nil)
	tn.APIBase = srv.URL
	err := tn.SendWithRetry(context.Background(), "x", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestStartPolling_DispatchesCommands(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var served int32
	replies := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if atomic.AddInt32(&served, 1) == 1 {
				w.Write([]byte(`{"ok":true,"result":[
					{"update_id":7,"message":{"text":" /history@stocklens_bot now","chat":{"id":1}}},
					{"update_id":8,"message":{"text":"/run","chat":{"id":999}}}]}`))
				return
			}
			<-r.Context().Done()
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			replies <- body["text"]
		}
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("T", "1", "", nil)
	tn.APIBase = srv.URL
	done := make(chan struct{})
	go func() {
		tn.StartPolling(ctx, func(cmd string) string { return "got " + cmd })
		close(done)
	}()

	select {
	case reply := <-replies:
		assert.Equal(t, "got /history", reply)
	case <-time.After(5 * time.Second):
		t.Fatal("no reply sent")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop")
	}
	assert.Empty(t, replies, "commands from other chats are ignored")
}

func TestCommand(t *testing.T) {
	assert.Equal(t, "/run", command("/run"))
	assert.Equal(t, "/history", command("  /history@stocklens_bot 5"))
	assert.Equal(t, "", command("   "))
}

func TestGetUpdates_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("T", "1", "", nil)
	tn.APIBase = srv.URL
	_, err := tn.getUpdates(context.Background(), tn.Client, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unauthorized")
}
