package opslog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"paintshop-terminal/internal/api"
	"paintshop-terminal/internal/opslog"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWatcher_LogsOnlyNewLines(t *testing.T) {
	var mu sync.Mutex
	lines := []string{"boot"}

	mux := http.NewServeMux()
	mux.HandleFunc("/logs/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"logs": lines})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	client := api.New(ts.URL, 5*time.Second, 0, zap.NewNop())
	client.SetTokenProvider(func(ctx context.Context) (string, error) { return "tok", nil })

	core, observed := observer.New(zap.InfoLevel)
	w := opslog.NewWatcher(client, 10*time.Millisecond, zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	// 第一轮拉到 "boot"，第二轮后端多了一行，只应补打新增的尾部
	time.Sleep(35 * time.Millisecond)
	mu.Lock()
	lines = append(lines, "request handled")
	mu.Unlock()
	time.Sleep(35 * time.Millisecond)

	cancel()
	<-done

	var backendLines []string
	for _, entry := range observed.FilterMessage("backend log").All() {
		backendLines = append(backendLines, entry.ContextMap()["line"].(string))
	}
	require.Equal(t, []string{"boot", "request handled"}, backendLines)
}

func TestWatcher_PollErrorIsNotFatal(t *testing.T) {
	var mu sync.Mutex
	fail := true

	mux := http.NewServeMux()
	mux.HandleFunc("/logs/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			http.Error(w, "{}", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"logs": []string{"recovered"}})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	client := api.New(ts.URL, 5*time.Second, 0, zap.NewNop())
	client.SetTokenProvider(func(ctx context.Context) (string, error) { return "tok", nil })

	core, observed := observer.New(zap.InfoLevel)
	w := opslog.NewWatcher(client, 10*time.Millisecond, zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	mu.Lock()
	fail = false
	mu.Unlock()
	time.Sleep(35 * time.Millisecond)

	cancel()
	<-done

	require.NotEmpty(t, observed.FilterMessage("backend log").All())
}
