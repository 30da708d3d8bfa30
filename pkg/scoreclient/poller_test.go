package scoreclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoller_FetchesImmediatelyThenOnInterval(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		writeEnvelope(w, http.StatusOK, true, "Leaderboard", map[string]any{
			"leaderboard": []map[string]any{},
			"period":      map[string]any{"year": 2026, "month": 3},
		})
	}))
	defer server.Close()

	var delivered atomic.Int32
	poller := NewPoller(New(server.URL+"/api"), time.Second, LeaderboardParams{}, func(lb *Leaderboard, err error) {
		assert.NoError(t, err)
		assert.NotNil(t, lb)
		delivered.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	// The first fetch happens before the first tick
	assert.Eventually(t, func() bool { return delivered.Load() >= 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on cancellation")
	}
}

func TestPoller_DeliversErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusInternalServerError, false, "Internal server error", nil)
	}))
	defer server.Close()

	errs := make(chan error, 1)
	poller := NewPoller(New(server.URL+"/api"), time.Second, LeaderboardParams{}, func(lb *Leaderboard, err error) {
		assert.Nil(t, lb)
		select {
		case errs <- err:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx) //nolint:errcheck

	select {
	case err := <-errs:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("poller never delivered the fetch error")
	}
}

func TestNewPoller_ClampsInterval(t *testing.T) {
	poller := NewPoller(New("http://unused.invalid/api"), time.Millisecond, LeaderboardParams{}, func(*Leaderboard, error) {})
	assert.Equal(t, time.Second, poller.interval)
}
