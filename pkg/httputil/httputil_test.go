package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

var fast = Policy{Attempts: 3, Delay: time.Millisecond}

func TestRetry_RetriesTransient(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fast, func() error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errors.New("flaky")}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetry_StopsOnPermanent(t *testing.T) {
	calls := 0
	permanent := errors.New("bad request")
	err := Retry(context.Background(), fast, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Errorf("err = %v, want %v", err, permanent)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetry_ReturnsLastError(t *testing.T) {
	err := Retry(context.Background(), fast, func() error {
		return &RetryableError{Err: errors.New("still down")}
	})
	if err == nil || err.Error() != "still down" {
		t.Errorf("err = %v, want still down", err)
	}
}

func TestRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, Policy{Attempts: 3, Delay: time.Hour}, func() error {
		return &RetryableError{Err: errors.New("flaky")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestFetch(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("image"))
		case "/busy":
			hits.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	body, err := Fetch(ctx, srv.Client(), srv.URL+"/ok")
	if err != nil || string(body) != "image" {
		t.Errorf("Fetch(/ok) = %q, %v", body, err)
	}

	_, err = Fetch(ctx, srv.Client(), srv.URL+"/missing")
	if err == nil || IsRetryable(err) {
		t.Errorf("Fetch(/missing) err = %v, want permanent error", err)
	}

	err = Retry(ctx, fast, func() error {
		_, err := Fetch(ctx, srv.Client(), srv.URL+"/busy")
		return err
	})
	if !IsRetryable(err) {
		t.Errorf("Fetch(/busy) err = %v, want retryable", err)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("busy hits = %d, want 3", got)
	}
}
