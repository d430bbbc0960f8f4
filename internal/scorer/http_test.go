package scorer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jthorne/pdfoutline/internal/outline"
)

func TestClassifySuccess(t *testing.T) {
	var gotAuth string
	var gotReq classifyRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		json.NewEncoder(w).Encode(classifyResponse{
			Scores: outline.Scores{None: 0.1, H1: 0.7, H2: 0.2},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", time.Second)
	scores, err := c.Classify(context.Background(), "Chapter 1", outline.Features{
		FontSize: 18, Bold: true, PagePosition: 0.1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if scores.H1 != 0.7 {
		t.Errorf("H1 = %v, want 0.7", scores.H1)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotReq.Text != "Chapter 1" || gotReq.Features.FontSize != 18 {
		t.Errorf("request = %+v", gotReq)
	}

	snap := c.StatsSnapshot()
	if snap.Count != 1 {
		t.Errorf("stats count = %d, want 1", snap.Count)
	}
}

func TestClassifyRateLimitIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.Classify(context.Background(), "x", outline.Features{})

	var retryable *RetryableError
	if !errors.As(err, &retryable) {
		t.Fatalf("err = %v, want *RetryableError", err)
	}
	if !retryable.Transient() {
		t.Errorf("RetryableError must be transient")
	}
	if retryable.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d", retryable.StatusCode)
	}
}

func TestClassifyServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.Classify(context.Background(), "x", outline.Features{})

	var retryable *RetryableError
	if !errors.As(err, &retryable) {
		t.Fatalf("err = %v, want *RetryableError", err)
	}
}

func TestClassifyClientErrorIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.Classify(context.Background(), "x", outline.Features{})
	if err == nil {
		t.Fatal("want error for 400")
	}
	var retryable *RetryableError
	if errors.As(err, &retryable) {
		t.Errorf("client errors must not be retryable: %v", err)
	}
}

func TestClassifyApplicationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(classifyResponse{Error: "model not loaded"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	if _, err := c.Classify(context.Background(), "x", outline.Features{}); err == nil {
		t.Fatal("want error when the response carries an error field")
	}
}
