package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestSensorClient_Read(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": -3.25}`))
	}))
	defer srv.Close()

	c := NewSensorClient(&http.Client{Timeout: time.Second}, srv.URL)
	if !strings.HasPrefix(c.Name(), "127.0.0.1:") {
		t.Errorf("expected sensor to be named after its host, got %s", c.Name())
	}

	v, err := c.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != -3.25 {
		t.Fatalf("expected -3.25, got %v", v)
	}
}

func TestSensorClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"missing data field", http.StatusOK, `{"value": 1}`, errMalformed},
		{"non numeric data", http.StatusOK, `{"data": "warm"}`, errMalformed},
		{"server error", http.StatusInternalServerError, "", errServerError},
		{"rate limited", http.StatusTooManyRequests, "", errRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewSensorClient(&http.Client{Timeout: time.Second}, srv.URL).Read(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if n := calls.Load(); n != 1 {
				t.Errorf("expected a single attempt, got %d", n)
			}
		})
	}
}

func TestSensorClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	if _, err := NewSensorClient(&http.Client{Timeout: time.Second}, url).Read(context.Background()); err == nil {
		t.Fatal("expected an error for an unreachable sensor")
	}
}
