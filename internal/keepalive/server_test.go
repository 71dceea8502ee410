package keepalive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHandleRoot(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(NewServer(":0", nil).routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET / status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body failed: %v", err)
	}
	if string(body) != AliveBody {
		t.Errorf("GET / body = %q, want %q", body, AliveBody)
	}
}

func TestHandleRootUnknownPath(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(NewServer(":0", nil).routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/unknown")
	if err != nil {
		t.Fatalf("GET /unknown failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /unknown status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus int
		wantBody   healthResponse
	}{
		{
			name:       "no checks",
			checks:     map[string]CheckFunc{},
			wantStatus: http.StatusOK,
			wantBody:   healthResponse{Status: "healthy", Bot: "running"},
		},
		{
			name: "passing check",
			checks: map[string]CheckFunc{
				"database": func(context.Context) error { return nil },
			},
			wantStatus: http.StatusOK,
			wantBody: healthResponse{
				Status: "healthy",
				Bot:    "running",
				Checks: map[string]string{"database": "ok"},
			},
		},
		{
			name: "failing check degrades",
			checks: map[string]CheckFunc{
				"database": func(context.Context) error { return errors.New("connection refused") },
				"cache":    func(context.Context) error { return nil },
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody: healthResponse{
				Status: "unhealthy",
				Bot:    "running",
				Checks: map[string]string{"database": "connection refused", "cache": "ok"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := NewServer(":0", nil)
			for name, check := range tt.checks {
				server.RegisterCheck(name, check)
			}

			srv := httptest.NewServer(server.routes())
			defer srv.Close()

			resp, err := http.Get(srv.URL + "/health")
			if err != nil {
				t.Fatalf("GET /health failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("GET /health status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			var got healthResponse
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatalf("decoding health response failed: %v", err)
			}
			if got.Status != tt.wantBody.Status || got.Bot != tt.wantBody.Bot {
				t.Errorf("GET /health = %+v, want %+v", got, tt.wantBody)
			}
			for name, want := range tt.wantBody.Checks {
				if got.Checks[name] != want {
					t.Errorf("check %q = %q, want %q", name, got.Checks[name], want)
				}
			}
		})
	}
}

func TestRegisterCheckDuplicatePanics(t *testing.T) {
	t.Parallel()

	server := NewServer(":0", nil)
	server.RegisterCheck("database", func(context.Context) error { return nil })

	defer func() {
		if recover() == nil {
			t.Error("duplicate RegisterCheck did not panic")
		}
	}()
	server.RegisterCheck("database", func(context.Context) error { return nil })
}

func TestRunShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	server := NewServer("127.0.0.1:0", nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	// Give the listener a moment to come up, then cancel.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() after cancel = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after context cancellation")
	}
}
