package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackzampolin/docket/internal/api"
	"github.com/jackzampolin/docket/internal/config"
	"github.com/jackzampolin/docket/internal/home"
	"github.com/jackzampolin/docket/internal/pdfcheck"
	"github.com/jackzampolin/docket/internal/server/endpoints"
	"github.com/jackzampolin/docket/internal/testutil"
)

func newTestServer(t *testing.T) (*Server, testutil.ServerConfig) {
	t.Helper()
	cfg := testutil.NewServerConfig(t)

	h, err := home.New(cfg.HomeDir)
	if err != nil {
		t.Fatalf("home.New() error = %v", err)
	}
	mgr, err := config.NewManager(cfg.ConfigFile, cfg.HomeDir)
	if err != nil {
		t.Fatalf("config.NewManager() error = %v", err)
	}

	srv, err := New(Config{
		Host:          cfg.Host,
		Port:          cfg.Port,
		Home:          h,
		ConfigManager: mgr,
		Logger:        cfg.Logger,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv, cfg
}

func TestServer_RequireInitBeforeStart(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		method, path string
		want         int
	}{
		{"GET", "/health", http.StatusOK},
		{"POST", "/api/sessions", http.StatusServiceUnavailable},
		{"GET", "/api/predefined", http.StatusServiceUnavailable},
		{"GET", "/api/roadmap/pdf", http.StatusOK},
		{"GET", "/api/qr?data=hello", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestServer_FullLifecycle(t *testing.T) {
	srv, cfg := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	serverErr := make(chan error, 1)
	serverCtx, serverCancel := context.WithCancel(ctx)
	go func() {
		serverErr <- srv.Start(serverCtx)
	}()
	starter := testutil.StartServer{Cancel: serverCancel, Done: serverErr}

	if err := testutil.WaitForServer(cfg.URL(), 10*time.Second); err != nil {
		starter.Stop()
		t.Fatalf("server did not start: %v", err)
	}

	client := api.NewClient(cfg.URL())

	t.Run("is_running", func(t *testing.T) {
		if !srv.IsRunning() {
			t.Error("IsRunning() = false, want true")
		}
	})

	t.Run("second_start_fails", func(t *testing.T) {
		if err := srv.Start(ctx); err == nil {
			t.Error("expected error starting a running server")
		}
	})

	t.Run("session_round_trip", func(t *testing.T) {
		var sess endpoints.SessionResponse
		if err := client.Post(ctx, "/api/sessions", nil, &sess); err != nil {
			t.Fatalf("create session: %v", err)
		}

		for _, req := range []endpoints.AddSectionRequest{
			{Name: "Phase 1", Description: "Foundation"},
			{Name: "Phase 2", Description: "Automation", Color: "#4CAF50"},
		} {
			if err := client.Post(ctx, "/api/sessions/"+sess.ID+"/sections", req, nil); err != nil {
				t.Fatalf("add section: %v", err)
			}
		}

		var swapped endpoints.SectionsResponse
		if err := client.Post(ctx, "/api/sessions/"+sess.ID+"/sections/0/swap", nil, &swapped); err != nil {
			t.Fatalf("swap: %v", err)
		}
		if len(swapped.Sections) != 2 || swapped.Sections[0].Name != "Phase 2" {
			t.Fatalf("unexpected order after swap: %+v", swapped.Sections)
		}

		dl, err := client.GetBytes(ctx, "/api/sessions/"+sess.ID+"/pdf?title=Plan")
		if err != nil {
			t.Fatalf("pdf: %v", err)
		}
		if dl.Filename != "Plan.pdf" {
			t.Errorf("filename = %q, want Plan.pdf", dl.Filename)
		}
		if _, err := pdfcheck.Inspect(dl.Data); err != nil {
			t.Errorf("invalid PDF: %v", err)
		}

		if err := client.Delete(ctx, "/api/sessions/"+sess.ID); err != nil {
			t.Fatalf("delete session: %v", err)
		}
		if srv.Sessions().Len() != 0 {
			t.Errorf("sessions = %d, want 0", srv.Sessions().Len())
		}
	})

	t.Run("predefined_persists", func(t *testing.T) {
		req := endpoints.SetPredefinedRequest{URL: "https://nihss.example.app"}
		if err := client.Put(ctx, "/api/predefined/NIHSS", req, nil); err != nil {
			t.Fatalf("set predefined: %v", err)
		}
		data, err := os.ReadFile(filepath.Join(cfg.HomeDir, "predefined.json"))
		if err != nil {
			t.Fatalf("read predefined file: %v", err)
		}
		if !strings.Contains(string(data), `"NIHSS": "https://nihss.example.app"`) {
			t.Errorf("unexpected file content: %s", data)
		}
	})

	starter.Stop()
	if srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}
}

func TestServer_ContextCancellation(t *testing.T) {
	srv, cfg := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	if err := testutil.WaitForServer(cfg.URL(), 10*time.Second); err != nil {
		cancel()
		t.Fatalf("server did not start: %v", err)
	}

	cancel()
	if err := testutil.WaitForShutdown(done, 10*time.Second); err != nil {
		t.Fatalf("Start() returned error = %v", err)
	}

	resp, err := http.Get(cfg.URL() + "/health")
	if err == nil {
		resp.Body.Close()
		t.Error("server still accepting connections after shutdown")
	}
}
