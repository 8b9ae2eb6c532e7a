package endpoints

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docket/internal/api"
	"github.com/jackzampolin/docket/web"
)

// StaticEndpoint serves the embedded form page and its assets.
// Unknown paths fall back to index.html; unknown /api/ paths are 404s.
type StaticEndpoint struct{}

var _ api.Endpoint = (*StaticEndpoint)(nil)

func (e *StaticEndpoint) Route() (string, string, http.HandlerFunc) {
	// Wildcard pattern catches all unmatched GET requests
	return "GET", "/{path...}", e.handler
}

func (e *StaticEndpoint) RequiresInit() bool {
	return false
}

func (e *StaticEndpoint) Command(_ func() string) *cobra.Command {
	return nil // No CLI command for static files
}

func (e *StaticEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeError(w, http.StatusNotFound, "no such endpoint")
		return
	}

	distFS, err := web.DistFS()
	if err != nil {
		http.Error(w, "Form page not available", http.StatusInternalServerError)
		return
	}

	filePath := strings.TrimPrefix(r.URL.Path, "/")
	if filePath != "" && filePath != "index.html" {
		if _, err := fs.Stat(distFS, filePath); err == nil {
			http.FileServer(http.FS(distFS)).ServeHTTP(w, r)
			return
		}
	}

	index, err := fs.ReadFile(distFS, "index.html")
	if err != nil {
		http.Error(w, "Form page not available", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(index)
}
