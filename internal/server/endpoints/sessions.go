package endpoints

import (
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docket/internal/api"
	"github.com/jackzampolin/docket/internal/composer"
	"github.com/jackzampolin/docket/internal/sections"
	"github.com/jackzampolin/docket/internal/svcctx"
)

// SessionResponse describes a session.
type SessionResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSessionEndpoint handles POST /api/sessions.
type CreateSessionEndpoint struct{}

func (e *CreateSessionEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions", e.handler
}

func (e *CreateSessionEndpoint) RequiresInit() bool { return true }

func (e *CreateSessionEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	svcs := requireServices(w, r)
	if svcs == nil {
		return
	}
	s := svcs.Sessions.Create()
	svcctx.LoggerFrom(r.Context()).Info("session created", "session", s.ID)
	writeJSON(w, http.StatusCreated, SessionResponse{ID: s.ID, CreatedAt: s.CreatedAt})
}

func (e *CreateSessionEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Start a new editing session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SessionResponse
			if err := client.Post(cmd.Context(), "/api/sessions", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// DeleteSessionEndpoint handles DELETE /api/sessions/{id}.
type DeleteSessionEndpoint struct{}

func (e *DeleteSessionEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/sessions/{id}", e.handler
}

func (e *DeleteSessionEndpoint) RequiresInit() bool { return true }

func (e *DeleteSessionEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	svcs := requireServices(w, r)
	if svcs == nil {
		return
	}
	if err := svcs.Sessions.Delete(r.PathValue("id")); err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (e *DeleteSessionEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session>",
		Short: "End a session and discard its list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.Delete(cmd.Context(), "/api/sessions/"+url.PathEscape(args[0])); err != nil {
				return err
			}
			fmt.Printf("Session %s deleted\n", args[0])
			return nil
		},
	}
}

// SessionPDFEndpoint handles GET /api/sessions/{id}/pdf.
// Query: title, subtitle, filename, allow_empty.
type SessionPDFEndpoint struct{}

func (e *SessionPDFEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}/pdf", e.handler
}

func (e *SessionPDFEndpoint) RequiresInit() bool { return true }

func (e *SessionPDFEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	svcs := requireServices(w, r)
	if svcs == nil {
		return
	}
	s, err := svcs.Sessions.Get(r.PathValue("id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}

	q := r.URL.Query()
	title, subtitle := q.Get("title"), q.Get("subtitle")
	if cfg := svcctx.ConfigFrom(r.Context()); cfg != nil {
		if title == "" {
			title = cfg.Document.Title
		}
		if subtitle == "" {
			subtitle = cfg.Document.Subtitle
		}
	}

	var doc composer.Document
	_ = s.Do(func(l *sections.List) error {
		doc = l.Document(title, subtitle)
		return nil
	})
	if !queryBool(r, "allow_empty") {
		if err := composer.CheckNotEmpty(doc); err != nil {
			writeErr(w, r, err)
			return
		}
	}

	style, err := svcctx.StyleFrom(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	out, err := composer.Render(doc, style)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	writePDF(w, r, pdfFilename(q.Get("filename"), title), out.Bytes)
}

func (e *SessionPDFEndpoint) Command(getServerURL func() string) *cobra.Command {
	var title, subtitle, outFile string
	var allowEmpty bool
	cmd := &cobra.Command{
		Use:   "pdf <session>",
		Short: "Download the session's sections as a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if title != "" {
				q.Set("title", title)
			}
			if subtitle != "" {
				q.Set("subtitle", subtitle)
			}
			if allowEmpty {
				q.Set("allow_empty", "true")
			}
			path := "/api/sessions/" + url.PathEscape(args[0]) + "/pdf"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}
			return download(cmd, getServerURL(), path, outFile)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Document title (default from config)")
	cmd.Flags().StringVar(&subtitle, "subtitle", "", "Document subtitle")
	cmd.Flags().BoolVar(&allowEmpty, "allow-empty", false, "Render even when the list is empty")
	cmd.Flags().StringVarP(&outFile, "file", "f", "", "Output file (default: server-suggested name)")
	return cmd
}

// pdfFilename picks a download name: an explicit one, else one derived
// from the title.
func pdfFilename(explicit, title string) string {
	if explicit != "" {
		name := filepath.Base(strings.TrimSpace(explicit))
		if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
			name += ".pdf"
		}
		return name
	}
	var b strings.Builder
	for _, r := range strings.TrimSpace(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ' || r == '_':
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		name = "document"
	}
	return name + ".pdf"
}

// download fetches a binary endpoint and writes it to outFile.
func download(cmd *cobra.Command, serverURL, path, outFile string) error {
	client := api.NewClient(serverURL)
	dl, err := client.GetBytes(cmd.Context(), path)
	if err != nil {
		return err
	}
	written, err := api.WriteDownload(dl, outFile)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d bytes)\n", written, len(dl.Data))
	return nil
}
