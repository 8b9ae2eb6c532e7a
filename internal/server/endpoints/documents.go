package endpoints

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docket/internal/composer"
	"github.com/jackzampolin/docket/internal/qr"
	"github.com/jackzampolin/docket/internal/roadmap"
	"github.com/jackzampolin/docket/internal/svcctx"
)

// RoadmapPDFEndpoint handles GET /api/roadmap/pdf.
type RoadmapPDFEndpoint struct{}

func (e *RoadmapPDFEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/roadmap/pdf", e.handler
}

func (e *RoadmapPDFEndpoint) RequiresInit() bool { return false }

func (e *RoadmapPDFEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	style, err := svcctx.StyleFrom(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	doc := roadmap.Document(composer.CanEncode(style, roadmap.Icon))
	out, err := composer.Render(doc, style)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writePDF(w, r, roadmap.Filename, out.Bytes)
}

func (e *RoadmapPDFEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "roadmap",
		Short: "Download the built-in roadmap PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			return download(cmd, getServerURL(), "/api/roadmap/pdf", outFile)
		},
	}
	cmd.Flags().StringVarP(&outFile, "file", "f", "", "Output file (default: "+roadmap.Filename+")")
	return cmd
}

// QREndpoint handles GET /api/qr?data=...&size=...&level=...&fg=...&bg=...
// Missing parameters fall back to the configured defaults.
type QREndpoint struct{}

func (e *QREndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/qr", e.handler
}

func (e *QREndpoint) RequiresInit() bool { return false }

func (e *QREndpoint) handler(w http.ResponseWriter, r *http.Request) {
	opts, err := svcctx.QROptionsFrom(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}

	q := r.URL.Query()
	if raw := q.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "size must be a number")
			return
		}
		opts.Size = size
	}
	if raw := q.Get("level"); raw != "" {
		if opts.Level, err = qr.ParseLevel(raw); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if raw := q.Get("fg"); raw != "" {
		if opts.Foreground, err = composer.ParseHex(raw); err != nil {
			writeErr(w, r, err)
			return
		}
	}
	if raw := q.Get("bg"); raw != "" {
		if opts.Background, err = composer.ParseHex(raw); err != nil {
			writeErr(w, r, err)
			return
		}
	}
	if err := opts.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	png, err := qr.PNG(q.Get("data"), opts)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `inline; filename="qr.png"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (e *QREndpoint) Command(getServerURL func() string) *cobra.Command {
	var outFile, level string
	var size int
	cmd := &cobra.Command{
		Use:   "qr <content>",
		Short: "Render a QR code PNG on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{"data": {args[0]}}
			if size > 0 {
				q.Set("size", strconv.Itoa(size))
			}
			if level != "" {
				q.Set("level", level)
			}
			return download(cmd, getServerURL(), "/api/qr?"+q.Encode(), outFile)
		},
	}
	cmd.Flags().StringVarP(&outFile, "file", "f", "qr.png", "Output file")
	cmd.Flags().IntVar(&size, "size", 0, "Image size in pixels (default from config)")
	cmd.Flags().StringVar(&level, "level", "", "Error correction: low, medium, high, highest")
	return cmd
}
