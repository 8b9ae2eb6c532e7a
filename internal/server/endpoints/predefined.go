package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docket/internal/api"
	"github.com/jackzampolin/docket/internal/predefined"
	"github.com/jackzampolin/docket/internal/qr"
	"github.com/jackzampolin/docket/internal/svcctx"
)

// PredefinedResponse lists predefined links in file order.
type PredefinedResponse struct {
	Entries predefined.List `json:"entries"`
}

// SetPredefinedRequest is the body of PUT /api/predefined/{name}.
type SetPredefinedRequest struct {
	URL string `json:"url"`
}

// ListPredefinedEndpoint handles GET /api/predefined.
type ListPredefinedEndpoint struct{}

func (e *ListPredefinedEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/predefined", e.handler
}

func (e *ListPredefinedEndpoint) RequiresInit() bool { return true }

func (e *ListPredefinedEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	svcs := requireServices(w, r)
	if svcs == nil {
		return
	}
	writeJSON(w, http.StatusOK, PredefinedResponse{Entries: svcs.Predefined.List()})
}

func (e *ListPredefinedEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List predefined links",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp PredefinedResponse
			if err := client.Get(cmd.Context(), "/api/predefined", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// SetPredefinedEndpoint handles PUT /api/predefined/{name}.
type SetPredefinedEndpoint struct{}

func (e *SetPredefinedEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/predefined/{name}", e.handler
}

func (e *SetPredefinedEndpoint) RequiresInit() bool { return true }

func (e *SetPredefinedEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	svcs := requireServices(w, r)
	if svcs == nil {
		return
	}
	var req SetPredefinedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	list, err := svcs.Predefined.Set(r.PathValue("name"), req.URL)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	svcctx.LoggerFrom(r.Context()).Info("predefined link saved", "name", r.PathValue("name"))
	writeJSON(w, http.StatusOK, PredefinedResponse{Entries: list})
}

func (e *SetPredefinedEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> <url>",
		Short: "Add or replace a predefined link",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp PredefinedResponse
			if err := client.Put(cmd.Context(), "/api/predefined/"+url.PathEscape(args[0]), SetPredefinedRequest{URL: args[1]}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// DeletePredefinedEndpoint handles DELETE /api/predefined/{name}.
type DeletePredefinedEndpoint struct{}

func (e *DeletePredefinedEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/predefined/{name}", e.handler
}

func (e *DeletePredefinedEndpoint) RequiresInit() bool { return true }

func (e *DeletePredefinedEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	svcs := requireServices(w, r)
	if svcs == nil {
		return
	}
	list, err := svcs.Predefined.Remove(r.PathValue("name"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PredefinedResponse{Entries: list})
}

func (e *DeletePredefinedEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a predefined link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.Delete(cmd.Context(), "/api/predefined/"+url.PathEscape(args[0])); err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", args[0])
			return nil
		},
	}
}

// PredefinedSheetEndpoint handles GET /api/predefined/sheet, a printable
// PDF with one QR code per predefined link.
type PredefinedSheetEndpoint struct{}

func (e *PredefinedSheetEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/predefined/sheet", e.handler
}

func (e *PredefinedSheetEndpoint) RequiresInit() bool { return true }

func (e *PredefinedSheetEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	svcs := requireServices(w, r)
	if svcs == nil {
		return
	}
	links := svcs.Predefined.List()
	if len(links) == 0 {
		writeError(w, http.StatusBadRequest, "no predefined links to print")
		return
	}

	style, err := svcctx.StyleFrom(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	opts, err := svcctx.QROptionsFrom(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	title := r.URL.Query().Get("title")
	if cfg := svcctx.ConfigFrom(r.Context()); title == "" && cfg != nil {
		title = cfg.Predefined.SheetTitle
	}

	data, err := qr.Sheet(title, links, opts, style)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writePDF(w, r, pdfFilename("", title), data)
}

func (e *PredefinedSheetEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Download a QR code sheet of all predefined links",
		RunE: func(cmd *cobra.Command, args []string) error {
			return download(cmd, getServerURL(), "/api/predefined/sheet", outFile)
		},
	}
	cmd.Flags().StringVarP(&outFile, "file", "f", "", "Output file (default: server-suggested name)")
	return cmd
}
