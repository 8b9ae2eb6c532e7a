package endpoints

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docket/internal/api"
	"github.com/jackzampolin/docket/internal/sections"
)

// SectionsResponse lists a session's entries in order.
type SectionsResponse struct {
	Sections []sections.Entry `json:"sections"`
}

// AddSectionRequest carries the raw form values of a new entry.
// Color is a hex string and is parsed on arrival.
type AddSectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
}

// editSession runs fn on the session's list and replies with the result.
func editSession(w http.ResponseWriter, r *http.Request, status int, fn func(*sections.List) error) {
	svcs := requireServices(w, r)
	if svcs == nil {
		return
	}
	s, err := svcs.Sessions.Get(r.PathValue("id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}

	var entries []sections.Entry
	err = s.Do(func(l *sections.List) error {
		if err := fn(l); err != nil {
			return err
		}
		entries = l.Entries()
		return nil
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, status, SectionsResponse{Sections: entries})
}

// ListSectionsEndpoint handles GET /api/sessions/{id}/sections.
type ListSectionsEndpoint struct{}

func (e *ListSectionsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}/sections", e.handler
}

func (e *ListSectionsEndpoint) RequiresInit() bool { return true }

func (e *ListSectionsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	editSession(w, r, http.StatusOK, func(*sections.List) error { return nil })
}

func (e *ListSectionsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list <session>",
		Short: "List a session's sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SectionsResponse
			if err := client.Get(cmd.Context(), sectionsPath(args[0]), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// AddSectionEndpoint handles POST /api/sessions/{id}/sections.
// It accepts a JSON body or URL-encoded form fields.
type AddSectionEndpoint struct{}

func (e *AddSectionEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/sections", e.handler
}

func (e *AddSectionEndpoint) RequiresInit() bool { return true }

func (e *AddSectionEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAddSection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	editSession(w, r, http.StatusCreated, func(l *sections.List) error {
		_, err := l.AddForm(req.Name, req.Description, req.Icon, req.Color)
		return err
	})
}

func decodeAddSection(r *http.Request) (AddSectionRequest, error) {
	var req AddSectionRequest
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, fmt.Errorf("invalid request body")
		}
		return req, nil
	}
	if err := r.ParseForm(); err != nil {
		return req, fmt.Errorf("invalid form: %v", err)
	}
	req.Name = r.PostForm.Get("name")
	req.Description = r.PostForm.Get("description")
	req.Icon = r.PostForm.Get("icon")
	req.Color = r.PostForm.Get("color")
	return req, nil
}

func (e *AddSectionEndpoint) Command(getServerURL func() string) *cobra.Command {
	var req AddSectionRequest
	cmd := &cobra.Command{
		Use:   "add <session> <name>",
		Short: "Append a section to a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[1]
			client := api.NewClient(getServerURL())
			var resp SectionsResponse
			if err := client.Post(cmd.Context(), sectionsPath(args[0]), req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&req.Description, "body", "", "Section body text")
	cmd.Flags().StringVar(&req.Icon, "icon", "", "Icon prefix for the title")
	cmd.Flags().StringVar(&req.Color, "color", "", "Highlight color, #RRGGBB")
	return cmd
}

// GetSectionEndpoint handles GET /api/sessions/{id}/sections/{index}.
type GetSectionEndpoint struct{}

func (e *GetSectionEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}/sections/{index}", e.handler
}

func (e *GetSectionEndpoint) RequiresInit() bool { return true }

func (e *GetSectionEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	i, err := pathIndex(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	svcs := requireServices(w, r)
	if svcs == nil {
		return
	}
	s, err := svcs.Sessions.Get(r.PathValue("id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}

	var entry sections.Entry
	err = s.Do(func(l *sections.List) error {
		entry, err = l.Get(i)
		return err
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (e *GetSectionEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <session> <index>",
		Short: "Show the section at index (0-based)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("index must be a number: %w", err)
			}
			client := api.NewClient(getServerURL())
			var entry sections.Entry
			if err := client.Get(cmd.Context(), sectionsPath(args[0])+"/"+args[1], &entry); err != nil {
				return err
			}
			return api.Output(entry)
		},
	}
}

// RemoveSectionEndpoint handles DELETE /api/sessions/{id}/sections/{index}.
type RemoveSectionEndpoint struct{}

func (e *RemoveSectionEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/sessions/{id}/sections/{index}", e.handler
}

func (e *RemoveSectionEndpoint) RequiresInit() bool { return true }

func (e *RemoveSectionEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	i, err := pathIndex(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	editSession(w, r, http.StatusOK, func(l *sections.List) error {
		_, err := l.Remove(i)
		return err
	})
}

func (e *RemoveSectionEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <session> <index>",
		Short: "Remove the section at index (0-based)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("index must be a number: %w", err)
			}
			client := api.NewClient(getServerURL())
			if err := client.Delete(cmd.Context(), sectionsPath(args[0])+"/"+args[1]); err != nil {
				return err
			}
			fmt.Printf("Removed section %s\n", args[1])
			return nil
		},
	}
}

// SwapSectionEndpoint handles POST /api/sessions/{id}/sections/{index}/swap,
// exchanging the section at index with the one after it.
type SwapSectionEndpoint struct{}

func (e *SwapSectionEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/sections/{index}/swap", e.handler
}

func (e *SwapSectionEndpoint) RequiresInit() bool { return true }

func (e *SwapSectionEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	i, err := pathIndex(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	editSession(w, r, http.StatusOK, func(l *sections.List) error {
		return l.Swap(i)
	})
}

func (e *SwapSectionEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "swap <session> <index>",
		Short: "Swap the section at index with the next one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("index must be a number: %w", err)
			}
			client := api.NewClient(getServerURL())
			var resp SectionsResponse
			if err := client.Post(cmd.Context(), sectionsPath(args[0])+"/"+args[1]+"/swap", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// SeedSessionEndpoint handles POST /api/sessions/{id}/seed, appending one
// section per predefined link with the URL as its body.
type SeedSessionEndpoint struct{}

func (e *SeedSessionEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/seed", e.handler
}

func (e *SeedSessionEndpoint) RequiresInit() bool { return true }

func (e *SeedSessionEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	svcs := requireServices(w, r)
	if svcs == nil {
		return
	}
	links := svcs.Predefined.List()
	editSession(w, r, http.StatusOK, func(l *sections.List) error {
		for _, link := range links {
			if _, err := l.Add(sections.Entry{Name: link.Name, Description: link.URL}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (e *SeedSessionEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <session>",
		Short: "Append every predefined link to a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SectionsResponse
			if err := client.Post(cmd.Context(), "/api/sessions/"+url.PathEscape(args[0])+"/seed", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

func sectionsPath(sessionID string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + "/sections"
}
