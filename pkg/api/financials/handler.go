// Package financials exposes the derived financials as a JSON API.
package financials

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"investor_dashboard/pkg/api/dashboard"
	"investor_dashboard/pkg/core/content"
	"investor_dashboard/pkg/core/export"
	"investor_dashboard/pkg/core/pipeline"
	"investor_dashboard/pkg/core/store"
)

// SectionInfo describes one deck section for API clients.
type SectionInfo struct {
	ID              string       `json:"id"`
	Label           string       `json:"label"`
	Kind            content.Kind `json:"kind"`
	NeedsFinancials bool         `json:"needs_financials"`
}

// Handler holds dependencies for the financials endpoints.
type Handler struct {
	Deck           *content.Deck
	Sessions       *store.SessionStore
	Runner         store.Runner
	MaxUploadBytes int64
}

func NewHandler(deck *content.Deck, sessions *store.SessionStore, runner store.Runner, maxUploadBytes int64) *Handler {
	return &Handler{Deck: deck, Sessions: sessions, Runner: runner, MaxUploadBytes: maxUploadBytes}
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/financials", h.HandleFinancials)
	mux.HandleFunc("/api/financials/export.toon", h.HandleExportTOON)
	mux.HandleFunc("/api/sections", h.HandleSections)
}

func setCORS(w http.ResponseWriter, methods string) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// current returns the result for the caller's dashboard session, or the
// default document's result when there is none.
func (h *Handler) current(r *http.Request) *pipeline.Result {
	if c, err := r.Cookie(dashboard.SessionCookie); err == nil {
		if res, err := h.Sessions.Result(c.Value); err == nil {
			return res
		}
	}
	return h.Sessions.DefaultResult()
}

// HandleFinancials returns the current report on GET. POST computes a report
// for the workbook in the request body without touching any session.
func (h *Handler) HandleFinancials(w http.ResponseWriter, r *http.Request) {
	setCORS(w, "GET, POST, OPTIONS")
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodGet:
		writeJSON(w, export.NewReport(h.current(r)))
		return
	case http.MethodPost:
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.MaxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Workbook too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(data) == 0 {
		http.Error(w, "Empty request body", http.StatusBadRequest)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.xlsx"
	}
	res := h.Runner.Run(&pipeline.Document{Name: name, Data: data})
	writeJSON(w, export.NewReport(res))
}

// HandleExportTOON returns the current report as TOON text.
func (h *Handler) HandleExportTOON(w http.ResponseWriter, r *http.Request) {
	setCORS(w, "GET, OPTIONS")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	out, err := export.NewReport(h.current(r)).TOON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="financials.toon"`)
	_, _ = io.WriteString(w, out)
}

// HandleSections lists the deck sections in order.
func (h *Handler) HandleSections(w http.ResponseWriter, r *http.Request) {
	setCORS(w, "GET, OPTIONS")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	out := make([]SectionInfo, 0, len(h.Deck.Sections))
	for _, s := range h.Deck.Sections {
		out = append(out, SectionInfo{ID: s.ID, Label: s.Label, Kind: s.Kind, NeedsFinancials: s.Kind.NeedsFinancials()})
	}
	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
