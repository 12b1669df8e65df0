package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	coreconfig "investor_dashboard/pkg/core/config"
	"investor_dashboard/pkg/core/logging"
	"investor_dashboard/pkg/core/pipeline"
	"investor_dashboard/pkg/core/workbook"
)

type Response struct {
	ActiveReader string            `json:"active_reader"`
	Available    []string          `json:"available"`
	Settings     coreconfig.Config `json:"settings"`
}

type SwitchRequest struct {
	Reader string `json:"reader"`
}

// LoaderSetter receives the loader built for a newly selected reader.
type LoaderSetter interface {
	SetLoader(l pipeline.WorkbookLoader)
}

// Invalidator drops cached results computed with the previous reader.
type Invalidator interface {
	Invalidate()
}

// Handler holds dependencies for config endpoints
type Handler struct {
	Settings coreconfig.Config
	Loader   LoaderSetter
	Cache    Invalidator

	mu     sync.RWMutex
	active string
}

// NewHandler creates a new config handler
func NewHandler(settings coreconfig.Config, loader LoaderSetter, cache Invalidator) *Handler {
	active := settings.Reader
	if active == "" {
		active = workbook.ReaderExcelize
	}
	return &Handler{
		Settings: settings,
		Loader:   loader,
		Cache:    cache,
		active:   active,
	}
}

// Register mounts the config routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/config", h.HandleConfig)
	mux.HandleFunc("/api/config/reader", h.HandleSwitch)
}

// ActiveReader returns the name of the reader currently in use.
func (h *Handler) ActiveReader() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.active
}

func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers for local dev
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	settings := h.Settings
	settings.Reader = h.ActiveReader()
	resp := Response{
		ActiveReader: settings.Reader,
		Available:    []string{workbook.ReaderExcelize, workbook.ReaderStream},
		Settings:     settings,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) HandleSwitch(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SwitchRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	reader, err := workbook.ReaderByName(req.Reader)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	name := req.Reader
	if name == "" {
		name = workbook.ReaderExcelize
	}

	h.mu.Lock()
	h.Loader.SetLoader(workbook.NewLoader(reader))
	h.active = name
	h.mu.Unlock()
	if h.Cache != nil {
		h.Cache.Invalidate()
	}
	logging.Logf("[CONFIG] Workbook reader switched to %s", name)

	fmt.Fprintf(w, "Success: Switched to %s", name)
}
