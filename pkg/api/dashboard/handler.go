// Package dashboard serves the investor deck as server-rendered HTML.
package dashboard

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"investor_dashboard/pkg/core/charts"
	"investor_dashboard/pkg/core/content"
	"investor_dashboard/pkg/core/logging"
	"investor_dashboard/pkg/core/pipeline"
	"investor_dashboard/pkg/core/store"
)

// SessionCookie carries the visitor's session id.
const SessionCookie = "dashboard_session"

// UploadField is the multipart field holding the workbook.
const UploadField = "workbook"

// Handler holds dependencies for the dashboard pages.
type Handler struct {
	Deck           *content.Deck
	Sessions       *store.SessionStore
	Assets         *content.Assets
	MaxUploadBytes int64
	EchartsAssets  string
}

// NewHandler creates a dashboard handler.
func NewHandler(deck *content.Deck, sessions *store.SessionStore, assets *content.Assets, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Handler{Deck: deck, Sessions: sessions, Assets: assets, MaxUploadBytes: maxUploadBytes}
}

// Register mounts the dashboard routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.HandleIndex)
	mux.HandleFunc("GET /section/{id}", h.HandleSection)
	mux.HandleFunc("POST /upload", h.HandleUpload)
	mux.HandleFunc("GET /assets/{name}", h.HandleAsset)
	mux.HandleFunc("GET /charts/{series}", h.HandleChart)
}

// session resolves the visitor's session, issuing a cookie for new ones.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) store.Session {
	id := ""
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	sess := h.Sessions.GetOrCreate(id)
	if sess.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

// existingSession returns the visitor's session without creating one.
// Read-only pages are served from the default document until the visitor
// opens a section or uploads a workbook.
func (h *Handler) existingSession(r *http.Request) (store.Session, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return store.Session{}, false
	}
	sess, err := h.Sessions.Get(c.Value)
	return sess, err == nil
}

// result returns the session's financials, or the default document's when
// there is no session.
func (h *Handler) result(sess store.Session, ok bool) *pipeline.Result {
	if ok {
		if res, err := h.Sessions.Result(sess.ID); err == nil {
			return res
		}
	}
	return h.Sessions.DefaultResult()
}

// HandleIndex shows the section the visitor last opened, or the landing section.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.existingSession(r)
	section, err := h.Deck.Section(sess.Section)
	if err != nil {
		section = h.Deck.First()
	}
	h.renderSection(w, h.result(sess, ok), section)
}

func (h *Handler) HandleSection(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	section, err := h.Deck.Section(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err := h.Sessions.SetSection(sess.ID, section.ID); err != nil {
		logging.Logf("[HTTP] set section: %v", err)
	}
	h.renderSection(w, h.result(sess, true), section)
}

func (h *Handler) renderSection(w http.ResponseWriter, res *pipeline.Result, section content.Section) {
	page, err := BuildPage(ViewState{Deck: h.Deck, Section: section, Result: res, Assets: h.Assets})
	if err != nil {
		logging.Logf("[HTTP] build %s: %v", section.ID, err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := Render(w, page); err != nil {
		logging.Logf("[HTTP] render %s: %v", section.ID, err)
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

// HandleUpload stores an uploaded .xlsx as the session's document and
// redirects back to the section the form was posted from.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.MaxUploadBytes {
		http.Error(w, "El archivo supera el tamaño máximo permitido.", http.StatusRequestEntityTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	file, header, err := r.FormFile(UploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "El archivo supera el tamaño máximo permitido.", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Falta el archivo Excel.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		http.Error(w, "Solo se aceptan archivos .xlsx.", http.StatusUnsupportedMediaType)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "No se pudo leer el archivo.", http.StatusBadRequest)
		return
	}
	if len(data) == 0 {
		http.Error(w, "El archivo está vacío.", http.StatusBadRequest)
		return
	}

	sess := h.session(w, r)
	doc := &pipeline.Document{Name: filepath.Base(header.Filename), Data: data}
	if _, err := h.Sessions.Upload(sess.ID, doc); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	target := "/"
	if id := r.FormValue("section"); id != "" {
		if _, err := h.Deck.Section(id); err == nil {
			target = "/section/" + id
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// HandleAsset serves an image from the assets directory.
func (h *Handler) HandleAsset(w http.ResponseWriter, r *http.Request) {
	asset := h.Assets.Resolve(content.Image{File: r.PathValue("name")})
	if !asset.Exists {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, asset.Path)
}

// HandleChart renders a forecast series: /charts/{series} as an interactive
// page, /charts/{series}.png as an image.
func (h *Handler) HandleChart(w http.ResponseWriter, r *http.Request) {
	series := r.PathValue("series")
	asPNG := strings.HasSuffix(series, ".png")
	series = strings.TrimSuffix(series, ".png")

	chart, ok := h.Deck.Chart(series)
	if !ok {
		http.NotFound(w, r)
		return
	}

	res := h.result(h.existingSession(r))
	if !res.HasFinancials() {
		http.Error(w, "No hay proyección disponible.", http.StatusNotFound)
		return
	}

	spec, err := charts.FromForecast(*res.Forecast, series, chart, h.Deck.ChartAxes)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	spec.AssetsHost = h.EchartsAssets

	var buf bytes.Buffer
	contentType := "text/html; charset=utf-8"
	if asPNG {
		contentType = "image/png"
		err = charts.RenderPNG(&buf, spec)
	} else {
		err = charts.RenderHTML(&buf, spec)
	}
	if err != nil {
		logging.Logf("[HTTP] chart %s: %v", r.PathValue("series"), err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(buf.Bytes())
}
