package api

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/seenimoa/stockdash/internal/config"
	"github.com/seenimoa/stockdash/internal/provider"
	"github.com/seenimoa/stockdash/pkg/utils"
)

// pageData is the model passed to every HTML template.
type pageData struct {
	Page       string
	Title      string
	Provider   provider.Info
	HasKey     bool
	KeySource  config.APIKeySource
	MaskedKey  string
	Error      string
	Symbol     string
	Window     int
	MinKeyword int
}

func (s *Server) newPage(r *http.Request, page, title string) pageData {
	key, source := s.resolveKey(r)
	d := pageData{
		Page:       page,
		Title:      title,
		Provider:   s.info,
		HasKey:     key != "",
		KeySource:  source,
		Window:     s.cfg.Provider.HistoryWindow,
		MinKeyword: utils.MinKeywordLength,
	}
	if d.HasKey {
		d.MaskedKey = config.MaskKey(key)
	}
	return d
}

// render executes a page template into a buffer first so that a template
// error never produces a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "index", s.newPage(r, "index", "Search"))
}

func (s *Server) handleSetupForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "setup", s.newPage(r, "setup", "API key"))
}

// handleSetupSubmit stores the submitted key in the session. An empty key
// re-renders the form with an error.
func (s *Server) handleSetupSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		d := s.newPage(r, "setup", "API key")
		d.Error = "Could not read the form, please try again."
		s.render(w, r, http.StatusBadRequest, "setup", d)
		return
	}
	key := strings.TrimSpace(r.PostFormValue("api_key"))
	if key == "" {
		d := s.newPage(r, "setup", "API key")
		d.Error = "Please enter a valid API key."
		s.render(w, r, http.StatusBadRequest, "setup", d)
		return
	}

	if _, err := s.sessions.SetAPIKey(w, r, key); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("store session key")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	zerolog.Ctx(r.Context()).Info().Str("key", config.MaskKey(key)).Msg("session key configured")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleDashboard renders the dashboard, or sends the browser to /setup when
// no key is available. ?symbol= preselects a ticker.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d := s.newPage(r, "dashboard", "Dashboard")
	if !d.HasKey {
		http.Redirect(w, r, "/setup", http.StatusSeeOther)
		return
	}
	if sym := utils.NormalizeSymbol(r.URL.Query().Get("symbol")); utils.ValidSymbol(sym) {
		d.Symbol = sym
	}
	s.render(w, r, http.StatusOK, "dashboard", d)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
