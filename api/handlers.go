package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/seenimoa/stockdash/internal/config"
	"github.com/seenimoa/stockdash/internal/provider"
	"github.com/seenimoa/stockdash/internal/session"
	"github.com/seenimoa/stockdash/pkg/models"
	"github.com/seenimoa/stockdash/pkg/utils"
)

// resolveKey picks the API key for r: the session key first, then the
// configured default.
func (s *Server) resolveKey(r *http.Request) (string, config.APIKeySource) {
	if k := session.APIKey(r.Context()); k != "" {
		return k, config.KeySourceSession
	}
	if st := config.CheckAPIKeys(s.cfg)[0]; st.IsSet {
		return s.cfg.Provider.APIKey, st.Source
	}
	return "", config.KeySourceNone
}

// client builds a provider client for the caller's key.
func (s *Server) client(r *http.Request) (provider.Client, error) {
	key, _ := s.resolveKey(r)
	if key == "" {
		return nil, provider.KeyRequired()
	}
	return s.newClient(key)
}

// pathParam returns the decoded URL parameter key. chi matches on
// r.URL.RawPath when it is set, so parameters can still be escaped ("AT%26T").
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	decoded, err := url.PathUnescape(v)
	if err != nil {
		return "", provider.InvalidInput("malformed %s", key)
	}
	return decoded, nil
}

// symbolParam reads and validates the {symbol} URL parameter.
func symbolParam(r *http.Request) (string, error) {
	raw, err := pathParam(r, "symbol")
	if err != nil {
		return "", err
	}
	symbol := utils.NormalizeSymbol(raw)
	if symbol == "" {
		return "", provider.InvalidInput("symbol is required")
	}
	if !utils.ValidSymbol(symbol) {
		return "", provider.InvalidInput("invalid symbol %q", symbol)
	}
	return symbol, nil
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	symbol, err := symbolParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.client(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	quote, err := c.Quote(r.Context(), symbol)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	zerolog.Ctx(r.Context()).Debug().Str("symbol", symbol).Float64("price", quote.Price).Msg("quote served")
	writeJSON(w, r, http.StatusOK, quote)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	raw, err := pathParam(r, "keywords")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	keywords := utils.NormalizeKeywords(raw)
	if keywords == "" {
		s.writeError(w, r, provider.InvalidInput("keywords are required"))
		return
	}
	if !utils.ValidKeywords(keywords) {
		s.writeError(w, r, provider.InvalidInput("keywords must be at most %d characters", utils.MaxKeywordLength))
		return
	}
	c, err := s.client(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	matches, err := c.SearchSymbols(r.Context(), keywords)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if matches == nil {
		matches = []models.SymbolMatch{}
	}
	writeJSON(w, r, http.StatusOK, matches)
}

func (s *Server) handleHistorical(w http.ResponseWriter, r *http.Request) {
	symbol, err := symbolParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	window := s.cfg.Provider.HistoryWindow
	if raw := r.URL.Query().Get("window"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > provider.MaxHistoryWindow {
			s.writeError(w, r, provider.InvalidInput("window must be between 1 and %d", provider.MaxHistoryWindow))
			return
		}
		window = n
	}
	c, err := s.client(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	bars, err := c.DailyHistory(r.Context(), symbol, window)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if bars == nil {
		bars = []models.HistoricalBar{}
	}
	writeJSON(w, r, http.StatusOK, bars)
}

// ProvidersResponse is returned by GET /api/providers.
type ProvidersResponse struct {
	Active    string          `json:"active"`
	Providers []provider.Info `json:"providers"`
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, ProvidersResponse{
		Active:    s.info.Name,
		Providers: s.registry.List(),
	})
}
