package web

import (
	"net/http"

	"github.com/JonMunkholm/sheetresolver/internal/core"
	"github.com/JonMunkholm/sheetresolver/internal/logging"
)

// CacheResponse is the body of GET /api/cache.
type CacheResponse struct {
	Cache   core.CacheStats         `json:"cache"`
	Fetches core.FetchLimiterStatus `json:"fetches"`
}

// PurgeResponse is the body of DELETE /api/cache/{sheet}.
type PurgeResponse struct {
	Sheet  string `json:"sheet"`
	Purged bool   `json:"purged"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLinkable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"linkable": s.service.Linkable().All()})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CacheResponse{
		Cache:   s.service.Cache().Stats(),
		Fetches: s.service.FetchStatus(),
	})
}

func (s *Server) handlePurge(w http.ResponseWriter, r *http.Request) {
	sheet := sheetParam(r)
	if err := core.ValidateSheetName(sheet); err != nil {
		s.respondError(w, r, err)
		return
	}

	purged := s.service.Purge(sheet)
	logging.FromContext(r.Context()).Info("sheet purged from cache", "sheet", sheet, "purged", purged)
	writeJSON(w, http.StatusOK, PurgeResponse{Sheet: sheet, Purged: purged})
}

func (s *Server) handlePurgeAll(w http.ResponseWriter, r *http.Request) {
	s.service.PurgeAll()
	logging.FromContext(r.Context()).Info("cache purged")
	w.WriteHeader(http.StatusNoContent)
}
