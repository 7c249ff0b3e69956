package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/sheetresolver/internal/core"
	"github.com/JonMunkholm/sheetresolver/internal/export"
	"github.com/JonMunkholm/sheetresolver/internal/logging"
	"github.com/JonMunkholm/sheetresolver/internal/web/templates"
)

// handleGetSheet returns every row of a sheet.
//
//	GET /api/sheets/{sheet}?depth=1
func (s *Server) handleGetSheet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sheet := sheetParam(r)

	depth := depthParam(r)

	version, err := s.service.Version(ctx, sheet, depth)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if notModified(w, r, etag(version, r)) {
		return
	}

	rows, err := s.service.GetSheet(ctx, sheet, depth)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, core.SearchResult{
		Pagination: core.SinglePage(len(rows)),
		Results:    rows,
	})
}

// handleGetItem returns one row of a sheet by position.
//
//	GET /api/sheets/{sheet}/{index}?depth=1
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sheet := sheetParam(r)

	index, err := indexParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	depth := depthParam(r)

	version, err := s.service.Version(ctx, sheet, depth)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if notModified(w, r, etag(version, r)) {
		return
	}

	row, err := s.service.GetSheetItem(ctx, sheet, index, depth)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if row == nil {
		s.respondError(w, r, fmt.Errorf("%s row %d: %w", sheet, index, core.ErrRowNotFound))
		return
	}

	writeJSON(w, http.StatusOK, row)
}

// handleSearch runs a search over a sheet.
//
//	GET /api/sheets/{sheet}/search?string=potion&threshold=1&columns=ID,Name&filters=LevelItem>=50&filters=Name=Potion&depth=1
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sheet := sheetParam(r)

	opts := searchOptions(r)

	version, err := s.service.Version(ctx, sheet, opts.Depth())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if notModified(w, r, etag(version, r)) {
		return
	}

	res, err := s.service.Search(ctx, sheet, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// handleExport runs a search and returns the results as a file download.
//
//	GET /api/sheets/{sheet}/export?format=csv&string=potion
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sheet := sheetParam(r)

	format, err := export.ParseFormat(r.URL.Query().Get(paramFormat))
	if err != nil {
		s.respondError(w, r, badRequest(err.Error()))
		return
	}

	res, err := s.service.Search(ctx, sheet, searchOptions(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	// Encode fully first so a failure can still be reported as an error.
	var buf bytes.Buffer
	if err := export.WriteResult(&buf, format, sheet, res); err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.WithFields(ctx, "sheet", sheet, "format", string(format)).Info("sheet exported",
		"rows", len(res.Results),
		"bytes", buf.Len(),
	)

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", sheet+format.Extension()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

// handleUI renders search results as an HTML table.
//
//	GET /ui/{sheet}?string=potion&columns=ID,Name
func (s *Server) handleUI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sheet := sheetParam(r)

	res, err := s.service.Search(ctx, sheet, searchOptions(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := templates.Layout(sheet, templates.SheetTable(sheet, export.Flatten(res.Results), res.Pagination))
	if err := page.Render(ctx, w); err != nil {
		logging.FromContext(ctx).Error("render sheet table", "sheet", sheet, "error", err)
	}
}
