package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/ligjet/internal/lawdoc"
	"github.com/dgallion1/ligjet/internal/library"
	"github.com/dgallion1/ligjet/internal/parser"
)

func (s *Server) handleListLaws(w http.ResponseWriter, r *http.Request) {
	laws := s.laws.List()
	out := make([]library.Summary, 0, len(laws))
	for _, l := range laws {
		out = append(out, l.Summary())
	}
	writeJSON(w, http.StatusOK, map[string]any{"laws": out})
}

// handleGetLaw returns a law's articles, narrowed by the optional q filter.
func (s *Server) handleGetLaw(w http.ResponseWriter, r *http.Request) {
	law := s.lawFromPath(w, r)
	if law == nil {
		return
	}

	q := r.URL.Query().Get("q")
	items := lawdoc.Filter(law.Articles, q)
	if items == nil {
		items = []lawdoc.Article{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"slug":       law.Slug,
		"title":      law.Title,
		"paragraphs": len(law.Paragraphs),
		"articles":   len(law.Articles),
		"shown":      len(items),
		"query":      q,
		"items":      items,
	})
}

func (s *Server) handleUploadLaw(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	law, changed, err := s.loader.Load(bytes.NewReader(data), filename, r.FormValue("slug"), r.FormValue("title"))
	switch {
	case errors.Is(err, library.ErrNoSlug):
		jsonError(w, "slug is required for this filename", http.StatusBadRequest)
		return
	case err != nil:
		s.log.Warn("upload rejected", "filename", filename, "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	code := http.StatusOK
	if changed {
		code = http.StatusCreated
		s.log.Info("law uploaded", "slug", law.Slug, "articles", len(law.Articles))
	}
	writeJSON(w, code, map[string]any{
		"law":     law.Summary(),
		"changed": changed,
	})
}

func (s *Server) handleDeleteLaw(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !s.laws.Delete(slug) {
		jsonError(w, "law not found: "+slug, http.StatusNotFound)
		return
	}
	s.log.Info("law deleted", "slug", slug)
	writeJSON(w, http.StatusOK, map[string]any{"deleted": slug})
}
