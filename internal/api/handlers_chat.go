package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dgallion1/ligjet/internal/rank"
	"github.com/dgallion1/ligjet/internal/relay"
)

type chatRequest struct {
	Message string `json:"message"`
	Context string `json:"context"`
}

type questionRequest struct {
	Question string `json:"question"`
}

type rankedArticle struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Score int    `json:"score"`
}

// handleChat forwards a message and a caller-built context unchanged.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.relay == nil {
		jsonError(w, "generation unavailable", http.StatusServiceUnavailable)
		return
	}

	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, "invalid json body", http.StatusBadRequest)
		return
	}

	text, ok := s.generate(w, r, req.Message, req.Context)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

// handleContext shows the framed context a question would be sent with.
func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	law := s.lawFromPath(w, r)
	if law == nil {
		return
	}
	question, ok := s.readQuestion(w, r)
	if !ok {
		return
	}

	selected := rank.Select(law.Articles, question, s.rankCfg)
	framed := relay.FrameContext(s.labels, law.Title, law.Slug, rank.Context(selected, s.rankCfg))

	out := make([]rankedArticle, 0, len(selected))
	for _, sc := range selected {
		out = append(out, rankedArticle{ID: sc.Article.ID, Title: sc.Article.Title, Score: sc.Score})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"context":  framed,
		"articles": out,
	})
}

// handleAsk ranks the law's articles for the question and asks the model.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if s.relay == nil {
		jsonError(w, "generation unavailable", http.StatusServiceUnavailable)
		return
	}
	law := s.lawFromPath(w, r)
	if law == nil {
		return
	}
	question, ok := s.readQuestion(w, r)
	if !ok {
		return
	}

	selected := rank.Select(law.Articles, question, s.rankCfg)
	framed := relay.FrameContext(s.labels, law.Title, law.Slug, rank.Context(selected, s.rankCfg))

	text, ok := s.generate(w, r, question, framed)
	if !ok {
		return
	}

	ids := make([]string, 0, len(selected))
	for _, sc := range selected {
		ids = append(ids, sc.Article.ID)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"text":     text,
		"articles": ids,
	})
}

func (s *Server) readQuestion(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req questionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, "invalid json body", http.StatusBadRequest)
		return "", false
	}
	q := strings.TrimSpace(req.Question)
	if q == "" {
		jsonError(w, "question required", http.StatusBadRequest)
		return "", false
	}
	return q, true
}

// generate runs the relay and writes the error response on failure.
func (s *Server) generate(w http.ResponseWriter, r *http.Request, message, contextText string) (string, bool) {
	text, err := s.relay.Chat(r.Context(), message, contextText)
	switch {
	case errors.Is(err, relay.ErrEmptyMessage):
		jsonError(w, err.Error(), http.StatusBadRequest)
		return "", false
	case err != nil:
		jsonError(w, s.labels.Unreachable, http.StatusBadGateway)
		return "", false
	}
	return text, true
}
