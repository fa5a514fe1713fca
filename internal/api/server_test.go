package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/ligjet/internal/config"
	"github.com/dgallion1/ligjet/internal/lawdoc"
	"github.com/dgallion1/ligjet/internal/library"
	"github.com/dgallion1/ligjet/internal/locale"
	"github.com/dgallion1/ligjet/internal/mock"
	"github.com/dgallion1/ligjet/internal/relay"
)

func testConfig(apiKey string) config.Config {
	return config.Config{
		APIKey:         apiKey,
		MaxUploadBytes: 1 << 20,
		CORSOrigins:    []string{"*"},
		Tuning: config.Tuning{
			Segment: config.SegmentTuning{ChunkSize: 10},
			Rank:    config.RankTuning{Budget: 3500, Top: 3},
			Locale:  "en",
		},
	}
}

// newTestServer builds a server holding one law. A nil gen leaves the
// generation endpoints unconfigured.
func newTestServer(t *testing.T, gen relay.Generator, apiKey string) (*Server, *library.Store) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(apiKey)

	store := library.NewStore()
	loader := library.NewLoader(store, cfg.Tuning.SegmentConfig(), 1, log)
	store.Put(library.Build("kodi-rrugor", &lawdoc.RawDocument{
		Title: "Kodi Rrugor",
		Paragraphs: []string{
			"Hyrje e ligjit",
			"Neni 1",
			"Shpejtësia maksimale në qytet është 50 km/h.",
			"Neni 2",
			"Gjoba për tejkalim të shpejtësisë është 100 euro.",
			"Neni 3",
			"Parkimi ndalohet në trotuar.",
		},
	}, cfg.Tuning.SegmentConfig()))

	var rl *relay.Relay
	if gen != nil {
		rl = relay.New(gen, cfg.Tuning.Labels(), time.Second, log)
	}
	return NewServer(store, loader, rl, log, cfg), store
}

func do(t *testing.T, h http.Handler, method, path string, body io.Reader, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func echoGenerator(seen *string) *mock.Generator {
	return &mock.Generator{
		GenerateFn: func(_ context.Context, prompt string) (string, error) {
			*seen = prompt
			return "answer", nil
		},
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, nil, "")
	rec := do(t, srv, http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 1, body["laws"])
}

func TestListLaws(t *testing.T) {
	srv, _ := newTestServer(t, nil, "")
	rec := do(t, srv, http.MethodGet, "/api/laws", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Laws []library.Summary `json:"laws"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Laws, 1)
	assert.Equal(t, "kodi-rrugor", out.Laws[0].Slug)
	assert.Equal(t, 7, out.Laws[0].Paragraphs)
	assert.Equal(t, 4, out.Laws[0].Articles)
}

func TestGetLaw_Filter(t *testing.T) {
	srv, _ := newTestServer(t, nil, "")
	rec := do(t, srv, http.MethodGet, "/api/laws/kodi-rrugor?q=PARKIMI", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Title      string           `json:"title"`
		Paragraphs int              `json:"paragraphs"`
		Articles   int              `json:"articles"`
		Shown      int              `json:"shown"`
		Items      []lawdoc.Article `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Kodi Rrugor", out.Title)
	assert.Equal(t, 7, out.Paragraphs)
	assert.Equal(t, 4, out.Articles)
	assert.Equal(t, 1, out.Shown)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "neni-3", out.Items[0].ID)
}

func TestGetLaw_NoFilterShowsAll(t *testing.T) {
	srv, _ := newTestServer(t, nil, "")
	rec := do(t, srv, http.MethodGet, "/api/laws/kodi-rrugor", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 4, decode(t, rec)["shown"])
}

func TestGetLaw_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, nil, "")
	rec := do(t, srv, http.MethodGet, "/api/laws/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "nope")
}

func TestContext_RanksWithoutGenerating(t *testing.T) {
	srv, _ := newTestServer(t, nil, "")
	rec := do(t, srv, http.MethodPost, "/api/laws/kodi-rrugor/context",
		strings.NewReader(`{"question":"gjoba"}`), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Context  string          `json:"context"`
		Articles []rankedArticle `json:"articles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Articles, 1)
	assert.Equal(t, rankedArticle{ID: "neni-2", Title: "Neni 2", Score: 6}, out.Articles[0])
	assert.True(t, strings.HasPrefix(out.Context, locale.English.SystemPrompt))
	assert.Contains(t, out.Context, "Title: Kodi Rrugor\nSlug: kodi-rrugor\n\n")
	assert.Contains(t, out.Context, "=== Neni 2 ===")
	assert.NotContains(t, out.Context, "Parkimi")
}

func TestContext_NoMatchUsesFallback(t *testing.T) {
	srv, _ := newTestServer(t, nil, "")
	rec := do(t, srv, http.MethodPost, "/api/laws/kodi-rrugor/context",
		strings.NewReader(`{"question":"tatimi"}`), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.True(t, strings.HasSuffix(body["context"].(string), locale.English.NoMatch))
	assert.Empty(t, body["articles"])
}

func TestAsk(t *testing.T) {
	var prompt string
	srv, _ := newTestServer(t, echoGenerator(&prompt), "")

	rec := do(t, srv, http.MethodPost, "/api/laws/kodi-rrugor/ask",
		strings.NewReader(`{"question":"  gjoba "}`), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Text     string   `json:"text"`
		Articles []string `json:"articles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "answer", out.Text)
	assert.Equal(t, []string{"neni-2"}, out.Articles)
	assert.True(t, strings.HasSuffix(prompt, "\n\nQuestion: gjoba"))
	assert.Contains(t, prompt, "100 euro")
}

func TestAsk_BadRequests(t *testing.T) {
	var prompt string
	srv, _ := newTestServer(t, echoGenerator(&prompt), "")

	tests := []struct {
		name string
		path string
		body string
		code int
	}{
		{"invalid json", "/api/laws/kodi-rrugor/ask", `{"question":`, http.StatusBadRequest},
		{"empty question", "/api/laws/kodi-rrugor/ask", `{"question":"   "}`, http.StatusBadRequest},
		{"empty body", "/api/laws/kodi-rrugor/ask", ``, http.StatusBadRequest},
		{"unknown law", "/api/laws/nope/ask", `{"question":"x"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, tt.path, strings.NewReader(tt.body), nil)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
	assert.Empty(t, prompt)
}

func TestAsk_NoGenerator(t *testing.T) {
	srv, _ := newTestServer(t, nil, "")
	rec := do(t, srv, http.MethodPost, "/api/laws/kodi-rrugor/ask", strings.NewReader(`{"question":"x"}`), nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestChat_PassThrough(t *testing.T) {
	var prompt string
	srv, _ := newTestServer(t, echoGenerator(&prompt), "")

	rec := do(t, srv, http.MethodPost, "/chat",
		strings.NewReader(`{"message":"Sa është gjoba?","context":"CTX"}`), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "answer", decode(t, rec)["text"])
	assert.Equal(t, "CTX\n\nQuestion: Sa është gjoba?", prompt)
}

func TestChat_EmptyAnswer(t *testing.T) {
	gen := &mock.Generator{
		GenerateFn: func(context.Context, string) (string, error) { return "", nil },
	}
	srv, _ := newTestServer(t, gen, "")

	rec := do(t, srv, http.MethodPost, "/chat", strings.NewReader(`{"message":"q"}`), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, locale.English.NoAnswer, decode(t, rec)["text"])
}

func TestChat_GeneratorFailure(t *testing.T) {
	gen := &mock.Generator{
		GenerateFn: func(context.Context, string) (string, error) {
			return "", errors.New("dial tcp: connection refused")
		},
	}
	srv, _ := newTestServer(t, gen, "")

	rec := do(t, srv, http.MethodPost, "/chat", strings.NewReader(`{"message":"q","context":""}`), nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, locale.English.Unreachable, decode(t, rec)["error"])
}

func TestChat_EmptyMessage(t *testing.T) {
	var prompt string
	srv, _ := newTestServer(t, echoGenerator(&prompt), "")

	rec := do(t, srv, http.MethodPost, "/chat", strings.NewReader(`{"message":"  "}`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, prompt)
}

func TestChat_InvalidJSON(t *testing.T) {
	var prompt string
	srv, _ := newTestServer(t, echoGenerator(&prompt), "")

	rec := do(t, srv, http.MethodPost, "/chat", strings.NewReader(`not json`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLLMStats(t *testing.T) {
	var prompt string
	srv, _ := newTestServer(t, echoGenerator(&prompt), "")
	do(t, srv, http.MethodPost, "/chat", strings.NewReader(`{"message":"q"}`), nil)

	rec := do(t, srv, http.MethodGet, "/api/stats/llm", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Model string              `json:"model"`
		Stats relay.StatsSnapshot `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "mock", out.Model)
	assert.Equal(t, 1, out.Stats.Count)
}

func TestLLMStats_Unavailable(t *testing.T) {
	srv, _ := newTestServer(t, nil, "")
	rec := do(t, srv, http.MethodGet, "/api/stats/llm", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func multipartBody(t *testing.T, filename, content string, fields map[string]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadLaw(t *testing.T) {
	srv, store := newTestServer(t, nil, "secret")
	content := `{"title":"Ligji për Punën","paragraphs":["Neni 1","Puna është e lirë."]}`

	body, ct := multipartBody(t, "../../ligji-punes.json", content, map[string]string{"slug": "Ligji i Punës"})
	rec := do(t, srv, http.MethodPost, "/api/laws", body, map[string]string{
		"Content-Type":  ct,
		"Authorization": "Bearer secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out struct {
		Law     library.Summary `json:"law"`
		Changed bool            `json:"changed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Changed)
	assert.Equal(t, "ligji-i-punes", out.Law.Slug)
	assert.Equal(t, "ligji-punes.json", out.Law.Source)
	assert.NotNil(t, store.Get("ligji-i-punes"))

	body, ct = multipartBody(t, "ligji-punes.json", content, map[string]string{"slug": "ligji-i-punes"})
	rec = do(t, srv, http.MethodPost, "/api/laws", body, map[string]string{
		"Content-Type":  ct,
		"Authorization": "Bearer secret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["changed"])
}

func TestUploadLaw_Rejections(t *testing.T) {
	srv, _ := newTestServer(t, nil, "secret")

	body, ct := multipartBody(t, "law.xls", "x", nil)
	rec := do(t, srv, http.MethodPost, "/api/laws", body, map[string]string{
		"Content-Type": ct, "Authorization": "Bearer secret",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body, ct = multipartBody(t, "broken.json", `{"title":`, nil)
	rec = do(t, srv, http.MethodPost, "/api/laws", body, map[string]string{
		"Content-Type": ct, "Authorization": "Bearer secret",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/laws", strings.NewReader("plain"), map[string]string{
		"Content-Type": "text/plain", "Authorization": "Bearer secret",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadLaw_TooLarge(t *testing.T) {
	srv, _ := newTestServer(t, nil, "secret")
	limit := int(testConfig("").MaxUploadBytes)

	tests := []struct {
		name string
		size int
	}{
		{"just over the file limit", limit + 100},
		{"over the request limit", limit + 2<<20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, "big.txt", strings.Repeat("a", tt.size), nil)
			rec := do(t, srv, http.MethodPost, "/api/laws", body, map[string]string{
				"Content-Type": ct, "Authorization": "Bearer secret",
			})
			assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
		})
	}
}

func TestAdminAuth(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		header map[string]string
		code   int
	}{
		{"disabled without key", "", map[string]string{"Authorization": "Bearer x"}, http.StatusForbidden},
		{"missing header", "secret", nil, http.StatusUnauthorized},
		{"wrong key", "secret", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, store := newTestServer(t, nil, tt.apiKey)
			rec := do(t, srv, http.MethodDelete, "/api/laws/kodi-rrugor", nil, tt.header)
			assert.Equal(t, tt.code, rec.Code)
			assert.NotNil(t, store.Get("kodi-rrugor"))
		})
	}
}

func TestDeleteLaw(t *testing.T) {
	srv, store := newTestServer(t, nil, "secret")
	auth := map[string]string{"Authorization": "Bearer secret"}

	rec := do(t, srv, http.MethodDelete, "/api/laws/kodi-rrugor", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "kodi-rrugor", decode(t, rec)["deleted"])
	assert.Nil(t, store.Get("kodi-rrugor"))

	rec = do(t, srv, http.MethodDelete, "/api/laws/kodi-rrugor", nil, auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, nil, "")
	rec := do(t, srv, http.MethodOptions, "/chat", nil, map[string]string{
		"Origin":                        "http://localhost:8081",
		"Access-Control-Request-Method": http.MethodPost,
	})
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"law.json", "law.json"},
		{"../../etc/passwd.txt", "passwd.txt"},
		{`C:\laws\kodi.pdf`, "kodi.pdf"},
		{"a..b.txt", "a_b.txt"},
		{"", "unnamed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}
}
