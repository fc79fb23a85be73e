package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ppiankov/veracity/internal/detect"
	"github.com/ppiankov/veracity/internal/llm"
	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/pipeline"
	"github.com/ppiankov/veracity/internal/refsource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	pages map[string]*refsource.Page
}

func (f *fakeSource) Lookup(_ context.Context, title string) (*refsource.Page, error) {
	if page, ok := f.pages[title]; ok {
		return page, nil
	}
	return &refsource.Page{Exists: false}, nil
}

func newTestServer(responses ...string) *Server {
	source := &fakeSource{pages: map[string]*refsource.Page{
		"Tokyo": {
			Exists:   true,
			Title:    "Tokyo",
			FullText: "Tokyo is the capital of Japan with a population of 14 million people.",
			URL:      "https://en.wikipedia.org/wiki/Tokyo",
		},
	}}

	pipe := pipeline.NewFromConfig(model.DefaultConfig(), source, detect.NewSessionStore(), nil)
	provider := &llm.MockProvider{Responses: responses}

	return NewServer(provider, pipe, pipe.Detector(), time.Hour, nil)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	server := newTestServer()

	rec := doJSON(t, server.Handler(), http.MethodGet, "/healthz", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "mock", body["provider"])
}

func TestChatRequiresMessage(t *testing.T) {
	server := newTestServer()

	rec := doJSON(t, server.Handler(), http.MethodPost, "/chat", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString("{not json"))
	rec2 := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusBadRequest, rec2.Code)
}

func TestChatAssignsSessionAndChecksResponse(t *testing.T) {
	server := newTestServer("Tokyo has a population of 14 million people.")

	rec := doJSON(t, server.Handler(), http.MethodPost, "/chat", map[string]string{
		"message": "Tell me about Tokyo",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result model.TurnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.NotEmpty(t, result.SessionID, "server must mint a session id")
	assert.Equal(t, "Tokyo has a population of 14 million people.", result.Response)
	assert.NotEmpty(t, result.Claims)
	assert.Equal(t, model.LevelHigh, result.Report.Level)
	assert.Empty(t, result.Contradictions)
}

func TestChatDetectsContradictionAcrossTurns(t *testing.T) {
	server := newTestServer(
		"Tokyo has a population of 14 million people.",
		"Tokyo has a population of 38 million people.",
	)
	handler := server.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/chat", map[string]string{
		"message": "Tell me about Tokyo",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var first model.TurnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	require.Empty(t, first.Contradictions)

	rec = doJSON(t, handler, http.MethodPost, "/chat", map[string]string{
		"message":    "How many people live there?",
		"session_id": first.SessionID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var second model.TurnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))

	assert.Len(t, second.Contradictions, 1)
	assert.Equal(t, model.LevelLow, second.Report.Level)
	assert.Equal(t, "⚠️  1 contradiction(s) detected in conversation", second.Report.Summary)
}

func TestHistory(t *testing.T) {
	server := newTestServer("Tokyo has a population of 14 million people.")
	handler := server.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/chat", map[string]string{
		"message": "Tell me about Tokyo",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result model.TurnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	rec = doJSON(t, handler, http.MethodGet, "/history/"+result.SessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var history historyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))

	assert.Equal(t, result.SessionID, history.SessionID)
	require.Len(t, history.History, 2)
	assert.Equal(t, llm.RoleUser, history.History[0].Role)
	assert.Equal(t, "Tell me about Tokyo", history.History[0].Content)
	assert.Equal(t, llm.RoleAssistant, history.History[1].Role)
	assert.Equal(t, len(result.Claims), history.TrackedClaims)
}

func TestHistoryUnknownSession(t *testing.T) {
	server := newTestServer()

	rec := doJSON(t, server.Handler(), http.MethodGet, "/history/no-such-session", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSessionClearsBothStores(t *testing.T) {
	server := newTestServer(
		"Tokyo has a population of 14 million people.",
		"Tokyo has a population of 38 million people.",
	)
	handler := server.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/chat", map[string]string{
		"message": "Tell me about Tokyo",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var first model.TurnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	rec = doJSON(t, handler, http.MethodDelete, "/session/"+first.SessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Conversation history is gone
	rec = doJSON(t, handler, http.MethodGet, "/history/"+first.SessionID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Claim history is gone too: the divergent follow-up no longer conflicts
	rec = doJSON(t, handler, http.MethodPost, "/chat", map[string]string{
		"message":    "How many people live there?",
		"session_id": first.SessionID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var second model.TurnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Empty(t, second.Contradictions)
}

func TestDeleteSessionIsIdempotent(t *testing.T) {
	server := newTestServer()

	rec := doJSON(t, server.Handler(), http.MethodDelete, "/session/never-existed", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
