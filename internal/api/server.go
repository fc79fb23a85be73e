package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/ppiankov/veracity/internal/detect"
	"github.com/ppiankov/veracity/internal/llm"
	"github.com/ppiankov/veracity/internal/pipeline"
	"go.uber.org/zap"
)

// Server exposes the checking pipeline over HTTP. It owns the conversation
// store and shares the session store with the detector so deleting a
// session clears both histories together.
type Server struct {
	router        *chi.Mux
	provider      llm.Provider
	pipeline      *pipeline.Pipeline
	detector      *detect.Detector
	conversations *ConversationStore
	logger        *zap.Logger
}

// NewServer wires the router and handlers
func NewServer(provider llm.Provider, pipe *pipeline.Pipeline, detector *detect.Detector, sessionTTL time.Duration, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		router:        chi.NewRouter(),
		provider:      provider,
		pipeline:      pipe,
		detector:      detector,
		conversations: NewConversationStore(sessionTTL),
		logger:        logger,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(requestLogger(logger))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/chat", s.handleChat)
	s.router.Get("/history/{sessionID}", s.handleHistory)
	s.router.Delete("/session/{sessionID}", s.handleDeleteSession)

	return s
}

// Handler returns the root http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type historyResponse struct {
	SessionID     string        `json:"session_id"`
	History       []llm.Message `json:"history"`
	TrackedClaims int           `json:"tracked_claims"`
}

// handleChat generates a response for the message and runs it through the
// checking pipeline. A generation failure is a single user-visible error:
// nothing is committed to either history.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	history, _ := s.conversations.History(sessionID)

	responseText, err := s.provider.Generate(r.Context(), history, req.Message)
	if err != nil {
		s.logger.Error("generation failed",
			zap.String("session", sessionID),
			zap.Error(err))
		writeError(w, http.StatusBadGateway, "generation failed: "+err.Error())
		return
	}

	s.conversations.Append(sessionID,
		llm.Message{Role: llm.RoleUser, Content: req.Message},
		llm.Message{Role: llm.RoleAssistant, Content: responseText},
	)

	result := s.pipeline.ProcessTurn(r.Context(), sessionID, responseText)

	s.logger.Info("turn processed",
		zap.String("session", sessionID),
		zap.Int("claims", len(result.Claims)),
		zap.Int("contradictions", len(result.Contradictions)),
		zap.String("confidence", string(result.Report.Level)))

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	history, ok := s.conversations.History(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{
		SessionID:     sessionID,
		History:       history,
		TrackedClaims: s.detector.SessionClaimCount(sessionID),
	})
}

// handleDeleteSession clears the conversation and the detector's claim
// history for the session as one operation
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	s.conversations.Delete(sessionID)
	s.detector.Clear(sessionID)

	s.logger.Info("session cleared", zap.String("session", sessionID))
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "session " + sessionID + " cleared",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"provider": s.provider.Name(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
