package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"spaceweather-backend/internal/models"
	"spaceweather-backend/internal/services"
)

type sessionStore interface {
	Create() *services.Session
	Get(id uuid.UUID) (*services.Session, error)
	Delete(id uuid.UUID) error
}

type messageSubmitter interface {
	Submit(ctx context.Context, s *services.Session, text string) (*models.TurnOutcome, error)
}

// sessionCloser is notified when a session ends so open streams can be dropped.
type sessionCloser interface {
	CloseSession(id uuid.UUID)
}

type ChatHandler struct {
	store      sessionStore
	controller messageSubmitter
	closer     sessionCloser
	ui         models.UIStrings
}

func NewChatHandler(store sessionStore, controller messageSubmitter, closer sessionCloser, ui models.UIStrings) *ChatHandler {
	return &ChatHandler{
		store:      store,
		controller: controller,
		closer:     closer,
		ui:         ui,
	}
}

func (h *ChatHandler) Meta(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ui)
}

func (h *ChatHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	session := h.store.Create()
	writeJSON(w, http.StatusCreated, session.Snapshot())
}

func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (h *ChatHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return
	}

	if err := h.store.Delete(sessionID); err != nil {
		handleServiceError(w, r, err)
		return
	}
	if h.closer != nil {
		h.closer.CloseSession(sessionID)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Session ended"})
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	outcome, err := h.controller.Submit(r.Context(), session, req.Message)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{
		Outcome: outcome,
		Session: session.Snapshot(),
	})
}

func (h *ChatHandler) loadSession(w http.ResponseWriter, r *http.Request) (*services.Session, bool) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return nil, false
	}

	session, err := h.store.Get(sessionID)
	if err != nil {
		handleServiceError(w, r, err)
		return nil, false
	}
	return session, true
}
