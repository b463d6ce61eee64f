package sessions

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/quizrun/backend/internal/models"
)

const sessionListLimit = 50

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func getUserID(r *http.Request) string {
	userID, _ := r.Context().Value("user_id").(string)
	return userID
}

// StartSession handles POST /api/v1/session/start
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req models.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	session, err := h.service.Start(r.Context(), userID, req.Mode)
	if err != nil {
		log.Printf("[sessions] start failed for user %s: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to start session"})
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// FinishSession handles POST /api/v1/session/finish
func (h *Handler) FinishSession(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req models.FinishSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "sessionId is required"})
		return
	}

	resp, err := h.service.Finish(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Session not found"})
		case errors.Is(err, ErrQuestionNotFound):
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Question not found"})
		case errors.Is(err, ErrNotSessionOwner):
			writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "Session belongs to another user"})
		case errors.Is(err, ErrSessionFinished):
			writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Session already finished"})
		case errors.Is(err, ErrInvalidResults):
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		default:
			log.Printf("[sessions] finish failed for user %s: %v", userID, err)
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to finish session"})
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListSessions handles GET /api/v1/sessions
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	sessions, err := h.service.ListSessions(r.Context(), userID, sessionListLimit)
	if err != nil {
		log.Printf("[sessions] list failed for user %s: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list sessions"})
		return
	}
	if sessions == nil {
		sessions = []models.Session{}
	}

	writeJSON(w, http.StatusOK, models.SessionListResponse{Sessions: sessions})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
