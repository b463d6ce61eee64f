package skill

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/quizrun/backend/internal/models"
)

// StreakSource provides the persisted streak state for the profile view.
type StreakSource interface {
	Get(ctx context.Context, userID string) (models.StreakState, error)
}

type Handler struct {
	service *Service
	streaks StreakSource
}

func NewHandler(service *Service, streaks StreakSource) *Handler {
	return &Handler{service: service, streaks: streaks}
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(string)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	mu, err := h.service.CurrentMu(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load profile"})
		return
	}

	streak, err := h.streaks.Get(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load profile"})
		return
	}

	topics, err := h.service.ListTopicPreferences(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load profile"})
		return
	}
	if topics == nil {
		topics = []models.TopicPreference{}
	}

	writeJSON(w, http.StatusOK, models.ProfileResponse{
		Mu:               mu,
		TargetDifficulty: TargetDifficulty(mu),
		Streak:           streak,
		Topics:           topics,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
