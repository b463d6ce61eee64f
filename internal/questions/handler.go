package questions

import (
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/quizrun/backend/internal/models"
)

const (
	defaultQuestionCount = 10
	maxQuestionCount     = 50
	defaultRecentPerf    = 0.5
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// getUserID extracts the authenticated user ID from the request context.
func getUserID(r *http.Request) (string, bool) {
	uid, ok := r.Context().Value("user_id").(string)
	return uid, ok
}

func (h *Handler) GetNextQuestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	query := r.URL.Query()

	lang := models.Language(query.Get("lang"))
	if lang == "" {
		lang = models.LangEnglish
	}
	if !models.SupportedLanguages[lang] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Unsupported language"})
		return
	}

	category := models.Category(query.Get("cat"))
	if category == "" {
		category = models.CategoryGeneral
	}
	if !models.ValidCategories[category] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Unknown category"})
		return
	}

	count := intQueryParam(query, "n", defaultQuestionCount)
	if count < 1 {
		count = 1
	}
	if count > maxQuestionCount {
		count = maxQuestionCount
	}

	recentPerf := floatQueryParam(query, "recentPerf", defaultRecentPerf)
	if recentPerf < 0 {
		recentPerf = 0
	}
	if recentPerf > 1 {
		recentPerf = 1
	}

	questions, err := h.service.GetNextQuestions(r.Context(), NextQuestionsRequest{
		UserID:     userID,
		Lang:       lang,
		Category:   category,
		Count:      count,
		RecentPerf: recentPerf,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch questions"})
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}

	writeJSON(w, http.StatusOK, models.QuizNextResponse{
		Questions: questions,
		Count:     len(questions),
	})
}

func (h *Handler) GetQuestionCount(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lang := models.Language(query.Get("lang"))
	if lang != "" && !models.SupportedLanguages[lang] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Unsupported language"})
		return
	}
	category := models.Category(query.Get("cat"))
	if category != "" && !models.ValidCategories[category] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Unknown category"})
		return
	}

	total, err := h.service.CountQuestions(r.Context(), lang, category)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to count questions"})
		return
	}

	resp := models.QuestionCountResponse{Total: total}
	// The per-category breakdown only makes sense for the whole pool.
	if lang == "" && category == "" {
		byCategory, err := h.service.QuestionsByCategory(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to count questions"})
			return
		}
		resp.ByCategory = byCategory
	}
	writeJSON(w, http.StatusOK, resp)
}

// GenerateBatch is the admin trigger for on-demand generation, guarded
// by a shared key rather than user auth.
func (h *Handler) GenerateBatch(w http.ResponseWriter, r *http.Request) {
	adminKey := os.Getenv("ADMIN_KEY")
	if adminKey == "" || r.Header.Get("X-Admin-Key") != adminKey {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid admin key"})
		return
	}

	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Category == "" {
		req.Category = models.CategoryGeneral
	}
	if !models.ValidCategories[req.Category] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Unknown category"})
		return
	}

	resp, err := h.service.GenerateBatch(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Generation failed: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func intQueryParam(query url.Values, key string, fallback int) int {
	if v := query.Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func floatQueryParam(query url.Values, key string, fallback float64) float64 {
	if v := query.Get(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
