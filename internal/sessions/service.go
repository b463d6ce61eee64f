package sessions

import (
	"context"
	"fmt"
	"log"

	"github.com/quizrun/backend/internal/models"
	"github.com/quizrun/backend/internal/scoring"
	"github.com/quizrun/backend/internal/skill"
	"github.com/quizrun/backend/internal/streaks"
)

type SessionStore interface {
	Create(ctx context.Context, userID string, mode models.SessionMode) (*models.Session, error)
	GetByID(ctx context.Context, sessionID string) (*models.Session, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Session, error)
	Finish(ctx context.Context, p FinishParams) error
}

type SkillReader interface {
	CurrentMu(ctx context.Context, userID string) (float64, error)
}

type StreakReader interface {
	Get(ctx context.Context, userID string) (models.StreakState, error)
}

type TopicUpdater interface {
	UpdateTopicPreferences(ctx context.Context, userID string, results []models.QuestionResult) error
}

type SeenMarker interface {
	AddAll(ctx context.Context, userID string, questionIDs []string) error
}

type Service struct {
	store      SessionStore
	skills     SkillReader
	streakSrc  StreakReader
	topics     TopicUpdater
	seenMarker SeenMarker
}

func NewService(store SessionStore, skills SkillReader, streakSrc StreakReader, topics TopicUpdater, seenMarker SeenMarker) *Service {
	return &Service{
		store:      store,
		skills:     skills,
		streakSrc:  streakSrc,
		topics:     topics,
		seenMarker: seenMarker,
	}
}

// Start opens a new session. An unrecognized mode falls back to run
// rather than failing the request.
func (s *Service) Start(ctx context.Context, userID string, mode models.SessionMode) (*models.Session, error) {
	if !models.ValidSessionModes[mode] {
		mode = models.ModeRun
	}
	return s.store.Create(ctx, userID, mode)
}

func (s *Service) ListSessions(ctx context.Context, userID string, limit int) ([]models.Session, error) {
	return s.store.ListByUser(ctx, userID, limit)
}

// Finish closes a session, derives the score, streak, and rating from
// the reported results, and persists everything atomically. The score
// and max streak are computed server-side; clients only report what
// they answered.
func (s *Service) Finish(ctx context.Context, userID string, req models.FinishSessionRequest) (*models.FinishSessionResponse, error) {
	session, err := s.store.GetByID(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.UserID != userID {
		return nil, ErrNotSessionOwner
	}
	if session.EndedAt != nil {
		return nil, ErrSessionFinished
	}

	if err := validateResults(req.Results); err != nil {
		return nil, err
	}
	clampResultDifficulties(req.Results)

	mu, err := s.skills.CurrentMu(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load skill: %w", err)
	}
	newMu := skill.FoldResults(mu, req.Results)

	persisted, err := s.streakSrc.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load streak: %w", err)
	}
	sessionMax := streaks.SessionMax(req.Results)
	newStreak := streaks.FoldBest(persisted, sessionMax)

	score := scoring.TotalScore(req.Results)

	err = s.store.Finish(ctx, FinishParams{
		SessionID: req.SessionID,
		UserID:    userID,
		Score:     score,
		MaxStreak: sessionMax,
		NewMu:     newMu,
		NewStreak: newStreak,
		Results:   req.Results,
	})
	if err != nil {
		return nil, err
	}

	// Auxiliary state. Neither failure invalidates the finished session.
	if len(req.Results) > 0 {
		ids := make([]string, len(req.Results))
		for i, r := range req.Results {
			ids[i] = r.QuestionID
		}
		if err := s.seenMarker.AddAll(ctx, userID, ids); err != nil {
			log.Printf("WARN: marking questions seen for user %s: %v", userID, err)
		}
		if err := s.topics.UpdateTopicPreferences(ctx, userID, req.Results); err != nil {
			log.Printf("WARN: updating topic preferences for user %s: %v", userID, err)
		}
	}

	return &models.FinishSessionResponse{
		NewMu:      newMu,
		Score:      score,
		MaxStreak:  sessionMax,
		BestStreak: newStreak.Best,
	}, nil
}

// validateResults rejects structurally broken result entries. An empty
// result list is a valid abandoned session.
func validateResults(results []models.QuestionResult) error {
	for i, r := range results {
		if r.QuestionID == "" {
			return fmt.Errorf("%w: result %d missing questionId", ErrInvalidResults, i)
		}
		if r.SelectedIndex < 0 || r.SelectedIndex > 3 {
			return fmt.Errorf("%w: result %d selectedIndex %d out of range", ErrInvalidResults, i, r.SelectedIndex)
		}
		if r.TimeMs != nil && *r.TimeMs < 0 {
			return fmt.Errorf("%w: result %d negative timeMs", ErrInvalidResults, i)
		}
	}
	return nil
}

func clampResultDifficulties(results []models.QuestionResult) {
	for i := range results {
		if results[i].Difficulty < models.MinDifficulty {
			results[i].Difficulty = models.MinDifficulty
		}
		if results[i].Difficulty > models.MaxDifficulty {
			results[i].Difficulty = models.MaxDifficulty
		}
	}
}
