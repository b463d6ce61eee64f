package skill

import (
	"context"
	"fmt"

	"github.com/quizrun/backend/internal/models"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) CurrentMu(ctx context.Context, userID string) (float64, error) {
	return s.store.GetMu(ctx, userID)
}

func (s *Service) ListTopicPreferences(ctx context.Context, userID string) ([]models.TopicPreference, error) {
	return s.store.ListTopicPreferences(ctx, userID)
}

// UpdateTopicPreferences folds one finished session's per-category
// accuracy into the stored topic weights. Each category gets at most
// one adjustment per session.
func (s *Service) UpdateTopicPreferences(ctx context.Context, userID string, results []models.QuestionResult) error {
	acc := CategoryAccuracy(results)
	if len(acc) == 0 {
		return nil
	}

	weights, err := s.store.GetTopicWeights(ctx, userID)
	if err != nil {
		return err
	}

	for cat, a := range acc {
		next := ApplyTopicDelta(weights[cat], a)
		if err := s.store.UpsertTopicWeight(ctx, userID, cat, next); err != nil {
			return fmt.Errorf("update topic %s: %w", cat, err)
		}
	}
	return nil
}
