package skill

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quizrun/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetMu returns the user's rating, defaulting to InitialMu when the
// user has no skill row yet.
func (s *Store) GetMu(ctx context.Context, userID string) (float64, error) {
	var mu float64
	err := s.db.QueryRowContext(ctx,
		`SELECT mu FROM user_skill WHERE user_id = $1`, userID,
	).Scan(&mu)
	if err == sql.ErrNoRows {
		return InitialMu, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get skill: %w", err)
	}
	return mu, nil
}

func (s *Store) GetTopicWeights(ctx context.Context, userID string) (map[models.Category]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, weight FROM topic_pref WHERE user_id = $1`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get topic weights: %w", err)
	}
	defer rows.Close()

	weights := make(map[models.Category]float64)
	for rows.Next() {
		var cat models.Category
		var w float64
		if err := rows.Scan(&cat, &w); err != nil {
			return nil, fmt.Errorf("scan topic weight: %w", err)
		}
		weights[cat] = w
	}
	return weights, rows.Err()
}

func (s *Store) UpsertTopicWeight(ctx context.Context, userID string, category models.Category, weight float64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO topic_pref (user_id, category, weight)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, category)
		 DO UPDATE SET weight = $3, updated_at = NOW()`,
		userID, category, weight,
	)
	if err != nil {
		return fmt.Errorf("upsert topic weight: %w", err)
	}
	return nil
}

func (s *Store) ListTopicPreferences(ctx context.Context, userID string) ([]models.TopicPreference, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, weight FROM topic_pref
		 WHERE user_id = $1 ORDER BY weight DESC, category`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list topic prefs: %w", err)
	}
	defer rows.Close()

	var prefs []models.TopicPreference
	for rows.Next() {
		var p models.TopicPreference
		if err := rows.Scan(&p.Category, &p.Weight); err != nil {
			return nil, fmt.Errorf("scan topic pref: %w", err)
		}
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}
