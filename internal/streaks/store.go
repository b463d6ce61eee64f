package streaks

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

// Get returns the user's streak state, defaulting to zeros when no row
// exists yet.
func (s *Store) Get(ctx context.Context, userID string) (models.StreakState, error) {
	var st models.StreakState
	err := s.db.QueryRowContext(ctx,
		`SELECT current_streak, best_streak FROM streak_state WHERE user_id = $1`,
		userID,
	).Scan(&st.Current, &st.Best)
	if err == sql.ErrNoRows {
		return models.StreakState{}, nil
	}
	if err != nil {
		return models.StreakState{}, fmt.Errorf("get streak: %w", err)
	}
	return st, nil
}
