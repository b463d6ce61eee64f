package sessions

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/quizrun/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, userID string, mode models.SessionMode) (*models.Session, error) {
	var session models.Session
	session.UserID = userID
	session.Mode = mode

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO run_session (user_id, mode)
		VALUES ($1, $2)
		RETURNING id, started_at`,
		userID, mode,
	).Scan(&session.ID, &session.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &session, nil
}

// GetByID returns (nil, nil) when no session exists with the given id.
func (s *Store) GetByID(ctx context.Context, sessionID string) (*models.Session, error) {
	var session models.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, mode, started_at, ended_at, score, max_streak
		FROM run_session
		WHERE id = $1`,
		sessionID,
	).Scan(&session.ID, &session.UserID, &session.Mode, &session.StartedAt,
		&session.EndedAt, &session.Score, &session.MaxStreak)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &session, nil
}

func (s *Store) ListByUser(ctx context.Context, userID string, limit int) ([]models.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, mode, started_at, ended_at, score, max_streak
		FROM run_session
		WHERE user_id = $1
		ORDER BY started_at DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var session models.Session
		if err := rows.Scan(&session.ID, &session.UserID, &session.Mode,
			&session.StartedAt, &session.EndedAt, &session.Score, &session.MaxStreak); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// FinishParams carries everything persisted when a session closes.
type FinishParams struct {
	SessionID string
	UserID    string
	Score     int
	MaxStreak int
	NewMu     float64
	NewStreak models.StreakState
	Results   []models.QuestionResult
}

// Finish closes the session and persists the derived state in one
// transaction. A session can only be finished once; the ended_at guard
// makes concurrent finish calls lose cleanly.
func (s *Store) Finish(ctx context.Context, p FinishParams) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin finish tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE run_session
		SET ended_at = NOW(), score = $1, max_streak = $2
		WHERE id = $3 AND ended_at IS NULL`,
		p.Score, p.MaxStreak, p.SessionID,
	)
	if err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("close session rows: %w", err)
	}
	if affected == 0 {
		return ErrSessionFinished
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_skill (user_id, mu, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET mu = $2, updated_at = NOW()`,
		p.UserID, p.NewMu,
	)
	if err != nil {
		return fmt.Errorf("update skill: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO streak_state (user_id, current_streak, best_streak, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE SET current_streak = $2, best_streak = $3, updated_at = NOW()`,
		p.UserID, p.NewStreak.Current, p.NewStreak.Best,
	)
	if err != nil {
		return fmt.Errorf("update streak: %w", err)
	}

	for _, r := range p.Results {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO user_answer (user_id, question_id, correct, time_ms, answered_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (user_id, question_id) DO UPDATE SET correct = $3, time_ms = $4, answered_at = NOW()`,
			p.UserID, r.QuestionID, r.Correct, r.TimeMs,
		)
		if err != nil {
			// A foreign key violation means the submitted question id
			// does not exist in the pool.
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				return fmt.Errorf("%w: %s", ErrQuestionNotFound, r.QuestionID)
			}
			return fmt.Errorf("record answer %s: %w", r.QuestionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit finish tx: %w", err)
	}
	return nil
}
