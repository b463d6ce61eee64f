package questions

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quizrun/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// CandidateFilter narrows a candidate fetch to one language, category
// and difficulty window.
type CandidateFilter struct {
	Lang          models.Language
	Category      models.Category
	MinDifficulty int
	MaxDifficulty int
	Limit         int
}

// FindCandidates fetches servable questions ordered easiest-first, newest
// within each difficulty.
func (s *Store) FindCandidates(ctx context.Context, f CandidateFilter) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT qb.id, qt.prompt, qt.options, qt.correct_idx,
		        qb.difficulty, qb.category, qt.lang, qb.created_at
		 FROM question_base qb
		 JOIN question_translation qt ON qt.question_id = qb.id
		 WHERE qt.lang = $1 AND qb.category = $2
		   AND qb.difficulty BETWEEN $3 AND $4
		 ORDER BY qb.difficulty ASC, qb.created_at DESC
		 LIMIT $5`,
		f.Lang, f.Category, f.MinDifficulty, f.MaxDifficulty, f.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		var optionsJSON []byte
		if err := rows.Scan(&q.ID, &q.Prompt, &optionsJSON, &q.CorrectIdx,
			&q.Difficulty, &q.Category, &q.Lang, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		if err := json.Unmarshal(optionsJSON, &q.Options); err != nil {
			return nil, fmt.Errorf("decode options for question %s: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// CountQuestions counts pool entries, optionally narrowed to one
// language and/or category. Empty filter values mean "any".
func (s *Store) CountQuestions(ctx context.Context, lang models.Language, category models.Category) (int, error) {
	query := `SELECT COUNT(DISTINCT qb.id) FROM question_base qb`
	var conds []string
	var args []interface{}

	if lang != "" {
		query += ` JOIN question_translation qt ON qt.question_id = qb.id`
		args = append(args, lang)
		conds = append(conds, fmt.Sprintf("qt.lang = $%d", len(args)))
	}
	if category != "" {
		args = append(args, category)
		conds = append(conds, fmt.Sprintf("qb.category = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return count, nil
}

func (s *Store) CountByCategory(ctx context.Context) (map[models.Category]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM question_base GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Category]int)
	for rows.Next() {
		var category models.Category
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts[category] = count
	}
	return counts, rows.Err()
}

// GeneratedItem is one generated question with all of its localizations,
// base language first.
type GeneratedItem struct {
	Category     models.Category
	Difficulty   int
	Translations []Translation
}

type Translation struct {
	Lang       models.Language
	Prompt     string
	Options    []string
	CorrectIdx int
}

// InsertBatch stores generated questions and their translations in a
// single transaction.
func (s *Store) InsertBatch(ctx context.Context, items []GeneratedItem) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, item := range items {
		var questionID string
		err := tx.QueryRowContext(ctx,
			`INSERT INTO question_base (category, difficulty)
			 VALUES ($1, $2) RETURNING id`,
			item.Category, item.Difficulty,
		).Scan(&questionID)
		if err != nil {
			return 0, fmt.Errorf("insert question: %w", err)
		}

		for _, tr := range item.Translations {
			optionsJSON, err := json.Marshal(tr.Options)
			if err != nil {
				return 0, fmt.Errorf("encode options: %w", err)
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO question_translation (question_id, lang, prompt, options, correct_idx)
				 VALUES ($1, $2, $3, $4, $5)`,
				questionID, tr.Lang, tr.Prompt, optionsJSON, tr.CorrectIdx,
			)
			if err != nil {
				return 0, fmt.Errorf("insert translation: %w", err)
			}
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit batch: %w", err)
	}
	return inserted, nil
}
