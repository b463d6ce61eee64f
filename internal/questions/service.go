package questions

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/quizrun/backend/internal/generator"
	"github.com/quizrun/backend/internal/models"
	"github.com/quizrun/backend/internal/skill"
)

// QuestionSource is the persistence surface the selector needs.
type QuestionSource interface {
	FindCandidates(ctx context.Context, f CandidateFilter) ([]models.Question, error)
	CountQuestions(ctx context.Context, lang models.Language, category models.Category) (int, error)
	CountByCategory(ctx context.Context) (map[models.Category]int, error)
	InsertBatch(ctx context.Context, items []GeneratedItem) (int, error)
}

// SeenSource provides the per-user set of already-served question IDs.
type SeenSource interface {
	Get(ctx context.Context, userID string) (map[string]bool, error)
}

// SkillReader provides the current rating used to center the
// difficulty window.
type SkillReader interface {
	CurrentMu(ctx context.Context, userID string) (float64, error)
}

type Service struct {
	store     QuestionSource
	seen      SeenSource
	skills    SkillReader
	generator *generator.Generator

	translateEnabled  bool
	nightlyEnabled    bool
	nightlyTarget     int
	maxTotalQuestions int
}

func NewService(store QuestionSource, seen SeenSource, skills SkillReader, gen *generator.Generator) *Service {
	translateEnabled := os.Getenv("TRANSLATE_ENABLED") != "false"
	nightlyEnabled := os.Getenv("NIGHTLY_GEN_ENABLED") != "false"

	nightlyTarget := 100
	if v := os.Getenv("NIGHTLY_TARGET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			nightlyTarget = n
		}
	}

	maxTotal := 100000
	if v := os.Getenv("MAX_TOTAL_QUESTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxTotal = n
		}
	}

	log.Printf("[questions] translate=%v nightly=%v nightlyTarget=%d maxTotal=%d",
		translateEnabled, nightlyEnabled, nightlyTarget, maxTotal)

	return &Service{
		store:             store,
		seen:              seen,
		skills:            skills,
		generator:         gen,
		translateEnabled:  translateEnabled,
		nightlyEnabled:    nightlyEnabled,
		nightlyTarget:     nightlyTarget,
		maxTotalQuestions: maxTotal,
	}
}

// ── Adaptive Serving ────────────────────────────────────

type NextQuestionsRequest struct {
	UserID     string
	Lang       models.Language
	Category   models.Category
	Count      int
	RecentPerf float64
}

// GetNextQuestions picks the next batch for a user: centered on their
// rating, adjusted by recent performance, fresh questions before
// repeats, widening the difficulty window when the pool runs thin. A
// short result means the pool is genuinely exhausted.
func (s *Service) GetNextQuestions(ctx context.Context, req NextQuestionsRequest) ([]models.Question, error) {
	mu, err := s.skills.CurrentMu(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("read skill: %w", err)
	}
	target := skill.TargetDifficulty(mu)
	rng := PlanDifficultyRange(target, req.RecentPerf)

	pool, err := s.store.FindCandidates(ctx, CandidateFilter{
		Lang:          req.Lang,
		Category:      req.Category,
		MinDifficulty: rng.Min,
		MaxDifficulty: rng.Max,
		Limit:         req.Count * candidateFactor,
	})
	if err != nil {
		return nil, err
	}

	// Untranslated languages fall back to the base language.
	if len(pool) == 0 && req.Lang != models.LangEnglish {
		pool, err = s.store.FindCandidates(ctx, CandidateFilter{
			Lang:          models.LangEnglish,
			Category:      req.Category,
			MinDifficulty: rng.Min,
			MaxDifficulty: rng.Max,
			Limit:         req.Count * candidateFactor,
		})
		if err != nil {
			return nil, err
		}
	}

	// Widening is driven by the candidate count alone. A band full of
	// already-seen questions is served as repeats, not widened past.
	for round := 1; round <= maxWidenRounds && len(pool) < req.Count; round++ {
		wider := rng.Widen(round)
		more, err := s.store.FindCandidates(ctx, CandidateFilter{
			Lang:          models.LangEnglish,
			Category:      req.Category,
			MinDifficulty: wider.Min,
			MaxDifficulty: wider.Max,
			Limit:         req.Count * candidateFactor,
		})
		if err != nil {
			return nil, err
		}
		pool = mergeByID(pool, more)
		if wider.Covers() {
			break
		}
	}

	// A failed seen lookup degrades to serving possible repeats rather
	// than serving nothing.
	seen, err := s.seen.Get(ctx, req.UserID)
	if err != nil {
		log.Printf("[quiz] seen lookup failed for user=%s: %v", req.UserID, err)
		seen = map[string]bool{}
	}

	sortByDifficulty(pool)
	unseen, repeat := partitionSeen(pool, seen)

	result := unseen
	if len(result) > req.Count {
		result = result[:req.Count]
	}
	for _, q := range repeat {
		if len(result) >= req.Count {
			break
		}
		result = append(result, q)
	}
	return result, nil
}

// CountQuestions reports pool size, optionally filtered by language
// and category.
func (s *Service) CountQuestions(ctx context.Context, lang models.Language, category models.Category) (int, error) {
	return s.store.CountQuestions(ctx, lang, category)
}

func (s *Service) QuestionsByCategory(ctx context.Context) (map[models.Category]int, error) {
	return s.store.CountByCategory(ctx)
}

// ── Question Generation ─────────────────────────────────

func (s *Service) GenerateBatch(ctx context.Context, req models.GenerateRequest) (*models.GenerateResponse, error) {
	if req.Count <= 0 {
		req.Count = 10
	}
	req.Difficulty = clampDifficulty(req.Difficulty)

	total, err := s.store.CountQuestions(ctx, "", "")
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	if total >= s.maxTotalQuestions {
		return nil, fmt.Errorf("question pool at capacity (%d)", s.maxTotalQuestions)
	}
	if total+req.Count > s.maxTotalQuestions {
		req.Count = s.maxTotalQuestions - total
	}

	batch, _, err := s.generator.GenerateTriviaBatch(ctx, req.Category, req.Difficulty, req.Count)
	if err != nil {
		return nil, fmt.Errorf("generate batch: %w", err)
	}

	items := make([]GeneratedItem, 0, len(batch.Questions))
	for _, q := range batch.Questions {
		items = append(items, GeneratedItem{
			Category:   req.Category,
			Difficulty: req.Difficulty,
			Translations: []Translation{{
				Lang:       models.LangEnglish,
				Prompt:     q.Prompt,
				Options:    q.Options,
				CorrectIdx: q.CorrectIdx,
			}},
		})
	}

	translations := 0
	if req.Translate && s.translateEnabled {
		for lang := range models.SupportedLanguages {
			if lang == models.LangEnglish {
				continue
			}
			translated, _, err := s.generator.TranslateBatch(ctx, lang, batch.Questions)
			if err != nil {
				log.Printf("WARN: translation to %s failed: %v", lang, err)
				continue
			}
			for i := range items {
				if i >= len(translated) {
					break
				}
				items[i].Translations = append(items[i].Translations, Translation{
					Lang:       lang,
					Prompt:     translated[i].Prompt,
					Options:    translated[i].Options,
					CorrectIdx: batch.Questions[i].CorrectIdx,
				})
				translations++
			}
		}
	}

	inserted, err := s.store.InsertBatch(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("save batch: %w", err)
	}

	return &models.GenerateResponse{
		Inserted:     inserted,
		Translations: translations,
		Message:      fmt.Sprintf("Generated %d questions (%d translations)", inserted, translations),
	}, nil
}

// StartNightlyWorker tops the question pool up once per day, rotating
// through categories and difficulty bands.
func (s *Service) StartNightlyWorker(ctx context.Context) {
	if !s.nightlyEnabled {
		return
	}

	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	log.Println("[nightly] generation worker started")

	var lastRun string
	for {
		select {
		case <-ctx.Done():
			log.Println("[nightly] shutting down")
			return
		case <-ticker.C:
			now := time.Now().UTC()
			day := now.Format("2006-01-02")
			if now.Hour() != 1 || day == lastRun {
				continue
			}
			lastRun = day
			s.runNightly(ctx)
		}
	}
}

func (s *Service) runNightly(ctx context.Context) {
	perBatch := 10
	generated := 0

	for i := 0; generated < s.nightlyTarget; i++ {
		category := models.AllCategories[i%len(models.AllCategories)]
		difficulty := models.MinDifficulty + i%(models.MaxDifficulty-models.MinDifficulty+1)

		count := perBatch
		if remaining := s.nightlyTarget - generated; remaining < count {
			count = remaining
		}

		resp, err := s.GenerateBatch(ctx, models.GenerateRequest{
			Category:   category,
			Difficulty: difficulty,
			Count:      count,
			Translate:  true,
		})
		if err != nil {
			log.Printf("[nightly] batch failed for %s/%d: %v", category, difficulty, err)
			return
		}
		generated += resp.Inserted
		if resp.Inserted == 0 {
			break
		}
	}

	log.Printf("[nightly] generated %d questions", generated)
}
