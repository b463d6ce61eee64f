package streaks

import "github.com/quizrun/backend/internal/models"

// Advance applies one answer to a streak state.
func Advance(s models.StreakState, correct bool) models.StreakState {
	if correct {
		s.Current++
		if s.Current > s.Best {
			s.Best = s.Current
		}
	} else {
		s.Current = 0
	}
	return s
}

// SessionMax returns the longest run of consecutive correct answers in
// a session, recomputed from the reported results.
func SessionMax(results []models.QuestionResult) int {
	best, run := 0, 0
	for _, r := range results {
		if r.Correct {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

// FoldBest merges a finished session's longest streak into the persisted
// state. Best only ever grows; the running streak resets at session end.
func FoldBest(persisted models.StreakState, sessionMax int) models.StreakState {
	best := persisted.Best
	if sessionMax > best {
		best = sessionMax
	}
	return models.StreakState{Current: 0, Best: best}
}
