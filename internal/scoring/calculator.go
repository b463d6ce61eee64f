package scoring

import (
	"math"

	"github.com/quizrun/backend/internal/models"
)

const (
	basePointsPerDifficulty = 100

	maxSpeedBonus     = 0.3
	speedDecaySeconds = 8.0

	streakStep     = 0.1
	maxStreakBonus = 0.5

	// Answers without a reported time score as if they took this long,
	// which makes the speed bonus negligible instead of maximal.
	defaultAnswerSeconds = 15.0
)

// SpeedBonus returns the multiplier fraction earned by answering quickly,
// decaying exponentially with the answer time.
func SpeedBonus(timeMs *int) float64 {
	t := defaultAnswerSeconds
	if timeMs != nil {
		t = float64(*timeMs) / 1000.0
	}
	bonus := maxSpeedBonus * math.Exp(-t/speedDecaySeconds)
	if bonus > maxSpeedBonus {
		bonus = maxSpeedBonus
	}
	return bonus
}

// StreakBonus returns the multiplier fraction from the running streak
// entering this answer.
func StreakBonus(streakBefore int) float64 {
	if streakBefore < 0 {
		streakBefore = 0
	}
	bonus := streakStep * float64(streakBefore)
	if bonus > maxStreakBonus {
		bonus = maxStreakBonus
	}
	return bonus
}

// Score computes points for one answered question. Wrong answers score
// zero regardless of speed or streak.
func Score(correct bool, difficulty int, timeMs *int, streakBefore int) int {
	if !correct {
		return 0
	}
	if difficulty < models.MinDifficulty {
		difficulty = models.MinDifficulty
	}
	if difficulty > models.MaxDifficulty {
		difficulty = models.MaxDifficulty
	}

	base := float64(basePointsPerDifficulty * difficulty)
	return int(math.Round(base * (1 + SpeedBonus(timeMs) + StreakBonus(streakBefore))))
}

// TotalScore recomputes a session's score from its answer sequence,
// carrying the running streak through it.
func TotalScore(results []models.QuestionResult) int {
	total := 0
	streak := 0
	for _, r := range results {
		total += Score(r.Correct, r.Difficulty, r.TimeMs, streak)
		if r.Correct {
			streak++
		} else {
			streak = 0
		}
	}
	return total
}
