package skill

import (
	"math"

	"github.com/quizrun/backend/internal/models"
)

// Rating scale bounds. New users start at the midpoint.
const (
	MinMu     = 1.0
	MaxMu     = 6.0
	InitialMu = 3.0
)

const (
	fastThresholdMs   = 5000
	normalThresholdMs = 12000
)

type Speed int

const (
	SpeedFast Speed = iota
	SpeedNormal
	SpeedSlow
)

// ClassifySpeed buckets an answer time. A missing time counts as normal.
func ClassifySpeed(timeMs *int) Speed {
	if timeMs == nil {
		return SpeedNormal
	}
	switch {
	case *timeMs <= fastThresholdMs:
		return SpeedFast
	case *timeMs <= normalThresholdMs:
		return SpeedNormal
	default:
		return SpeedSlow
	}
}

// Delta returns the rating adjustment for a single answer. Fast correct
// answers move the rating most; slow wrong answers move it least.
func Delta(correct bool, speed Speed) float64 {
	if correct {
		switch speed {
		case SpeedFast:
			return 0.30
		case SpeedSlow:
			return 0.10
		default:
			return 0.20
		}
	}
	switch speed {
	case SpeedFast:
		return -0.30
	case SpeedSlow:
		return -0.10
	default:
		return -0.20
	}
}

// UpdateMu applies one answer to a rating.
func UpdateMu(mu float64, correct bool, timeMs *int) float64 {
	return clampMu(mu + Delta(correct, ClassifySpeed(timeMs)))
}

// FoldResults applies a whole session of answers sequentially, in the
// order the questions were presented.
func FoldResults(mu float64, results []models.QuestionResult) float64 {
	for _, r := range results {
		mu = UpdateMu(mu, r.Correct, r.TimeMs)
	}
	return mu
}

// TargetDifficulty maps a rating to the question difficulty scale.
func TargetDifficulty(mu float64) int {
	t := int(math.Round(mu))
	if t < models.MinDifficulty {
		t = models.MinDifficulty
	}
	if t > models.MaxDifficulty {
		t = models.MaxDifficulty
	}
	return t
}

func clampMu(mu float64) float64 {
	if mu < MinMu {
		return MinMu
	}
	if mu > MaxMu {
		return MaxMu
	}
	return mu
}
