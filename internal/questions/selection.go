package questions

import (
	"sort"

	"github.com/quizrun/backend/internal/models"
)

const (
	lowPerfThreshold  = 0.4
	highPerfThreshold = 0.7

	// Fetch a multiple of the requested count so the seen filter has
	// room to work with.
	candidateFactor = 5

	maxWidenRounds = 3
)

// DifficultyRange is an inclusive difficulty window for candidate fetches.
type DifficultyRange struct {
	Min int
	Max int
}

// PlanDifficultyRange picks the fetch window around the target
// difficulty. Struggling users get an easier window, cruising users a
// harder one, everyone else a balanced one.
func PlanDifficultyRange(target int, recentPerf float64) DifficultyRange {
	target = clampDifficulty(target)
	switch {
	case recentPerf < lowPerfThreshold:
		return DifficultyRange{Min: max(models.MinDifficulty, target-2), Max: target}
	case recentPerf > highPerfThreshold:
		return DifficultyRange{Min: target, Max: min(models.MaxDifficulty, target+2)}
	default:
		return DifficultyRange{Min: max(models.MinDifficulty, target-1), Max: min(models.MaxDifficulty, target+1)}
	}
}

// Widen expands the window symmetrically, clamped to the valid scale.
func (r DifficultyRange) Widen(by int) DifficultyRange {
	return DifficultyRange{
		Min: max(models.MinDifficulty, r.Min-by),
		Max: min(models.MaxDifficulty, r.Max+by),
	}
}

// Covers reports whether the window already spans the whole scale, at
// which point further widening is pointless.
func (r DifficultyRange) Covers() bool {
	return r.Min == models.MinDifficulty && r.Max == models.MaxDifficulty
}

// partitionSeen splits candidates into unseen and already-seen slices,
// preserving relative order within each.
func partitionSeen(candidates []models.Question, seen map[string]bool) (unseen, repeat []models.Question) {
	for _, q := range candidates {
		if seen[q.ID] {
			repeat = append(repeat, q)
		} else {
			unseen = append(unseen, q)
		}
	}
	return unseen, repeat
}

// mergeByID appends questions not already present in the pool.
func mergeByID(pool, more []models.Question) []models.Question {
	present := make(map[string]bool, len(pool))
	for _, q := range pool {
		present[q.ID] = true
	}
	for _, q := range more {
		if !present[q.ID] {
			present[q.ID] = true
			pool = append(pool, q)
		}
	}
	return pool
}

func sortByDifficulty(pool []models.Question) {
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Difficulty < pool[j].Difficulty
	})
}

func clampDifficulty(d int) int {
	if d < models.MinDifficulty {
		return models.MinDifficulty
	}
	if d > models.MaxDifficulty {
		return models.MaxDifficulty
	}
	return d
}
