package skill

import "github.com/quizrun/backend/internal/models"

const (
	topicRaiseThreshold = 0.7
	topicLowerThreshold = 0.3
	topicStep           = 0.2

	MinTopicWeight = -5.0
	MaxTopicWeight = 5.0
)

// TopicDelta returns the weight adjustment earned by one session's
// accuracy in a category. Middling accuracy leaves the weight alone.
func TopicDelta(accuracy float64) float64 {
	if accuracy > topicRaiseThreshold {
		return topicStep
	}
	if accuracy < topicLowerThreshold {
		return -topicStep
	}
	return 0
}

// ApplyTopicDelta folds one session's accuracy into a stored weight.
func ApplyTopicDelta(weight, accuracy float64) float64 {
	w := weight + TopicDelta(accuracy)
	if w < MinTopicWeight {
		return MinTopicWeight
	}
	if w > MaxTopicWeight {
		return MaxTopicWeight
	}
	return w
}

// CategoryAccuracy computes per-category accuracy from a session's
// results. Results with unknown categories are skipped.
func CategoryAccuracy(results []models.QuestionResult) map[models.Category]float64 {
	total := make(map[models.Category]int)
	correct := make(map[models.Category]int)

	for _, r := range results {
		if !models.ValidCategories[r.Category] {
			continue
		}
		total[r.Category]++
		if r.Correct {
			correct[r.Category]++
		}
	}

	acc := make(map[models.Category]float64, len(total))
	for cat, n := range total {
		acc[cat] = float64(correct[cat]) / float64(n)
	}
	return acc
}
