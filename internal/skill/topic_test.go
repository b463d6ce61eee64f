package skill

import (
	"math"
	"testing"

	"github.com/quizrun/backend/internal/models"
)

func TestTopicDelta(t *testing.T) {
	tests := []struct {
		accuracy float64
		want     float64
	}{
		{1.0, 0.2},
		{0.75, 0.2},
		{0.7, 0}, // threshold itself is not "above"
		{0.5, 0},
		{0.3, 0}, // threshold itself is not "below"
		{0.25, -0.2},
		{0.0, -0.2},
	}

	for _, tt := range tests {
		got := TopicDelta(tt.accuracy)
		if got != tt.want {
			t.Errorf("TopicDelta(%v) = %v, want %v", tt.accuracy, got, tt.want)
		}
	}
}

func TestApplyTopicDelta(t *testing.T) {
	// Normal raise
	got := ApplyTopicDelta(1.0, 0.9)
	if math.Abs(got-1.2) > 1e-9 {
		t.Errorf("ApplyTopicDelta(1.0, 0.9) = %v, want 1.2", got)
	}

	// Clamped at the top
	got = ApplyTopicDelta(4.95, 1.0)
	if got != MaxTopicWeight {
		t.Errorf("ApplyTopicDelta(4.95, 1.0) = %v, want %v", got, MaxTopicWeight)
	}

	// Clamped at the bottom
	got = ApplyTopicDelta(-4.95, 0.0)
	if got != MinTopicWeight {
		t.Errorf("ApplyTopicDelta(-4.95, 0.0) = %v, want %v", got, MinTopicWeight)
	}
}

func TestCategoryAccuracy(t *testing.T) {
	results := []models.QuestionResult{
		{Category: models.CategoryScience, Correct: true},
		{Category: models.CategoryScience, Correct: true},
		{Category: models.CategoryScience, Correct: false},
		{Category: models.CategoryHistory, Correct: false},
		{Category: "not_a_category", Correct: true},
	}

	acc := CategoryAccuracy(results)

	if len(acc) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(acc))
	}
	if math.Abs(acc[models.CategoryScience]-2.0/3.0) > 1e-9 {
		t.Errorf("science accuracy = %v, want 2/3", acc[models.CategoryScience])
	}
	if acc[models.CategoryHistory] != 0 {
		t.Errorf("history accuracy = %v, want 0", acc[models.CategoryHistory])
	}
}
