package streaks

import (
	"testing"

	"github.com/quizrun/backend/internal/models"
)

func TestAdvance(t *testing.T) {
	s := models.StreakState{}

	s = Advance(s, true)
	s = Advance(s, true)
	if s.Current != 2 || s.Best != 2 {
		t.Errorf("after 2 correct: %+v, want current=2 best=2", s)
	}

	s = Advance(s, false)
	if s.Current != 0 || s.Best != 2 {
		t.Errorf("after miss: %+v, want current=0 best=2", s)
	}

	s = Advance(s, true)
	if s.Current != 1 || s.Best != 2 {
		t.Errorf("best must survive a reset: %+v", s)
	}
}

func TestSessionMax(t *testing.T) {
	tests := []struct {
		pattern []bool
		want    int
	}{
		{nil, 0},
		{[]bool{false, false}, 0},
		{[]bool{true, true, false, true}, 2},
		{[]bool{true, false, true, true, true}, 3},
		{[]bool{true, true, true, true}, 4},
	}

	for _, tt := range tests {
		results := make([]models.QuestionResult, len(tt.pattern))
		for i, c := range tt.pattern {
			results[i] = models.QuestionResult{Correct: c}
		}
		got := SessionMax(results)
		if got != tt.want {
			t.Errorf("SessionMax(%v) = %d, want %d", tt.pattern, got, tt.want)
		}
	}
}

func TestFoldBest(t *testing.T) {
	// Session beats the record
	got := FoldBest(models.StreakState{Current: 3, Best: 5}, 8)
	if got.Best != 8 || got.Current != 0 {
		t.Errorf("FoldBest(best=5, session=8) = %+v, want best=8 current=0", got)
	}

	// A weaker session never lowers the record
	got = FoldBest(models.StreakState{Current: 3, Best: 5}, 2)
	if got.Best != 5 || got.Current != 0 {
		t.Errorf("FoldBest(best=5, session=2) = %+v, want best=5 current=0", got)
	}
}
