package questions

import (
	"testing"

	"github.com/quizrun/backend/internal/models"
)

func TestPlanDifficultyRange(t *testing.T) {
	tests := []struct {
		target     int
		recentPerf float64
		want       DifficultyRange
	}{
		// Struggling: easier window below the target
		{4, 0.3, DifficultyRange{2, 4}},
		{1, 0.0, DifficultyRange{1, 1}},
		{2, 0.39, DifficultyRange{1, 2}},

		// Cruising: harder window above the target
		{4, 0.8, DifficultyRange{4, 6}},
		{6, 1.0, DifficultyRange{6, 6}},
		{5, 0.71, DifficultyRange{5, 6}},

		// Balanced band, thresholds inclusive
		{4, 0.4, DifficultyRange{3, 5}},
		{4, 0.7, DifficultyRange{3, 5}},
		{4, 0.5, DifficultyRange{3, 5}},
		{1, 0.5, DifficultyRange{1, 2}},
		{6, 0.5, DifficultyRange{5, 6}},

		// Out-of-scale targets are clamped first
		{0, 0.5, DifficultyRange{1, 2}},
		{9, 0.5, DifficultyRange{5, 6}},
	}

	for _, tt := range tests {
		got := PlanDifficultyRange(tt.target, tt.recentPerf)
		if got != tt.want {
			t.Errorf("PlanDifficultyRange(%d, %v) = %+v, want %+v", tt.target, tt.recentPerf, got, tt.want)
		}
	}
}

func TestWiden(t *testing.T) {
	tests := []struct {
		start DifficultyRange
		by    int
		want  DifficultyRange
	}{
		{DifficultyRange{3, 5}, 1, DifficultyRange{2, 6}},
		{DifficultyRange{1, 2}, 2, DifficultyRange{1, 4}},
		{DifficultyRange{3, 4}, 3, DifficultyRange{1, 6}},
		{DifficultyRange{1, 6}, 1, DifficultyRange{1, 6}},
	}

	for _, tt := range tests {
		got := tt.start.Widen(tt.by)
		if got != tt.want {
			t.Errorf("%+v.Widen(%d) = %+v, want %+v", tt.start, tt.by, got, tt.want)
		}
	}

	if !(DifficultyRange{1, 6}).Covers() {
		t.Error("full-scale range should report Covers()")
	}
	if (DifficultyRange{1, 5}).Covers() {
		t.Error("partial range should not report Covers()")
	}
}

func TestPartitionSeen(t *testing.T) {
	pool := []models.Question{
		{ID: "a", Difficulty: 2},
		{ID: "b", Difficulty: 3},
		{ID: "c", Difficulty: 3},
		{ID: "d", Difficulty: 4},
	}
	seen := map[string]bool{"b": true, "d": true}

	unseen, repeat := partitionSeen(pool, seen)

	if len(unseen) != 2 || unseen[0].ID != "a" || unseen[1].ID != "c" {
		t.Errorf("unseen = %v, want [a c]", ids(unseen))
	}
	if len(repeat) != 2 || repeat[0].ID != "b" || repeat[1].ID != "d" {
		t.Errorf("repeat = %v, want [b d]", ids(repeat))
	}
}

func TestMergeByID(t *testing.T) {
	pool := []models.Question{{ID: "a"}, {ID: "b"}}
	more := []models.Question{{ID: "b"}, {ID: "c"}, {ID: "a"}}

	merged := mergeByID(pool, more)
	if len(merged) != 3 {
		t.Fatalf("merged = %v, want 3 distinct questions", ids(merged))
	}
	want := []string{"a", "b", "c"}
	for i, id := range want {
		if merged[i].ID != id {
			t.Errorf("merged[%d] = %s, want %s", i, merged[i].ID, id)
		}
	}
}

func ids(questions []models.Question) []string {
	out := make([]string, len(questions))
	for i, q := range questions {
		out[i] = q.ID
	}
	return out
}
