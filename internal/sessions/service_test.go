package sessions

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/quizrun/backend/internal/models"
)

type fakeStore struct {
	sessions   map[string]*models.Session
	finished   []FinishParams
	finishErr  error
	createN    int
	lastMode   models.SessionMode
	lastUserID string
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[string]*models.Session)}
}

func (f *fakeStore) Create(ctx context.Context, userID string, mode models.SessionMode) (*models.Session, error) {
	f.createN++
	f.lastMode = mode
	f.lastUserID = userID
	s := &models.Session{ID: "s1", UserID: userID, Mode: mode, StartedAt: time.Now()}
	f.sessions[s.ID] = s
	return s, nil
}

func (f *fakeStore) GetByID(ctx context.Context, sessionID string) (*models.Session, error) {
	return f.sessions[sessionID], nil
}

func (f *fakeStore) ListByUser(ctx context.Context, userID string, limit int) ([]models.Session, error) {
	return nil, nil
}

func (f *fakeStore) Finish(ctx context.Context, p FinishParams) error {
	if f.finishErr != nil {
		return f.finishErr
	}
	f.finished = append(f.finished, p)
	return nil
}

type fakeSkills struct{ mu float64 }

func (f *fakeSkills) CurrentMu(ctx context.Context, userID string) (float64, error) {
	return f.mu, nil
}

type fakeStreaks struct{ state models.StreakState }

func (f *fakeStreaks) Get(ctx context.Context, userID string) (models.StreakState, error) {
	return f.state, nil
}

type fakeTopics struct {
	called  bool
	results []models.QuestionResult
}

func (f *fakeTopics) UpdateTopicPreferences(ctx context.Context, userID string, results []models.QuestionResult) error {
	f.called = true
	f.results = results
	return nil
}

type fakeSeen struct {
	ids []string
	err error
}

func (f *fakeSeen) AddAll(ctx context.Context, userID string, questionIDs []string) error {
	f.ids = append(f.ids, questionIDs...)
	return f.err
}

type fixture struct {
	store   *fakeStore
	skills  *fakeSkills
	streaks *fakeStreaks
	topics  *fakeTopics
	seen    *fakeSeen
	service *Service
}

func newFixture() *fixture {
	f := &fixture{
		store:   newFakeStore(),
		skills:  &fakeSkills{mu: 3.0},
		streaks: &fakeStreaks{},
		topics:  &fakeTopics{},
		seen:    &fakeSeen{},
	}
	f.service = NewService(f.store, f.skills, f.streaks, f.topics, f.seen)
	return f
}

func (f *fixture) openSession(t *testing.T, userID string) *models.Session {
	t.Helper()
	s, err := f.service.Start(context.Background(), userID, models.ModeRun)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	return s
}

func intPtr(v int) *int { return &v }

func result(id string, correct bool, timeMs *int) models.QuestionResult {
	return models.QuestionResult{
		QuestionID: id,
		Category:   models.CategoryScience,
		Difficulty: 3,
		Correct:    correct,
		TimeMs:     timeMs,
	}
}

func TestStartUnknownModeFallsBackToRun(t *testing.T) {
	f := newFixture()
	s, err := f.service.Start(context.Background(), "u1", models.SessionMode("speedrun"))
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if s.Mode != models.ModeRun {
		t.Errorf("mode = %q, want %q", s.Mode, models.ModeRun)
	}
}

func TestFinishSessionNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.service.Finish(context.Background(), "u1", models.FinishSessionRequest{SessionID: "missing"})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestFinishWrongOwner(t *testing.T) {
	f := newFixture()
	s := f.openSession(t, "u1")
	_, err := f.service.Finish(context.Background(), "u2", models.FinishSessionRequest{SessionID: s.ID})
	if !errors.Is(err, ErrNotSessionOwner) {
		t.Errorf("err = %v, want ErrNotSessionOwner", err)
	}
}

func TestFinishAlreadyFinished(t *testing.T) {
	f := newFixture()
	s := f.openSession(t, "u1")
	now := time.Now()
	s.EndedAt = &now
	_, err := f.service.Finish(context.Background(), "u1", models.FinishSessionRequest{SessionID: s.ID})
	if !errors.Is(err, ErrSessionFinished) {
		t.Errorf("err = %v, want ErrSessionFinished", err)
	}
}

func TestFinishConcurrentLoserGetsConflict(t *testing.T) {
	f := newFixture()
	s := f.openSession(t, "u1")
	f.store.finishErr = ErrSessionFinished
	_, err := f.service.Finish(context.Background(), "u1", models.FinishSessionRequest{SessionID: s.ID})
	if !errors.Is(err, ErrSessionFinished) {
		t.Errorf("err = %v, want ErrSessionFinished", err)
	}
}

func TestFinishUnknownQuestionSurfacesTyped(t *testing.T) {
	f := newFixture()
	s := f.openSession(t, "u1")
	f.store.finishErr = fmt.Errorf("%w: ghost-id", ErrQuestionNotFound)

	_, err := f.service.Finish(context.Background(), "u1", models.FinishSessionRequest{
		SessionID: s.ID,
		Results:   []models.QuestionResult{result("ghost-id", true, nil)},
	})
	if !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("err = %v, want ErrQuestionNotFound", err)
	}
}

func TestFinishInvalidResults(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name   string
		result models.QuestionResult
	}{
		{"missing questionId", models.QuestionResult{SelectedIndex: 0}},
		{"selectedIndex too high", models.QuestionResult{QuestionID: "q1", SelectedIndex: 4}},
		{"negative selectedIndex", models.QuestionResult{QuestionID: "q1", SelectedIndex: -1}},
		{"negative timeMs", models.QuestionResult{QuestionID: "q1", TimeMs: intPtr(-5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := f.openSession(t, "u1")
			_, err := f.service.Finish(context.Background(), "u1", models.FinishSessionRequest{
				SessionID: s.ID,
				Results:   []models.QuestionResult{tt.result},
			})
			if !errors.Is(err, ErrInvalidResults) {
				t.Errorf("err = %v, want ErrInvalidResults", err)
			}
		})
	}
}

func TestFinishEmptyResultsIsValid(t *testing.T) {
	f := newFixture()
	s := f.openSession(t, "u1")

	resp, err := f.service.Finish(context.Background(), "u1", models.FinishSessionRequest{SessionID: s.ID})
	if err != nil {
		t.Fatalf("Finish returned error: %v", err)
	}
	if resp.Score != 0 || resp.MaxStreak != 0 {
		t.Errorf("abandoned session: score %d streak %d, want 0 0", resp.Score, resp.MaxStreak)
	}
	if resp.NewMu != 3.0 {
		t.Errorf("newMu = %v, want unchanged 3.0", resp.NewMu)
	}
	if f.topics.called {
		t.Error("topic update should be skipped for empty results")
	}
}

func TestFinishDerivesStateFromResults(t *testing.T) {
	f := newFixture()
	f.streaks.state = models.StreakState{Current: 2, Best: 4}
	s := f.openSession(t, "u1")

	// Five fast correct answers from mu 3.0 fold to 4.5.
	results := make([]models.QuestionResult, 5)
	for i := range results {
		results[i] = result("q"+string(rune('1'+i)), true, intPtr(3000))
	}

	resp, err := f.service.Finish(context.Background(), "u1", models.FinishSessionRequest{
		SessionID: s.ID,
		Results:   results,
	})
	if err != nil {
		t.Fatalf("Finish returned error: %v", err)
	}

	if resp.NewMu < 4.4999 || resp.NewMu > 4.5001 {
		t.Errorf("newMu = %v, want 4.5", resp.NewMu)
	}
	if resp.MaxStreak != 5 {
		t.Errorf("maxStreak = %d, want 5", resp.MaxStreak)
	}
	if resp.BestStreak != 5 {
		t.Errorf("bestStreak = %d, want 5", resp.BestStreak)
	}
	if resp.Score <= 0 {
		t.Errorf("score = %d, want positive", resp.Score)
	}

	if len(f.store.finished) != 1 {
		t.Fatalf("store.Finish called %d times, want 1", len(f.store.finished))
	}
	p := f.store.finished[0]
	if p.Score != resp.Score || p.MaxStreak != 5 || p.NewMu != resp.NewMu {
		t.Errorf("persisted params %+v do not match response %+v", p, resp)
	}
	if p.NewStreak.Current != 0 {
		t.Errorf("persisted current streak = %d, want 0", p.NewStreak.Current)
	}
}

func TestFinishBestStreakIsMonotonic(t *testing.T) {
	f := newFixture()
	f.streaks.state = models.StreakState{Current: 0, Best: 9}
	s := f.openSession(t, "u1")

	resp, err := f.service.Finish(context.Background(), "u1", models.FinishSessionRequest{
		SessionID: s.ID,
		Results:   []models.QuestionResult{result("q1", true, nil), result("q2", true, nil)},
	})
	if err != nil {
		t.Fatalf("Finish returned error: %v", err)
	}
	if resp.MaxStreak != 2 {
		t.Errorf("maxStreak = %d, want 2", resp.MaxStreak)
	}
	if resp.BestStreak != 9 {
		t.Errorf("bestStreak = %d, want prior best 9", resp.BestStreak)
	}
}

func TestFinishMarksQuestionsSeen(t *testing.T) {
	f := newFixture()
	s := f.openSession(t, "u1")

	_, err := f.service.Finish(context.Background(), "u1", models.FinishSessionRequest{
		SessionID: s.ID,
		Results:   []models.QuestionResult{result("qa", true, nil), result("qb", false, nil)},
	})
	if err != nil {
		t.Fatalf("Finish returned error: %v", err)
	}
	if len(f.seen.ids) != 2 || f.seen.ids[0] != "qa" || f.seen.ids[1] != "qb" {
		t.Errorf("seen ids = %v, want [qa qb]", f.seen.ids)
	}
	if !f.topics.called {
		t.Error("topic update not called")
	}
}

func TestFinishSeenFailureDoesNotFailSession(t *testing.T) {
	f := newFixture()
	f.seen.err = errors.New("redis down")
	s := f.openSession(t, "u1")

	_, err := f.service.Finish(context.Background(), "u1", models.FinishSessionRequest{
		SessionID: s.ID,
		Results:   []models.QuestionResult{result("q1", true, nil)},
	})
	if err != nil {
		t.Fatalf("Finish returned error: %v", err)
	}
}

func TestFinishClampsOutOfRangeDifficulty(t *testing.T) {
	f := newFixture()
	s := f.openSession(t, "u1")

	r := result("q1", true, nil)
	r.Difficulty = 99
	resp, err := f.service.Finish(context.Background(), "u1", models.FinishSessionRequest{
		SessionID: s.ID,
		Results:   []models.QuestionResult{r},
	})
	if err != nil {
		t.Fatalf("Finish returned error: %v", err)
	}
	// Clamped to difficulty 6, so the base is 600 at most.
	if resp.Score > 1100 {
		t.Errorf("score = %d, difficulty clamp not applied", resp.Score)
	}
}
