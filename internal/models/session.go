package models

import "time"

type SessionMode string

const (
	ModeRun     SessionMode = "run"
	ModeEndless SessionMode = "endless"
	ModeDaily   SessionMode = "daily"
)

var ValidSessionModes = map[SessionMode]bool{
	ModeRun:     true,
	ModeEndless: true,
	ModeDaily:   true,
}

type Session struct {
	ID        string      `json:"id"`
	UserID    string      `json:"-"`
	Mode      SessionMode `json:"mode"`
	StartedAt time.Time   `json:"startedAt"`
	EndedAt   *time.Time  `json:"endedAt,omitempty"`
	Score     int         `json:"score"`
	MaxStreak int         `json:"maxStreak"`
}

type StartSessionRequest struct {
	Mode SessionMode `json:"mode"`
}

// QuestionResult is one answered question as reported at session finish.
// Results arrive in presentation order; the rating fold depends on it.
type QuestionResult struct {
	QuestionID    string   `json:"questionId"`
	Category      Category `json:"category"`
	Difficulty    int      `json:"difficulty"`
	Correct       bool     `json:"correct"`
	SelectedIndex int      `json:"selectedIndex"`
	TimeMs        *int     `json:"timeMs,omitempty"`
}

type FinishSessionRequest struct {
	SessionID string           `json:"sessionId"`
	Results   []QuestionResult `json:"results"`
}

type FinishSessionResponse struct {
	NewMu      float64 `json:"newMu"`
	Score      int     `json:"score"`
	MaxStreak  int     `json:"maxStreak"`
	BestStreak int     `json:"bestStreak"`
}

type SessionListResponse struct {
	Sessions []Session `json:"sessions"`
}
