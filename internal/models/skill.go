package models

// StreakState is a user's running and best correct-answer streak.
// Best never decreases; current resets whenever a session ends.
type StreakState struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

type TopicPreference struct {
	Category Category `json:"category"`
	Weight   float64  `json:"weight"`
}

type ProfileResponse struct {
	Mu               float64           `json:"mu"`
	TargetDifficulty int               `json:"targetDifficulty"`
	Streak           StreakState       `json:"streak"`
	Topics           []TopicPreference `json:"topics"`
}
