package models

type GenerateRequest struct {
	Category   Category `json:"category"`
	Difficulty int      `json:"difficulty"`
	Count      int      `json:"count"`
	Translate  bool     `json:"translate"`
}

type GenerateResponse struct {
	Inserted     int    `json:"inserted"`
	Translations int    `json:"translations"`
	Message      string `json:"message"`
}
