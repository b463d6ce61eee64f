package generator

import (
	"encoding/json"
	"fmt"

	"github.com/quizrun/backend/internal/models"
)

// TriviaSystemPrompt instructs the model on the output contract for
// question generation.
func TriviaSystemPrompt() string {
	return `You are a trivia question writer for a quiz application. You produce factually accurate multiple-choice questions with exactly four answer options.

Output rules:
- Respond with ONLY a JSON object, no prose before or after.
- The object has a single key "questions" holding an array.
- Each question is: {"prompt": string, "options": [string, string, string, string], "correct_idx": number}
- correct_idx is the zero-based index of the correct option.
- Every option must be plausible. Exactly one option is correct.
- Options must be distinct from each other.
- Vary which index holds the correct answer across the batch.
- Never reuse a prompt within the batch.`
}

var categoryGuidance = map[models.Category]string{
	models.CategoryGeneral:    "broad general knowledge spanning everyday facts",
	models.CategoryScience:    "physics, chemistry, biology, and astronomy",
	models.CategoryHistory:    "world history, from antiquity to the modern era",
	models.CategoryGeography:  "countries, capitals, rivers, mountains, and borders",
	models.CategoryTech:       "computing, the internet, and modern technology",
	models.CategoryMovies:     "cinema, directors, actors, and famous films",
	models.CategoryMusic:      "musicians, genres, instruments, and famous works",
	models.CategorySports:     "athletes, teams, rules, and sporting events",
	models.CategoryLiterature: "authors, novels, poetry, and literary movements",
	models.CategoryNature:     "animals, plants, ecosystems, and the environment",
	models.CategoryPopCulture: "celebrities, trends, internet culture, and media",
	models.CategoryLogic:      "riddles, lateral thinking, and logical deduction",
	models.CategoryMath:       "arithmetic, famous problems, and mathematical facts",
}

var difficultyGuidance = map[int]string{
	1: "very easy, common knowledge most people have",
	2: "easy, widely known but requires a moment of recall",
	3: "moderate, known by people with casual interest in the topic",
	4: "challenging, requires genuine familiarity with the topic",
	5: "hard, known mainly by enthusiasts of the topic",
	6: "expert, obscure facts only specialists would know",
}

// BuildTriviaUserPrompt composes the generation request for one
// category and difficulty band.
func BuildTriviaUserPrompt(category models.Category, difficulty, count int) string {
	guidance, ok := categoryGuidance[category]
	if !ok {
		guidance = categoryGuidance[models.CategoryGeneral]
	}
	level, ok := difficultyGuidance[difficulty]
	if !ok {
		level = difficultyGuidance[3]
	}

	return fmt.Sprintf(`Generate %d trivia questions in English.

Category: %s (%s)
Difficulty: %d of 6 (%s)

Each question must have exactly 4 options and exactly one correct answer. Respond with the JSON object only.`,
		count, category, guidance, difficulty, level)
}

// TranslationSystemPrompt instructs the model on the output contract
// for localization.
func TranslationSystemPrompt() string {
	return `You are a professional translator localizing trivia questions for a quiz application.

Output rules:
- Respond with ONLY a JSON object, no prose before or after.
- The object has a single key "questions" holding an array.
- Each entry is: {"prompt": string, "options": [string, string, string, string]}
- Translate every prompt and every option into the target language.
- Keep options in the SAME ORDER as the input. Never reorder them.
- Return exactly as many questions as you were given, in the same order.
- Keep proper nouns in their conventional localized form.`
}

var languageNames = map[models.Language]string{
	models.LangEnglish: "English",
	models.LangRussian: "Russian",
	models.LangSpanish: "Spanish",
}

// BuildTranslationUserPrompt embeds the source questions as JSON so
// the model sees the exact structure it must mirror.
func BuildTranslationUserPrompt(lang models.Language, questions []GeneratedQuestion) (string, error) {
	name, ok := languageNames[lang]
	if !ok {
		return "", fmt.Errorf("unsupported translation language: %s", lang)
	}

	type sourceQuestion struct {
		Prompt  string   `json:"prompt"`
		Options []string `json:"options"`
	}
	source := make([]sourceQuestion, len(questions))
	for i, q := range questions {
		source[i] = sourceQuestion{Prompt: q.Prompt, Options: q.Options}
	}

	encoded, err := json.Marshal(map[string]any{"questions": source})
	if err != nil {
		return "", fmt.Errorf("encode translation source: %w", err)
	}

	return fmt.Sprintf(`Translate the following %d trivia questions into %s. Preserve option order exactly.

%s`, len(questions), name, string(encoded)), nil
}
