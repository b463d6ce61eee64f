package models

import "time"

type Language string

const (
	LangEnglish Language = "en"
	LangRussian Language = "ru"
	LangSpanish Language = "es"
)

var SupportedLanguages = map[Language]bool{
	LangEnglish: true,
	LangRussian: true,
	LangSpanish: true,
}

type Category string

const (
	CategoryGeneral    Category = "general"
	CategoryScience    Category = "science"
	CategoryHistory    Category = "history"
	CategoryGeography  Category = "geography"
	CategoryTech       Category = "tech"
	CategoryMovies     Category = "movies"
	CategoryMusic      Category = "music"
	CategorySports     Category = "sports"
	CategoryLiterature Category = "literature"
	CategoryNature     Category = "nature"
	CategoryPopCulture Category = "popculture"
	CategoryLogic      Category = "logic"
	CategoryMath       Category = "math"
)

var ValidCategories = map[Category]bool{
	CategoryGeneral:    true,
	CategoryScience:    true,
	CategoryHistory:    true,
	CategoryGeography:  true,
	CategoryTech:       true,
	CategoryMovies:     true,
	CategoryMusic:      true,
	CategorySports:     true,
	CategoryLiterature: true,
	CategoryNature:     true,
	CategoryPopCulture: true,
	CategoryLogic:      true,
	CategoryMath:       true,
}

// AllCategories lists every category in a stable order, used by the
// nightly generation rotation.
var AllCategories = []Category{
	CategoryGeneral, CategoryScience, CategoryHistory, CategoryGeography,
	CategoryTech, CategoryMovies, CategoryMusic, CategorySports,
	CategoryLiterature, CategoryNature, CategoryPopCulture,
	CategoryLogic, CategoryMath,
}

// Difficulty scale bounds. Every difficulty stored or served is on this scale.
const (
	MinDifficulty = 1
	MaxDifficulty = 6
)

// Question is one localized question as served to clients. The correct
// index ships with the question; answers are checked client-side and
// reported back at session finish.
type Question struct {
	ID         string    `json:"id"`
	Prompt     string    `json:"prompt"`
	Options    []string  `json:"options"`
	CorrectIdx int       `json:"correctIdx"`
	Difficulty int       `json:"difficulty"`
	Category   Category  `json:"category"`
	Lang       Language  `json:"lang"`
	CreatedAt  time.Time `json:"-"`
}

type QuizNextResponse struct {
	Questions []Question `json:"questions"`
	Count     int        `json:"count"`
}

type QuestionCountResponse struct {
	Total      int              `json:"total"`
	ByCategory map[Category]int `json:"byCategory,omitempty"`
}
