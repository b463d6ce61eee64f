package generator

import (
	"errors"
	"strings"
	"testing"
)

const validBatchJSON = `{
	"questions": [
		{
			"prompt": "Which planet is known as the Red Planet?",
			"options": ["Venus", "Mars", "Jupiter", "Saturn"],
			"correct_idx": 1
		},
		{
			"prompt": "What is the chemical symbol for gold?",
			"options": ["Au", "Ag", "Gd", "Go"],
			"correct_idx": 0
		}
	]
}`

func TestParseResponseValid(t *testing.T) {
	batch, err := ParseResponse(validBatchJSON)
	if err != nil {
		t.Fatalf("ParseResponse returned error: %v", err)
	}
	if len(batch.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(batch.Questions))
	}
	if batch.Questions[0].CorrectIdx != 1 {
		t.Errorf("question 0 correct_idx = %d, want 1", batch.Questions[0].CorrectIdx)
	}
	if batch.Questions[1].Options[0] != "Au" {
		t.Errorf("question 1 option 0 = %q, want %q", batch.Questions[1].Options[0], "Au")
	}
}

func TestParseResponseCodeFences(t *testing.T) {
	fenced := "```json\n" + validBatchJSON + "\n```"
	batch, err := ParseResponse(fenced)
	if err != nil {
		t.Fatalf("ParseResponse with fences returned error: %v", err)
	}
	if len(batch.Questions) != 2 {
		t.Errorf("got %d questions, want 2", len(batch.Questions))
	}

	bareFence := "```\n" + validBatchJSON + "\n```"
	if _, err := ParseResponse(bareFence); err != nil {
		t.Errorf("ParseResponse with bare fences returned error: %v", err)
	}
}

func TestParseResponseInvalidJSON(t *testing.T) {
	if _, err := ParseResponse("not json at all"); err == nil {
		t.Error("expected error for non-JSON input")
	}
}

func TestParseResponseEmptyBatch(t *testing.T) {
	if _, err := ParseResponse(`{"questions": []}`); err == nil {
		t.Error("expected error for empty batch")
	}
}

func TestParseResponseValidation(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{
			name: "wrong option count",
			json: `{"questions":[{"prompt":"Q?","options":["a","b","c"],"correct_idx":0}]}`,
			want: "expected 4 options",
		},
		{
			name: "correct_idx out of range",
			json: `{"questions":[{"prompt":"Q?","options":["a","b","c","d"],"correct_idx":4}]}`,
			want: "out of range",
		},
		{
			name: "empty prompt",
			json: `{"questions":[{"prompt":"  ","options":["a","b","c","d"],"correct_idx":0}]}`,
			want: "empty prompt",
		},
		{
			name: "duplicate options",
			json: `{"questions":[{"prompt":"Q?","options":["a","a","c","d"],"correct_idx":0}]}`,
			want: "not distinct",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.json)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestParseResponseCollectsAllErrors(t *testing.T) {
	bad := `{"questions":[
		{"prompt":"","options":["a","b","c"],"correct_idx":9},
		{"prompt":"ok?","options":["a","b","c","d"],"correct_idx":0}
	]}`
	_, err := ParseResponse(bad)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(vErr.Errors) != 3 {
		t.Errorf("got %d validation errors, want 3: %v", len(vErr.Errors), vErr.Errors)
	}
}

func TestParseTranslations(t *testing.T) {
	good := `{"questions":[
		{"prompt":"¿Qué planeta es rojo?","options":["Venus","Marte","Júpiter","Saturno"]},
		{"prompt":"¿Símbolo del oro?","options":["Au","Ag","Gd","Go"]}
	]}`
	translated, err := ParseTranslations(good, 2)
	if err != nil {
		t.Fatalf("ParseTranslations returned error: %v", err)
	}
	if translated[1].Options[0] != "Au" {
		t.Errorf("option order not preserved: got %q", translated[1].Options[0])
	}
}

func TestParseTranslationsCountMismatch(t *testing.T) {
	one := `{"questions":[{"prompt":"x","options":["a","b","c","d"]}]}`
	if _, err := ParseTranslations(one, 2); err == nil {
		t.Error("expected error for count mismatch")
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n{}\n```", "{}"},
		{"```\n{}\n```", "{}"},
		{"{}", "{}"},
		{"  {}  ", "{}"},
	}
	for _, tt := range tests {
		if got := stripCodeFences(tt.in); got != tt.want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
