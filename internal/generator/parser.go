package generator

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// GeneratedBatch is the parsed output of one generation call.
type GeneratedBatch struct {
	Questions []GeneratedQuestion `json:"questions"`
}

// GeneratedQuestion is one model-authored question before storage.
type GeneratedQuestion struct {
	Prompt     string   `json:"prompt"`
	Options    []string `json:"options"`
	CorrectIdx int      `json:"correct_idx"`
}

// TranslatedQuestion is one localized question. The correct index is
// not repeated; option order carries it over from the source.
type TranslatedQuestion struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

type translatedBatch struct {
	Questions []TranslatedQuestion `json:"questions"`
}

// ValidationError collects every structural problem found in a batch
// so a bad response surfaces all its defects at once.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("batch validation failed with %d errors: %s",
		len(e.Errors), strings.Join(e.Errors, "; "))
}

// ParseResponse extracts and validates a generated batch from raw
// model output.
func ParseResponse(content string) (*GeneratedBatch, error) {
	cleaned := stripCodeFences(content)

	var batch GeneratedBatch
	if err := json.Unmarshal([]byte(cleaned), &batch); err != nil {
		return nil, fmt.Errorf("unmarshal batch JSON: %w", err)
	}

	if len(batch.Questions) == 0 {
		return nil, fmt.Errorf("batch contains no questions")
	}

	if err := validateBatch(&batch); err != nil {
		return nil, err
	}

	return &batch, nil
}

// ParseTranslations extracts a translated batch and checks it still
// lines up one-to-one with the source batch.
func ParseTranslations(content string, want int) ([]TranslatedQuestion, error) {
	cleaned := stripCodeFences(content)

	var batch translatedBatch
	if err := json.Unmarshal([]byte(cleaned), &batch); err != nil {
		return nil, fmt.Errorf("unmarshal translation JSON: %w", err)
	}

	if len(batch.Questions) != want {
		return nil, fmt.Errorf("translation count mismatch: got %d, want %d", len(batch.Questions), want)
	}

	var errs []string
	for i, q := range batch.Questions {
		if strings.TrimSpace(q.Prompt) == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty prompt", i))
		}
		if len(q.Options) != 4 {
			errs = append(errs, fmt.Sprintf("question %d: expected 4 options, got %d", i, len(q.Options)))
		}
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return batch.Questions, nil
}

// stripCodeFences removes markdown fencing the model sometimes wraps
// around JSON output.
func stripCodeFences(content string) string {
	cleaned := strings.TrimSpace(content)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")

	return strings.TrimSpace(cleaned)
}

func validateBatch(batch *GeneratedBatch) error {
	var errs []string
	seenPrompts := make(map[string]bool)

	for i, q := range batch.Questions {
		if strings.TrimSpace(q.Prompt) == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty prompt", i))
		}
		if len(q.Options) != 4 {
			errs = append(errs, fmt.Sprintf("question %d: expected 4 options, got %d", i, len(q.Options)))
		} else {
			distinct := make(map[string]bool)
			for j, opt := range q.Options {
				if strings.TrimSpace(opt) == "" {
					errs = append(errs, fmt.Sprintf("question %d: option %d is empty", i, j))
				}
				distinct[strings.ToLower(strings.TrimSpace(opt))] = true
			}
			if len(distinct) != 4 {
				errs = append(errs, fmt.Sprintf("question %d: options are not distinct", i))
			}
		}
		if q.CorrectIdx < 0 || q.CorrectIdx > 3 {
			errs = append(errs, fmt.Sprintf("question %d: correct_idx %d out of range", i, q.CorrectIdx))
		}

		key := strings.ToLower(strings.TrimSpace(q.Prompt))
		if seenPrompts[key] {
			log.Printf("WARNING: duplicate prompt in batch at index %d", i)
		}
		seenPrompts[key] = true
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
