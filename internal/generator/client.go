package generator

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/quizrun/backend/internal/models"
)

// LLMClient is the interface all generator implementations satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// Generator wraps an LLMClient and adds trivia-specific batch methods.
type Generator struct {
	llm   LLMClient
	model string
}

func NewGenerator() *Generator {
	var llm LLMClient
	model := "mock"

	if os.Getenv("USE_CLI_GENERATOR") == "true" {
		cliPath := os.Getenv("CLAUDE_CLI_PATH")
		if cliPath == "" {
			cliPath = "claude"
		}
		llm = NewCLIClient(cliPath)
		model = "claude-cli"
		log.Println("Generator using Claude CLI (local plan)")
	} else if os.Getenv("MOCK_GENERATOR") == "true" {
		llm = NewMockClient()
		log.Println("Generator using mock data")
	} else {
		model = os.Getenv("ANTHROPIC_MODEL")
		if model == "" {
			model = "claude-opus-4-5-20251101"
		}
		llm = NewAPIClient(model)
		log.Println("Generator using Anthropic API:", model)
	}

	return &Generator{llm: llm, model: model}
}

func (g *Generator) ModelName() string {
	return g.model
}

// GenerateTriviaBatch produces a batch of base-language questions for
// one category and difficulty band.
func (g *Generator) GenerateTriviaBatch(ctx context.Context, category models.Category, difficulty, count int) (*GeneratedBatch, *LLMResponse, error) {
	systemPrompt := TriviaSystemPrompt()
	userPrompt := BuildTriviaUserPrompt(category, difficulty, count)

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, nil, fmt.Errorf("generate trivia batch: %w", err)
	}

	batch, err := ParseResponse(resp.Content)
	if err != nil {
		return nil, resp, fmt.Errorf("parse trivia response: %w", err)
	}

	return batch, resp, nil
}

// TranslateBatch localizes a batch of questions into the target
// language, preserving option order so the correct index carries over.
func (g *Generator) TranslateBatch(ctx context.Context, lang models.Language, questions []GeneratedQuestion) ([]TranslatedQuestion, *LLMResponse, error) {
	systemPrompt := TranslationSystemPrompt()
	userPrompt, err := BuildTranslationUserPrompt(lang, questions)
	if err != nil {
		return nil, nil, err
	}

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, nil, fmt.Errorf("translate batch: %w", err)
	}

	translated, err := ParseTranslations(resp.Content, len(questions))
	if err != nil {
		return nil, resp, fmt.Errorf("parse translation response: %w", err)
	}

	return translated, resp, nil
}

// ── APIClient — Anthropic SDK (Production) ─────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   8192,
		Temperature: param.NewOpt(0.8),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			sleepDuration := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("Retrying Anthropic API call in %v (attempt %d)", sleepDuration, attempt+1)
			time.Sleep(sleepDuration)
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Printf("Anthropic API attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// ── MockClient — Local Development ─────────────────────────

type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	var mockJSON string
	if systemPrompt == TranslationSystemPrompt() {
		mockJSON = buildMockTranslationJSON()
	} else {
		mockJSON = buildMockJSON()
	}
	return &LLMResponse{
		Content:      mockJSON,
		PromptTokens: 800,
		OutputTokens: 1600,
	}, nil
}

func buildMockJSON() string {
	topics := []string{
		"rivers", "inventors", "capital cities", "chemical elements",
		"famous novels", "olympic sports", "ancient empires", "planets",
		"composers", "programming languages",
	}

	questions := "["
	for i := 0; i < 10; i++ {
		topic := topics[i%len(topics)]
		if i > 0 {
			questions += ","
		}
		questions += fmt.Sprintf(
			`{"prompt":"[Mock] Which of the following is best known in the study of %s?",`+
				`"options":["[Mock] %s option one","[Mock] %s option two","[Mock] %s option three","[Mock] %s option four"],`+
				`"correct_idx":%d}`,
			topic, topic, topic, topic, topic, i%4)
	}
	questions += "]"

	return fmt.Sprintf(`{"questions":%s}`, questions)
}

func buildMockTranslationJSON() string {
	questions := "["
	for i := 0; i < 10; i++ {
		if i > 0 {
			questions += ","
		}
		questions += fmt.Sprintf(
			`{"prompt":"[Mock-translated] question %d",`+
				`"options":["[Mock] opcion uno","[Mock] opcion dos","[Mock] opcion tres","[Mock] opcion cuatro"]}`, i+1)
	}
	questions += "]"
	return fmt.Sprintf(`{"questions":%s}`, questions)
}
