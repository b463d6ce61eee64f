package generator

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CLIClient shells out to the Claude Code CLI instead of the HTTP API.
// Useful for local development where a CLI subscription is available
// but no API key is configured.
type CLIClient struct {
	cliPath string
}

func NewCLIClient(cliPath string) *CLIClient {
	return &CLIClient{cliPath: cliPath}
}

func (c *CLIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	cmd := exec.CommandContext(ctx, c.cliPath,
		"--print",
		"--output-format", "text",
		"--system-prompt", systemPrompt,
	)
	cmd.Stdin = strings.NewReader(userPrompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("claude CLI failed: %w (stderr: %s)", err, stderr.String())
	}

	output := strings.TrimSpace(stdout.String())
	if output == "" {
		return nil, fmt.Errorf("claude CLI returned empty output")
	}

	// CLI mode does not report token usage.
	return &LLMResponse{
		Content:      output,
		PromptTokens: 0,
		OutputTokens: 0,
	}, nil
}
