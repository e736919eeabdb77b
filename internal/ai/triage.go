package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/asseto/trackgo/internal/models"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const triagePrompt = `You are a triage assistant for an IT hardware RMA desk.
Classify the severity of the following issue report.
Answer with exactly one word: low, medium, high, or critical.

Issue report:
%s`

// TriageClient asks Google Gemini to suggest a priority for an issue
// description. Suggestions are advisory only.
type TriageClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewTriageClient creates a Gemini-backed triage client
func NewTriageClient(ctx context.Context, apiKey, modelName string) (*TriageClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	model := client.GenerativeModel(modelName)

	return &TriageClient{
		client: client,
		model:  model,
	}, nil
}

// Close closes the client connection
func (c *TriageClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// SuggestPriority classifies an issue description into one of the four
// priority levels. The model answer is normalized and validated; anything
// unrecognized is an error rather than a guess.
func (c *TriageClient) SuggestPriority(ctx context.Context, issue string) (models.RMAPriority, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(fmt.Sprintf(triagePrompt, issue)))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	var fullText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullText += string(txt)
		}
	}

	return parsePriority(fullText)
}

func parsePriority(answer string) (models.RMAPriority, error) {
	cleaned := strings.ToLower(strings.TrimSpace(answer))
	cleaned = strings.Trim(cleaned, ".\"'`")

	switch models.RMAPriority(cleaned) {
	case models.RMAPriorityLow:
		return models.RMAPriorityLow, nil
	case models.RMAPriorityMedium:
		return models.RMAPriorityMedium, nil
	case models.RMAPriorityHigh:
		return models.RMAPriorityHigh, nil
	case models.RMAPriorityCritical:
		return models.RMAPriorityCritical, nil
	}
	return "", fmt.Errorf("unrecognized priority answer: %q", answer)
}
