package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

// TaskSuggester turns free text into candidate tasks.
type TaskSuggester interface {
	SuggestTasks(ctx context.Context, text string) ([]SuggestedTask, error)
}

// SuggestedTask is a task proposed by the suggester; it has not been stored.
type SuggestedTask struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
}

// AIService implements TaskSuggester with the OpenAI chat completion API.
type AIService struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

// NewAIService creates an AIService for apiKey. An empty model selects GPT-4o.
func NewAIService(apiKey, model string) *AIService {
	return newAIServiceWithConfig(openai.DefaultConfig(apiKey), model)
}

func newAIServiceWithConfig(cfg openai.ClientConfig, model string) *AIService {
	if model == "" {
		model = openai.GPT4o
	}
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		now:    time.Now,
	}
}

const suggestPrompt = `You are a task extraction assistant. Extract concrete, actionable tasks from the text below.

Current time: %s

Text:
%s

Respond with a JSON object of this shape:
{
  "tasks": [
    {
      "title": "short task title (at most 100 characters)",
      "description": "details of the task, or an empty string",
      "priority": "low | medium | high"
    }
  ]
}

Rules:
- If the text contains no tasks, return {"tasks": []}
- Use "medium" priority unless the text implies urgency or lack of it
- Return JSON only, without any explanation`

type suggestResponse struct {
	Tasks []SuggestedTask `json:"tasks"`
}

// SuggestTasks analyzes text and extracts tasks using OpenAI GPT
func (s *AIService) SuggestTasks(ctx context.Context, text string) ([]SuggestedTask, error) {
	if s.client == nil {
		return nil, errors.New("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(suggestPrompt, s.now().Format(time.RFC3339), text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var parsed suggestResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	return parsed.Tasks, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
