package chatbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const defaultModel = "gpt-4o-mini"

// LLMAnswerer answers with a language model grounded on the knowledge
// lines.
type LLMAnswerer struct {
	model       llms.Model
	temperature float64
	maxTokens   int
}

func NewLLMAnswerer(model llms.Model) *LLMAnswerer {
	return &LLMAnswerer{model: model, temperature: 0.2, maxTokens: 300}
}

// NewOpenAIAnswerer builds an answerer backed by the OpenAI chat API.
func NewOpenAIAnswerer(apiKey, model string) (*LLMAnswerer, error) {
	if model == "" {
		model = defaultModel
	}
	llm, err := openai.New(openai.WithToken(apiKey), openai.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("creating openai client: %w", err)
	}
	return NewLLMAnswerer(llm), nil
}

func (a *LLMAnswerer) Answer(ctx context.Context, question string, knowledge []string) (string, error) {
	answer, err := llms.GenerateFromSinglePrompt(ctx, a.model, buildPrompt(question, knowledge),
		llms.WithTemperature(a.temperature),
		llms.WithMaxTokens(a.maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

func buildPrompt(question string, knowledge []string) string {
	var sb strings.Builder
	sb.WriteString("You are the assistant on a personal portfolio website. ")
	sb.WriteString("Answer the visitor in at most three sentences using only the facts below. ")
	sb.WriteString("If the facts do not cover the question, say so and suggest the contact page.\n\n")
	sb.WriteString("Facts:\n")
	for _, line := range knowledge {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\nVisitor: ")
	sb.WriteString(strings.TrimSpace(question))
	sb.WriteString("\nAnswer:")
	return sb.String()
}
