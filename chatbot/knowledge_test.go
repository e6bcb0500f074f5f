package chatbot

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/rpupo63/portfolio/catalog"
)

func TestKnowledgeLines(t *testing.T) {
	profile := Profile{
		Name:    "Ada",
		Role:    "Engineer",
		Skills:  []string{"Go", "SQL"},
		Contact: ContactInfo{Email: "ada@example.com"},
	}
	projects := []catalog.ProjectRecord{
		{Title: "Plain", Description: strings.Repeat("x", 300)},
		{Title: "Star", Description: "featured one", Featured: true, Link: "https://star.dev", TechStack: "Go, HTMX"},
	}

	lines := Knowledge(profile, projects)

	assert.Equal(t, []string{
		"Name: Ada",
		"Role: Engineer",
		"Skills: Go, SQL",
		"\nProjects:",
		"- Star: featured one",
		"  Link: https://star.dev",
		"  Tech: Go, HTMX",
		"- Plain: " + strings.Repeat("x", 250),
		"\nContact Information:",
		"- Email: ada@example.com",
	}, lines)
}

type fakeModel struct {
	prompt string
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, part := range messages[0].Parts {
		if text, ok := part.(llms.TextContent); ok {
			m.prompt = text.Text
		}
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "  Ada builds Go services.  "}}}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	m.prompt = prompt
	return "Ada builds Go services.", nil
}

func TestLLMAnswerer(t *testing.T) {
	model := &fakeModel{}
	answerer := NewLLMAnswerer(model)

	answer, err := answerer.Answer(context.Background(), "What does Ada do?", []string{"Name: Ada", "Role: Engineer"})
	require.NoError(t, err)
	assert.Equal(t, "Ada builds Go services.", answer)
	assert.Contains(t, model.prompt, "Name: Ada\nRole: Engineer\n")
	assert.Contains(t, model.prompt, "Visitor: What does Ada do?")
}
