package chatbot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFAQ = `
greeting: Hello!
fallback: No idea.
categories:
  - name: About Me
    questions:
      - question: Who am I?
        answer: A Go developer.
      - question: Skills?
        answer: Go and PostgreSQL.
  - name: Contact
    questions:
      - question: Email?
        answer: me@example.com
`

func newTestBot(t *testing.T, opts ...Option) *Bot {
	t.Helper()
	content, err := LoadContent(strings.NewReader(testFAQ))
	require.NoError(t, err)
	return NewBot(content, opts...)
}

func TestBotNavigation(t *testing.T) {
	bot := newTestBot(t)
	require.ErrorIs(t, bot.SelectCategory("About Me"), ErrClosed)

	bot.Open()
	assert.Equal(t, []Message{{SenderBot, "Hello!"}}, bot.Transcript())
	assert.Equal(t, []string{"About Me", "Contact"}, bot.Options())

	_, err := bot.SelectQuestion("Who am I?")
	require.ErrorIs(t, err, ErrNoCategory)

	require.NoError(t, bot.SelectCategory("about me"))
	assert.Equal(t, "About Me", bot.CurrentCategory())
	assert.Equal(t, []string{"Who am I?", "Skills?"}, bot.Options())

	_, err = bot.SelectQuestion("Email?")
	require.ErrorIs(t, err, ErrUnknownQuestion)

	answer, err := bot.SelectQuestion("Skills?")
	require.NoError(t, err)
	assert.Equal(t, "Go and PostgreSQL.", answer)

	bot.Back()
	assert.Empty(t, bot.CurrentCategory())
	require.ErrorIs(t, bot.SelectCategory("Hobbies"), ErrUnknownCategory)

	assert.Equal(t, []Message{
		{SenderBot, "Hello!"},
		{SenderUser, "About Me"},
		{SenderBot, "Here are some questions about About Me."},
		{SenderUser, "Skills?"},
		{SenderBot, "Go and PostgreSQL."},
	}, bot.Transcript())

	bot.Close()
	assert.False(t, bot.IsOpen())
	assert.Empty(t, bot.Transcript())
}

func TestAskSearchesQuestionsThenAnswers(t *testing.T) {
	bot := newTestBot(t)
	bot.Open()
	ctx := context.Background()

	answer, err := bot.Ask(ctx, "what are your SKILLS?")
	require.NoError(t, err)
	assert.Equal(t, "Go and PostgreSQL.", answer)

	answer, err = bot.Ask(ctx, "postgresql")
	require.NoError(t, err)
	assert.Equal(t, "Go and PostgreSQL.", answer)

	answer, err = bot.Ask(ctx, "favourite food")
	require.NoError(t, err)
	assert.Equal(t, "No idea.", answer)

	answer, err = bot.Ask(ctx, "   ")
	require.NoError(t, err)
	assert.Equal(t, "No idea.", answer)
}

type stubAnswerer struct {
	answer    string
	err       error
	knowledge []string
	calls     int
}

func (s *stubAnswerer) Answer(ctx context.Context, question string, knowledge []string) (string, error) {
	s.calls++
	s.knowledge = knowledge
	return s.answer, s.err
}

func TestAskFallsBackToAnswerer(t *testing.T) {
	answerer := &stubAnswerer{answer: "I like pizza."}
	bot := newTestBot(t, WithAnswerer(answerer, func(ctx context.Context) ([]string, error) {
		return []string{"Name: Test"}, nil
	}))
	bot.Open()

	answer, err := bot.Ask(context.Background(), "who am i")
	require.NoError(t, err)
	assert.Equal(t, "A Go developer.", answer)
	assert.Zero(t, answerer.calls)

	answer, err = bot.Ask(context.Background(), "favourite food")
	require.NoError(t, err)
	assert.Equal(t, "I like pizza.", answer)
	assert.Equal(t, []string{"Name: Test"}, answerer.knowledge)

	answerer.err = errors.New("quota exceeded")
	answer, err = bot.Ask(context.Background(), "favourite food")
	require.NoError(t, err)
	assert.Equal(t, "No idea.", answer)
}

func TestLoadContentRejectsInvalid(t *testing.T) {
	_, err := LoadContent(strings.NewReader("categories: []"))
	assert.Error(t, err)

	_, err = LoadContent(strings.NewReader("categories:\n  - name: A\n  - name: a\n"))
	assert.ErrorContains(t, err, "duplicate")
}

func TestDefaultContentLoads(t *testing.T) {
	content := DefaultContent()
	assert.NotEmpty(t, content.Greeting)
	assert.Contains(t, content.CategoryNames(), "Projects")
}
