package chatbot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

type Sender string

const (
	SenderBot  Sender = "bot"
	SenderUser Sender = "user"
)

// Message is one line of the chat transcript.
type Message struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

var (
	ErrClosed          = errors.New("chat is closed")
	ErrUnknownCategory = errors.New("unknown category")
	ErrNoCategory      = errors.New("no category selected")
	ErrUnknownQuestion = errors.New("question not in current category")
)

// Answerer answers free-form questions the FAQ does not cover.
type Answerer interface {
	Answer(ctx context.Context, question string, knowledge []string) (string, error)
}

// KnowledgeFunc supplies the knowledge lines for an Answerer.
type KnowledgeFunc func(ctx context.Context) ([]string, error)

// Bot is the FAQ chat state machine: closed, open on the category list,
// or open inside one category.
type Bot struct {
	content   *Content
	answerer  Answerer
	knowledge KnowledgeFunc
	logger    zerolog.Logger

	mu         sync.Mutex
	open       bool
	category   string
	transcript []Message
}

type Option func(*Bot)

// WithAnswerer enables model answers for unmatched questions.
func WithAnswerer(answerer Answerer, knowledge KnowledgeFunc) Option {
	return func(b *Bot) {
		b.answerer = answerer
		b.knowledge = knowledge
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

func NewBot(content *Content, opts ...Option) *Bot {
	if content == nil {
		content = DefaultContent()
	}
	b := &Bot{content: content, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bot) Content() *Content {
	return b.content
}

// Open starts a fresh conversation with the greeting.
func (b *Bot) Open() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = true
	b.category = ""
	b.transcript = []Message{{Sender: SenderBot, Text: b.content.Greeting}}
}

// Close ends the conversation and forgets it.
func (b *Bot) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = false
	b.category = ""
	b.transcript = nil
}

func (b *Bot) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

// CurrentCategory is empty while on the category list.
func (b *Bot) CurrentCategory() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.category
}

// Options lists what can be picked next: category names on the list,
// otherwise the current category's questions.
func (b *Bot) Options() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.category == "" {
		return b.content.CategoryNames()
	}
	category, _ := b.content.Category(b.category)
	return category.QuestionList()
}

func (b *Bot) Transcript() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Message(nil), b.transcript...)
}

func (b *Bot) SelectCategory(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return ErrClosed
	}
	category, ok := b.content.Category(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, name)
	}
	b.category = category.Name
	b.say(SenderUser, category.Name)
	b.say(SenderBot, fmt.Sprintf("Here are some questions about %s.", category.Name))
	return nil
}

// SelectQuestion answers one of the current category's questions.
func (b *Bot) SelectQuestion(question string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return "", ErrClosed
	}
	if b.category == "" {
		return "", ErrNoCategory
	}
	category, _ := b.content.Category(b.category)
	answer, ok := category.Answer(question)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownQuestion, question)
	}
	b.say(SenderUser, question)
	b.say(SenderBot, answer)
	return answer, nil
}

// Back returns to the category list.
func (b *Bot) Back() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.category = ""
}

// Ask answers free text: an FAQ match first, then the Answerer, then the
// fallback message.
func (b *Bot) Ask(ctx context.Context, text string) (string, error) {
	b.mu.Lock()
	if !b.open {
		b.mu.Unlock()
		return "", ErrClosed
	}
	b.say(SenderUser, text)
	b.mu.Unlock()

	answer := b.answer(ctx, text)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.open {
		b.say(SenderBot, answer)
	}
	return answer, nil
}

// Reply answers free text without touching any conversation state.
func (b *Bot) Reply(ctx context.Context, text string) string {
	return b.answer(ctx, text)
}

func (b *Bot) answer(ctx context.Context, text string) string {
	if qa, ok := b.content.Search(text); ok {
		return qa.Answer
	}
	if b.answerer != nil {
		var knowledge []string
		if b.knowledge != nil {
			lines, err := b.knowledge(ctx)
			if err != nil {
				b.logger.Warn().Err(err).Msg("Failed to gather chatbot knowledge")
			}
			knowledge = lines
		}
		answer, err := b.answerer.Answer(ctx, text, knowledge)
		if err == nil && answer != "" {
			return answer
		}
		b.logger.Warn().Err(err).Msg("Chatbot answerer failed, using fallback")
	}
	return b.content.Fallback
}

// say appends to the transcript. Callers hold b.mu.
func (b *Bot) say(sender Sender, text string) {
	b.transcript = append(b.transcript, Message{Sender: sender, Text: text})
}
