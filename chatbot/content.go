package chatbot

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed faq.yaml
var defaultFAQ []byte

// QA is one canned question and its answer.
type QA struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

// Category groups questions under a label shown as a chat option.
type Category struct {
	Name      string `yaml:"name" json:"name"`
	Questions []QA   `yaml:"questions" json:"questions"`
}

// Content is everything the bot knows without asking a model.
type Content struct {
	Greeting   string     `yaml:"greeting" json:"greeting"`
	Fallback   string     `yaml:"fallback" json:"fallback"`
	Profile    Profile    `yaml:"profile" json:"profile"`
	Categories []Category `yaml:"categories" json:"categories"`
}

// DefaultContent returns the embedded FAQ.
func DefaultContent() *Content {
	content, err := LoadContent(bytes.NewReader(defaultFAQ))
	if err != nil {
		panic(fmt.Sprintf("embedded faq.yaml is invalid: %v", err))
	}
	return content
}

// LoadContentFile reads content from a YAML file.
func LoadContentFile(path string) (*Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chatbot content: %w", err)
	}
	defer f.Close()
	return LoadContent(f)
}

// LoadContent decodes and checks YAML content.
func LoadContent(r io.Reader) (*Content, error) {
	var content Content
	if err := yaml.NewDecoder(r).Decode(&content); err != nil {
		return nil, fmt.Errorf("decoding chatbot content: %w", err)
	}
	if err := content.validate(); err != nil {
		return nil, err
	}
	return &content, nil
}

func (c *Content) validate() error {
	if len(c.Categories) == 0 {
		return errors.New("chatbot content has no categories")
	}
	seen := make(map[string]bool)
	for _, category := range c.Categories {
		key := strings.ToLower(strings.TrimSpace(category.Name))
		if key == "" {
			return errors.New("chatbot category without a name")
		}
		if seen[key] {
			return fmt.Errorf("duplicate chatbot category %q", category.Name)
		}
		seen[key] = true
		for _, qa := range category.Questions {
			if strings.TrimSpace(qa.Question) == "" || strings.TrimSpace(qa.Answer) == "" {
				return fmt.Errorf("category %q has an empty question or answer", category.Name)
			}
		}
	}
	return nil
}

func (c *Content) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for _, category := range c.Categories {
		names = append(names, category.Name)
	}
	return names
}

// Category finds a category by case-insensitive name.
func (c *Content) Category(name string) (Category, bool) {
	name = strings.TrimSpace(name)
	for _, category := range c.Categories {
		if strings.EqualFold(category.Name, name) {
			return category, true
		}
	}
	return Category{}, false
}

func (c Category) Answer(question string) (string, bool) {
	question = strings.TrimSpace(question)
	for _, qa := range c.Questions {
		if strings.EqualFold(qa.Question, question) {
			return qa.Answer, true
		}
	}
	return "", false
}

func (c Category) QuestionList() []string {
	questions := make([]string, 0, len(c.Questions))
	for _, qa := range c.Questions {
		questions = append(questions, qa.Question)
	}
	return questions
}

// Search does a case-insensitive substring match, first against every
// question and then against every answer.
func (c *Content) Search(text string) (QA, bool) {
	query := strings.ToLower(strings.TrimSpace(text))
	query = strings.TrimRight(query, "?!. ")
	if query == "" {
		return QA{}, false
	}
	for _, category := range c.Categories {
		for _, qa := range category.Questions {
			question := strings.TrimRight(strings.ToLower(qa.Question), "?!. ")
			if strings.Contains(question, query) || strings.Contains(query, question) {
				return qa, true
			}
		}
	}
	for _, category := range c.Categories {
		for _, qa := range category.Questions {
			if strings.Contains(strings.ToLower(qa.Answer), query) {
				return qa, true
			}
		}
	}
	return QA{}, false
}
