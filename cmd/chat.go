package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rpupo63/portfolio/chatbot"
	"github.com/rpupo63/portfolio/config"
)

func newChatCmd() *cobra.Command {
	var contentPath string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the FAQ chatbot locally",
		Long: `Starts an interactive session with the FAQ chatbot. Pick a category or a
question by number, or type a free-text question. Type "q" to quit.

When OPENAI_API_KEY is set, questions the FAQ cannot answer are sent to the
configured model.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			bot, err := newLocalBot(contentPath)
			if err != nil {
				return err
			}
			return runChat(cmd, bot)
		},
	}
	cmd.PersistentFlags().StringVar(&contentPath, "content", "", "FAQ YAML file (default $CHATBOT_CONTENT or the built-in FAQ)")

	cmd.AddCommand(&cobra.Command{
		Use:   "categories",
		Short: "List chatbot categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			bot, err := newLocalBot(contentPath)
			if err != nil {
				return err
			}
			for _, name := range bot.Content().CategoryNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "questions <category>",
		Short: "List the questions of a category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bot, err := newLocalBot(contentPath)
			if err != nil {
				return err
			}
			name := strings.Join(args, " ")
			category, ok := bot.Content().Category(name)
			if !ok {
				return fmt.Errorf("%w: %s", chatbot.ErrUnknownCategory, name)
			}
			for _, question := range category.QuestionList() {
				fmt.Fprintln(cmd.OutOrStdout(), question)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "ask <question>",
		Short: "Answer one free-text question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bot, err := newLocalBot(contentPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), bot.Reply(cmd.Context(), strings.Join(args, " ")))
			return nil
		},
	})

	return cmd
}

func newLocalBot(contentPath string) (*chatbot.Bot, error) {
	c := config.New()
	if contentPath == "" {
		contentPath = config.GetString(c, "CHATBOT_CONTENT", "")
	}
	content, err := loadChatContent(contentPath)
	if err != nil {
		return nil, err
	}

	opts := []chatbot.Option{chatbot.WithLogger(log.With().Str("component", "chatbot").Logger())}
	if apiKey := config.GetString(c, "OPENAI_API_KEY", ""); apiKey != "" {
		answerer, err := chatbot.NewOpenAIAnswerer(apiKey, config.GetString(c, "CHATBOT_MODEL", ""))
		if err != nil {
			return nil, err
		}
		profileOnly := chatbot.Knowledge(content.Profile, nil)
		opts = append(opts, chatbot.WithAnswerer(answerer, func(context.Context) ([]string, error) {
			return profileOnly, nil
		}))
	}
	return chatbot.NewBot(content, opts...), nil
}

func runChat(cmd *cobra.Command, bot *chatbot.Bot) error {
	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())

	bot.Open()
	defer bot.Close()
	printBotMessages(cmd, bot.Transcript())

	for {
		options := bot.Options()
		inCategory := bot.CurrentCategory() != ""
		for i, option := range options {
			fmt.Fprintf(out, "  %s %s\n", accentColor.Sprintf("%d)", i+1), option)
		}
		if inCategory {
			fmt.Fprintf(out, "  %s Back\n", accentColor.Sprint("0)"))
		}

		fmt.Fprint(out, "> ")
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if err != nil && (err != io.EOF || line == "") {
			return nil
		}
		if line == "" {
			continue
		}
		if line == "q" || line == "quit" {
			return nil
		}

		seen := len(bot.Transcript())
		if n, convErr := strconv.Atoi(line); convErr == nil {
			switch {
			case n == 0 && inCategory:
				bot.Back()
				continue
			case n >= 1 && n <= len(options) && !inCategory:
				err = bot.SelectCategory(options[n-1])
			case n >= 1 && n <= len(options):
				_, err = bot.SelectQuestion(options[n-1])
			default:
				printWarning(cmd, "Pick a number from the list")
				continue
			}
		} else {
			_, err = bot.Ask(cmd.Context(), line)
		}
		if err != nil {
			return err
		}

		transcript := bot.Transcript()
		printBotMessages(cmd, transcript[seen:])
	}
}

func printBotMessages(cmd *cobra.Command, messages []chatbot.Message) {
	for _, msg := range messages {
		if msg.Sender == chatbot.SenderBot {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successColor.Sprint("bot:"), msg.Text)
		}
	}
}
