package cmd

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio/api"
	"github.com/rpupo63/portfolio/chatbot"
	"github.com/rpupo63/portfolio/config"
	"github.com/rpupo63/portfolio/database"
	"github.com/rpupo63/portfolio/errs"
	"github.com/rpupo63/portfolio/services"
	"github.com/rpupo63/portfolio/storage"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the portfolio API server",
		Long: `Starts the portfolio API: project catalog, admin accounts, contact form
and chatbot. The database, image store and notifiers are configured from the
environment (see .env).`,
		Example: `  # Start on the port from $PORT (default 8080)
  portfolio serve

  # Start server on custom port
  portfolio serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := config.New()
			if loaded, err := config.LoadSSM(cmd.Context(), c); err != nil {
				return err
			} else if loaded > 0 {
				log.Info().Int("parameters", loaded).Msg("Loaded configuration from SSM")
			}
			if port != "" {
				c["PORT"] = port
			}

			gormDB, err := database.Open(c)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			if sqlDB, err := gormDB.DB(); err == nil {
				defer sqlDB.Close()
			}
			db := database.New(gormDB)

			images, err := storage.New(cmd.Context(), c)
			if err != nil {
				return fmt.Errorf("creating image store: %w", err)
			}

			contact, err := newContactService(c)
			if err != nil {
				return err
			}

			bot, err := newServerBot(c, db)
			if err != nil {
				return err
			}

			server, err := api.NewServer(c, api.Dependencies{
				Database: db,
				Images:   images,
				Contact:  contact,
				Chatbot:  bot,
			})
			if err != nil {
				return err
			}

			shutdownTimeout := config.GetDuration(c, "SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(server.Start)
			g.Go(func() error {
				<-ctx.Done()
				server.ShutdownGracefully(shutdownTimeout)
				return nil
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides $PORT)")

	return cmd
}

// newContactService wires every notifier whose configuration is present.
// It returns nil when none is.
func newContactService(c map[string]string) (*services.ContactService, error) {
	var notifiers []services.ContactNotifier

	mailer, err := services.NewMailerFromConfig(c)
	switch {
	case err == nil:
		notifiers = append(notifiers, mailer)
	case errs.IsConfigMissing(err):
		log.Info().Err(err).Msg("Email notifications disabled")
	default:
		return nil, err
	}

	sms, err := services.NewSMSNotifierFromConfig(c)
	switch {
	case err == nil:
		notifiers = append(notifiers, sms)
	case errs.IsConfigMissing(err):
		log.Info().Err(err).Msg("SMS notifications disabled")
	default:
		return nil, err
	}

	if len(notifiers) == 0 {
		log.Warn().Msg("No contact notifier configured, POST /api/contact will return 503")
		return nil, nil
	}
	return services.NewContactService(notifiers...), nil
}

func newServerBot(c map[string]string, db database.Database) (*chatbot.Bot, error) {
	content, err := loadChatContent(config.GetString(c, "CHATBOT_CONTENT", ""))
	if err != nil {
		return nil, err
	}

	logger := log.With().Str("component", "chatbot").Logger()
	opts := []chatbot.Option{chatbot.WithLogger(logger)}

	if apiKey := config.GetString(c, "OPENAI_API_KEY", ""); apiKey != "" {
		answerer, err := chatbot.NewOpenAIAnswerer(apiKey, config.GetString(c, "CHATBOT_MODEL", ""))
		if err != nil {
			return nil, err
		}
		opts = append(opts, chatbot.WithAnswerer(answerer, api.ProjectKnowledge(db.ProjectRepo(), content.Profile)))
	}

	return chatbot.NewBot(content, opts...), nil
}

func loadChatContent(path string) (*chatbot.Content, error) {
	if path == "" {
		return chatbot.DefaultContent(), nil
	}
	return chatbot.LoadContentFile(path)
}
