package cmd

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Portfolio site backend and catalog admin tool",
		Long: `Portfolio serves the personal site API (projects, admins, contact form
and FAQ chatbot) and manages the project catalog from the command line.

Run "portfolio serve" to start the API, then "portfolio login" and
"portfolio projects" to curate the catalog against it.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			setupLogging()
		},
	}

	cmd.PersistentFlags().String("api-url", "", "Portfolio API base URL (default $PORTFOLIO_API_URL or http://localhost:8080)")
	cmd.PersistentFlags().String("token-file", "", "Where the login token is kept (default $PORTFOLIO_TOKEN_FILE)")

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newSignupCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newWhoamiCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newProjectsCmd())
	cmd.AddCommand(newAdminsCmd())
	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newContactCmd())

	return cmd
}

func setupLogging() {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
