package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rpupo63/portfolio/catalog"
	"github.com/rpupo63/portfolio/config"
)

const defaultAPIURL = "http://localhost:8080"

// newGateway builds a gateway for the configured API with the persisted
// session restored.
func newGateway(cmd *cobra.Command) (*catalog.HTTPGateway, error) {
	c := config.New()

	apiURL, _ := cmd.Flags().GetString("api-url")
	if apiURL == "" {
		apiURL = config.GetString(c, "PORTFOLIO_API_URL", defaultAPIURL)
	}

	tokenFile, _ := cmd.Flags().GetString("token-file")
	if tokenFile == "" {
		tokenFile = config.GetString(c, "PORTFOLIO_TOKEN_FILE", "")
	}
	if tokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("locating config dir: %w", err)
		}
		tokenFile = filepath.Join(dir, "portfolio", "token")
	}

	session := catalog.NewSession(
		catalog.FileTokenStore{Path: tokenFile},
		catalog.WithSessionLogger(log.With().Str("component", "session").Logger()),
	)
	if err := session.Restore(); err != nil {
		return nil, err
	}
	session.OnAuthError(func(err error) {
		log.Debug().Err(err).Msg("Stored session cleared")
	})

	return catalog.NewHTTPGateway(apiURL, session, catalog.WithLogger(log.With().Str("component", "gateway").Logger()))
}
