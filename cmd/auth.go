package cmd

import (
	"bufio"

	"github.com/spf13/cobra"

	"github.com/rpupo63/portfolio/catalog"
	"github.com/rpupo63/portfolio/errs"
)

type credentialFlags struct {
	email    string
	password string
}

func (f *credentialFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.email, "email", "e", "", "Admin email (prompted when omitted)")
	cmd.Flags().StringVar(&f.password, "password", "", "Admin password (prompted when omitted)")
}

// resolve prompts for whichever credential was not given as a flag.
func (f *credentialFlags) resolve(cmd *cobra.Command) (string, string, error) {
	reader := bufio.NewReader(cmd.InOrStdin())
	email, password := f.email, f.password
	var err error
	if email == "" {
		if email, err = prompt(cmd, reader, "Email: "); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if password, err = prompt(cmd, reader, "Password: "); err != nil {
			return "", "", err
		}
	}
	return email, password, nil
}

func newLoginCmd() *cobra.Command {
	var creds credentialFlags

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as an admin and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := newGateway(cmd)
			if err != nil {
				return err
			}
			email, password, err := creds.resolve(cmd)
			if err != nil {
				return err
			}
			if err := gateway.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			printSuccess(cmd, "✅ Logged in as %s", email)
			return nil
		},
	}
	creds.register(cmd)

	return cmd
}

func newSignupCmd() *cobra.Command {
	var creds credentialFlags

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create the first admin account and log in",
		Long: `Creates an admin account. The service only accepts signups while no admin
exists (or when ALLOW_SIGNUP is set); later admins are added with
"portfolio admins create".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := newGateway(cmd)
			if err != nil {
				return err
			}
			email, password, err := creds.resolve(cmd)
			if err != nil {
				return err
			}
			if err := gateway.Signup(cmd.Context(), email, password); err != nil {
				return err
			}
			printSuccess(cmd, "✅ Signed up and logged in as %s", email)
			return nil
		},
	}
	creds.register(cmd)

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := newGateway(cmd)
			if err != nil {
				return err
			}
			if err := gateway.Logout(); err != nil {
				return err
			}
			printSuccess(cmd, "✅ Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Check whether the stored session is still valid",
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := newGateway(cmd)
			if err != nil {
				return err
			}
			ok, err := gateway.Session().Start(cmd.Context(), gateway)
			if err != nil {
				return err
			}
			if !ok {
				printWarning(cmd, "Not logged in")
				return nil
			}
			printSuccess(cmd, "✅ Logged in")
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the API is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := newGateway(cmd)
			if err != nil {
				return err
			}
			health, err := gateway.Health(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess(cmd, "✅ API is %s (up %s)", health.Status, health.Uptime)
			return nil
		},
	}
}

// requireSession fails early when no token is stored.
func requireSession(gateway *catalog.HTTPGateway) error {
	if !gateway.Session().Authenticated() {
		return errs.NewAuthError("not logged in, run \"portfolio login\" first")
	}
	return nil
}
