package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rpupo63/portfolio/catalog"
	"github.com/rpupo63/portfolio/errs"
)

func newContactCmd() *cobra.Command {
	var form catalog.ContactForm

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message through the public contact form",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case form.Name == "":
				return errs.NewValidationError("name", "name is required")
			case form.Email == "":
				return errs.NewValidationError("email", "email is required")
			case form.Message == "":
				return errs.NewValidationError("message", "message is required")
			}

			gateway, err := newGateway(cmd)
			if err != nil {
				return err
			}
			if err := gateway.SendContact(cmd.Context(), form); err != nil {
				return err
			}
			printSuccess(cmd, "✅ Message sent")
			return nil
		},
	}

	cmd.Flags().StringVarP(&form.Name, "name", "n", "", "Your name")
	cmd.Flags().StringVarP(&form.Email, "email", "e", "", "Your email")
	cmd.Flags().StringVarP(&form.Message, "message", "m", "", "Message text")

	return cmd
}
