package cmd

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpupo63/portfolio/catalog"
)

func newAdminsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "admins",
		Aliases: []string{"admin"},
		Short:   "Manage admin accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List admin accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := newAuthedGateway(cmd)
			if err != nil {
				return err
			}
			admins, err := gateway.ListAdmins(cmd.Context())
			if err != nil {
				return err
			}
			for _, admin := range admins {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", accentColor.Sprint(admin.Email), dimColor.Sprintf("(%s, since %s)", admin.ID, admin.CreatedAt.Format("2006-01-02")))
			}
			return nil
		},
	})

	var creds credentialFlags
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Add an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := newAuthedGateway(cmd)
			if err != nil {
				return err
			}
			email, password, err := creds.resolve(cmd)
			if err != nil {
				return err
			}
			admin, err := gateway.CreateAdmin(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			printSuccess(cmd, "✅ Admin %s created (%s)", admin.Email, admin.ID)
			return nil
		},
	}
	creds.register(createCmd)
	cmd.AddCommand(createCmd)

	var update catalog.AdminUpdate
	updateCmd := &cobra.Command{
		Use:   "update <admin-id>",
		Short: "Change an admin's email or password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if update.Email == "" && update.Password == "" {
				return fmt.Errorf("nothing to update, pass --email or --password")
			}
			gateway, err := newAuthedGateway(cmd)
			if err != nil {
				return err
			}
			admin, err := gateway.UpdateAdmin(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			printSuccess(cmd, "✅ Admin %s updated", admin.Email)
			return nil
		},
	}
	updateCmd.Flags().StringVarP(&update.Email, "email", "e", "", "New email")
	updateCmd.Flags().StringVar(&update.Password, "password", "", "New password")
	cmd.AddCommand(updateCmd)

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <admin-id>",
		Short: "Remove an admin account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := newAuthedGateway(cmd)
			if err != nil {
				return err
			}
			if !yes && !confirm(cmd, bufio.NewReader(cmd.InOrStdin()), fmt.Sprintf("Delete admin %s?", args[0])) {
				printWarning(cmd, "Cancelled")
				return nil
			}
			if err := gateway.DeleteAdmin(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess(cmd, "✅ Admin deleted")
			return nil
		},
	}
	deleteCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.AddCommand(deleteCmd)

	return cmd
}

func newAuthedGateway(cmd *cobra.Command) (*catalog.HTTPGateway, error) {
	gateway, err := newGateway(cmd)
	if err != nil {
		return nil, err
	}
	if err := requireSession(gateway); err != nil {
		return nil, err
	}
	return gateway, nil
}
