package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/foodgramapp/foodgram-server/internal/service"
)

// adminPasswordEnv supplies the password when --password is not given.
const adminPasswordEnv = "FOODGRAM_ADMIN_PASSWORD"

func newCreateAdminCmd(g *globalFlags) *cobra.Command {
	var req service.RegisterRequest

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long: `Create an administrator account.

The password is read from --password or, when that is empty, from
$` + adminPasswordEnv + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				req.Password = os.Getenv(adminPasswordEnv)
			}
			if req.Password == "" {
				return errors.New("password required: pass --password or set " + adminPasswordEnv)
			}

			injector, err := g.open()
			if err != nil {
				return err
			}
			defer func() { _ = injector.Shutdown() }()

			users := do.MustInvoke[*service.UserService](injector)
			user, err := users.CreateAdmin(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Login email")
	cmd.Flags().StringVar(&req.Username, "username", "", "Public handle")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "Admin", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "User", "Last name")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password, at least 8 characters")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}
