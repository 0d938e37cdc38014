package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"taskmind.com/taskmind/internal/auth"
	"taskmind.com/taskmind/internal/services"
)

var adminFlags struct {
	name     string
	email    string
	password string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := openStores(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer st.close(context.Background())

		authService := services.NewAuthService(st.users, auth.NewPasswordHasher(cfg.BcryptCost), nil, nil, "", logger)
		profile, err := authService.CreateAdmin(cmd.Context(), adminFlags.name, adminFlags.email, adminFlags.password)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s <%s> (%s)\n", profile.Name, profile.Email, profile.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminFlags.name, "name", "", "display name")
	createAdminCmd.Flags().StringVar(&adminFlags.email, "email", "", "login email")
	createAdminCmd.Flags().StringVar(&adminFlags.password, "password", "", "initial password")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
	_ = createAdminCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(createAdminCmd)
}
