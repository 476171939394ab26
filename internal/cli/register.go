package cli

import (
	"context"
	"fmt"

	"github.com/mkarpova/focusdo/internal/app"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, err := promptLine("Username: ")
		if err != nil {
			return err
		}
		email, err := promptLine("Email (optional): ")
		if err != nil {
			return err
		}
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}

		a, err := app.New(cfg, app.Options{SkipLock: true})
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()

		// Registration returns a token, so the account is immediately
		// logged in.
		if err := a.Register(ctx, username, email, password); err != nil {
			return err
		}

		fmt.Printf("Account created. Logged in as %s.\n", username)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}
