package cli

import (
	"context"
	"fmt"

	"github.com/mkarpova/focusdo/internal/app"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the logged-in account and task totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cfg, app.Options{SkipLock: true})
		if err != nil {
			return err
		}
		defer a.Close()

		id, ok := a.Session.Identity()
		if !ok {
			fmt.Println("Not logged in.")
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()

		p, err := a.Client.Profile(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Logged in as %s", id.Username)
		if p.Email != "" {
			fmt.Printf(" <%s>", p.Email)
		}
		fmt.Println()
		fmt.Printf("Tasks: %d total, %d completed (%.1f%%)\n",
			p.TaskCount, p.CompletedTasks, p.CompletionRate)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
