package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/mkarpova/focusdo/internal/app"
	"github.com/spf13/cobra"
)

const authTimeout = 30 * time.Second

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log in and store the session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var username string
		if len(args) == 1 {
			username = args[0]
		} else {
			u, err := promptLine("Username: ")
			if err != nil {
				return err
			}
			username = u
		}

		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		a, err := app.New(cfg, app.Options{SkipLock: true})
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()

		if err := a.Login(ctx, username, password); err != nil {
			return err
		}

		fmt.Printf("Logged in as %s.\n", username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cfg, app.Options{SkipLock: true})
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.Session.Active() {
			fmt.Println("Not logged in.")
			return nil
		}
		if err := a.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo when stdin is a terminal, and falls
// back to a plain line read when it is piped.
func promptPassword(prompt string) (string, error) {
	if !term.IsTerminal(os.Stdin.Fd()) {
		return promptLine(prompt)
	}
	fmt.Print(prompt)
	b, err := term.ReadPassword(os.Stdin.Fd())
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
