package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mkarpova/focusdo/internal/app"
	"github.com/mkarpova/focusdo/internal/ui"
	"github.com/mkarpova/focusdo/internal/ui/theme"
	"github.com/spf13/cobra"
)

// cfg holds the resolved configuration, populated in PersistentPreRunE.
var cfg *app.Config

var (
	flagBaseURL string
	flagTheme   string
)

var rootCmd = &cobra.Command{
	Use:   "focusdo",
	Short: "Task tracker with a built-in pomodoro timer",
	Long: `focusdo is a terminal client for the focusdo task server.

It keeps work and study tasks in sync with the server, runs a pomodoro
timer with desktop notifications, and remembers your session between
runs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = app.DefaultConfig()
		if flagBaseURL != "" {
			cfg.BaseURL = flagBaseURL
		}
		if flagTheme != "" {
			t, ok := theme.ByName(flagTheme)
			if !ok {
				return fmt.Errorf("unknown theme %q", flagTheme)
			}
			theme.SetTheme(t)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cfg, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		p := tea.NewProgram(ui.NewRootModel(a), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "server", "", "server URL (default from FOCUSDO_API_URL)")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "", "color theme (tomato, mint)")
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
