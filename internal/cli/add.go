package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mkarpova/focusdo/internal/app"
	"github.com/mkarpova/focusdo/internal/model"
	"github.com/spf13/cobra"
)

var (
	flagCategory string
	flagMode     string
)

var addCmd = &cobra.Command{
	Use:   "add <task text>",
	Short: "Quick add a task without opening the TUI",
	Long: `Add a task from the command line.

Inline tokens:
  Due date:  due:tomorrow due:friday due:2026-01-15
  Priority:  !low !medium !high

Example:
  focusdo add "Review budget draft !high due:friday"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := model.ModeWork
		switch flagMode {
		case "", string(model.ModeWork):
		case string(model.ModeStudy):
			mode = model.ModeStudy
		default:
			return fmt.Errorf("unknown mode %q (work or study)", flagMode)
		}

		category := mode.Categories()[0]
		if flagCategory != "" {
			category = flagCategory
			if !mode.Valid(category) {
				return fmt.Errorf("unknown %s category %q (one of %s)",
					mode, category, strings.Join(mode.Categories(), ", "))
			}
		}

		draft := parseQuickAdd(strings.Join(args, " "), time.Now())
		draft.Category = category
		if strings.TrimSpace(draft.Title) == "" {
			return fmt.Errorf("task title must not be empty")
		}

		a, err := app.New(cfg, app.Options{SkipLock: true})
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.Session.Active() {
			return fmt.Errorf("not logged in (run: focusdo login)")
		}

		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()

		created, err := a.Tasks.Create(ctx, draft)
		if err != nil {
			return err
		}

		fmt.Printf("Created: %s\n", created.Title)
		if created.DueDate != nil {
			fmt.Printf("Due: %s\n", model.FormatDueDate(*created.DueDate, time.Now()))
		}
		if created.Priority != model.PriorityMedium {
			fmt.Printf("Priority: %s\n", created.Priority)
		}
		return nil
	},
}

// parseQuickAdd splits due:<date> and !<priority> tokens out of the text.
// Unrecognized tokens stay in the title.
func parseQuickAdd(text string, now time.Time) model.Draft {
	draft := model.Draft{Priority: model.PriorityMedium}

	var titleParts []string
	for _, word := range strings.Fields(text) {
		switch {
		case strings.HasPrefix(word, "!"):
			switch strings.ToLower(strings.TrimPrefix(word, "!")) {
			case "low", "l":
				draft.Priority = model.PriorityLow
			case "medium", "med", "m":
				draft.Priority = model.PriorityMedium
			case "high", "hi", "h":
				draft.Priority = model.PriorityHigh
			default:
				titleParts = append(titleParts, word)
			}

		case strings.HasPrefix(strings.ToLower(word), "due:"):
			dateStr := strings.TrimPrefix(strings.ToLower(word), "due:")
			if parsed := model.ParseNaturalDate(dateStr, now); parsed != nil {
				draft.DueDate = parsed
			} else {
				titleParts = append(titleParts, word)
			}

		default:
			titleParts = append(titleParts, word)
		}
	}

	draft.Title = strings.Join(titleParts, " ")
	return draft
}

func init() {
	addCmd.Flags().StringVarP(&flagMode, "mode", "m", "", "task mode (work or study)")
	addCmd.Flags().StringVarP(&flagCategory, "category", "c", "", "task category")
	rootCmd.AddCommand(addCmd)
}
