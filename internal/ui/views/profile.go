package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mkarpova/focusdo/internal/app"
	"github.com/mkarpova/focusdo/internal/model"
	"github.com/mkarpova/focusdo/internal/ui/theme"
)

type profileLoadedMsg struct {
	profile model.Profile
	err     error
}

// ProfileView shows the account summary from the server.
type ProfileView struct {
	app    *app.App
	width  int
	height int

	profile *model.Profile
	errMsg  string
}

// NewProfileView creates the profile view.
func NewProfileView(application *app.App) ProfileView {
	return ProfileView{app: application}
}

// Init fetches the profile.
func (v ProfileView) Init() tea.Cmd {
	a := v.app
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		p, err := a.Client.Profile(ctx)
		return profileLoadedMsg{profile: p, err: err}
	}
}

// SetSize sets the view dimensions
func (v ProfileView) SetSize(width, height int) ProfileView {
	v.width = width
	v.height = height
	return v
}

// Update handles messages
func (v ProfileView) Update(msg tea.Msg) (ProfileView, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		if msg.err != nil {
			errText, cmd := settleErr(msg.err)
			if errText != "" {
				v.errMsg = "Failed to load profile data"
			}
			return v, cmd
		}
		p := msg.profile
		v.profile = &p
		v.errMsg = ""
		return v, nil
	}
	return v, nil
}

// View renders the profile
func (v ProfileView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles

	if v.errMsg != "" {
		return lipgloss.NewStyle().Foreground(t.Error).Render(v.errMsg)
	}
	if v.profile == nil {
		return styles.Label.Render("Loading profile...")
	}

	p := v.profile

	var b strings.Builder
	b.WriteString(styles.Title.Render(p.Username))
	b.WriteString("\n")
	if p.Email != "" {
		b.WriteString(styles.Label.Render(p.Email))
	} else {
		b.WriteString(styles.Label.Render("No email provided"))
	}
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(styles.Label.Render(fmt.Sprintf("%-18s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("Member since", p.CreatedAt.Format("Jan 2, 2006"))
	row("Total tasks", fmt.Sprintf("%d", p.TaskCount))
	row("Completed tasks", fmt.Sprintf("%d", p.CompletedTasks))
	row("Completion rate", fmt.Sprintf("%.1f%%", p.CompletionRate))

	return styles.Panel.Render(b.String())
}

// IsInputMode returns whether the view is in input mode
func (v ProfileView) IsInputMode() bool {
	return false
}
