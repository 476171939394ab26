package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mkarpova/focusdo/internal/app"
	"github.com/mkarpova/focusdo/internal/ui/theme"
	"github.com/mkarpova/focusdo/internal/ui/views"
)

// RootModel is the main application model. It gates everything behind the
// session: without one, only the login view is reachable; any detected
// session expiry drops straight back to it.
type RootModel struct {
	app    *app.App
	keys   KeyMap
	help   help.Model
	width  int
	height int

	currentView  View
	loginView    views.LoginView
	tasksView    views.TasksView
	pomodoroView views.PomodoroView
	profileView  views.ProfileView
	helpVisible  bool

	statusMsg string
}

// NewRootModel creates a new root model
func NewRootModel(application *app.App) RootModel {
	h := help.New()
	h.ShowAll = false

	start := ViewLogin
	if application.Session.Active() {
		start = ViewTasks
	}

	return RootModel{
		app:          application,
		keys:         DefaultKeyMap(),
		help:         h,
		currentView:  start,
		loginView:    views.NewLoginView(application),
		tasksView:    views.NewTasksView(application),
		pomodoroView: views.NewPomodoroView(application),
		profileView:  views.NewProfileView(application),
	}
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	if m.currentView == ViewLogin {
		return m.loginView.Init()
	}
	// Restored session: sync tasks and load timer history.
	return tea.Batch(m.tasksView.Init(), m.pomodoroView.Init())
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		contentHeight := m.height - 4
		m.loginView = m.loginView.SetSize(m.width, contentHeight)
		m.tasksView = m.tasksView.SetSize(m.width, contentHeight)
		m.pomodoroView = m.pomodoroView.SetSize(m.width, contentHeight)
		m.profileView = m.profileView.SetSize(m.width, contentHeight)

	case views.AuthSuccessMsg:
		m.currentView = ViewTasks
		m.statusMsg = fmt.Sprintf("Welcome, %s!", msg.Username)
		// The login flow already ran the initial sync; the history load
		// still needs kicking off for the timer view.
		return m, m.pomodoroView.Init()

	case views.SessionExpiredMsg:
		// The session store is already invalidated and the collection
		// cleared. Return to a fresh login form quietly.
		m.currentView = ViewLogin
		m.loginView = views.NewLoginView(m.app).SetSize(m.width, m.height-4)
		m.statusMsg = "Session expired, please log in again"
		return m, m.loginView.Init()

	case LoggedOutMsg:
		m.currentView = ViewLogin
		m.loginView = views.NewLoginView(m.app).SetSize(m.width, m.height-4)
		m.statusMsg = "Logged out"
		return m, m.loginView.Init()

	case tea.KeyMsg:
		m.statusMsg = ""

		isInputMode := m.isInputMode()

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, but 'q' only quits when not in input mode
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeCycle):
			m.cycleTheme()
			return m, nil
		}

		if !isInputMode {
			switch {
			case key.Matches(msg, m.keys.Help):
				m.helpVisible = !m.helpVisible
				m.help.ShowAll = m.helpVisible
				return m, nil
			}
		}

		// Everything below needs a session.
		if m.app.Session.Active() && !isInputMode {
			switch {
			case key.Matches(msg, m.keys.TasksView):
				m.currentView = ViewTasks
				return m, m.tasksView.Init()
			case key.Matches(msg, m.keys.PomodoroView):
				m.currentView = ViewPomodoro
				return m, nil
			case key.Matches(msg, m.keys.ProfileView):
				m.currentView = ViewProfile
				return m, m.profileView.Init()
			}
		}
		if m.app.Session.Active() && key.Matches(msg, m.keys.Logout) {
			a := m.app
			return m, func() tea.Msg {
				a.Logout()
				return LoggedOutMsg{}
			}
		}
	}

	// Key input goes only to the view on screen. Everything else fans
	// out to every view: an async result lands in its owning view even
	// if the user switched views while it was in flight, and the timer
	// keeps ticking in the background.
	if isKeyMsg(msg) {
		var cmd tea.Cmd
		switch m.currentView {
		case ViewLogin:
			m.loginView, cmd = m.loginView.Update(msg)
		case ViewTasks:
			m.tasksView, cmd = m.tasksView.Update(msg)
		case ViewPomodoro:
			m.pomodoroView, cmd = m.pomodoroView.Update(msg)
		case ViewProfile:
			m.profileView, cmd = m.profileView.Update(msg)
		}
		cmds = append(cmds, cmd)
	} else {
		var cmd tea.Cmd
		m.loginView, cmd = m.loginView.Update(msg)
		cmds = append(cmds, cmd)
		m.tasksView, cmd = m.tasksView.Update(msg)
		cmds = append(cmds, cmd)
		m.pomodoroView, cmd = m.pomodoroView.Update(msg)
		cmds = append(cmds, cmd)
		m.profileView, cmd = m.profileView.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func isKeyMsg(msg tea.Msg) bool {
	_, ok := msg.(tea.KeyMsg)
	return ok
}

func (m RootModel) isInputMode() bool {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.IsInputMode()
	case ViewTasks:
		return m.tasksView.IsInputMode()
	case ViewPomodoro:
		return m.pomodoroView.IsInputMode()
	case ViewProfile:
		return m.profileView.IsInputMode()
	}
	return false
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())

	contentHeight := m.height - 4
	if m.statusMsg != "" {
		contentHeight--
	}

	var content string
	if m.helpVisible {
		content = m.help.View(m.keys)
	} else {
		switch m.currentView {
		case ViewLogin:
			content = m.loginView.View()
		case ViewTasks:
			content = m.tasksView.View()
		case ViewPomodoro:
			content = m.pomodoroView.View()
		case ViewProfile:
			content = m.profileView.View()
		}
	}

	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	sections = append(sections, content)

	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("focusdo")

	viewStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)
	viewIndicator := viewStyle.Render(fmt.Sprintf("[%s]", m.currentView))

	var who string
	if id, ok := m.app.Session.Identity(); ok {
		who = viewStyle.Render(id.Username)
	}

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, viewIndicator)
	rightSide := who

	gap := m.width - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if gap < 0 {
		gap = 0
	}

	return leftSide + strings.Repeat(" ", gap) + rightSide
}

// renderFooter renders the footer/status bar
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var statusLine string
	if m.statusMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg)
	}

	var line1, line2 string
	switch m.currentView {
	case ViewLogin:
		line1 = key("enter", "submit") + sep +
			key("tab", "next field") + sep +
			key("ctrl+r", "login/register")
		line2 = key("ctrl+c", "quit")

	case ViewTasks:
		if m.tasksView.IsInputMode() {
			line1 = key("enter", "create") + sep + key("esc", "cancel")
		} else {
			line1 = key("a", "add") + sep +
				key("tab", "done") + sep +
				key("d", "del") + sep +
				key("r", "refresh") + sep +
				key("c", "category") + sep +
				key("←/→", "work/study")
			line2 = key("1-3", "views") + sep +
				key("C-l", "logout") + sep +
				key("?", "help")
		}

	case ViewPomodoro:
		line1 = key("s/space", "start/pause") + sep +
			key("n", "skip") + sep +
			key("r", "reset") + sep +
			key("x", "dismiss warning")
		line2 = key("1-3", "views") + sep +
			key("C-l", "logout") + sep +
			key("?", "help")

	case ViewProfile:
		line1 = key("1-3", "views") + sep +
			key("C-l", "logout") + sep +
			key("?", "help")
	}

	var lines []string
	if statusLine != "" {
		lines = append(lines, statusLine)
	}
	if line1 != "" {
		lines = append(lines, line1)
	}
	if line2 != "" {
		lines = append(lines, line2)
	}

	return strings.Join(lines, "\n")
}

// cycleTheme cycles through available themes
func (m *RootModel) cycleTheme() {
	themes := theme.Available()
	current := theme.Current.Theme.Name

	for i, t := range themes {
		if t.Name == current {
			next := themes[(i+1)%len(themes)]
			theme.SetTheme(next)
			m.statusMsg = fmt.Sprintf("Theme: %s", next.Name)
			return
		}
	}
}
