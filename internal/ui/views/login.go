package views

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mkarpova/focusdo/internal/app"
	"github.com/mkarpova/focusdo/internal/ui/theme"
)

const authTimeout = 30 * time.Second

// field indices in the login form
const (
	fieldUsername = iota
	fieldEmail // register mode only
	fieldPassword
	fieldCount
)

type authErrorMsg struct{ err error }

// LoginView is the unauthenticated screen: login form, toggled into a
// register form with ctrl+r.
type LoginView struct {
	app    *app.App
	width  int
	height int

	inputs      [fieldCount]textinput.Model
	focus       int
	registering bool
	submitting  bool
	errMsg      string
}

// NewLoginView creates the login form.
func NewLoginView(application *app.App) LoginView {
	v := LoginView{app: application}

	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()
	v.inputs[fieldUsername] = username

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	v.inputs[fieldEmail] = email

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	v.inputs[fieldPassword] = password

	return v
}

// Init initializes the view
func (v LoginView) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize sets the view dimensions
func (v LoginView) SetSize(width, height int) LoginView {
	v.width = width
	v.height = height
	return v
}

// Update handles messages
func (v LoginView) Update(msg tea.Msg) (LoginView, tea.Cmd) {
	switch msg := msg.(type) {
	case authErrorMsg:
		v.submitting = false
		v.errMsg = msg.err.Error()
		return v, nil

	case AuthSuccessMsg:
		v.submitting = false
		v.errMsg = ""
		v.inputs[fieldPassword].SetValue("")
		return v, nil

	case tea.KeyMsg:
		// A submission is in flight; ignore everything until it resolves.
		if v.submitting {
			return v, nil
		}

		switch msg.String() {
		case "ctrl+r":
			v.registering = !v.registering
			v.errMsg = ""
			v.focus = fieldUsername
			return v.refocus(), nil

		case "tab", "down":
			v.focus = v.nextField(1)
			return v.refocus(), nil

		case "shift+tab", "up":
			v.focus = v.nextField(-1)
			return v.refocus(), nil

		case "enter":
			if v.focus != fieldPassword {
				v.focus = v.nextField(1)
				return v.refocus(), nil
			}
			return v.submit()
		}
	}

	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return v, cmd
}

// nextField steps the focus over the visible fields.
func (v LoginView) nextField(dir int) int {
	next := v.focus
	for {
		next = (next + dir + fieldCount) % fieldCount
		if next == fieldEmail && !v.registering {
			continue
		}
		return next
	}
}

func (v LoginView) refocus() LoginView {
	for i := range v.inputs {
		if i == v.focus {
			v.inputs[i].Focus()
		} else {
			v.inputs[i].Blur()
		}
	}
	return v
}

func (v LoginView) submit() (LoginView, tea.Cmd) {
	username := strings.TrimSpace(v.inputs[fieldUsername].Value())
	email := strings.TrimSpace(v.inputs[fieldEmail].Value())
	password := v.inputs[fieldPassword].Value()

	if username == "" || password == "" {
		v.errMsg = "username and password are required"
		return v, nil
	}
	if v.registering && email == "" {
		v.errMsg = "email is required"
		return v, nil
	}

	v.submitting = true
	v.errMsg = ""
	registering := v.registering
	a := v.app

	return v, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()

		var err error
		if registering {
			err = a.Register(ctx, username, email, password)
		} else {
			err = a.Login(ctx, username, password)
		}
		if err != nil {
			return authErrorMsg{err: err}
		}
		return AuthSuccessMsg{Username: username}
	}
}

// View renders the login form
func (v LoginView) View() string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	title := "Log in"
	action := "ctrl+r register"
	if v.registering {
		title = "Create account"
		action = "ctrl+r back to login"
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n\n")

	for i := range v.inputs {
		if i == fieldEmail && !v.registering {
			continue
		}
		box := styles.Input
		if i == v.focus {
			box = styles.InputFocused
		}
		b.WriteString(box.Render(v.inputs[i].View()))
		b.WriteString("\n")
	}

	if v.submitting {
		b.WriteString("\n")
		b.WriteString(styles.Subtitle.Render("Signing in..."))
	}
	if v.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.Error).Render(v.errMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(styles.HelpDesc.Render("enter submit • tab next field • " + action))

	form := styles.Panel.Render(b.String())
	if v.width > 0 && v.height > 0 {
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, form)
	}
	return form
}

// IsInputMode returns whether the view is in input mode
func (v LoginView) IsInputMode() bool {
	return true
}
