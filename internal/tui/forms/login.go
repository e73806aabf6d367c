// ABOUTME: Login and registration form as a bubbletea model
// ABOUTME: Wraps a huh form and emits submit/cancel messages to the app

package forms

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/the-sauravkumar/credit-based-document-matching/internal/tui/styles"
)

// LoginSubmitMsg is sent when the login form is completed
type LoginSubmitMsg struct {
	Username string
	Password string
	Register bool
	Role     string
}

// CancelledMsg is sent when a form is aborted
type CancelledMsg struct{}

// loginMode selects between logging in and registering
type loginMode string

const (
	modeLogin    loginMode = "login"
	modeRegister loginMode = "register"
)

// Login is the login/registration form model
type Login struct {
	form *huh.Form
	note string

	mode     loginMode
	username string
	password string
	role     string
}

// NewLogin creates the form. A non-empty note (e.g. "Session expired.")
// is shown above it.
func NewLogin(note string) *Login {
	l := &Login{note: note, mode: modeLogin, role: "user"}
	l.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[loginMode]().
				Title("Action").
				Options(
					huh.NewOption("Log in", modeLogin),
					huh.NewOption("Register", modeRegister),
				).
				Value(&l.mode),
			huh.NewInput().
				Title("Username").
				Value(&l.username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&l.password),
			huh.NewSelect[string]().
				Title("Role (registration only)").
				Options(
					huh.NewOption("User", "user"),
					huh.NewOption("Admin", "admin"),
				).
				Value(&l.role),
		),
	).WithTheme(huh.ThemeBase())
	return l
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return l, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		submit := LoginSubmitMsg{
			Username: l.username,
			Password: l.password,
			Register: l.mode == modeRegister,
			Role:     l.role,
		}
		return l, func() tea.Msg { return submit }
	}

	return l, cmd
}

// View implements tea.Model
func (l *Login) View() string {
	out := styles.Title.Render("Document Matching") + "\n"
	if l.note != "" {
		out += styles.StatusWarning.Render(l.note) + "\n\n"
	}
	return out + l.form.View()
}
