// ABOUTME: Root bubbletea model for the docmatch TUI
// ABOUTME: Manages screen state, routes input, and drives API calls as commands

package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/the-sauravkumar/credit-based-document-matching/internal/client"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/credits"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/report"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/scan"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/session"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/tui/adminview"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/tui/forms"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/tui/historyview"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/tui/scanview"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/tui/styles"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenMenu
	ScreenScan
	ScreenHistory
	ScreenCreditRequest
	ScreenAdminRequests
	ScreenAnalytics
)

// menuAction identifies a dashboard menu entry
type menuAction int

const (
	actionScan menuAction = iota
	actionHistory
	actionRequestCredits
	actionRefreshBalance
	actionAdminRequests
	actionAnalytics
	actionLogout
	actionQuit
)

// menuItem is one dashboard entry
type menuItem struct {
	label  string
	action menuAction
}

// Messages produced by API commands

type loginDoneMsg struct {
	result *client.LoginResult
	err    error
}

type registerDoneMsg struct {
	err error
}

type profileMsg struct {
	profile *client.Profile
	err     error
}

type balanceMsg struct {
	balance int
	err     error
}

type scanDoneMsg struct {
	rec     *scan.Recorder
	balance int
	balErr  error
	err     error
}

type historyMsg struct {
	records []client.ScanRecord
	err     error
}

type exportedMsg struct {
	path string
	err  error
}

type requestsMsg struct {
	requests []client.CreditRequest
	note     string
	err      error
}

type decidedMsg struct {
	message string
	err     error
}

type analyticsMsg struct {
	analytics *client.Analytics
	err       error
}

type creditRequestedMsg struct {
	message string
	err     error
}

// App is the root model for the TUI
type App struct {
	api       *client.Client
	cache     *session.Cache
	refresher *credits.Refresher

	screen Screen
	width  int
	height int

	balanceLine string
	note        string
	errLine     string

	menuItems  []menuItem
	menuCursor int

	login       *forms.Login
	creditForm  *forms.CreditRequest
	scanView    *scanview.ScanView
	historyView *historyview.HistoryView
	requests    *adminview.Requests
	analytics   *client.Analytics

	history []client.ScanRecord
}

// New creates the TUI application over a loaded session cache
func New(api *client.Client, cache *session.Cache) *App {
	a := &App{
		api:       api,
		cache:     cache,
		refresher: credits.NewRefresher(api, cache),
	}
	if cache.LoggedIn() {
		a.screen = ScreenMenu
		a.rebuildMenu()
		a.balanceLine = fmt.Sprintf("Credits: %d", cache.Credits)
	} else {
		a.screen = ScreenLogin
		a.login = forms.NewLogin("")
	}
	return a
}

// rebuildMenu derives menu entries from the cached role. Admins see the
// approval and analytics screens; users see the scan workflow.
func (a *App) rebuildMenu() {
	if a.cache.IsAdmin() {
		a.menuItems = []menuItem{
			{label: "Review credit requests", action: actionAdminRequests},
			{label: "Usage analytics", action: actionAnalytics},
			{label: "Refresh balance", action: actionRefreshBalance},
			{label: "Log out", action: actionLogout},
			{label: "Quit", action: actionQuit},
		}
	} else {
		a.menuItems = []menuItem{
			{label: "Scan a document", action: actionScan},
			{label: "Scan history", action: actionHistory},
			{label: "Request credits", action: actionRequestCredits},
			{label: "Refresh balance", action: actionRefreshBalance},
			{label: "Log out", action: actionLogout},
			{label: "Quit", action: actionQuit},
		}
	}
	a.menuCursor = 0
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.cache.LoggedIn() {
		// Revalidate the session and reconcile the balance on startup
		return tea.Batch(a.fetchProfile(), a.refreshBalance())
	}
	return a.login.Init()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.routeKey(msg)

	case forms.LoginSubmitMsg:
		if msg.Register {
			return a, a.doRegister(msg.Username, msg.Password, msg.Role)
		}
		return a, a.doLogin(msg.Username, msg.Password)

	case forms.CancelledMsg:
		if a.screen == ScreenLogin {
			return a, tea.Quit
		}
		a.screen = ScreenMenu
		a.creditForm = nil
		return a, nil

	case forms.CreditRequestMsg:
		return a, a.doRequestCredits(msg.Amount)

	case scanview.ScanRequestedMsg:
		a.scanView.Running()
		return a, a.doScan(msg.Path)

	case scanview.BackMsg, historyview.BackMsg, adminview.BackMsg:
		a.screen = ScreenMenu
		return a, nil

	case historyview.ExportMsg:
		return a, a.doExport()

	case adminview.DecideMsg:
		return a, a.doDecide(msg.Username, msg.Approve)

	case loginDoneMsg:
		return a.handleLoginDone(msg)

	case registerDoneMsg:
		if msg.err != nil {
			a.login = forms.NewLogin(fmt.Sprintf("Registration failed: %v", msg.err))
		} else {
			a.login = forms.NewLogin("Registration successful. You can now log in.")
		}
		return a, a.login.Init()

	case profileMsg:
		return a.handleProfile(msg)

	case balanceMsg:
		a.balanceLine = credits.Display(msg.balance, msg.err)
		return a, nil

	case scanDoneMsg:
		a.scanView.ShowResult(msg.rec)
		if msg.err == nil {
			a.balanceLine = credits.Display(msg.balance, msg.balErr)
		}
		return a, nil

	case historyMsg:
		if msg.err != nil {
			a.errLine = msg.err.Error()
			a.screen = ScreenMenu
			return a, nil
		}
		a.history = msg.records
		a.historyView = historyview.New(msg.records, a.contentHeight())
		a.screen = ScreenHistory
		return a, nil

	case exportedMsg:
		if msg.err != nil {
			a.historyView.SetNote(fmt.Sprintf("Export failed: %v", msg.err))
		} else {
			a.historyView.SetNote(fmt.Sprintf("Report written to %s", msg.path))
		}
		return a, nil

	case requestsMsg:
		if msg.err != nil {
			a.errLine = msg.err.Error()
			a.screen = ScreenMenu
			return a, nil
		}
		if a.requests == nil || a.screen != ScreenAdminRequests {
			a.requests = adminview.NewRequests(msg.requests)
			a.screen = ScreenAdminRequests
		} else {
			a.requests.SetRequests(msg.requests, msg.note)
		}
		return a, nil

	case decidedMsg:
		if msg.err != nil {
			a.requests.SetRequests(nil, "")
			a.errLine = msg.err.Error()
			a.screen = ScreenMenu
			return a, nil
		}
		// The list is always re-fetched after a decision
		return a, a.fetchRequests(msg.message)

	case analyticsMsg:
		if msg.err != nil {
			a.errLine = msg.err.Error()
			a.screen = ScreenMenu
			return a, nil
		}
		a.analytics = msg.analytics
		a.screen = ScreenAnalytics
		return a, nil

	case creditRequestedMsg:
		a.creditForm = nil
		a.screen = ScreenMenu
		if msg.err != nil {
			a.errLine = msg.err.Error()
		} else {
			a.note = msg.message
		}
		return a, nil
	}

	return a.routeModel(msg)
}

// routeKey dispatches a key press to the active screen
func (a *App) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.screen {
	case ScreenMenu:
		return a.updateMenu(msg)
	case ScreenScan:
		if cmd, handled := a.scanView.Update(msg); handled {
			return a, cmd
		}
		return a, nil
	case ScreenHistory:
		if cmd, handled := a.historyView.Update(msg); handled {
			return a, cmd
		}
		return a, nil
	case ScreenAdminRequests:
		if cmd, handled := a.requests.Update(msg); handled {
			return a, cmd
		}
		return a, nil
	case ScreenAnalytics:
		if msg.String() == "esc" || msg.String() == "enter" {
			a.screen = ScreenMenu
		}
		return a, nil
	}
	return a.routeModel(msg)
}

// routeModel forwards messages to the model-owning screens (huh forms)
func (a *App) routeModel(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch a.screen {
	case ScreenLogin:
		if a.login == nil {
			return a, nil
		}
		_, cmd := a.login.Update(msg)
		return a, cmd
	case ScreenCreditRequest:
		if a.creditForm == nil {
			return a, nil
		}
		_, cmd := a.creditForm.Update(msg)
		return a, cmd
	}
	return a, nil
}

// updateMenu handles dashboard navigation
func (a *App) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if a.menuCursor > 0 {
			a.menuCursor--
		}
	case "down", "j":
		if a.menuCursor < len(a.menuItems)-1 {
			a.menuCursor++
		}
	case "enter":
		a.note = ""
		a.errLine = ""
		return a.selectMenuItem(a.menuItems[a.menuCursor].action)
	case "q":
		return a, tea.Quit
	}
	return a, nil
}

// selectMenuItem runs the chosen dashboard action
func (a *App) selectMenuItem(action menuAction) (tea.Model, tea.Cmd) {
	switch action {
	case actionScan:
		a.scanView = scanview.New()
		a.screen = ScreenScan
		return a, nil
	case actionHistory:
		return a, a.fetchHistory()
	case actionRequestCredits:
		a.creditForm = forms.NewCreditRequest()
		a.screen = ScreenCreditRequest
		return a, a.creditForm.Init()
	case actionRefreshBalance:
		return a, a.refreshBalance()
	case actionAdminRequests:
		a.requests = nil
		return a, a.fetchRequests("")
	case actionAnalytics:
		return a, a.fetchAnalytics()
	case actionLogout:
		return a, a.doLogout()
	case actionQuit:
		return a, tea.Quit
	}
	return a, nil
}

// handleLoginDone stores the session and enters the dashboard
func (a *App) handleLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.login = forms.NewLogin(fmt.Sprintf("Login failed: %v", msg.err))
		return a, a.login.Init()
	}

	a.cache.Username = msg.result.Username
	a.cache.Role = msg.result.Role
	a.cache.Credits = msg.result.Credits
	a.cache.Cookie = msg.result.Cookie
	a.cache.Save()

	a.balanceLine = fmt.Sprintf("Credits: %d", msg.result.Credits)
	a.rebuildMenu()
	a.screen = ScreenMenu
	a.login = nil
	return a, nil
}

// handleProfile refreshes the cache or falls back to the login screen
func (a *App) handleProfile(msg profileMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, client.ErrSessionExpired) {
		a.cache.Clear()
		a.login = forms.NewLogin("Session expired. Please log in again.")
		a.screen = ScreenLogin
		return a, a.login.Init()
	}
	if msg.err != nil {
		a.errLine = msg.err.Error()
		return a, nil
	}

	a.cache.Username = msg.profile.Username
	a.cache.Role = msg.profile.Role
	a.cache.Credits = msg.profile.Credits
	a.cache.Save()
	a.rebuildMenu()
	return a, nil
}

// View implements tea.Model
func (a *App) View() string {
	var body string
	switch a.screen {
	case ScreenLogin:
		body = a.login.View()
	case ScreenMenu:
		body = a.viewMenu()
	case ScreenScan:
		body = a.scanView.View()
	case ScreenHistory:
		body = a.historyView.View()
	case ScreenCreditRequest:
		body = a.creditForm.View()
	case ScreenAdminRequests:
		body = a.requests.View()
	case ScreenAnalytics:
		body = adminview.RenderAnalytics(a.analytics)
	}

	if a.screen == ScreenLogin {
		return body
	}
	return a.header() + "\n" + body
}

// header shows the logged-in identity and cached balance
func (a *App) header() string {
	identity := fmt.Sprintf("%s (%s)", a.cache.Username, a.cache.Role)
	line := identity + "  •  " + a.balanceLine
	return styles.Subtitle.Render(line)
}

// viewMenu renders the dashboard
func (a *App) viewMenu() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Dashboard"))
	sb.WriteString("\n")

	for i, item := range a.menuItems {
		if i == a.menuCursor {
			sb.WriteString(styles.Selected.Render("> " + item.label))
		} else {
			sb.WriteString(styles.Normal.Render("  " + item.label))
		}
		sb.WriteString("\n")
	}

	if a.note != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusOK.Render(a.note))
		sb.WriteString("\n")
	}
	if a.errLine != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusError.Render("Error: " + a.errLine))
		sb.WriteString("\n")
	}

	sb.WriteString(styles.Help.Render("↑/↓: move • enter: select • q: quit"))
	return sb.String()
}

// contentHeight is the body height below the header
func (a *App) contentHeight() int {
	if a.height == 0 {
		return 20
	}
	return a.height - 4
}

// Commands

func (a *App) doLogin(username, password string) tea.Cmd {
	return func() tea.Msg {
		result, err := a.api.Login(context.Background(), username, password)
		return loginDoneMsg{result: result, err: err}
	}
}

func (a *App) doRegister(username, password, role string) tea.Cmd {
	return func() tea.Msg {
		err := a.api.Register(context.Background(), username, password, role)
		return registerDoneMsg{err: err}
	}
}

func (a *App) doLogout() tea.Cmd {
	return func() tea.Msg {
		a.api.Logout(context.Background())
		a.cache.Clear()
		return tea.Quit()
	}
}

func (a *App) fetchProfile() tea.Cmd {
	return func() tea.Msg {
		profile, err := a.api.Profile(context.Background())
		return profileMsg{profile: profile, err: err}
	}
}

func (a *App) refreshBalance() tea.Cmd {
	return func() tea.Msg {
		balance, err := a.refresher.Refresh(context.Background(), a.cache.Username)
		return balanceMsg{balance: balance, err: err}
	}
}

// doScan runs the full workflow in one command; the recorder captures the
// view calls so the screen can replay them
func (a *App) doScan(path string) tea.Cmd {
	username := a.cache.Username
	cachedBalance := a.cache.Credits
	return func() tea.Msg {
		rec := &scan.Recorder{}
		workflow := scan.NewWorkflow(a.api, rec, username, nil)
		err := workflow.PerformScan(context.Background(), path, cachedBalance)

		msg := scanDoneMsg{rec: rec, err: err}
		if err == nil {
			msg.balance, msg.balErr = a.refresher.Refresh(context.Background(), username)
		}
		return msg
	}
}

func (a *App) fetchHistory() tea.Cmd {
	return func() tea.Msg {
		records, err := a.api.History(context.Background(), a.cache.Username)
		return historyMsg{records: records, err: err}
	}
}

func (a *App) doExport() tea.Cmd {
	username := a.cache.Username
	records := a.history
	return func() tea.Msg {
		path := report.DefaultFilename(username)
		content := report.Build(username, records)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return exportedMsg{err: err}
		}
		return exportedMsg{path: path}
	}
}

func (a *App) fetchRequests(note string) tea.Cmd {
	return func() tea.Msg {
		requests, err := a.api.PendingRequests(context.Background())
		return requestsMsg{requests: requests, note: note, err: err}
	}
}

func (a *App) doDecide(username string, approve bool) tea.Cmd {
	admin := a.cache.Username
	return func() tea.Msg {
		message, err := a.api.Decide(context.Background(), admin, username, approve)
		return decidedMsg{message: message, err: err}
	}
}

func (a *App) fetchAnalytics() tea.Cmd {
	return func() tea.Msg {
		analytics, err := a.api.Analytics(context.Background())
		return analyticsMsg{analytics: analytics, err: err}
	}
}

func (a *App) doRequestCredits(amount int) tea.Cmd {
	username := a.cache.Username
	return func() tea.Msg {
		message, err := a.api.RequestCredits(context.Background(), username, amount)
		return creditRequestedMsg{message: message, err: err}
	}
}
