package tui

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"clustertop/internal/api"
)

// inputMode selects which handler consumes key events.
type inputMode int

const (
	modeNormal inputMode = iota
	modeLogin
)

// loginFocus is the focused widget of the login form.
type loginFocus int

const (
	focusUsername loginFocus = iota
	focusPassword
	focusRemember
)

// tickMsg drives the auto-refresh timer.
type tickMsg time.Time

// App is the root Bubbletea model: the single mutable authority over
// UI-visible state. It advances only on worker responses and key events,
// and never blocks on network I/O itself.
type App struct {
	worker  *Worker
	store   *TokenStore
	theme   Theme
	refresh time.Duration // 0 disables auto-refresh

	width  int
	height int

	mode          inputMode
	authEnabled   bool
	hasSavedToken bool
	loading       bool
	lastError     string

	cluster *api.ClusterInfo
	tiers   []api.TierInfo

	// Login form.
	username   textinput.Model
	password   textinput.Model
	focus      loginFocus
	rememberMe bool
	showPass   bool
	loginError string

	// View state.
	viewMode     ViewMode
	sortField    SortField
	sortOrder    SortOrder
	filterText   string
	filterActive bool

	expandedTiers map[int]bool
	expandedRS    map[rsKey]bool
	treeItems     []TreeItem
	selected      int
	showDetail    bool
}

// NewApp creates the root model. The worker must be started separately and
// wired to the program with Worker.SetProgram.
func NewApp(worker *Worker, store *TokenStore, theme Theme, refresh time.Duration) App {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 64
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return App{
		worker:        worker,
		store:         store,
		theme:         theme,
		refresh:       refresh,
		loading:       true,
		username:      username,
		password:      password,
		expandedTiers: make(map[int]bool),
		expandedRS:    make(map[rsKey]bool),
	}
}

func (a App) Init() tea.Cmd {
	a.worker.post(request{kind: reqGetConfig})
	return a.tick()
}

func (a App) tick() tea.Cmd {
	if a.refresh <= 0 {
		return nil
	}
	return tea.Tick(a.refresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tickMsg:
		// The timer is the only retry mechanism for transient failures.
		// Suppressed while a refresh is outstanding and on the login screen.
		if a.mode == modeNormal && !a.loading {
			a.requestRefresh()
		}
		return a, a.tick()

	case ConfigMsg:
		return a.handleConfig(msg)
	case LoginMsg:
		return a.handleLoginResult(msg)
	case ClusterInfoMsg:
		return a.handleClusterInfo(msg)
	case TiersMsg:
		return a.handleTiers(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a App) handleConfig(msg ConfigMsg) (tea.Model, tea.Cmd) {
	if msg.Err != "" {
		a.lastError = msg.Err
		a.loading = false
		return a, nil
	}
	a.authEnabled = msg.Config.IsAuthEnabled
	if !a.authEnabled {
		a.requestRefresh()
		return a, nil
	}
	if entry, ok := a.store.Load(a.worker.BaseURL()); ok {
		// Try the saved token first; a 401 on the refresh falls back to
		// the login screen.
		a.hasSavedToken = true
		a.worker.post(request{kind: reqSetToken, auth: entry.Auth, refresh: entry.Refresh})
		a.requestRefresh()
		return a, nil
	}
	a.enterLogin("")
	a.loading = false
	return a, nil
}

func (a App) handleLoginResult(msg LoginMsg) (tea.Model, tea.Cmd) {
	if msg.Err != "" {
		a.loginError = msg.Err
		return a, nil
	}
	a.password.Reset()
	a.loginError = ""
	a.mode = modeNormal
	// The token was persisted only when remember-me was checked, so only
	// then can a later 401 mean an expired saved session.
	a.hasSavedToken = a.rememberMe
	a.requestRefresh()
	return a, nil
}

func (a App) handleClusterInfo(msg ClusterInfoMsg) (tea.Model, tea.Cmd) {
	if msg.Err != "" {
		return a.handleFetchError(msg.Err)
	}
	info := msg.Info
	a.cluster = &info
	a.lastError = ""
	// Loading clears once a cluster snapshot is present, even though the
	// tiers fetch may still be outstanding.
	a.loading = false
	return a, nil
}

func (a App) handleTiers(msg TiersMsg) (tea.Model, tea.Cmd) {
	if msg.Err != "" {
		return a.handleFetchError(msg.Err)
	}
	a.tiers = msg.Tiers
	a.lastError = ""
	a.rebuildTree()
	return a, nil
}

// handleFetchError routes refresh failures. A 401-looking failure while a
// saved token is in play means the session expired: drop the token and ask
// for credentials. Anything else becomes a passive status-bar error.
func (a App) handleFetchError(errMsg string) (tea.Model, tea.Cmd) {
	if a.hasSavedToken && isUnauthorized(errMsg) {
		a.hasSavedToken = false
		if err := a.store.Delete(a.worker.BaseURL()); err != nil {
			slog.Warn("failed to delete persisted tokens", "error", err)
		}
		a.enterLogin("Session expired, please log in again")
		a.loading = false
		return a, nil
	}
	a.lastError = errMsg
	a.loading = false
	return a, nil
}

func isUnauthorized(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "401") || strings.Contains(lower, "unauthorized")
}

// enterLogin switches to the login form, focusing the username field.
func (a *App) enterLogin(errMsg string) {
	a.mode = modeLogin
	a.loginError = errMsg
	a.focus = focusUsername
	a.username.Focus()
	a.password.Blur()
	a.password.Reset()
	a.showPass = false
	a.password.EchoMode = textinput.EchoPassword
}

// requestRefresh posts both topology fetches. Callers suppress it while a
// refresh is already outstanding.
func (a *App) requestRefresh() {
	a.loading = true
	a.worker.post(request{kind: reqGetClusterInfo})
	a.worker.post(request{kind: reqGetTiers})
}

func (a *App) rebuildTree() {
	a.treeItems = buildTree(a.tiers, a.expandedTiers, a.expandedRS)
	a.clampSelection()
}

// instances is the current instances-view list: flattened, filtered, sorted.
func (a *App) instances() []flatInstance {
	return visibleInstances(a.tiers, a.filterText, a.sortField, a.sortOrder)
}

// itemCount is mode aware: navigation must address what is actually listed,
// not the raw tree length.
func (a *App) itemCount() int {
	switch a.viewMode {
	case ViewReplicasets:
		n := 0
		for _, t := range a.tiers {
			n += len(t.Replicasets)
		}
		return n
	case ViewInstances:
		return len(a.instances())
	default:
		return len(a.treeItems)
	}
}

func (a *App) clampSelection() {
	n := a.itemCount()
	if n == 0 {
		a.selected = 0
		return
	}
	if a.selected >= n {
		a.selected = n - 1
	}
	if a.selected < 0 {
		a.selected = 0
	}
}

// detailInstance resolves the current selection to an instance, with its
// owning tier and replicaset names.
func (a *App) detailInstance() (flatInstance, bool) {
	switch a.viewMode {
	case ViewInstances:
		list := a.instances()
		if a.selected < len(list) {
			return list[a.selected], true
		}
	case ViewTiers:
		if a.selected < len(a.treeItems) {
			item := a.treeItems[a.selected]
			if item.Kind == itemInstance {
				tier := a.tiers[item.Tier]
				rs := tier.Replicasets[item.Replicaset]
				return flatInstance{
					Tier:       tier.Name,
					Replicaset: rs.Name,
					Inst:       rs.Instances[item.Instance],
				}, true
			}
		}
	}
	return flatInstance{}, false
}

func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}
	if a.mode == modeLogin {
		return a.renderLogin(a.width, a.height)
	}

	contentH := a.height - 1
	if contentH < 1 {
		contentH = 1
	}

	header := a.renderHeader(a.width)
	bodyH := contentH - lipgloss.Height(header)
	if bodyH < 1 {
		bodyH = 1
	}

	var body string
	switch a.viewMode {
	case ViewReplicasets:
		body = a.renderReplicasets(a.width, bodyH)
	case ViewInstances:
		body = a.renderInstances(a.width, bodyH)
	default:
		body = a.renderTiers(a.width, bodyH)
	}

	content := padHeight(header+"\n"+body, contentH)

	if a.showDetail {
		if inst, ok := a.detailInstance(); ok {
			content = Overlay(content, a.renderDetail(inst, a.width, contentH), a.width, contentH)
		}
	}

	return content + "\n" + a.renderStatusBar()
}
