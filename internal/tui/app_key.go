package tui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.mode == modeLogin {
		return a.handleLoginKey(msg)
	}
	if a.filterActive {
		return a.handleFilterKey(msg)
	}
	if a.showDetail {
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "esc", "enter", "q":
			a.showDetail = false
		}
		return a, nil
	}
	return a.handleNormalKey(msg)
}

func (a App) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "j", "down":
		a.moveSelection(1)
	case "k", "up":
		a.moveSelection(-1)
	case "pgdown":
		a.moveSelectionBy(a.pageSize())
	case "pgup":
		a.moveSelectionBy(-a.pageSize())
	case "ctrl+d":
		a.moveSelectionBy(a.pageSize() / 2)
	case "ctrl+u":
		a.moveSelectionBy(-a.pageSize() / 2)
	case "home":
		a.selected = 0
	case "end":
		if n := a.itemCount(); n > 0 {
			a.selected = n - 1
		}

	case "l", "right":
		a.expandSelected()
	case "h", "left":
		a.collapseSelected()

	case "enter":
		a.openSelected()

	case "g":
		a.viewMode = a.viewMode.cycleNext()
		a.clampSelection()
	case "1":
		a.viewMode = ViewTiers
		a.clampSelection()
	case "2":
		a.viewMode = ViewReplicasets
		a.clampSelection()
	case "3":
		a.viewMode = ViewInstances
		a.clampSelection()

	case "s":
		if a.viewMode == ViewInstances {
			a.sortField = a.sortField.cycleNext()
			a.clampSelection()
		}
	case "S":
		if a.viewMode == ViewInstances {
			a.sortOrder = a.sortOrder.toggle()
			a.clampSelection()
		}

	case "/":
		if a.viewMode == ViewInstances {
			a.filterActive = true
		}

	case "r":
		if !a.loading {
			a.requestRefresh()
		}

	case "X":
		// Logout deletes the persisted session and exits.
		if err := a.store.Delete(a.worker.BaseURL()); err != nil {
			slog.Warn("failed to delete persisted tokens", "error", err)
		}
		return a, tea.Quit
	}
	return a, nil
}

// moveSelection steps the selection with wrap-around.
func (a *App) moveSelection(delta int) {
	n := a.itemCount()
	if n == 0 {
		return
	}
	a.selected = ((a.selected+delta)%n + n) % n
}

// moveSelectionBy pages the selection without wrapping.
func (a *App) moveSelectionBy(delta int) {
	n := a.itemCount()
	if n == 0 {
		return
	}
	a.selected += delta
	if a.selected < 0 {
		a.selected = 0
	}
	if a.selected >= n {
		a.selected = n - 1
	}
}

func (a *App) pageSize() int {
	h := a.height - 8 // header, status bar, list chrome
	if h < 1 {
		h = 1
	}
	return h
}

func (a *App) expandSelected() {
	if a.viewMode != ViewTiers || a.selected >= len(a.treeItems) {
		return
	}
	item := a.treeItems[a.selected]
	switch item.Kind {
	case itemTier:
		a.expandedTiers[item.Tier] = true
	case itemReplicaset:
		a.expandedRS[rsKey{item.Tier, item.Replicaset}] = true
	}
	a.rebuildTree()
}

func (a *App) collapseSelected() {
	if a.viewMode != ViewTiers || a.selected >= len(a.treeItems) {
		return
	}
	item := a.treeItems[a.selected]
	switch item.Kind {
	case itemTier:
		delete(a.expandedTiers, item.Tier)
		// Collapsing a tier also forgets its replicaset expansions.
		for key := range a.expandedRS {
			if key.tier == item.Tier {
				delete(a.expandedRS, key)
			}
		}
	case itemReplicaset:
		delete(a.expandedRS, rsKey{item.Tier, item.Replicaset})
	case itemInstance:
		// Collapse the parent replicaset and land on it.
		delete(a.expandedRS, rsKey{item.Tier, item.Replicaset})
		a.rebuildTree()
		for i, it := range a.treeItems {
			if it.Kind == itemReplicaset && it.Tier == item.Tier && it.Replicaset == item.Replicaset {
				a.selected = i
				break
			}
		}
		return
	}
	a.rebuildTree()
}

// openSelected shows the detail popup for an instance, or toggles expansion
// when the tree selection is a tier or replicaset.
func (a *App) openSelected() {
	switch a.viewMode {
	case ViewInstances:
		if a.selected < len(a.instances()) {
			a.showDetail = true
		}
	case ViewTiers:
		if a.selected >= len(a.treeItems) {
			return
		}
		item := a.treeItems[a.selected]
		switch item.Kind {
		case itemInstance:
			a.showDetail = true
		case itemTier:
			if a.expandedTiers[item.Tier] {
				a.collapseSelected()
			} else {
				a.expandSelected()
			}
		case itemReplicaset:
			if a.expandedRS[rsKey{item.Tier, item.Replicaset}] {
				a.collapseSelected()
			} else {
				a.expandSelected()
			}
		}
	}
}

func (a App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		a.filterActive = false
		a.filterText = ""
		a.clampSelection()
	case "enter":
		a.filterActive = false
	case "backspace":
		if a.filterText != "" {
			runes := []rune(a.filterText)
			a.filterText = string(runes[:len(runes)-1])
			a.clampSelection()
		}
	case " ":
		a.filterText += " "
		a.clampSelection()
	default:
		if msg.Type == tea.KeyRunes {
			a.filterText += string(msg.Runes)
			a.clampSelection()
		}
	}
	return a, nil
}

func (a App) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return a, tea.Quit

	case "tab", "down":
		a.setLoginFocus((a.focus + 1) % 3)
		return a, nil
	case "shift+tab", "up":
		a.setLoginFocus((a.focus + 2) % 3)
		return a, nil

	case "ctrl+s":
		a.showPass = !a.showPass
		if a.showPass {
			a.password.EchoMode = textinput.EchoNormal
		} else {
			a.password.EchoMode = textinput.EchoPassword
		}
		return a, nil

	case "enter":
		if a.focus == focusRemember {
			a.rememberMe = !a.rememberMe
			return a, nil
		}
		return a.submitLogin()

	case " ":
		if a.focus == focusRemember {
			a.rememberMe = !a.rememberMe
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.focus {
	case focusUsername:
		a.username, cmd = a.username.Update(msg)
	case focusPassword:
		a.password, cmd = a.password.Update(msg)
	}
	return a, cmd
}

func (a *App) setLoginFocus(f loginFocus) {
	a.focus = f
	a.username.Blur()
	a.password.Blur()
	switch f {
	case focusUsername:
		a.username.Focus()
	case focusPassword:
		a.password.Focus()
	}
}

func (a App) submitLogin() (tea.Model, tea.Cmd) {
	user := strings.TrimSpace(a.username.Value())
	if user == "" {
		return a, nil
	}
	a.loginError = ""
	a.worker.post(request{
		kind:       reqLogin,
		username:   user,
		password:   a.password.Value(),
		rememberMe: a.rememberMe,
	})
	return a, nil
}
