package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderLogin draws the centered login form.
func (a *App) renderLogin(width, height int) string {
	theme := &a.theme
	fg := fgStyle(theme)
	muted := mutedStyle(theme)

	focusMark := func(f loginFocus) string {
		if a.focus == f {
			return lipgloss.NewStyle().Foreground(theme.Accent).Render("▸ ")
		}
		return "  "
	}

	checkbox := "[ ]"
	if a.rememberMe {
		checkbox = "[x]"
	}
	remember := focusMark(focusRemember) + fg.Render(checkbox+" Remember me")

	lines := []string{
		"",
		" " + muted.Render(Truncate(a.worker.BaseURL(), 44)),
		"",
		" " + focusMark(focusUsername) + a.username.View(),
		" " + focusMark(focusPassword) + a.password.View(),
		"",
		" " + remember,
	}

	if a.loginError != "" {
		lines = append(lines, "")
		errStyle := lipgloss.NewStyle().Foreground(theme.Critical)
		for _, l := range wrapText(a.loginError, 44) {
			lines = append(lines, " "+errStyle.Render(l))
		}
	}

	lines = append(lines, "",
		" "+muted.Render("Tab Next  Enter Submit  Ctrl+S Show  Esc Quit"))

	modalW := 50
	if modalW > width-4 {
		modalW = width - 4
	}
	modalH := len(lines) + 2
	if modalH > height-2 {
		modalH = height - 2
	}

	box := renderBox("Login", strings.Join(lines, "\n"), modalW, modalH, theme)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
