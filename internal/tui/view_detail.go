package tui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// renderDetail draws the instance detail popup.
func (a *App) renderDetail(fi flatInstance, width, height int) string {
	theme := &a.theme
	fg := fgStyle(theme)
	muted := mutedStyle(theme)
	inst := fi.Inst

	label := func(s string) string { return muted.Render(fmt.Sprintf(" %-16s", s)) }

	state := lipgloss.NewStyle().Foreground(theme.StateColor(inst.CurrentState)).Render(string(inst.CurrentState))
	target := lipgloss.NewStyle().Foreground(theme.StateColor(inst.TargetState)).Render(string(inst.TargetState))

	leader := "no"
	if inst.IsLeader {
		leader = lipgloss.NewStyle().Foreground(theme.Warning).Render("yes ★")
	}

	lines := []string{
		"",
		label("Tier") + fg.Render(fi.Tier),
		label("Replicaset") + fg.Render(fi.Replicaset),
		label("Version") + fg.Render(inst.Version),
		label("State") + state + muted.Render(" → ") + target,
		label("Leader") + fg.Render(leader),
		"",
		label("Binary address") + fg.Render(inst.BinaryAddress),
		label("HTTP address") + fg.Render(inst.HTTPAddress),
		label("Pg address") + fg.Render(inst.PgAddress),
	}

	if len(inst.FailureDomain) > 0 {
		lines = append(lines, "")
		keys := make([]string, 0, len(inst.FailureDomain))
		for k := range inst.FailureDomain {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, label(k)+fg.Render(inst.FailureDomain[k]))
		}
	}
	lines = append(lines, "", " "+muted.Render("Esc Close"))

	modalW := 56
	if modalW > width-4 {
		modalW = width - 4
	}
	modalH := len(lines) + 2
	if modalH > height-2 {
		modalH = height - 2
	}

	content := ""
	for i, l := range lines {
		if i > 0 {
			content += "\n"
		}
		content += l
	}
	return renderBox(inst.Name, content, modalW, modalH, theme)
}
