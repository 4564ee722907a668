package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader draws the cluster summary block above the active list.
func (a *App) renderHeader(width int) string {
	theme := &a.theme
	accent := accentStyle(theme)
	muted := mutedStyle(theme)
	fg := fgStyle(theme)
	divider := muted.Render(strings.Repeat("─", max(width, 1)))

	if a.cluster == nil {
		title := accent.Render("clustertop") + "  " + muted.Render(a.worker.BaseURL())
		return TruncateStyled(" "+title, width) + "\n" + divider
	}
	c := a.cluster

	title := accent.Render(c.ClusterName) +
		"  " + muted.Render("cluster "+c.ClusterVersion) +
		"  " + muted.Render("instance "+c.CurrentInstanceVersion)

	online := lipgloss.NewStyle().Foreground(theme.Healthy).Render(fmt.Sprintf("%d online", c.InstancesCurrentStateOnline))
	offline := fmt.Sprintf("%d offline", c.InstancesCurrentStateOffline)
	if c.InstancesCurrentStateOffline > 0 {
		offline = lipgloss.NewStyle().Foreground(theme.Critical).Render(offline)
	} else {
		offline = muted.Render(offline)
	}
	counts := fg.Render("Instances: ") + online + muted.Render(" / ") + offline +
		fg.Render("   Replicasets: ") + fg.Render(fmt.Sprintf("%d", c.ReplicasetsCount))

	plugins := "none"
	if len(c.Plugins) > 0 {
		plugins = strings.Join(c.Plugins, ", ")
	}
	counts += fg.Render("   Plugins: ") + muted.Render(plugins)

	gaugeW := 24
	if gaugeW > width/3 {
		gaugeW = width / 3
	}
	mem := fg.Render("Memory: ") + renderGauge(c.Memory.Used, c.Memory.Usable, gaugeW, theme) +
		" " + muted.Render(fmt.Sprintf("%s / %s (%.1f%%)",
		formatBytes(c.Memory.Used), formatBytes(c.Memory.Usable),
		memoryPercent(c.Memory.Used, c.Memory.Usable)))

	lines := []string{
		TruncateStyled(" "+title, width),
		TruncateStyled(" "+counts, width),
		TruncateStyled(" "+mem, width),
		divider,
	}
	return strings.Join(lines, "\n")
}

// renderStatusBar draws the bottom line: view mode, sort and filter state,
// loading/error status, and contextual key hints.
func (a *App) renderStatusBar() string {
	theme := &a.theme
	muted := mutedStyle(theme)

	left := fmt.Sprintf(" [%s]", a.viewMode.label())
	if a.viewMode == ViewInstances {
		left += fmt.Sprintf("  sort:%s%s", a.sortField.label(), a.sortOrder.arrow())
		switch {
		case a.filterActive:
			left += "  /" + a.filterText + "█"
		case a.filterText != "":
			left += "  /" + a.filterText
		}
	}

	line := left
	switch {
	case a.loading:
		line += "  " + lipgloss.NewStyle().Foreground(theme.Warning).Render("Loading...")
	case a.lastError != "":
		line += "  " + lipgloss.NewStyle().Foreground(theme.Critical).Render(Truncate(a.lastError, a.width/2))
	}

	line += "  " + muted.Render(a.keyHints())
	return TruncateStyled(line, a.width)
}

func (a *App) keyHints() string {
	if a.filterActive {
		return "Enter Keep  Esc Clear"
	}
	if a.showDetail {
		return "Esc Close"
	}
	switch a.viewMode {
	case ViewReplicasets:
		return "j/k Move  g View  r Refresh  X Logout  q Quit"
	case ViewInstances:
		return "j/k Move  / Filter  s/S Sort  Enter Detail  g View  q Quit"
	default:
		return "j/k Move  h/l Fold  Enter Detail  g View  r Refresh  q Quit"
	}
}
