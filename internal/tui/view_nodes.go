package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"clustertop/internal/api"
)

// windowStart picks the first visible row so the selection stays in view.
func windowStart(selected, count, visible int) int {
	if count <= visible || visible <= 0 {
		return 0
	}
	start := selected - visible/2
	if start < 0 {
		start = 0
	}
	if start > count-visible {
		start = count - visible
	}
	return start
}

// renderTiers draws the expandable tier → replicaset → instance tree.
func (a *App) renderTiers(width, height int) string {
	if len(a.treeItems) == 0 {
		return mutedStyle(&a.theme).Render("  No tiers")
	}
	start := windowStart(a.selected, len(a.treeItems), height)
	var lines []string
	for row := 0; row < height && start+row < len(a.treeItems); row++ {
		idx := start + row
		lines = append(lines, a.renderTreeRow(a.treeItems[idx], idx == a.selected, width))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderTreeRow(item TreeItem, selected bool, width int) string {
	theme := &a.theme
	muted := mutedStyle(theme)
	fg := fgStyle(theme)

	marker := "  "
	if selected {
		marker = lipgloss.NewStyle().Foreground(theme.Accent).Render("▸ ")
	}

	var line string
	switch item.Kind {
	case itemTier:
		tier := a.tiers[item.Tier]
		arrow := "▶"
		if a.expandedTiers[item.Tier] {
			arrow = "▼"
		}
		meta := fmt.Sprintf("rf=%d  replicasets=%d  instances=%d", tier.RF, len(tier.Replicasets), tier.InstanceCount)
		if tier.CanVote {
			meta += "  voter"
		}
		line = muted.Render(arrow) + " " + accentStyle(theme).Render(tier.Name) + "  " + muted.Render(meta)

	case itemReplicaset:
		tier := a.tiers[item.Tier]
		rs := tier.Replicasets[item.Replicaset]
		branch := "├─"
		if item.Replicaset == len(tier.Replicasets)-1 {
			branch = "└─"
		}
		arrow := "▶"
		if a.expandedRS[rsKey{item.Tier, item.Replicaset}] {
			arrow = "▼"
		}
		dot := lipgloss.NewStyle().Foreground(theme.StateColor(rs.State)).Render("●")
		meta := fmt.Sprintf("%d instances  %s / %s", len(rs.Instances),
			formatBytes(rs.Memory.Used), formatBytes(rs.Memory.Usable))
		line = "  " + muted.Render(branch) + " " + muted.Render(arrow) + " " + dot + " " +
			fg.Render(rs.Name) + "  " + muted.Render(meta)

	case itemInstance:
		tier := a.tiers[item.Tier]
		rs := tier.Replicasets[item.Replicaset]
		gutter := "│ "
		if item.Replicaset == len(tier.Replicasets)-1 {
			gutter = "  "
		}
		branch := "├─"
		if item.Instance == len(rs.Instances)-1 {
			branch = "└─"
		}
		line = "  " + muted.Render(gutter) + "   " + muted.Render(branch) + " " +
			a.renderInstanceCell(rs.Instances[item.Instance], "")
	}
	return TruncateStyled(marker+line, width)
}

// renderReplicasets draws every replicaset across all tiers as a flat list.
func (a *App) renderReplicasets(width, height int) string {
	theme := &a.theme
	muted := mutedStyle(theme)
	fg := fgStyle(theme)

	list := flattenReplicasets(a.tiers)
	if len(list) == 0 {
		return muted.Render("  No replicasets")
	}
	start := windowStart(a.selected, len(list), height)
	var lines []string
	for row := 0; row < height && start+row < len(list); row++ {
		idx := start + row
		fr := list[idx]
		marker := "  "
		if idx == a.selected {
			marker = lipgloss.NewStyle().Foreground(theme.Accent).Render("▸ ")
		}
		dot := lipgloss.NewStyle().Foreground(theme.StateColor(fr.RS.State)).Render("●")
		meta := fmt.Sprintf("tier=%s  %d instances  %.1f%%", fr.Tier, len(fr.RS.Instances), fr.RS.CapacityUsage)
		line := marker + dot + " " + fg.Render(fr.RS.Name) + "  " + muted.Render(meta)
		lines = append(lines, TruncateStyled(line, width))
	}
	return strings.Join(lines, "\n")
}

// renderInstances draws the filtered, sorted flat instance list.
func (a *App) renderInstances(width, height int) string {
	theme := &a.theme
	muted := mutedStyle(theme)

	list := a.instances()
	if len(list) == 0 {
		if a.filterText != "" {
			return muted.Render("  No instances match " + fmt.Sprintf("%q", a.filterText))
		}
		return muted.Render("  No instances")
	}
	start := windowStart(a.selected, len(list), height)
	var lines []string
	for row := 0; row < height && start+row < len(list); row++ {
		idx := start + row
		fi := list[idx]
		marker := "  "
		if idx == a.selected {
			marker = lipgloss.NewStyle().Foreground(theme.Accent).Render("▸ ")
		}
		match := lipgloss.NewStyle().Foreground(theme.Warning).Bold(true)
		owner := highlightMatch(fi.Tier, a.filterText, muted, match) +
			muted.Render("/") +
			highlightMatch(fi.Replicaset, a.filterText, muted, match)
		line := marker + a.renderInstanceCell(fi.Inst, a.filterText) + "  " + owner
		lines = append(lines, TruncateStyled(line, width))
	}
	return strings.Join(lines, "\n")
}

// renderInstanceCell draws name, leader marker, states, and binary address.
func (a *App) renderInstanceCell(inst api.InstanceInfo, filter string) string {
	theme := &a.theme
	fg := fgStyle(theme)
	muted := mutedStyle(theme)
	match := lipgloss.NewStyle().Foreground(theme.Warning).Bold(true)

	name := highlightMatch(inst.Name, filter, fg, match)
	if inst.IsLeader {
		name += " " + lipgloss.NewStyle().Foreground(theme.Warning).Render("★")
	}
	state := lipgloss.NewStyle().Foreground(theme.StateColor(inst.CurrentState)).Render(string(inst.CurrentState))
	if inst.TargetState != inst.CurrentState {
		state += muted.Render("→" + string(inst.TargetState))
	}
	return name + "  " + state + "  " + highlightMatch(inst.BinaryAddress, filter, muted, match)
}
