package tui

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Truncate shortens a plain (non-styled) string to maxLen, appending "…" if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen == 1 {
		return "…"
	}
	return string(runes[:maxLen-1]) + "…"
}

// TruncateStyled shortens a string that may contain ANSI escape sequences.
func TruncateStyled(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	return ansi.Truncate(s, maxLen, "")
}

// formatBytes renders a byte count in binary units, e.g. "1.2 GiB".
func formatBytes(b uint64) string {
	const k = 1 << 10
	switch {
	case b >= k*k*k:
		return fmt.Sprintf("%.1f GiB", float64(b)/(k*k*k))
	case b >= k*k:
		return fmt.Sprintf("%.1f MiB", float64(b)/(k*k))
	case b >= k:
		return fmt.Sprintf("%.1f KiB", float64(b)/k)
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// memoryPercent computes used/usable as a percentage, 0 when usable is 0.
func memoryPercent(used, usable uint64) float64 {
	if usable == 0 {
		return 0
	}
	return float64(used) / float64(usable) * 100
}

// renderGauge draws a usage bar like [██████░░░░], colored by load.
func renderGauge(used, usable uint64, width int, theme *Theme) string {
	if width < 4 {
		return ""
	}
	pct := memoryPercent(used, usable)
	inner := width - 2
	filled := int(float64(inner) * pct / 100)
	if filled > inner {
		filled = inner
	}
	if filled < 0 {
		filled = 0
	}
	bar := lipgloss.NewStyle().Foreground(theme.UsageColor(pct)).Render(strings.Repeat("█", filled))
	rest := mutedStyle(theme).Render(strings.Repeat("░", inner-filled))
	return "[" + bar + rest + "]"
}

// highlightMatch renders s with the first case-insensitive occurrence of
// filter emphasized. An empty or unmatched filter renders s with base alone.
func highlightMatch(s, filter string, base, match lipgloss.Style) string {
	if filter == "" {
		return base.Render(s)
	}
	start, end := foldIndex(s, filter)
	if start < 0 {
		return base.Render(s)
	}
	return base.Render(s[:start]) + match.Render(s[start:end]) + base.Render(s[end:])
}

// foldIndex returns the byte range in s of the first case-insensitive
// occurrence of filter, or (-1, -1). Lowercasing can change a rune's byte
// length, so offsets into a lowered copy cannot be applied to s; instead s is
// walked rune-wise at every start position.
func foldIndex(s, filter string) (int, int) {
	f := strings.ToLower(filter)
	for i := range s {
		if n, ok := foldPrefixLen(s[i:], f); ok {
			return i, i + n
		}
	}
	return -1, -1
}

// foldPrefixLen reports how many leading bytes of s lowercase to exactly f.
func foldPrefixLen(s, f string) (int, bool) {
	matched := 0
	for i, r := range s {
		lower := string(unicode.ToLower(r))
		if matched+len(lower) > len(f) || lower != f[matched:matched+len(lower)] {
			return 0, false
		}
		matched += len(lower)
		if matched == len(f) {
			return i + utf8.RuneLen(r), true
		}
	}
	return 0, false
}

// wrapText wraps a string into lines of the given width, breaking on rune boundaries.
func wrapText(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		runes := []rune(line)
		if len(runes) == 0 {
			lines = append(lines, "")
			continue
		}
		for len(runes) > width {
			lines = append(lines, string(runes[:width]))
			runes = runes[width:]
		}
		lines = append(lines, string(runes))
	}
	return lines
}

// padHeight pads or trims a newline-separated rendering to exactly h lines.
func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	for len(lines) < h {
		lines = append(lines, "")
	}
	if len(lines) > h {
		lines = lines[:h]
	}
	return strings.Join(lines, "\n")
}

// renderBox renders a bordered box for modal overlays.
func renderBox(title, content string, width, height int, theme *Theme) string {
	if width < 4 {
		width = 4
	}
	if height < 3 {
		height = 3
	}

	innerW := width - 2
	borderStyle := lipgloss.NewStyle().Foreground(theme.Border)
	titleStyle := accentStyle(theme)

	// Top border with embedded title.
	var top string
	if title != "" {
		titleStr := " " + title + " "
		titleLen := lipgloss.Width(titleStr)
		if titleLen > innerW-2 {
			titleStr = Truncate(titleStr, innerW-2)
			titleLen = lipgloss.Width(titleStr)
		}
		styled := titleStyle.Render(titleStr)
		trailing := innerW - 1 - titleLen
		if trailing < 0 {
			trailing = 0
		}
		top = borderStyle.Render("╭─") + styled + borderStyle.Render(strings.Repeat("─", trailing)+"╮")
	} else {
		top = borderStyle.Render("╭" + strings.Repeat("─", innerW) + "╮")
	}

	lines := strings.Split(content, "\n")
	innerH := height - 2
	for len(lines) < innerH {
		lines = append(lines, "")
	}
	if len(lines) > innerH {
		lines = lines[:innerH]
	}

	var b strings.Builder
	b.WriteString(top)
	b.WriteByte('\n')
	for _, line := range lines {
		lineW := lipgloss.Width(line)
		pad := innerW - lineW
		if pad < 0 {
			pad = 0
			line = TruncateStyled(line, innerW)
		}
		b.WriteString(borderStyle.Render("│"))
		b.WriteString(line)
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(borderStyle.Render("│"))
		b.WriteByte('\n')
	}
	b.WriteString(borderStyle.Render("╰" + strings.Repeat("─", innerW) + "╯"))

	return b.String()
}

// Overlay composites fg centered on top of bg. Both strings are
// newline-separated terminal renderings.
func Overlay(bg, fg string, width, height int) string {
	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")

	fgH := len(fgLines)
	fgW := 0
	for _, l := range fgLines {
		if w := lipgloss.Width(l); w > fgW {
			fgW = w
		}
	}

	x := (width - fgW) / 2
	y := (height - fgH) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	for i, fgLine := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLine := bgLines[row]
		fgLineW := lipgloss.Width(fgLine)

		left := ansi.Truncate(bgLine, x, "")
		if leftW := lipgloss.Width(left); leftW < x {
			left += strings.Repeat(" ", x-leftW)
		}

		right := ansi.TruncateLeft(bgLine, x+fgLineW, "")
		bgLines[row] = left + fgLine + right
	}

	if len(bgLines) > height {
		bgLines = bgLines[:height]
	}
	return strings.Join(bgLines, "\n")
}
