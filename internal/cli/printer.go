package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const (
	SymbolPass    = "✓"
	SymbolFail    = "✗"
	SymbolArrow   = "→"
	SymbolDot     = "•"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"

	Indent = "  "
)

// Out is where every printer helper writes. Tests swap it for a buffer.
var Out io.Writer = os.Stdout

func Header(title string) {
	width := 60
	padding := (width - len(title) - 2) / 2
	border := strings.Repeat("═", width)

	fmt.Fprintln(Out)
	fmt.Fprintf(Out, "╔%s╗\n", border)
	fmt.Fprintf(Out, "║%s %s %s║\n", strings.Repeat(" ", padding), title, strings.Repeat(" ", width-padding-len(title)-2))
	fmt.Fprintf(Out, "╚%s╝\n", border)
	fmt.Fprintln(Out)
}

func Section(title string) {
	fmt.Fprintf(Out, "\n━━ %s ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n", title)
}

func FileHeader(name string) {
	fill := 58 - len(name)
	if fill < 3 {
		fill = 3
	}
	fmt.Fprintf(Out, "\n┌─ %s %s\n", name, strings.Repeat("─", fill))
}

func Infof(format string, args ...any) {
	fmt.Fprintf(Out, "%s%s %s\n", Indent, SymbolInfo, fmt.Sprintf(format, args...))
}

func Successf(format string, args ...any) {
	fmt.Fprintf(Out, "%s%s %s\n", Indent, SymbolPass, fmt.Sprintf(format, args...))
}

func Failf(format string, args ...any) {
	fmt.Fprintf(Out, "%s%s %s\n", Indent, SymbolFail, fmt.Sprintf(format, args...))
}

func Warnf(format string, args ...any) {
	fmt.Fprintf(Out, "%s%s %s\n", Indent, SymbolWarning, fmt.Sprintf(format, args...))
}

func Linef(format string, args ...any) {
	fmt.Fprintf(Out, "%s%s\n", Indent, fmt.Sprintf(format, args...))
}

func KeyValue(key, value string) {
	fmt.Fprintf(Out, "%s%-20s %s\n", Indent, key+":", value)
}

func KeyValuePairs(pairs ...string) {
	if len(pairs)%2 != 0 {
		return
	}
	var parts []string
	for i := 0; i < len(pairs); i += 2 {
		parts = append(parts, fmt.Sprintf("%s: %s", pairs[i], pairs[i+1]))
	}
	fmt.Fprintf(Out, "%s%s\n", Indent, strings.Join(parts, "  │  "))
}

func StatusLinef(status bool, format string, args ...any) {
	symbol := SymbolPass
	if !status {
		symbol = SymbolFail
	}
	fmt.Fprintf(Out, "%s%s %s\n", Indent, symbol, fmt.Sprintf(format, args...))
}

func Rule() {
	fmt.Fprintln(Out, "  ───────────────────────────────────────────────────────────────────────────────────────")
}

func Blank() {
	fmt.Fprintln(Out)
}

func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}

// FormatMillis renders an elapsed time already expressed in milliseconds.
func FormatMillis(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%.2fms", ms)
	}
	return fmt.Sprintf("%.2fs", ms/1000)
}

// FormatPercent renders a value on the 0-100 scale.
func FormatPercent(pct float64) string {
	if pct >= 99.995 {
		return "100%"
	}
	return fmt.Sprintf("%.2f%%", pct)
}

func FormatThroughput(perSec float64) string {
	return fmt.Sprintf("%.2f/s", perSec)
}

func FormatCount(count int) string {
	if count < 1000 {
		return fmt.Sprintf("%d", count)
	}
	if count < 1_000_000 {
		return fmt.Sprintf("%.2fk", float64(count)/1000)
	}
	return fmt.Sprintf("%.2fM", float64(count)/1_000_000)
}

func Truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen] + "..."
}
