package helpers

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	statusPrefix  = color.New(color.FgCyan)
	successPrefix = color.New(color.FgGreen)
	warnPrefix    = color.New(color.FgYellow)
)

// SetColorEnabled overrides automatic color detection (NO_COLOR, non-TTY).
func SetColorEnabled(enabled bool) {
	color.NoColor = !enabled
}

// Statusf prints a "[-]" prefixed progress line to stdout.
func Statusf(format string, a ...any) {
	fmt.Printf("%s %s\n", statusPrefix.Sprint("[-]"), fmt.Sprintf(format, a...))
}

// Successf prints a "[+]" prefixed line to stdout.
func Successf(format string, a ...any) {
	fmt.Printf("%s %s\n", successPrefix.Sprint("[+]"), fmt.Sprintf(format, a...))
}

// Warnf prints a "[!]" prefixed line to stderr.
func Warnf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", warnPrefix.Sprint("[!]"), fmt.Sprintf(format, a...))
}

// FormatBytes renders a byte count for humans.
func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
