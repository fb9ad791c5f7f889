package monitor

import (
	"fmt"

	"fuzzmon/internal/engine"
)

// ANSI foreground color codes.
const (
	colorBlack   = 30
	colorRed     = 31
	colorGreen   = 32
	colorYellow  = 33
	colorBlue    = 34
	colorMagenta = 35
	colorCyan    = 36
	colorWhite   = 37
)

// colorFor maps a log severity to its display color. The switch is
// exhaustive over engine.Severity; an out-of-range value is a contract
// violation.
func colorFor(level engine.Severity) int {
	switch level {
	case engine.LevelVerbose:
		return colorCyan
	case engine.LevelInfo:
		return colorWhite
	case engine.LevelWarning:
		return colorYellow
	case engine.LevelError:
		return colorRed
	case engine.LevelFatal:
		return colorMagenta
	}
	panic(fmt.Sprintf("monitor: unknown severity %d", level))
}

// colorize wraps s in ANSI escape sequences for the given color code.
func colorize(code int, s string) string {
	return fmt.Sprintf("\x1b[0;%dm%s\x1b[0;0m", code, s)
}
