package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// Status messages go to stderr so stdout carries only search results
var (
	mu    sync.Mutex
	out   io.Writer = os.Stderr
	color bool      = isTerminal(os.Stderr)
	quiet bool
)

// SetOutput redirects status messages. Colors are turned off unless w is a
// terminal.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	color = isTerminal(w)
}

// SetColor forces colored output on or off
func SetColor(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	color = enabled
}

// SetQuietMode suppresses everything except errors
func SetQuietMode(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		mu.Lock()
		enabled := color
		mu.Unlock()
		if !enabled {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

func emit(always bool, text string) {
	mu.Lock()
	defer mu.Unlock()
	if quiet && !always {
		return
	}
	fmt.Fprintln(out, text)
}

func withDetail(msg string, args []interface{}) string {
	if len(args) > 0 && fmt.Sprint(args[0]) != "" {
		return msg + ": " + fmt.Sprint(args[0])
	}
	return msg
}

// PrintError prints an error message in red. It is shown in quiet mode.
func PrintError(msg string, args ...interface{}) {
	emit(true, Red(withDetail(msg, args)))
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	emit(false, Green(msg))
}

// PrintInfo prints a labelled value
func PrintInfo(label string, value string) {
	emit(false, fmt.Sprintf("%s: %s", Cyan(label), Yellow(value)))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	emit(false, Yellow(withDetail(msg, args)))
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	emit(false, Magenta(msg))
}
