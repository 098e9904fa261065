// Package ui prints human-facing status lines for the command line tool.
// Output goes to stderr, colored only when stderr is a terminal.
package ui
