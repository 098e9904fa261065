package ui

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetQuietMode(false)
	})
	return &buf
}

func TestPrintWritesPlainTextWhenNotATerminal(t *testing.T) {
	buf := capture(t)

	PrintInfo("Query", "#btc")
	PrintError("Search failed", "rate limited")
	PrintWarning("No items found", "")
	PrintSuccess("done")

	assert.Equal(t, "Query: #btc\nSearch failed: rate limited\nNo items found\ndone\n", buf.String())
}

func TestQuietModeKeepsErrors(t *testing.T) {
	buf := capture(t)
	SetQuietMode(true)

	PrintInfo("Query", "#btc")
	PrintHighlight("Results")
	PrintError("boom")

	assert.Equal(t, "boom\n", buf.String())
}

func TestSetColor(t *testing.T) {
	capture(t)

	SetColor(true)
	assert.Equal(t, "\033[32mok\033[0m", Green("ok"))

	SetColor(false)
	assert.Equal(t, "ok", Green("ok"))
}
