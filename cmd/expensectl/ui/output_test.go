package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintHelpers(t *testing.T) {
	var buf bytes.Buffer

	PrintTitle(&buf, "Schema")
	PrintField(&buf, "version", 3)
	PrintWarning(&buf, "Aborted.")
	PrintError(&buf, "boom")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Contains(t, lines[0], "Schema")
	assert.Contains(t, buf.String(), "version:")
	assert.Contains(t, buf.String(), " 3\n")
	assert.Contains(t, buf.String(), "Aborted.")
	assert.Contains(t, buf.String(), "Error: boom")
}
