package version

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFprint(t *testing.T) {
	var short bytes.Buffer
	Fprint(&short, false)
	assert.Equal(t, "skcomsetup dev\n", short.String())

	var full bytes.Buffer
	Fprint(&full, true)
	lines := strings.Split(strings.TrimSpace(full.String()), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[1], "revision")
}
