package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderProgress_Empty(t *testing.T) {
	out := RenderProgress(0, 10)
	assert.Contains(t, out, "0%")
	assert.Equal(t, 10, strings.Count(out, emptyBlock))
	assert.Equal(t, 0, strings.Count(out, filledBlock))
}

func TestRenderProgress_Half(t *testing.T) {
	out := RenderProgress(50, 10)
	assert.Contains(t, out, "50%")
	assert.Equal(t, 5, strings.Count(out, filledBlock))
	assert.Equal(t, 5, strings.Count(out, emptyBlock))
}

func TestRenderProgress_Full(t *testing.T) {
	out := RenderProgress(100, 10)
	assert.Contains(t, out, "100%")
	assert.Equal(t, 10, strings.Count(out, filledBlock))
}

func TestRenderProgress_ClampsOutOfRange(t *testing.T) {
	assert.Contains(t, RenderProgress(-20, 10), "0%")
	assert.Contains(t, RenderProgress(140, 10), "100%")
}
