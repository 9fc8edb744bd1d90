package sandbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleBufferKeepsOrder(t *testing.T) {
	buf := NewConsoleBuffer()
	buf.Append("a")
	buf.Append("b")
	buf.Append("c")

	assert.Equal(t, 3, buf.Len())
	assert.Equal(t, []string{"a", "b", "c"}, buf.Seal())
}

func TestConsoleBufferSealDropsLateWrites(t *testing.T) {
	buf := NewConsoleBuffer()
	buf.Append("before")

	lines := buf.Seal()
	buf.Append("after")

	assert.Equal(t, []string{"before"}, lines)
	assert.Equal(t, 1, buf.Len())
}

func TestConsoleBufferSealEmpty(t *testing.T) {
	lines := NewConsoleBuffer().Seal()
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}
