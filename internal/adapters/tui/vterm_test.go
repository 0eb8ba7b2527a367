package tui_test

import (
	"strings"
	"testing"

	"github.com/b3rserker/gridmaven/internal/adapters/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plain(s string) string {
	return strings.ReplaceAll(s, "\x1b[0m", "")
}

func TestVterm_WriteFollowsTail(t *testing.T) {
	t.Parallel()

	vt := tui.NewVterm()
	vt.SetHeight(3)
	_, err := vt.Write([]byte("1\n2\n3\n4\n5\n6"))
	require.NoError(t, err)

	assert.Equal(t, vt.MaxOffset(), vt.Offset)
	assert.Positive(t, vt.Offset)
}

func TestVterm_WriteKeepsScrolledPosition(t *testing.T) {
	t.Parallel()

	vt := tui.NewVterm()
	vt.SetHeight(3)
	_, _ = vt.Write([]byte("1\n2\n3\n4\n5\n6\n"))
	require.True(t, vt.Scroll("home"))

	_, err := vt.Write([]byte("7\n8\n"))
	require.NoError(t, err)
	assert.Zero(t, vt.Offset)
}

func TestVterm_SetHeight(t *testing.T) {
	t.Parallel()

	vt := tui.NewVterm()
	_, _ = vt.Write([]byte("1\n2\n3\n4\n5\n6\n7\n8\n9\n10"))

	vt.Offset = vt.MaxOffset()
	vt.SetHeight(5)
	assert.Equal(t, 5, vt.Height)
	assert.Equal(t, vt.MaxOffset(), vt.Offset)

	vt.Offset = 0
	vt.SetHeight(2)
	assert.Equal(t, 0, vt.Offset)

	vt.SetHeight(20)
	assert.Equal(t, 0, vt.Offset)

	vt.SetHeight(0)
	assert.Equal(t, 1, vt.Height)
}

func TestVterm_SetWidth(t *testing.T) {
	t.Parallel()

	vt := tui.NewVterm()
	vt.Prefix = ">> "
	vt.SetWidth(10)
	assert.Equal(t, 10, vt.Width)

	vt.SetWidth(0)
	assert.Equal(t, 1, vt.Width)
}

func TestVterm_Scroll(t *testing.T) {
	t.Parallel()

	vt := tui.NewVterm()
	vt.SetHeight(2)
	_, _ = vt.Write([]byte("0\n1\n2\n3"))
	require.Equal(t, 2, vt.MaxOffset())
	require.Equal(t, 2, vt.Offset)

	steps := []struct {
		key  string
		want int
	}{
		{"shift+up", 1},
		{"shift+up", 0},
		{"shift+up", 0},
		{"shift+down", 1},
		{"end", 2},
		{"shift+down", 2},
		{"pgup", 0},
		{"pgdown", 2},
		{"home", 0},
	}
	for _, s := range steps {
		assert.True(t, vt.Scroll(s.key), s.key)
		assert.Equal(t, s.want, vt.Offset, s.key)
	}
	assert.False(t, vt.Scroll("x"))
}

func TestVterm_View(t *testing.T) {
	t.Parallel()

	vt := tui.NewVterm()
	vt.SetHeight(2)
	vt.Prefix = "> "
	_, _ = vt.Write([]byte("hello\nworld"))

	assert.Equal(t, "> hello\n> world", plain(vt.View()))
}
