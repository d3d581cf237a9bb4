package theme_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"paneld/internal/theme"
)

func TestByIndexClamps(t *testing.T) {
	require.Equal(t, theme.ByIndex(0), theme.ByIndex(-5))
	require.Equal(t, theme.ByIndex(theme.Count()-1), theme.ByIndex(theme.Count()+10))
}

func TestRegistry(t *testing.T) {
	require.Equal(t, 2, theme.Count())
	require.Equal(t, "Orange Focus", theme.Name(0))
	require.Equal(t, "Green Focus", theme.Name(1))

	for i := range theme.Count() {
		palette := theme.ByIndex(i)
		// Dark themes only, the background must stay black.
		require.Equal(t, uint8(0), palette.Background.R)
		require.Equal(t, uint8(0), palette.Background.G)
		require.Equal(t, uint8(0), palette.Background.B)
		require.NotEmpty(t, palette.Name)
	}
}
