package tui

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBrailleLines(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 20))
	img.Set(0, 0, color.Black)
	img.Set(5, 13, color.Black)
	img.Set(9, 17, color.Black)
	img.Set(12, 3, color.RGBA{A: 0x20})

	lines := brailleLines(img, 8, 16)
	require.Len(t, lines, 2)
	require.Equal(t, []rune{0x2800 + 0x01 + 0x80, ' '}, []rune(lines[0]))
	require.Equal(t, []rune{' ', 0x2800 + 0x01}, []rune(lines[1]))
}

func TestBrailleLinesBlank(t *testing.T) {
	lines := brailleLines(image.NewRGBA(image.Rect(0, 0, 24, 16)), 8, 16)
	require.Equal(t, []string{"   "}, lines)
}
