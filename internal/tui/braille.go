package tui

import (
	"image"
	"strings"
)

// inkAlpha is the alpha above which a surface pixel counts as ink.
const inkAlpha = 0x4000

// brailleDots maps a dot column and row inside one braille cell to its bit.
var brailleDots = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// brailleLines renders img as rows of braille cells, one cell per
// cellW x cellH block of pixels. Blank cells are spaces.
func brailleLines(img image.Image, cellW, cellH int) []string {
	b := img.Bounds()
	cols := (b.Dx() + cellW - 1) / cellW
	rows := (b.Dy() + cellH - 1) / cellH
	dotW, dotH := max(cellW/2, 1), max(cellH/4, 1)

	lines := make([]string, 0, rows)
	for r := 0; r < rows; r++ {
		var sb strings.Builder
		for c := 0; c < cols; c++ {
			var bits rune
			for dx := 0; dx < 2; dx++ {
				for dy := 0; dy < 4; dy++ {
					x0 := b.Min.X + c*cellW + dx*dotW
					y0 := b.Min.Y + r*cellH + dy*dotH
					if inked(img, image.Rect(x0, y0, x0+dotW, y0+dotH).Intersect(b)) {
						bits |= brailleDots[dx][dy]
					}
				}
			}
			if bits == 0 {
				sb.WriteByte(' ')
			} else {
				sb.WriteRune(0x2800 + bits)
			}
		}
		lines = append(lines, sb.String())
	}
	return lines
}

func inked(img image.Image, r image.Rectangle) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > inkAlpha {
				return true
			}
		}
	}
	return false
}
