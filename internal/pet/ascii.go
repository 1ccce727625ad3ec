package pet

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
)

// charRamp runs from dark to light.
const charRamp = "@%#*+=-:. "

// Convert renders img as lines of characters, cols wide. Terminal cells are
// about twice as tall as wide, so rows are halved to keep the aspect ratio.
// Transparent pixels become spaces.
func Convert(img image.Image, cols int) []string {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || cols <= 0 {
		return nil
	}

	rows := h * cols / w / 2
	if rows < 1 {
		rows = 1
	}

	small := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), img, bounds, draw.Src, nil)

	lines := make([]string, 0, rows)
	for y := 0; y < rows; y++ {
		var line strings.Builder
		for x := 0; x < cols; x++ {
			line.WriteByte(pixelToChar(small.NRGBAAt(x, y)))
		}
		lines = append(lines, strings.TrimRight(line.String(), " "))
	}
	return trimBlankRows(lines)
}

func pixelToChar(c color.NRGBA) byte {
	if c.A < 0x80 {
		return ' '
	}
	gray := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	idx := int(gray / 255 * float64(len(charRamp)-1))
	if idx >= len(charRamp) {
		idx = len(charRamp) - 1
	}
	return charRamp[idx]
}

// trimBlankRows drops empty rows above and below the drawing.
func trimBlankRows(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && lines[start] == "" {
		start++
	}
	for end > start && lines[end-1] == "" {
		end--
	}
	return lines[start:end]
}
