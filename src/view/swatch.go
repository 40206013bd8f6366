package view

import (
	"bytes"
	"image/color"

	"github.com/logrusorgru/aurora"

	"voxlife/src/universe"
)

const (
	liveFiller   = "██"
	deadFiller   = "··"
	cursorFiller = "[]"

	blackIndex = 16
)

//ansiIndex maps a colour onto the 6x6x6 cube of the 256 colour palette
func ansiIndex(c color.RGBA) uint8 {
	q := func(v uint8) int { return (int(v)*5 + 127) / 255 }
	return uint8(16 + 36*q(c.R) + 6*q(c.G) + q(c.B))
}

//swatch renders one voxel as two terminal cells
func swatch(c color.RGBA, selected bool) string {
	if universe.IsDark(c) {
		if selected {
			return aurora.Gray(20, cursorFiller).String()
		}
		return aurora.Gray(8, deadFiller).String()
	}
	if selected {
		return aurora.Index(blackIndex, cursorFiller).BgIndex(ansiIndex(c)).String()
	}
	return aurora.Index(ansiIndex(c), liveFiller).String()
}

//renderSlice draws a slice row by row, selRow/selCol < 0 disables the cursor
func renderSlice(colors [][]color.RGBA, selRow, selCol int) string {
	var b bytes.Buffer
	for row, line := range colors {
		if row != 0 {
			b.WriteByte('\n')
		}
		for col, c := range line {
			b.WriteString(swatch(c, row == selRow && col == selCol))
		}
	}
	return b.String()
}
