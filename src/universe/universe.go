package universe

import (
	"image/color"

	"voxlife/src/lattice"
)

type Universe interface {
	Status() Status
	Options() Options
	Lattice() lattice.Lattice
	StateCh() chan Status
	AddTemplate(tmpl Template)
	SettleTemplate(name string)
	SettleWithRandomData()
	Settle(vc [][]int, c color.RGBA)
	PaintVoxel(x, y, z int, c color.RGBA)
	PaintCell(axis lattice.Axis, layer, row, col int, c color.RGBA)
	PaintLine(axis lattice.Axis, layer int, o lattice.Orientation, index int, c color.RGBA)
	PaintSlice(axis lattice.Axis, layer int, c color.RGBA)
	SliceColors(axis lattice.Axis, layer int) [][]color.RGBA
	RegisterViewer(v Viewer)
	RegisterSink(s ColorSink)
	Run()
	Stop()
	Step()
	Clear()
	Close()
}
