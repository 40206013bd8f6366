package lattice

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

//DefaultDimension is the side length of the cube when nothing else is configured
const DefaultDimension = 8

//Axis names the axis held fixed by a slice
type Axis byte

const (
	AxisX Axis = 'x'
	AxisY Axis = 'y'
	AxisZ Axis = 'z'
)

func (a Axis) String() string {
	return string(a)
}

//Orientation selects a row or a column inside a slice
type Orientation int

const (
	Row Orientation = iota
	Column
)

func (o Orientation) String() string {
	if o == Column {
		return "column"
	}
	return "row"
}

//Point is a lattice coordinate
type Point struct {
	X, Y, Z int
}

//Lattice is the cubic index space of side D
type Lattice struct {
	D int
}

//New returns the lattice of side d, falling back to DefaultDimension for d <= 0
func New(d int) Lattice {
	if d <= 0 {
		d = DefaultDimension
	}
	return Lattice{D: d}
}

//NormalizeAxis maps "x" and "y" to their axes, everything else to AxisZ
func NormalizeAxis(a string) Axis {
	switch a {
	case "x":
		return AxisX
	case "y":
		return AxisY
	}
	return AxisZ
}

//NormalizeOrientation maps "column" to Column, everything else to Row
func NormalizeOrientation(o string) Orientation {
	if o == "column" {
		return Column
	}
	return Row
}

//Volume returns the number of lattice points
func (l Lattice) Volume() int {
	return l.D * l.D * l.D
}

//Clamp rounds v to the nearest integer (halves round up) and clamps it into [0, D-1]
//NaN maps to 0
func (l Lattice) Clamp(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Floor(v + 0.5)
	if v < 0 {
		return 0
	}
	if max := float64(l.D - 1); v > max {
		return l.D - 1
	}
	return int(v)
}

//ClampInt clamps v into [0, D-1]
func (l Lattice) ClampInt(v int) int {
	if v < 0 {
		return 0
	}
	if v > l.D-1 {
		return l.D - 1
	}
	return v
}

//ParseIndex clamps a textual index, non-numeric text maps to 0
func (l Lattice) ParseIndex(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	//out of range values come back as +-Inf and clamp to the edges
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return l.Clamp(v)
}

//Contains reports whether p lies inside the lattice
func (l Lattice) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.Z >= 0 && p.X < l.D && p.Y < l.D && p.Z < l.D
}

//Index returns the linear buffer index of p (x-major)
func (l Lattice) Index(p Point) int {
	return (p.X*l.D+p.Y)*l.D + p.Z
}

//At is the inverse of Index
func (l Lattice) At(i int) Point {
	return Point{X: i / (l.D * l.D), Y: (i / l.D) % l.D, Z: i % l.D}
}

//GridToVoxel maps a slice coordinate to the lattice
//rows grow downwards on screen, so the row is inverted onto the vertical axis
func (l Lattice) GridToVoxel(axis Axis, layer, row, col int) Point {
	invRow := l.D - 1 - row
	invCol := l.D - 1 - col
	switch axis {
	case AxisX:
		return Point{X: layer, Y: invRow, Z: invCol}
	case AxisY:
		return Point{X: invCol, Y: layer, Z: invRow}
	}
	return Point{X: col, Y: invRow, Z: layer}
}

//VoxelToGrid is the inverse of GridToVoxel
func (l Lattice) VoxelToGrid(axis Axis, p Point) (layer, row, col int) {
	last := l.D - 1
	switch axis {
	case AxisX:
		return p.X, last - p.Y, last - p.Z
	case AxisY:
		return p.Y, last - p.Z, last - p.X
	}
	return p.Z, last - p.Y, p.X
}

//Line returns the D points of a row or column of a slice in slice order
func (l Lattice) Line(axis Axis, layer int, o Orientation, index int) []Point {
	pts := make([]Point, 0, l.D)
	for i := 0; i < l.D; i++ {
		if o == Column {
			pts = append(pts, l.GridToVoxel(axis, layer, i, index))
		} else {
			pts = append(pts, l.GridToVoxel(axis, layer, index, i))
		}
	}
	return pts
}

//Plane returns the D*D points of a slice, row by row
func (l Lattice) Plane(axis Axis, layer int) []Point {
	pts := make([]Point, 0, l.D*l.D)
	for row := 0; row < l.D; row++ {
		for col := 0; col < l.D; col++ {
			pts = append(pts, l.GridToVoxel(axis, layer, row, col))
		}
	}
	return pts
}
