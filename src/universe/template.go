package universe

import (
	"voxlife/src/lattice"
)

//Template represent the seeding template which can used to settle the universe with predefined data
//coordinates are offsets from the centre of the cube
type Template struct {
	Name   string  //template name
	Descr  string  //template descr
	Groups []Group //cells to settle, one colour per group
}

//Group is a set of [x,y,z] offsets settled with one colour
type Group struct {
	Color       string
	Coordinates [][]int
}

//Templates returns the built-in seeding templates
func Templates() []Template {
	return []Template{
		{
			Name:  "square",
			Descr: "a flat 2x2 primary square",
			Groups: []Group{
				{Color: "#ff0000", Coordinates: [][]int{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}},
			},
		},
		{
			Name:  "cross",
			Descr: "a centre cell with its six face neighbours",
			Groups: []Group{
				{Color: "#00ff00", Coordinates: [][]int{{0, 0, 0}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}},
			},
		},
		{
			Name:  "duel",
			Descr: "a primary and a secondary square facing each other",
			Groups: []Group{
				{Color: "#0000ff", Coordinates: [][]int{{-1, -1, 0}, {0, -1, 0}, {-1, 0, 0}, {0, 0, 0}}},
				{Color: "#ffff00", Coordinates: [][]int{{-1, -1, 1}, {0, -1, 1}, {-1, 0, 1}, {0, 0, 1}}},
			},
		},
	}
}

//settle places the template around the centre of the engine's cube
func (t Template) settle(e *Engine) {
	center := e.Dimension() / 2
	for _, g := range t.Groups {
		pts := make([]lattice.Point, 0, len(g.Coordinates))
		for _, v := range g.Coordinates {
			if len(v) < 3 {
				continue
			}
			pts = append(pts, lattice.Point{X: center + v[0], Y: center + v[1], Z: center + v[2]})
		}
		e.Settle(pts, ParseColor(g.Color))
	}
}
