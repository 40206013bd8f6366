package universe

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

//Class is the faction of a live cell
type Class uint8

const (
	ClassNone Class = iota
	ClassPrimary
	ClassSecondary
)

func (c Class) String() string {
	switch c {
	case ClassPrimary:
		return "primary"
	case ClassSecondary:
		return "secondary"
	}
	return "none"
}

//Cell is the automaton state of one lattice point
//a dead cell always has zero age, ClassNone and DeadColor
type Cell struct {
	Alive bool
	Age   uint
	Class Class
	Color color.RGBA
}

var (
	PrimaryColors = []color.RGBA{
		{R: 0xff, A: 0xff},
		{G: 0xff, A: 0xff},
		{B: 0xff, A: 0xff},
	}
	SecondaryColors = []color.RGBA{
		{R: 0xff, B: 0xff, A: 0xff},
		{R: 0xff, G: 0xff, A: 0xff},
		{G: 0xff, B: 0xff, A: 0xff},
	}
	AllColors = append(append([]color.RGBA{}, PrimaryColors...), SecondaryColors...)

	DeadColor  = color.RGBA{A: 0xff}
	PaintColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	deadCell = Cell{Color: DeadColor}
)

const (
	fadeStep  = 0.08
	fadeFloor = 0.4
)

//Palette returns the colours of a class, nil for ClassNone
func Palette(c Class) []color.RGBA {
	switch c {
	case ClassPrimary:
		return PrimaryColors
	case ClassSecondary:
		return SecondaryColors
	}
	return nil
}

//ClassOf reports which palette c belongs to
func ClassOf(c color.RGBA) Class {
	for _, p := range PrimaryColors {
		if p == c {
			return ClassPrimary
		}
	}
	for _, s := range SecondaryColors {
		if s == c {
			return ClassSecondary
		}
	}
	return ClassNone
}

//Nearest snaps c to the closest palette colour
func Nearest(c color.RGBA) color.RGBA {
	best := AllColors[0]
	bestDist := math.MaxInt
	for _, p := range AllColors {
		dr := int(c.R) - int(p.R)
		dg := int(c.G) - int(p.G)
		db := int(c.B) - int(p.B)
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

//FadeFactor is the brightness of a cell that survived age generations
func FadeFactor(age uint) float64 {
	return math.Max(fadeFloor, 1-float64(age)*fadeStep)
}

//Tint dims c according to age
func Tint(c color.RGBA, age uint) color.RGBA {
	f := FadeFactor(age)
	scale := func(v uint8) uint8 {
		return uint8(math.Round(float64(v) * f))
	}
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

//ParseColor reads #rgb or #rrggbb (the # is optional)
//anything unreadable paints white so a click always shows up
func ParseColor(s string) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return PaintColor
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return PaintColor
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

//FormatColor renders c as #rrggbb
func FormatColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

//IsDark reports whether c renders as the unlit dead colour
func IsDark(c color.RGBA) bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}
