package universe

import (
	"image/color"
	"math/rand/v2"

	"voxlife/src/lattice"
)

//ColorSink mirrors displayed colours into a renderer
//it is called while the engine is being mutated and must not call back into it
type ColorSink interface {
	ApplyColor(x, y, z int, c color.RGBA)
}

//Census counts the live cells of a generation
type Census struct {
	Live      int
	Primary   int
	Secondary int
}

/*
	Engine is the 3D automaton
	It owns the current generation and the colours shown for every cell.
	The displayed colour is kept apart from the bookkeeping: painting changes only what is shown,
	the next Advance decides the fate of a cell from its bookkeeping alone.
	The next generation is computed into a spare buffer and swapped in as a whole.
	Engine is not safe for concurrent use, BaseUniverse serialises the calls.
*/
type Engine struct {
	lat        lattice.Lattice
	cur        []Cell
	nxt        []Cell
	display    []color.RGBA
	shown      []color.RGBA
	rng        *rand.Rand
	sinks      []ColorSink
	generation int
}

//NewEngine creates an all-dead cube of the given side length
func NewEngine(dimension int, seed int64) *Engine {
	e := &Engine{}
	e.Reseed(seed)
	e.Initialize(dimension)
	return e
}

//Initialize reallocates the cube with side dimension, every cell dead
func (e *Engine) Initialize(dimension int) {
	e.lat = lattice.New(dimension)
	n := e.lat.Volume()
	e.cur = make([]Cell, n)
	e.nxt = make([]Cell, n)
	e.display = make([]color.RGBA, n)
	e.shown = make([]color.RGBA, n)
	e.Clear()
}

//Reseed restarts the random source used by Randomize and birth ties
func (e *Engine) Reseed(seed int64) {
	e.rng = rand.New(rand.NewPCG(uint64(seed), 0))
}

//RegisterSink adds a renderer notified about every displayed colour change
func (e *Engine) RegisterSink(s ColorSink) {
	e.sinks = append(e.sinks, s)
}

//Lattice returns the addressing scheme of the cube
func (e *Engine) Lattice() lattice.Lattice { return e.lat }

//Dimension returns the side length
func (e *Engine) Dimension() int { return e.lat.D }

//Generation returns the number of Advance calls since the last reset
func (e *Engine) Generation() int { return e.generation }

//Clear kills every cell
func (e *Engine) Clear() {
	for i := range e.cur {
		e.cur[i] = deadCell
		e.display[i] = DeadColor
	}
	e.generation = 0
	e.repaint()
}

//Randomize resets the cube, every cell comes alive with probability fillRatio
//live cells get a random colour of the full palette
func (e *Engine) Randomize(fillRatio float64) {
	for i := range e.cur {
		if e.rng.Float64() < fillRatio {
			c := AllColors[e.rng.IntN(len(AllColors))]
			e.cur[i] = Cell{Alive: true, Class: ClassOf(c), Color: c}
			e.display[i] = c
			continue
		}
		e.cur[i] = deadCell
		e.display[i] = DeadColor
	}
	e.generation = 0
	e.repaint()
}

//Settle brings the cells at pts to life with colour c
//colours outside the palette snap to the nearest palette entry, points outside the cube are skipped
func (e *Engine) Settle(pts []lattice.Point, c color.RGBA) {
	class := ClassOf(c)
	if class == ClassNone {
		c = Nearest(c)
		class = ClassOf(c)
	}
	for _, p := range pts {
		if !e.lat.Contains(p) {
			continue
		}
		i := e.lat.Index(p)
		e.cur[i] = Cell{Alive: true, Class: class, Color: c}
		e.paint(i, c)
	}
}

//Advance computes the next generation from the current one
func (e *Engine) Advance() {
	for i := range e.cur {
		e.nxt[i], e.shown[i] = e.nextState(e.lat.At(i), e.cur[i])
	}
	e.cur, e.nxt = e.nxt, e.cur
	e.display, e.shown = e.shown, e.display
	e.generation++

	//shown holds the previous display now
	for i, c := range e.display {
		if c != e.shown[i] {
			e.notify(i)
		}
	}
}

//nextState applies the survival, birth and hostile pressure rules to one cell
func (e *Engine) nextState(p lattice.Point, current Cell) (Cell, color.RGBA) {
	total, primary, secondary := e.countAliveNeighbors(p)
	survives := current.Alive && total >= 3 && total <= 6
	born := !current.Alive && (total == 4 || total == 5)

	//a dead cell has no class and measures primary neighbours as hostile
	hostile := primary
	if current.Class == ClassPrimary {
		hostile = secondary
	}
	threshold := 2
	if current.Alive {
		threshold = 3
	}
	pressure := hostile >= threshold

	if survives && !pressure {
		next := current
		next.Age++
		return next, Tint(current.Color, next.Age)
	}
	if born {
		class := ClassPrimary
		switch {
		case secondary > primary:
			class = ClassSecondary
		case secondary == primary && e.rng.IntN(2) == 1:
			class = ClassSecondary
		}
		palette := Palette(class)
		c := palette[(total+p.X+p.Y+p.Z)%len(palette)]
		return Cell{Alive: true, Class: class, Color: c}, c
	}
	return deadCell, DeadColor
}

//countAliveNeighbors walks the 26 neighbours of p, cells outside the cube are absent
func (e *Engine) countAliveNeighbors(p lattice.Point) (total, primary, secondary int) {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				n := lattice.Point{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
				if !e.lat.Contains(n) {
					continue
				}
				c := e.cur[e.lat.Index(n)]
				if !c.Alive {
					continue
				}
				total++
				if c.Class == ClassPrimary {
					primary++
				} else {
					secondary++
				}
			}
		}
	}
	return
}

//PaintVoxel changes the colour shown at x, y, z
//indices are clamped into the cube and the automaton bookkeeping is left untouched
func (e *Engine) PaintVoxel(x, y, z int, c color.RGBA) {
	p := lattice.Point{X: e.lat.ClampInt(x), Y: e.lat.ClampInt(y), Z: e.lat.ClampInt(z)}
	e.paint(e.lat.Index(p), c)
}

//PaintCell paints one cell of a slice
func (e *Engine) PaintCell(axis lattice.Axis, layer, row, col int, c color.RGBA) {
	p := e.lat.GridToVoxel(axis, e.lat.ClampInt(layer), e.lat.ClampInt(row), e.lat.ClampInt(col))
	e.PaintVoxel(p.X, p.Y, p.Z, c)
}

//PaintLine paints a whole row or column of a slice
func (e *Engine) PaintLine(axis lattice.Axis, layer int, o lattice.Orientation, index int, c color.RGBA) {
	for _, p := range e.lat.Line(axis, e.lat.ClampInt(layer), o, e.lat.ClampInt(index)) {
		e.PaintVoxel(p.X, p.Y, p.Z, c)
	}
}

//PaintSlice paints every cell of a slice
func (e *Engine) PaintSlice(axis lattice.Axis, layer int, c color.RGBA) {
	for _, p := range e.lat.Plane(axis, e.lat.ClampInt(layer)) {
		e.PaintVoxel(p.X, p.Y, p.Z, c)
	}
}

//SliceColors returns the displayed colours of a slice indexed [row][col]
func (e *Engine) SliceColors(axis lattice.Axis, layer int) [][]color.RGBA {
	layer = e.lat.ClampInt(layer)
	d := e.lat.D
	colors := make([][]color.RGBA, d)
	for row := 0; row < d; row++ {
		colors[row] = make([]color.RGBA, d)
		for col := 0; col < d; col++ {
			p := e.lat.GridToVoxel(axis, layer, row, col)
			colors[row][col] = e.display[e.lat.Index(p)]
		}
	}
	return colors
}

//Cell returns the bookkeeping of the cell at x, y, z (clamped)
func (e *Engine) Cell(x, y, z int) Cell {
	return e.cur[e.clampedIndex(x, y, z)]
}

//Color returns the colour shown at x, y, z (clamped)
func (e *Engine) Color(x, y, z int) color.RGBA {
	return e.display[e.clampedIndex(x, y, z)]
}

//Census counts the live cells of the current generation
func (e *Engine) Census() Census {
	var c Census
	for _, cell := range e.cur {
		if !cell.Alive {
			continue
		}
		c.Live++
		if cell.Class == ClassPrimary {
			c.Primary++
		} else {
			c.Secondary++
		}
	}
	return c
}

func (e *Engine) clampedIndex(x, y, z int) int {
	return e.lat.Index(lattice.Point{X: e.lat.ClampInt(x), Y: e.lat.ClampInt(y), Z: e.lat.ClampInt(z)})
}

func (e *Engine) paint(i int, c color.RGBA) {
	e.display[i] = c
	e.notify(i)
}

func (e *Engine) repaint() {
	for i := range e.display {
		e.notify(i)
	}
}

func (e *Engine) notify(i int) {
	if len(e.sinks) == 0 {
		return
	}
	p := e.lat.At(i)
	for _, s := range e.sinks {
		s.ApplyColor(p.X, p.Y, p.Z, e.display[i])
	}
}
