package universe

import (
	"image/color"
	"testing"

	"voxlife/src/lattice"
)

var center = lattice.Point{X: 4, Y: 4, Z: 4}

//faceRing are four neighbours of center lying in its z plane
var faceRing = []lattice.Point{{X: 3, Y: 4, Z: 4}, {X: 5, Y: 4, Z: 4}, {X: 4, Y: 3, Z: 4}, {X: 4, Y: 5, Z: 4}}

func put(e *Engine, p lattice.Point, c color.RGBA, age uint) {
	i := e.lat.Index(p)
	e.cur[i] = Cell{Alive: true, Age: age, Class: ClassOf(c), Color: c}
	e.display[i] = c
}

type recordingSink struct {
	calls map[lattice.Point]color.RGBA
}

func (s *recordingSink) ApplyColor(x, y, z int, c color.RGBA) {
	if s.calls == nil {
		s.calls = map[lattice.Point]color.RGBA{}
	}
	s.calls[lattice.Point{X: x, Y: y, Z: z}] = c
}

func assertAllDead(t *testing.T, e *Engine) {
	t.Helper()
	l := e.Lattice()
	for i := 0; i < l.Volume(); i++ {
		p := l.At(i)
		c := e.Cell(p.X, p.Y, p.Z)
		if c.Alive || c.Age != 0 || c.Class != ClassNone {
			t.Fatalf("cell %+v should be dead: %+v", p, c)
		}
		if e.Color(p.X, p.Y, p.Z) != DeadColor {
			t.Fatalf("cell %+v shows %s", p, FormatColor(e.Color(p.X, p.Y, p.Z)))
		}
	}
}

func TestEmptyCubeStaysEmpty(t *testing.T) {
	e := NewEngine(8, 1)
	e.Advance()
	e.Advance()
	assertAllDead(t, e)
	if e.Generation() != 2 {
		t.Fatalf("generation %d, want 2", e.Generation())
	}
}

func TestBirthWithFourPrimaryNeighbours(t *testing.T) {
	e := NewEngine(8, 1)
	for _, p := range faceRing {
		put(e, p, PrimaryColors[0], 0)
	}
	e.Advance()

	c := e.Cell(center.X, center.Y, center.Z)
	if !c.Alive || c.Age != 0 || c.Class != ClassPrimary {
		t.Fatalf("center should be born primary: %+v", c)
	}
	//(total + x + y + z) % 3 = (4 + 12) % 3
	if c.Color != PrimaryColors[1] {
		t.Fatalf("center colour %s, want %s", FormatColor(c.Color), FormatColor(PrimaryColors[1]))
	}
	if e.Color(center.X, center.Y, center.Z) != PrimaryColors[1] {
		t.Fatal("a newborn cell shows its own colour")
	}
}

func TestBirthTieTakesEitherClass(t *testing.T) {
	seen := map[Class]bool{}
	for seed := int64(0); seed < 64; seed++ {
		e := NewEngine(8, seed)
		put(e, faceRing[0], PrimaryColors[0], 0)
		put(e, faceRing[1], PrimaryColors[2], 0)
		put(e, faceRing[2], SecondaryColors[0], 0)
		put(e, faceRing[3], SecondaryColors[1], 0)
		e.Advance()
		c := e.Cell(center.X, center.Y, center.Z)
		if !c.Alive || c.Class == ClassNone {
			t.Fatalf("seed %d: center should be born: %+v", seed, c)
		}
		if c.Color != Palette(c.Class)[1] {
			t.Fatalf("seed %d: colour %s outside the %v pick", seed, FormatColor(c.Color), c.Class)
		}
		seen[c.Class] = true
	}
	if !seen[ClassPrimary] || !seen[ClassSecondary] {
		t.Fatalf("a tie should go either way across seeds, saw %v", seen)
	}
}

func TestSurvivalAgesAndFades(t *testing.T) {
	e := NewEngine(8, 1)
	put(e, center, PrimaryColors[0], 2)
	for _, p := range faceRing {
		put(e, p, PrimaryColors[0], 0)
	}
	e.Advance()

	c := e.Cell(center.X, center.Y, center.Z)
	if !c.Alive || c.Age != 3 || c.Class != ClassPrimary || c.Color != PrimaryColors[0] {
		t.Fatalf("center should survive with age 3: %+v", c)
	}
	if got := e.Color(center.X, center.Y, center.Z); got != Tint(PrimaryColors[0], 3) {
		t.Fatalf("center shows %s, want 76%% red", FormatColor(got))
	}
}

func TestHostilePressureKillsSurvivor(t *testing.T) {
	e := NewEngine(8, 1)
	put(e, center, PrimaryColors[0], 5)
	for _, p := range faceRing[:3] {
		put(e, p, SecondaryColors[0], 0)
	}
	e.Advance()

	c := e.Cell(center.X, center.Y, center.Z)
	if c.Alive || c.Age != 0 || c.Class != ClassNone || c.Color != DeadColor {
		t.Fatalf("center should die under hostile pressure: %+v", c)
	}
	if e.Color(center.X, center.Y, center.Z) != DeadColor {
		t.Fatal("a dead cell shows the dead colour")
	}
}

func TestSecondarySurvivesAmongSecondaries(t *testing.T) {
	e := NewEngine(8, 1)
	put(e, center, SecondaryColors[2], 0)
	for _, p := range faceRing[:3] {
		put(e, p, SecondaryColors[0], 0)
	}
	e.Advance()
	if c := e.Cell(center.X, center.Y, center.Z); !c.Alive || c.Age != 1 {
		t.Fatalf("secondary center should survive: %+v", c)
	}
}

func TestOvercrowdingAndIsolation(t *testing.T) {
	e := NewEngine(8, 1)
	put(e, lattice.Point{X: 0, Y: 0, Z: 0}, PrimaryColors[0], 0)
	//center has 26 live neighbours
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				put(e, lattice.Point{X: 4 + dx, Y: 4 + dy, Z: 4 + dz}, PrimaryColors[1], 0)
			}
		}
	}
	e.Advance()
	if e.Cell(0, 0, 0).Alive {
		t.Fatal("an isolated corner cell should die")
	}
	if e.Cell(4, 4, 4).Alive {
		t.Fatal("an overcrowded cell should die")
	}
}

func TestNoWrapAround(t *testing.T) {
	e := NewEngine(8, 1)
	//four cells on the far face would feed (0,4,4) with wraparound
	for _, p := range []lattice.Point{{X: 7, Y: 3, Z: 4}, {X: 7, Y: 4, Z: 4}, {X: 7, Y: 5, Z: 4}, {X: 7, Y: 4, Z: 3}} {
		put(e, p, PrimaryColors[0], 0)
	}
	e.Advance()
	if e.Cell(0, 4, 4).Alive {
		t.Fatal("neighbours must not wrap around the cube")
	}
}

func TestRandomizeExtremes(t *testing.T) {
	e := NewEngine(8, 7)
	e.Randomize(1)
	if got := e.Census().Live; got != 512 {
		t.Fatalf("Randomize(1) left %d live cells", got)
	}
	l := e.Lattice()
	for i := 0; i < l.Volume(); i++ {
		p := l.At(i)
		c := e.Cell(p.X, p.Y, p.Z)
		if c.Age != 0 || c.Class != ClassOf(c.Color) || e.Color(p.X, p.Y, p.Z) != c.Color {
			t.Fatalf("cell %+v inconsistent after Randomize: %+v", p, c)
		}
	}
	e.Randomize(0)
	assertAllDead(t, e)
}

func TestRandomizeIsSeeded(t *testing.T) {
	a, b := NewEngine(8, 99), NewEngine(8, 99)
	a.Randomize(0.5)
	b.Randomize(0.5)
	for i := 0; i < 5; i++ {
		a.Advance()
		b.Advance()
	}
	for i := range a.cur {
		if a.cur[i] != b.cur[i] || a.display[i] != b.display[i] {
			t.Fatalf("engines with one seed diverged at %d", i)
		}
	}
}

func TestClear(t *testing.T) {
	e := NewEngine(8, 3)
	e.Randomize(0.6)
	e.Advance()
	e.PaintSlice(lattice.AxisX, 2, PaintColor)
	e.Clear()
	assertAllDead(t, e)
	if e.Generation() != 0 {
		t.Fatal("Clear resets the generation counter")
	}
	for _, axis := range []lattice.Axis{lattice.AxisX, lattice.AxisY, lattice.AxisZ} {
		for layer := 0; layer < 8; layer++ {
			for _, row := range e.SliceColors(axis, layer) {
				for _, c := range row {
					if c != DeadColor {
						t.Fatalf("axis %v layer %d shows %s after Clear", axis, layer, FormatColor(c))
					}
				}
			}
		}
	}
}

func TestPaintKeepsBookkeeping(t *testing.T) {
	e := NewEngine(8, 1)
	put(e, center, PrimaryColors[0], 2)
	for _, p := range faceRing {
		put(e, p, PrimaryColors[0], 0)
	}
	before := e.Cell(center.X, center.Y, center.Z)
	e.PaintVoxel(center.X, center.Y, center.Z, SecondaryColors[1])
	if e.Cell(center.X, center.Y, center.Z) != before {
		t.Fatal("painting changed the bookkeeping")
	}
	if e.Color(center.X, center.Y, center.Z) != SecondaryColors[1] {
		t.Fatal("painting should change the displayed colour")
	}

	e.Advance()
	c := e.Cell(center.X, center.Y, center.Z)
	if !c.Alive || c.Age != 3 || c.Class != ClassPrimary {
		t.Fatalf("center should evolve from its red bookkeeping: %+v", c)
	}
	if e.Color(center.X, center.Y, center.Z) != Tint(PrimaryColors[0], 3) {
		t.Fatal("the painted colour must not survive the step")
	}
}

func TestPaintDoesNotResurrect(t *testing.T) {
	e := NewEngine(8, 1)
	e.PaintVoxel(1, 1, 1, PrimaryColors[0])
	if e.Cell(1, 1, 1).Alive || e.Census().Live != 0 {
		t.Fatal("a painted cell is not alive")
	}
	e.Advance()
	if e.Color(1, 1, 1) != DeadColor {
		t.Fatal("a painted dead cell goes dark on the next step")
	}
}

func TestPaintClampsIndices(t *testing.T) {
	e := NewEngine(8, 1)
	e.PaintVoxel(-3, 99, 4, PaintColor)
	if e.Color(0, 7, 4) != PaintColor {
		t.Fatal("out of range indices should clamp into the cube")
	}
	e.PaintCell(lattice.AxisZ, 42, -1, 100, SecondaryColors[0])
	p := e.Lattice().GridToVoxel(lattice.AxisZ, 7, 0, 7)
	if e.Color(p.X, p.Y, p.Z) != SecondaryColors[0] {
		t.Fatal("PaintCell should clamp layer, row and col")
	}
}

func TestSliceColorsMatchPainting(t *testing.T) {
	for _, axis := range []lattice.Axis{lattice.AxisX, lattice.AxisY, lattice.AxisZ} {
		e := NewEngine(8, 1)
		e.PaintCell(axis, 3, 1, 6, PrimaryColors[2])
		e.PaintLine(axis, 3, lattice.Column, 2, SecondaryColors[2])
		e.PaintLine(axis, 5, lattice.Row, 4, PrimaryColors[1])

		slice := e.SliceColors(axis, 3)
		for row := 0; row < 8; row++ {
			for col := 0; col < 8; col++ {
				want := DeadColor
				switch {
				case col == 2:
					want = SecondaryColors[2]
				case row == 1 && col == 6:
					want = PrimaryColors[2]
				}
				if slice[row][col] != want {
					t.Fatalf("axis %v (%d,%d) shows %s, want %s", axis, row, col, FormatColor(slice[row][col]), FormatColor(want))
				}
				p := e.Lattice().GridToVoxel(axis, 3, row, col)
				if e.Color(p.X, p.Y, p.Z) != slice[row][col] {
					t.Fatalf("axis %v (%d,%d) slice and voxel disagree", axis, row, col)
				}
			}
		}
		for col, c := range e.SliceColors(axis, 5)[4] {
			if c != PrimaryColors[1] {
				t.Fatalf("axis %v row line col %d shows %s", axis, col, FormatColor(c))
			}
		}

		e.PaintSlice(axis, 0, PaintColor)
		for _, row := range e.SliceColors(axis, 0) {
			for _, c := range row {
				if c != PaintColor {
					t.Fatalf("axis %v slice fill missed a cell", axis)
				}
			}
		}
	}
}

func TestSinkSeesOnlyChanges(t *testing.T) {
	e := NewEngine(8, 1)
	sink := &recordingSink{}
	e.RegisterSink(sink)

	e.Clear()
	if len(sink.calls) != 512 {
		t.Fatalf("Clear should repaint every voxel, got %d", len(sink.calls))
	}

	sink.calls = nil
	e.Settle(faceRing, PrimaryColors[0])
	if len(sink.calls) != len(faceRing) {
		t.Fatalf("Settle painted %d voxels", len(sink.calls))
	}

	sink.calls = nil
	e.Advance()
	if got, ok := sink.calls[center]; !ok || got != PrimaryColors[1] {
		t.Fatalf("the newborn center was not mirrored: %v", sink.calls)
	}
	for p, c := range sink.calls {
		if e.Color(p.X, p.Y, p.Z) != c {
			t.Fatalf("sink got %s for %+v, engine shows %s", FormatColor(c), p, FormatColor(e.Color(p.X, p.Y, p.Z)))
		}
	}
	if len(sink.calls) == 512 {
		t.Fatal("Advance should only mirror changed voxels")
	}
}

func TestSettle(t *testing.T) {
	e := NewEngine(8, 1)
	e.Settle([]lattice.Point{{X: 1, Y: 2, Z: 3}, {X: 8, Y: 0, Z: 0}, {X: -1, Y: 0, Z: 0}}, color.RGBA{R: 240, G: 20, B: 10, A: 0xff})
	c := e.Cell(1, 2, 3)
	if !c.Alive || c.Class != ClassPrimary || c.Color != PrimaryColors[0] {
		t.Fatalf("settled cell %+v", c)
	}
	if got := e.Census(); got != (Census{Live: 1, Primary: 1}) {
		t.Fatalf("census %+v", got)
	}
}

func TestInitializeResizes(t *testing.T) {
	e := NewEngine(0, 1)
	if e.Dimension() != lattice.DefaultDimension {
		t.Fatalf("dimension %d", e.Dimension())
	}
	e.Randomize(1)
	e.Initialize(4)
	if e.Dimension() != 4 || len(e.SliceColors(lattice.AxisY, 0)) != 4 {
		t.Fatal("Initialize should resize the cube")
	}
	assertAllDead(t, e)
}
