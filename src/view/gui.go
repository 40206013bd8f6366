//go:build ebiten

package view

import (
	"errors"
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"voxlife/src/lattice"
	"voxlife/src/universe"
)

//GUIAvailable reports whether the windowed editor was compiled in
const GUIAvailable = true

const statusHeight = 34

var digitKeys = []ebiten.Key{
	ebiten.KeyDigit0, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
}

//GUI is the windowed slice editor
//it mirrors every voxel colour through the engine sink, like a scene graph would
type GUI struct {
	u     *universe.BaseUniverse
	lat   lattice.Lattice
	scale int

	mu     sync.Mutex
	voxels []color.RGBA

	img *ebiten.Image
	buf []byte

	axis  lattice.Axis
	layer int
	brush int
	err   error
}

//NewGUI creates the editor drawing every voxel as a scale x scale square
func NewGUI(scale int) *GUI {
	if scale <= 0 {
		scale = 48
	}
	return &GUI{scale: scale, axis: lattice.AxisZ, brush: 1}
}

func (g *GUI) Register(u *universe.BaseUniverse) {
	g.u = u
	g.lat = u.Lattice()
	d := g.lat.D
	g.voxels = make([]color.RGBA, g.lat.Volume())
	for layer := 0; layer < d; layer++ {
		for row, line := range u.SliceColors(lattice.AxisZ, layer) {
			for col, c := range line {
				g.voxels[g.lat.Index(g.lat.GridToVoxel(lattice.AxisZ, layer, row, col))] = c
			}
		}
	}
	g.img = ebiten.NewImage(d, d)
	g.buf = make([]byte, 4*d*d)
	u.RegisterSink(g)
}

//Refresh is a no-op, ebiten redraws every frame
func (g *GUI) Refresh() {}

//Start runs the window until it is closed
func (g *GUI) Start() {
	d := g.lat.D
	ebiten.SetWindowTitle("voxlife")
	ebiten.SetWindowSize(d*g.scale, d*g.scale+statusHeight)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		g.err = err
	}
}

//Err returns the error the window closed with
func (g *GUI) Err() error { return g.err }

func (g *GUI) ApplyColor(x, y, z int, c color.RGBA) {
	g.mu.Lock()
	g.voxels[g.lat.Index(lattice.Point{X: x, Y: y, Z: z})] = c
	g.mu.Unlock()
}

func (g *GUI) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if g.u.Status().RunningMode == universe.RunningStateRun {
			g.u.Stop()
		} else {
			g.u.Run()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.u.Step()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.u.Clear()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyW) {
		g.u.SettleWithRandomData()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		g.axis = lattice.AxisX
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyY) {
		g.axis = lattice.AxisY
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		g.axis = lattice.AxisZ
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) || inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		g.layer = g.lat.ClampInt(g.layer + 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) || inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		g.layer = g.lat.ClampInt(g.layer - 1)
	}
	for i, k := range digitKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.brush = i
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.u.PaintSlice(g.axis, g.layer, brushes[g.brush])
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		row, col := my/g.scale, mx/g.scale
		if mx >= 0 && my >= 0 && row < g.lat.D && col < g.lat.D {
			g.u.PaintCell(g.axis, g.layer, row, col, brushes[g.brush])
		}
	}
	return nil
}

func (g *GUI) Draw(screen *ebiten.Image) {
	d := g.lat.D
	g.mu.Lock()
	for row := 0; row < d; row++ {
		for col := 0; col < d; col++ {
			c := g.voxels[g.lat.Index(g.lat.GridToVoxel(g.axis, g.layer, row, col))]
			base := (row*d + col) * 4
			g.buf[base+0] = c.R
			g.buf[base+1] = c.G
			g.buf[base+2] = c.B
			g.buf[base+3] = 0xff
		}
	}
	g.mu.Unlock()
	g.img.WritePixels(g.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.img, op)

	st := g.u.Status()
	line1 := fmt.Sprintf("slice %v=%d  step %d  live %d  %v", g.axis, g.layer, st.IterationNum, st.LiveCells, st.RunningMode)
	line2 := fmt.Sprintf("colour %s  [0-6] colour  [x/y/z] axis  [f] fill", universe.FormatColor(brushes[g.brush]))
	text.Draw(screen, line1, basicfont.Face7x13, 4, d*g.scale+14, color.White)
	text.Draw(screen, line2, basicfont.Face7x13, 4, d*g.scale+28, color.White)
}

func (g *GUI) Layout(outsideWidth, outsideHeight int) (int, int) {
	d := g.lat.D
	return d * g.scale, d*g.scale + statusHeight
}
