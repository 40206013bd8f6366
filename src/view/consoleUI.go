package view

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"voxlife/src/lattice"
	"voxlife/src/telemetry"
	"voxlife/src/universe"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//ConsoleUI is the terminal slice editor
//it shows one slice of the cube and paints cells, lines and whole slices of it
type ConsoleUI struct {
	u     *universe.BaseUniverse
	g     *gocui.Gui
	k     []keyBindings
	link  *telemetry.Link
	board *telemetry.MapBoard

	mu    sync.Mutex
	axis  lattice.Axis
	layer int
	row   int
	col   int
	brush int
	dirty bool
}

var (
	runningStateDescr = map[universe.RunningState]string{
		universe.RunningStateManual:   aurora.Colorize("waiting", aurora.BlueFg).String(),
		universe.RunningStateStep:     "do the step",
		universe.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		universe.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}

	//brushes are picked with the digit keys, 0 erases
	brushes = append(append([]color.RGBA{}, universe.DeadColor), universe.AllColors...)
)

//NewViewTerminal creates the terminal UI
//link may be nil when no telemetry device is configured
func NewViewTerminal(link *telemetry.Link, keys ...string) *ConsoleUI {

	var err error
	t := ConsoleUI{
		link:  link,
		board: telemetry.NewMapBoard(keys...),
		axis:  lattice.AxisZ,
		brush: 1,
		dirty: true,
	}
	if link != nil {
		link.Board = &t
		link.OnClose = t.renderTelemetry
	}

	t.g, err = gocui.NewGui(gocui.Output256)
	if err != nil {
		log.Panicln(err)
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'n', "N", "Next step", t.cmdNextRound, ""},
		{'r', "R", "Run", t.cmdRun, ""},
		{'s', "S", "Stop", t.cmdStop, ""},
		{'c', "C", "Clear", t.cmdClear, ""},
		{'w', "W", "Random", t.cmdSettleWithRandom, ""},
		{'x', "X", "Axis x", t.cmdAxis(lattice.AxisX), ""},
		{'y', "Y", "Axis y", t.cmdAxis(lattice.AxisY), ""},
		{'z', "Z", "Axis z", t.cmdAxis(lattice.AxisZ), ""},
		{']', "]", "Layer up", t.cmdLayer(1), ""},
		{'[', "[", "Layer down", t.cmdLayer(-1), ""},
		{gocui.KeyArrowUp, "ARROWS", "Cursor", t.cmdMove(-1, 0), ""},
		{gocui.KeyArrowDown, "", "", t.cmdMove(1, 0), ""},
		{gocui.KeyArrowLeft, "", "", t.cmdMove(0, -1), ""},
		{gocui.KeyArrowRight, "", "", t.cmdMove(0, 1), ""},
		{gocui.KeyEnter, "ENTER", "Paint cell", t.cmdPaintCell, ""},
		{'l', "L", "Paint row", t.cmdPaintLine(lattice.Row), ""},
		{'k', "K", "Paint column", t.cmdPaintLine(lattice.Column), ""},
		{'f', "F", "Fill slice", t.cmdFillSlice, ""},
		{'t', "T", "Telemetry", t.cmdTelemetry, ""},
		{gocui.MouseLeft, "MOUSE", "Paint the cell", t.cmdMouseClick, "slice"},
	}
	for i := range brushes {
		t.k = append(t.k, keyBindings{rune('0' + i), "", "", t.cmdBrush(i), ""})
	}
	t.k[len(t.k)-len(brushes)].name = "0-6"
	t.k[len(t.k)-len(brushes)].descr = "Colour"

	t.g.SetManagerFunc(t.layout)

	t.initKeyBindings(t.k)

	return &t
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			log.Panicln(err)
		}
	}
}

func (t *ConsoleUI) Register(u *universe.BaseUniverse) {
	t.u = u
	u.RegisterSink(t)
}

func (t *ConsoleUI) Start() {
	if t.link != nil {
		t.link.Connect()
	}
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
	if t.link != nil && t.link.Connected() {
		t.link.Disconnect()
	}
	t.g.Close()
}

//ApplyColor marks the slice for redraw when the voxel lies in it
func (t *ConsoleUI) ApplyColor(x, y, z int, _ color.RGBA) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dirty || t.u == nil {
		return
	}
	layer, _, _ := t.u.Lattice().VoxelToGrid(t.axis, lattice.Point{X: x, Y: y, Z: z})
	if layer == t.layer {
		t.dirty = true
	}
}

//Set shows a telemetry value
func (t *ConsoleUI) Set(key, value string) bool {
	if !t.board.Set(key, value) {
		return false
	}
	t.renderTelemetry()
	return true
}

func (t *ConsoleUI) Refresh() {
	t.renderField()
	t.renderConfiguration()
	t.renderStatus()
}

//selection returns the edited slice and cursor, marking the slice clean
func (t *ConsoleUI) selection() (axis lattice.Axis, layer, row, col int, redraw bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	redraw = t.dirty
	t.dirty = false
	return t.axis, t.layer, t.row, t.col, redraw
}

func (t *ConsoleUI) invalidate() {
	t.mu.Lock()
	t.dirty = true
	t.mu.Unlock()
}

func (t *ConsoleUI) renderField() {
	axis, layer, row, col, redraw := t.selection()
	if !redraw {
		return
	}
	//SliceColors takes the cube lock, ApplyColor runs under it and takes t.mu
	//so t.mu must not be held here
	colors := t.u.SliceColors(axis, layer)

	t.g.Update(drawSlice(axis, layer, row, col, colors))
}

//drawSlice returns the update writing a slice into the "slice" view
func drawSlice(axis lattice.Axis, layer, row, col int, colors [][]color.RGBA) func(*gocui.Gui) error {
	return func(g *gocui.Gui) error {
		v, e := g.View("slice")
		if e != nil {
			//the view is gone while the terminal is too small
			return nil
		}
		v.Clear()
		v.Title = fmt.Sprintf("Slice %v=%d", axis, layer)
		_, _ = fmt.Fprint(v, renderSlice(colors, row, col))
		return nil
	}
}

func (t *ConsoleUI) renderStatus() {
	s := t.u.Status()
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := t.g.View("status"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, renderProp("Step", "%v", s.IterationNum))
			_, _ = fmt.Fprintln(v, renderProp("Live Cells", "%v", s.LiveCells))
			_, _ = fmt.Fprintln(v, renderProp("Primary", "%v", s.PrimaryCells))
			_, _ = fmt.Fprintln(v, renderProp("Secondary", "%v", s.SecondaryCells))
			_, _ = fmt.Fprintln(v, renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
			_, _ = fmt.Fprintln(v, renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
		}
		return nil
	})
}

func (t *ConsoleUI) renderConfiguration() {
	//it needs to call Update when calls from goroutine
	t.mu.Lock()
	brush := t.brush
	axis, layer := t.axis, t.layer
	row, col := t.row, t.col
	t.mu.Unlock()
	t.g.Update(func(g *gocui.Gui) error {
		c := t.u.Options()
		if v, e := g.View("configuration"); e == nil {
			v.Clear()
			_, _ = fmt.Fprint(v, configurationText(c, axis, layer, row, col, brush))
		}
		return nil
	})
}

//configurationText lists the options and the editing state, one property per line
func configurationText(c universe.Options, axis lattice.Axis, layer, row, col, brush int) string {
	lines := []string{
		renderProp("Dimension", "%v^3", c.Dimension),
		renderProp("Interval", "%v", c.Interval),
		renderProp("Iterations", "%v steps", c.MaxSteps),
		renderProp("Slice", "%v=%v", axis, layer),
		renderProp("Cursor", "row %v col %v", row, col),
		renderProp("Colour", "%v %v", swatch(brushes[brush], false), universe.FormatColor(brushes[brush])),
	}
	return strings.Join(lines, "\n") + "\n"
}

func (t *ConsoleUI) renderTelemetry() {
	if t.g == nil {
		return
	}
	connected := t.link != nil && t.link.Connected()
	keys := t.board.Keys()
	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View("telemetry")
		if e != nil {
			return nil
		}
		v.Clear()
		if t.link == nil {
			_, _ = fmt.Fprintln(v, " no device")
			return nil
		}
		state := aurora.Red("disconnected").String()
		if connected {
			state = aurora.Green("connected").String()
		}
		_, _ = fmt.Fprintln(v, renderProp(t.link.Device, "%v", state))
		for _, k := range keys {
			val, _ := t.board.Get(k)
			_, _ = fmt.Fprintln(v, renderProp(k, "%v", val))
		}
		return nil
	})
}

func renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 32
	minWindowHeight := 24
	d := t.u.Options().Dimension

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		for _, name := range []string{"configuration", "status", "telemetry", "slice", "help"} {
			_ = g.DeleteView(name)
		}
		return nil

	}
	if _, err := t.headerLayout(g, 3, "Voxel Life, a 3D automaton"); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}

	third := (maxY - 5 - 3) / 3
	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+third); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration()
	}

	if v, err := g.SetView("status", 0, 3+third+1, leftColumnWidth, 3+2*third); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus()
	}

	if v, err := g.SetView("telemetry", 0, 3+2*third+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Telemetry"
		v.Frame = true
		t.renderTelemetry()
	}

	//two terminal columns per voxel plus the frame
	x1 := leftColumnWidth + 1 + 2*d + 1
	if x1 > maxX-1 {
		x1 = maxX - 1
	}
	if v, err := g.SetView("slice", leftColumnWidth+1, 3, x1, 3+d+1); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = true
		t.invalidate()
		t.renderField()
	}

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-1); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		v.Wrap = true
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		first := true
		for _, k := range t.k {
			if k.name == "" {
				continue
			}
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		if maxX < len(text) {
			text = text[:maxX]
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2)+strings.Repeat(" ", (maxX-len(text))/2)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	t.u.Step()
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.u.Run()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.u.Stop()
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.u.Clear()
	return nil
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	t.u.SettleWithRandomData()
	return nil
}

func (t *ConsoleUI) cmdAxis(a lattice.Axis) func(*gocui.View) error {
	return func(_ *gocui.View) error {
		t.mu.Lock()
		t.axis = a
		t.dirty = true
		t.mu.Unlock()
		t.Refresh()
		return nil
	}
}

func (t *ConsoleUI) cmdLayer(delta int) func(*gocui.View) error {
	return func(_ *gocui.View) error {
		l := t.u.Lattice()
		t.mu.Lock()
		t.layer = l.ClampInt(t.layer + delta)
		t.dirty = true
		t.mu.Unlock()
		t.Refresh()
		return nil
	}
}

func (t *ConsoleUI) cmdMove(dr, dc int) func(*gocui.View) error {
	return func(_ *gocui.View) error {
		t.moveTo(func(row, col int) (int, int) { return row + dr, col + dc })
		return nil
	}
}

func (t *ConsoleUI) moveTo(f func(row, col int) (int, int)) {
	l := t.u.Lattice()
	t.mu.Lock()
	row, col := f(t.row, t.col)
	t.row, t.col = l.ClampInt(row), l.ClampInt(col)
	t.dirty = true
	t.mu.Unlock()
	t.Refresh()
}

func (t *ConsoleUI) cmdBrush(i int) func(*gocui.View) error {
	return func(_ *gocui.View) error {
		t.mu.Lock()
		t.brush = i
		t.mu.Unlock()
		t.renderConfiguration()
		return nil
	}
}

func (t *ConsoleUI) paintState() (axis lattice.Axis, layer, row, col int, c color.RGBA) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.axis, t.layer, t.row, t.col, brushes[t.brush]
}

func (t *ConsoleUI) cmdPaintCell(_ *gocui.View) error {
	axis, layer, row, col, c := t.paintState()
	t.u.PaintCell(axis, layer, row, col, c)
	return nil
}

func (t *ConsoleUI) cmdPaintLine(o lattice.Orientation) func(*gocui.View) error {
	return func(_ *gocui.View) error {
		axis, layer, row, col, c := t.paintState()
		index := row
		if o == lattice.Column {
			index = col
		}
		t.u.PaintLine(axis, layer, o, index, c)
		return nil
	}
}

func (t *ConsoleUI) cmdFillSlice(_ *gocui.View) error {
	axis, layer, _, _, c := t.paintState()
	t.u.PaintSlice(axis, layer, c)
	return nil
}

func (t *ConsoleUI) cmdTelemetry(_ *gocui.View) error {
	if t.link != nil {
		t.link.Toggle()
		t.renderTelemetry()
	}
	return nil
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	t.moveTo(func(_, _ int) (int, int) { return cy, cx / 2 })
	return t.cmdPaintCell(v)
}
