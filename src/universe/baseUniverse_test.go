package universe

import (
	"image/color"
	"sync"
	"testing"
	"time"

	"voxlife/src/lattice"
)

type countingViewer struct {
	mu        sync.Mutex
	refreshes int
	u         *BaseUniverse
}

func (v *countingViewer) Refresh() {
	v.mu.Lock()
	v.refreshes++
	v.mu.Unlock()
}

func (v *countingViewer) Register(u *BaseUniverse) { v.u = u }

func (v *countingViewer) Start() {}

func (v *countingViewer) count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.refreshes
}

//waitFor reads statuses until one with the wanted mode arrives
func waitFor(t *testing.T, ch chan Status, want RunningState) Status {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case st := <-ch:
			if st.RunningMode == want {
				return st
			}
		case <-timeout:
			t.Fatalf("no %v status within 5s", want)
		}
	}
}

//modeViewer records the mode every refresh sees
type modeViewer struct {
	mu    sync.Mutex
	modes []RunningState
	u     *BaseUniverse
}

func (v *modeViewer) Refresh() {
	m := v.u.Status().RunningMode
	v.mu.Lock()
	v.modes = append(v.modes, m)
	v.mu.Unlock()
}

func (v *modeViewer) Register(u *BaseUniverse) { v.u = u }

func (v *modeViewer) Start() {}

func (v *modeViewer) seen() []RunningState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]RunningState(nil), v.modes...)
}

func TestUniverseStep(t *testing.T) {
	ch := make(chan Status, 100)
	u := NewBaseUniverse(newUniverseOptions(8), ch)
	defer u.Close()
	v := &countingViewer{}
	u.RegisterViewer(v)
	if v.u != u {
		t.Fatal("viewer was not registered")
	}

	u.SettleTemplate("square")
	if got := u.Status().LiveCells; got != 4 {
		t.Fatalf("square settled %d cells", got)
	}
	u.Step()
	st := waitFor(t, ch, RunningStateManual)
	if st.IterationNum != 1 {
		t.Fatalf("iteration %d after one step", st.IterationNum)
	}
	if st.LiveCells != st.PrimaryCells+st.SecondaryCells {
		t.Fatalf("census does not add up: %+v", st)
	}
	if v.count() < 2 {
		t.Fatalf("viewer refreshed %d times", v.count())
	}
}

func TestUniverseRunStopsAtMaxSteps(t *testing.T) {
	ch := make(chan Status, 100)
	o := newUniverseOptions(8)
	o.MaxSteps = 3
	o.FillRatio = 0.3
	u := NewBaseUniverse(o, ch)
	defer u.Close()

	u.SettleWithRandomData()
	st := waitFor(t, ch, RunningStateManual)
	if st.LiveCells == 0 || st.IterationNum != 0 {
		t.Fatalf("random settle produced %+v", st)
	}
	u.Run()
	st = waitFor(t, ch, RunningStateFinished)
	if st.IterationNum < 1 || st.IterationNum > 3 {
		t.Fatalf("run finished at iteration %d", st.IterationNum)
	}
}

func TestUniverseViewersSeeTheRunningMode(t *testing.T) {
	ch := make(chan Status, 100)
	o := newUniverseOptions(8)
	o.MaxSteps = 5
	u := NewBaseUniverse(o, ch)
	defer u.Close()
	v := &modeViewer{}
	u.RegisterViewer(v)

	u.SettleTemplate("square")
	u.Run()
	waitFor(t, ch, RunningStateFinished)

	var running, finished int
	for _, m := range v.seen() {
		switch m {
		case RunningStateRun:
			running++
		case RunningStateFinished:
			finished++
		case RunningStateStep:
			t.Fatal("a refresh during a run saw the step mode")
		}
	}
	if running != 4 || finished != 1 {
		t.Fatalf("refreshes saw %d running and %d finished, want 4 and 1", running, finished)
	}
}

func TestUniverseSecondRunIsIgnored(t *testing.T) {
	ch := make(chan Status, 200)
	o := newUniverseOptions(8)
	o.Interval = 40 * time.Millisecond
	u := NewBaseUniverse(o, ch)
	defer u.Close()

	u.SettleTemplate("square")
	u.Run()
	u.Run()
	time.Sleep(400 * time.Millisecond)
	u.Stop()
	waitFor(t, ch, RunningStateManual)
	//one ticker makes about ten steps in that time, two would make twice as many
	if n := u.Status().IterationNum; n < 1 || n > 14 {
		t.Fatalf("%d steps in 400ms at 40ms", n)
	}
}

func TestUniverseFinishesWhenEmpty(t *testing.T) {
	ch := make(chan Status, 100)
	u := NewBaseUniverse(newUniverseOptions(8), ch)
	defer u.Close()

	u.Settle([][]int{{0, 0, 0}}, PrimaryColors[0])
	u.Run()
	st := waitFor(t, ch, RunningStateFinished)
	if st.IterationNum != 1 || st.LiveCells != 0 {
		t.Fatalf("a lone cell should die in one step: %+v", st)
	}
}

func TestUniverseClear(t *testing.T) {
	ch := make(chan Status, 100)
	u := NewBaseUniverse(newUniverseOptions(8), ch)
	defer u.Close()

	u.SettleTemplate("duel")
	u.PaintSlice(lattice.AxisZ, 0, PaintColor)
	u.Clear()
	st := waitFor(t, ch, RunningStateManual)
	if st.LiveCells != 0 || st.IterationNum != 0 {
		t.Fatalf("clear left %+v", st)
	}
	for _, row := range u.SliceColors(lattice.AxisZ, 0) {
		for _, c := range row {
			if c != DeadColor {
				t.Fatal("clear should darken painted cells")
			}
		}
	}
}

func TestUniversePaintRoutesToEngine(t *testing.T) {
	u := NewBaseUniverse(newUniverseOptions(8), nil)
	defer u.Close()
	sink := &recordingSink{}
	u.RegisterSink(sink)

	magenta := color.RGBA{R: 0xff, B: 0xff, A: 0xff}
	u.PaintCell(lattice.AxisY, 2, 3, 4, magenta)
	p := u.Lattice().GridToVoxel(lattice.AxisY, 2, 3, 4)
	if sink.calls[p] != magenta {
		t.Fatalf("sink missed the paint at %+v", p)
	}
	if u.SliceColors(lattice.AxisY, 2)[3][4] != magenta {
		t.Fatal("slice query should show the painted cell")
	}
	if u.Cell(p.X, p.Y, p.Z).Alive {
		t.Fatal("painting must not bring a cell to life")
	}

	u.PaintVoxel(0, 0, 0, magenta)
	u.PaintLine(lattice.AxisX, 1, lattice.Row, 0, magenta)
	if len(sink.calls) != 1+1+8 {
		t.Fatalf("sink saw %d voxels", len(sink.calls))
	}
}

func TestTemplatesFitTheCube(t *testing.T) {
	for _, tmpl := range Templates() {
		e := NewEngine(8, 1)
		tmpl.settle(e)
		want := 0
		for _, g := range tmpl.Groups {
			want += len(g.Coordinates)
			if ClassOf(ParseColor(g.Color)) == ClassNone {
				t.Fatalf("template %s uses %s outside the palette", tmpl.Name, g.Color)
			}
		}
		if got := e.Census().Live; got != want {
			t.Fatalf("template %s settled %d of %d cells", tmpl.Name, got, want)
		}
	}
}
