package universe

import (
	"image/color"
	"sync"
	"time"

	"voxlife/src/lattice"
)

//Options represents the Universe's configurable options
type Options struct {
	Dimension       int
	Interval        time.Duration
	MaxSteps        int
	MaxSkippedTicks int
	FillRatio       float64
	Seed            int64
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	IterationNum   int
	RunningMode    RunningState
	LiveCells      int
	PrimaryCells   int
	SecondaryCells int
	IterationTime  time.Duration
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(u *BaseUniverse)
	Start()
}

//The universe running status at the concrete moment
type RunningState int

//default options
const (
	DefSimulationInterval = time.Millisecond * 750
	DefMaxSteps           = 0
	DefMaxSkippedTicks    = 5
	DefFillRatio          = 0.3
	DefSeed               = 42
)

const (
	RunningStateManual   RunningState = 0x0
	RunningStateStep     RunningState = 0x1
	RunningStateRun      RunningState = 0x2
	RunningStateFinished RunningState = 0x3
)

func (s RunningState) String() string {
	switch s {
	case RunningStateStep:
		return "step"
	case RunningStateRun:
		return "running"
	case RunningStateFinished:
		return "finished"
	}
	return "waiting"
}

var DefaultUniverseOptions = Options{
	Dimension:       lattice.DefaultDimension,
	Interval:        DefSimulationInterval,
	MaxSteps:        DefMaxSteps,
	MaxSkippedTicks: DefMaxSkippedTicks,
	FillRatio:       DefFillRatio,
	Seed:            DefSeed,
}

//BaseUniverse drives the Engine
//every engine call goes through the cube lock so painting and stepping never interleave within a call
//Run, Stop, Step, Clear and SettleWithRandomData are queued to the main loop and return immediately
type BaseUniverse struct {
	options Options
	state   struct {
		Status
		runs int
		sync.Mutex
	}
	cube struct {
		*Engine
		sync.Mutex
	}
	stateCh   chan Status
	views     []Viewer
	templates map[string]Template
	controlCh chan func()
	closeCh   chan bool
}

//NewBaseUniverse creates the BaseUniverse instance
func NewBaseUniverse(o *Options, stateCh chan Status) *BaseUniverse {
	if o == nil {
		o = &DefaultUniverseOptions
	}

	u := BaseUniverse{
		options:   *o,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan bool, 1),
		stateCh:   stateCh,
		templates: map[string]Template{},
	}
	u.cube.Engine = NewEngine(o.Dimension, o.Seed)
	u.options.Dimension = u.cube.Dimension()
	for _, t := range Templates() {
		u.templates[t.Name] = t
	}
	go u.mainLoop()
	return &u
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (u *BaseUniverse) AddTemplate(tmpl Template) {
	u.templates[tmpl.Name] = tmpl
}

//TemplateNames lists the registered templates
func (u *BaseUniverse) TemplateNames() []string {
	names := make([]string, 0, len(u.templates))
	for name := range u.templates {
		names = append(names, name)
	}
	return names
}

//Settle brings the cells at the x,y,z coordinates to life
func (u *BaseUniverse) Settle(vc [][]int, c color.RGBA) {
	u.cube.Lock()
	u.cube.Settle(points(vc), c)
	u.cube.Unlock()
	u.updateCensus()
	u.refreshView()
}

//SettleTemplate populates the universe with the seeding template
func (u *BaseUniverse) SettleTemplate(name string) {
	tmpl, ok := u.templates[name]
	if !ok {
		return
	}
	u.cube.Lock()
	tmpl.settle(u.cube.Engine)
	u.cube.Unlock()
	u.updateCensus()
	u.refreshView()
}

//SettleWithRandomData populates the universe with random data
func (u *BaseUniverse) SettleWithRandomData() {
	mode := u.Status().RunningMode
	if mode == RunningStateManual || mode == RunningStateFinished {
		u.controlCh <- u.randomize
	}
}

//PaintVoxel changes the displayed colour of one voxel
func (u *BaseUniverse) PaintVoxel(x, y, z int, c color.RGBA) {
	u.cube.Lock()
	u.cube.PaintVoxel(x, y, z, c)
	u.cube.Unlock()
	u.refreshView()
}

//PaintCell changes the displayed colour of one cell of a slice
func (u *BaseUniverse) PaintCell(axis lattice.Axis, layer, row, col int, c color.RGBA) {
	u.cube.Lock()
	u.cube.PaintCell(axis, layer, row, col, c)
	u.cube.Unlock()
	u.refreshView()
}

//PaintLine changes the displayed colour of a row or column of a slice
func (u *BaseUniverse) PaintLine(axis lattice.Axis, layer int, o lattice.Orientation, index int, c color.RGBA) {
	u.cube.Lock()
	u.cube.PaintLine(axis, layer, o, index, c)
	u.cube.Unlock()
	u.refreshView()
}

//PaintSlice changes the displayed colour of a whole slice
func (u *BaseUniverse) PaintSlice(axis lattice.Axis, layer int, c color.RGBA) {
	u.cube.Lock()
	u.cube.PaintSlice(axis, layer, c)
	u.cube.Unlock()
	u.refreshView()
}

//SliceColors returns the displayed colours of a slice
func (u *BaseUniverse) SliceColors(axis lattice.Axis, layer int) [][]color.RGBA {
	u.cube.Lock()
	defer u.cube.Unlock()
	return u.cube.SliceColors(axis, layer)
}

//Cell returns the bookkeeping of one voxel
func (u *BaseUniverse) Cell(x, y, z int) Cell {
	u.cube.Lock()
	defer u.cube.Unlock()
	return u.cube.Cell(x, y, z)
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
func (u *BaseUniverse) RegisterViewer(v Viewer) {
	u.views = append(u.views, v)
	v.Register(u)
}

//RegisterSink attaches a renderer mirroring every displayed colour change
func (u *BaseUniverse) RegisterSink(s ColorSink) {
	u.cube.Lock()
	u.cube.RegisterSink(s)
	u.cube.Unlock()
}

//StateCh returns the channel with the universe's status updates
func (u *BaseUniverse) StateCh() chan Status {
	return u.stateCh
}

//Status returns current universe status represented by Status struct
func (u *BaseUniverse) Status() Status {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.Status
}

//Options returns current universe configuration represented by Options struct
func (u *BaseUniverse) Options() Options {
	return u.options
}

//Lattice returns the addressing scheme of the cube
func (u *BaseUniverse) Lattice() lattice.Lattice {
	return lattice.New(u.options.Dimension)
}

//Run starts the universe simulation, returns immediately
func (u *BaseUniverse) Run() {
	u.controlCh <- u.run
}

//Stop stops the universe simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (u *BaseUniverse) Stop() {
	u.controlCh <- u.stop
}

//Step do one simulation step, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (u *BaseUniverse) Step() {
	u.controlCh <- u.step
}

//Clear clears the universe (kill all cells and reset all counters), returns immediately
//the Status struct will be written to the stateCh on finish
func (u *BaseUniverse) Clear() {
	u.controlCh <- u.clear
}

//Close stops the main loop, close the channels, returns immediately
func (u *BaseUniverse) Close() {
	u.closeCh <- true
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (u *BaseUniverse) mainLoop() {
	var c = false
	for !c {
		select {
		case cmd := <-u.controlCh:
			cmd()
		case c = <-u.closeCh:

		}
	}
	close(u.closeCh)
	close(u.controlCh)
}

//switchRunningState switch the state of the universe to RunningState
//also writes the new state to the stateCh to signal upper control software
func (u *BaseUniverse) switchRunningState(to RunningState) {
	u.publish(u.setRunningState(to))
}

//setRunningState changes the mode without signalling, see publish
func (u *BaseUniverse) setRunningState(to RunningState) Status {
	u.state.Lock()
	defer u.state.Unlock()
	u.state.RunningMode = to
	return u.state.Status
}

//publish writes the status to the stateCh if there is one
func (u *BaseUniverse) publish(st Status) {
	if u.stateCh != nil {
		u.stateCh <- st
	}
}

//run starts the universe simulation
//simulation will stop on Stop() calling or when the boundary conditions are reached
func (u *BaseUniverse) run() {
	//one ticker at a time, a second Run while running is ignored
	u.state.Lock()
	if u.state.RunningMode == RunningStateRun {
		u.state.Unlock()
		return
	}
	u.state.runs++
	id := u.state.runs
	u.state.Unlock()
	u.switchRunningState(RunningStateRun)
	go func() {
		skipped := 0
		done := make(chan bool)
		defer close(done)
		for {
			mode, current := u.runState()
			//a Stop followed by a Run hands the cube to a new ticker
			if current != id || (mode != RunningStateRun && mode != RunningStateStep) {
				break
			}
			if skipped > u.options.MaxSkippedTicks {
				u.switchRunningState(RunningStateFinished)
				break
			}
			//skip the tick if the universe is still in the calculation mode
			if mode != RunningStateStep {
				skipped = 0
				u.controlCh <- func() {
					u.step()
					done <- true
				}
				<-done
			} else {
				skipped++
			}
			if u.options.Interval > 0 {
				time.Sleep(u.options.Interval)
			}
		}
	}()
}

func (u *BaseUniverse) runState() (RunningState, int) {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.RunningMode, u.state.runs
}

//stop stops the universe running cycle
func (u *BaseUniverse) stop() {
	if u.Status().RunningMode == RunningStateRun {
		u.switchRunningState(RunningStateManual)
	}
}

//step advances the cube by one generation
//finishes the run when the cube is empty or MaxSteps is reached
func (u *BaseUniverse) step() {
	rm := u.Status().RunningMode
	u.switchRunningState(RunningStateStep)

	start := time.Now()
	u.cube.Lock()
	u.cube.Advance()
	census := u.cube.Census()
	u.cube.Unlock()

	u.state.Lock()
	u.state.IterationNum++
	u.state.IterationTime = time.Since(start)
	u.setCensus(census)
	iter := u.state.IterationNum
	u.state.Unlock()

	//viewers see the mode the step ends in, listeners on the stateCh get it after the views are refreshed
	next := rm
	maxIter := u.options.MaxSteps
	if census.Live == 0 || (maxIter != 0 && iter >= maxIter) {
		next = RunningStateFinished
	}
	st := u.setRunningState(next)
	u.refreshView()
	u.publish(st)
}

//clear kills every cell, reset all counters
func (u *BaseUniverse) clear() {
	u.cube.Lock()
	u.cube.Clear()
	u.cube.Unlock()
	u.resetState(Census{})
	u.switchRunningState(RunningStateManual)
	u.refreshView()
}

//randomize refills the cube with FillRatio live cells, reset all counters
func (u *BaseUniverse) randomize() {
	u.cube.Lock()
	u.cube.Randomize(u.options.FillRatio)
	census := u.cube.Census()
	u.cube.Unlock()
	u.resetState(census)
	u.switchRunningState(RunningStateManual)
	u.refreshView()
}

func (u *BaseUniverse) resetState(c Census) {
	u.state.Lock()
	u.state.IterationNum = 0
	u.state.IterationTime = 0
	u.setCensus(c)
	u.state.Unlock()
}

func (u *BaseUniverse) updateCensus() {
	u.cube.Lock()
	c := u.cube.Census()
	u.cube.Unlock()
	u.state.Lock()
	u.setCensus(c)
	u.state.Unlock()
}

//setCensus expects the state lock to be held
func (u *BaseUniverse) setCensus(c Census) {
	u.state.LiveCells = c.Live
	u.state.PrimaryCells = c.Primary
	u.state.SecondaryCells = c.Secondary
}

//refreshView calls Refresh event for all registered views
func (u *BaseUniverse) refreshView() {
	for _, v := range u.views {
		v.Refresh()
	}
}

func points(vc [][]int) []lattice.Point {
	pts := make([]lattice.Point, 0, len(vc))
	for _, v := range vc {
		if len(v) < 3 {
			continue
		}
		pts = append(pts, lattice.Point{X: v[0], Y: v[1], Z: v[2]})
	}
	return pts
}
