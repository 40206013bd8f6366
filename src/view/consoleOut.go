package view

import (
	"fmt"
	"image/color"
	"io"
	"sort"
	"time"

	"github.com/logrusorgru/aurora"

	"voxlife/src/lattice"
	"voxlife/src/universe"
)

type ConsoleOut struct {
	u         universe.Universe
	w         io.Writer
	startTime time.Time
	lastIter  int
}

func NewConsoleOut(w io.Writer) *ConsoleOut {
	return &ConsoleOut{w: w, lastIter: -1}
}

func (c *ConsoleOut) Refresh() {
	st := c.u.Status()
	if st.RunningMode == universe.RunningStateFinished {
		if st.IterationNum == c.lastIter {
			return
		}
		c.lastIter = st.IterationNum
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last iteration": st.IterationNum,
			"Total time":     totalTime,
			"Live cells":     st.LiveCells,
			"Primary cells":  st.PrimaryCells,
			"Secondary":      st.SecondaryCells,
		}
		fmt.Fprintln(c.w, aurora.Red("\nFinished:"))
		c.printHashData(resultData)
	} else if st.RunningMode == universe.RunningStateRun {
		if st.IterationNum%10 == 0 && st.IterationNum != c.lastIter {
			c.lastIter = st.IterationNum
			fmt.Fprintf(c.w, "  Iterations done: %v, live cells: %v\n", st.IterationNum, st.LiveCells)
		}
	}
}

func (c *ConsoleOut) Register(u *universe.BaseUniverse) {
	c.u = u
	o := c.u.Options()
	fmt.Fprintln(c.w, "Running configuration:")
	c.printHashData(map[string]interface{}{
		"Dimension":      fmt.Sprintf("%v^3", o.Dimension),
		"Interval":       o.Interval,
		"Max iterations": o.MaxSteps,
		"Fill ratio":     o.FillRatio,
		"Seed":           o.Seed,
	})
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	fmt.Fprintln(c.w, "\nSimulation started...")
}

//PrintSlice writes a slice of the cube with a header naming it
func (c *ConsoleOut) PrintSlice(axis lattice.Axis, layer int) {
	PrintSlice(c.w, axis, layer, c.u.SliceColors(axis, layer))
}

//PrintSlice writes the colours of a slice as terminal swatches
func PrintSlice(w io.Writer, axis lattice.Axis, layer int, colors [][]color.RGBA) {
	fmt.Fprintf(w, "%v %v=%d\n", aurora.Colorize("Slice", aurora.GreenFg), axis, layer)
	fmt.Fprintln(w, renderSlice(colors, -1, -1))
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
