package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/integrii/flaggy"
	"github.com/logrusorgru/aurora"

	"voxlife/src/lattice"
	"voxlife/src/telemetry"
	"voxlife/src/universe"
	"voxlife/src/view"
)

type EnvOptions struct {
	interactive bool
	gui         bool
	randomData  bool
	template    string
	scale       int

	device string
	baud   int
	keys   []string

	slice      *flaggy.Subcommand
	sliceAxis  string
	sliceLayer int
}

func main() {
	eo, uo := initOptions()

	var stateCh chan universe.Status

	if !eo.interactive && !eo.gui {
		stateCh = make(chan universe.Status, 10) //the buffered channel to getting the universe status
	}

	u := universe.NewBaseUniverse(uo, stateCh)

	switch {
	case eo.gui:
		g := view.NewGUI(eo.scale)
		u.RegisterViewer(g)
		settle(u, eo, nil)
		g.Start()
		u.Close()
		if err := g.Err(); err != nil {
			log.Fatal(err)
		}
	case eo.interactive:
		var link *telemetry.Link
		if eo.device != "" {
			link = telemetry.NewLink(eo.device, eo.baud, nil)
		}
		//the terminal belongs to gocui from here on
		log.SetOutput(io.Discard)
		v := view.NewViewTerminal(link, eo.keys...)
		u.RegisterViewer(v)
		settle(u, eo, nil)
		v.Start()
		u.Close()
	default:
		var link *telemetry.Link
		if eo.device != "" {
			link = telemetry.NewLink(eo.device, eo.baud, printBoard(os.Stdout, eo.keys))
			link.Connect()
		}
		out := view.NewConsoleOut(os.Stdout)
		u.RegisterViewer(out)
		settle(u, eo, stateCh)
		fmt.Printf("\"Voxel Life\" simulation started...\n")
		st := runHeadless(u, out)
		fmt.Printf("Finished, iteration is: %v, live cells: %v\n", st.IterationNum, st.LiveCells)
		if eo.slice.Used {
			out.PrintSlice(lattice.NormalizeAxis(eo.sliceAxis), eo.sliceLayer)
		}
		if link != nil && link.Connected() {
			link.Disconnect()
			link.Wait()
		}
		u.Close()
		close(stateCh)
	}
}

//settle seeds the cube, waiting for the random fill when a state channel is given
func settle(u *universe.BaseUniverse, eo *EnvOptions, stateCh chan universe.Status) {
	if !eo.randomData {
		u.SettleTemplate(eo.template)
		return
	}
	u.SettleWithRandomData()
	if stateCh == nil {
		return
	}
	for st := range stateCh {
		if st.RunningMode == universe.RunningStateManual {
			return
		}
	}
}

//runHeadless runs the universe until it finishes and returns the final status
func runHeadless(u universe.Universe, out universe.Viewer) universe.Status {
	stateCh := u.StateCh()
	out.Start()
	u.Run()
	for {
		st := <-stateCh
		if st.RunningMode == universe.RunningStateFinished {
			out.Refresh()
			return st
		}
	}
}

//printBoard prints telemetry values, restricted to keys when any are given
func printBoard(w io.Writer, keys []string) telemetry.Board {
	allowed := telemetry.NewMapBoard(keys...)
	return telemetry.BoardFunc(func(key, value string) bool {
		if !allowed.Set(key, value) {
			return false
		}
		fmt.Fprintf(w, "  %v: %v\n", aurora.Cyan(key), value)
		return true
	})
}

func initOptions() (eo *EnvOptions, uo *universe.Options) {

	uo = &universe.DefaultUniverseOptions
	templates := universe.Templates()
	templateNames := make([]string, 0, len(templates))
	for _, t := range templates {
		templateNames = append(templateNames, t.Name)
	}
	sort.Strings(templateNames)
	eo = &EnvOptions{template: "duel", baud: telemetry.DefBaudRate, sliceAxis: "z"}

	flaggy.SetName("voxlife")
	flaggy.SetDescription("A 3D cellular automaton on a voxel cube")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&uo.Dimension, "d", "dimension", "Side length of the cube")
	flaggy.Duration(&uo.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 750ms")
	flaggy.Int(&uo.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps, 0 runs until the cube is empty")
	flaggy.Float64(&uo.FillRatio, "f", "fill", "Share of live cells when settling with random data")
	flaggy.Int64(&uo.Seed, "", "seed", "Seed for random fills and birth ties")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&eo.gui, "g", "gui", "Start the windowed editor (needs the ebiten build tag)")
	flaggy.Int(&eo.scale, "", "scale", "Pixel size of a voxel in the windowed editor")
	flaggy.Bool(&eo.randomData, "r", "random", "Settle with random data")
	flaggy.String(&eo.template, "p", "template", "Template to settle ["+strings.Join(templateNames, "|")+"]")
	flaggy.String(&eo.device, "t", "telemetry", "Serial device streaming KEY:VALUE telemetry")
	flaggy.Int(&eo.baud, "b", "baud", "Baud rate of the telemetry device")
	flaggy.StringSlice(&eo.keys, "k", "keys", "Telemetry keys to show, all when empty")

	eo.slice = flaggy.NewSubcommand("slice")
	eo.slice.Description = "Print a slice of the cube when the headless run finishes"
	eo.slice.String(&eo.sliceAxis, "a", "axis", "Axis held fixed [x|y|z]")
	eo.slice.Int(&eo.sliceLayer, "l", "layer", "Layer along the axis")
	flaggy.AttachSubcommand(eo.slice, 1)

	flaggy.Parse()

	known := false
	for _, name := range templateNames {
		known = known || name == eo.template
	}
	if !known && !eo.randomData {
		flaggy.ShowHelpAndExit("unknown template")
	}
	if eo.gui && !view.GUIAvailable {
		flaggy.ShowHelpAndExit("the windowed editor requires building with -tags ebiten")
	}
	if uo.Interval < 0 {
		uo.Interval = 0
	}
	if uo.Interval == 0 && uo.MaxSteps == 0 && !eo.interactive && !eo.gui {
		//an unthrottled run would never yield the terminal
		uo.Interval = time.Millisecond
	}
	eo.sliceLayer = lattice.New(uo.Dimension).ClampInt(eo.sliceLayer)

	if !eo.interactive && !eo.gui {
		flaggy.ShowHelp("")
	}

	return
}
