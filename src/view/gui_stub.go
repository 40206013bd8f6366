//go:build !ebiten

package view

import (
	"errors"

	"voxlife/src/universe"
)

//GUIAvailable reports whether the windowed editor was compiled in
const GUIAvailable = false

//GUI is a placeholder used when the ebiten build tag is absent
type GUI struct{}

//NewGUI constructs a stub editor
func NewGUI(int) *GUI { return &GUI{} }

//Register is a no-op in headless builds
func (g *GUI) Register(*universe.BaseUniverse) {}

//Refresh is a no-op in headless builds
func (g *GUI) Refresh() {}

//Start returns at once in headless builds
func (g *GUI) Start() {}

//Err always reports that the GUI build tag is missing
func (g *GUI) Err() error {
	return errors.New("the windowed editor requires building with the 'ebiten' tag")
}
