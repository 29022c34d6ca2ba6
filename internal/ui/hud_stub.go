//go:build !ebiten

package ui

import "hydromap/internal/core"

// Model is what the HUD and overlay need from the running generation.
type Model interface {
	Name() string
	Size() core.Size
	Parameters() core.ParameterSnapshot
}

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(Model, int) *HUD { return nil }

// Update is a no-op in the headless build.
func (h *HUD) Update(int) {}

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, int, int) {}
