package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputHandler tracks per-frame mouse state. Keyboard queries go through
// inpututil directly.
type InputHandler struct {
	mouseX, mouseY  int
	leftJustPressed bool
}

func NewInputHandler() *InputHandler {
	return &InputHandler{}
}

// Update refreshes the input state. Call once per frame before reading.
func (ih *InputHandler) Update() {
	ih.mouseX, ih.mouseY = ebiten.CursorPosition()
	ih.leftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

// MousePosition returns the cursor position.
func (ih *InputHandler) MousePosition() (int, int) {
	return ih.mouseX, ih.mouseY
}

// Clicked reports whether the left button was pressed this frame.
func (ih *InputHandler) Clicked() bool {
	return ih.leftJustPressed
}

// KeyJustPressed reports whether key was pressed this frame.
func KeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}
