package ui

import (
	"context"
	"sync"

	"gridsnake/game"
	"gridsnake/game/types"
	"gridsnake/ui/hud"
	"gridsnake/ui/input"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	borderPadding  = 10  // Padding around game area
	hudHeight      = 40  // Space above the grid for the score line
	controlsHeight = 150 // Space below the grid for the clickable controls

	windowWidth  = 800
	windowHeight = 900
	windowTitle  = "Snake"
)

var (
	headColor = rl.Color{R: 120, G: 230, B: 120, A: 255}
	bodyColor = rl.Color{R: 40, G: 170, B: 60, A: 255}
)

// keyBindings is checked in order; every pressed key is dispatched.
var keyBindings = []struct {
	key    int32
	action input.Action
}{
	{rl.KeyUp, input.Up},
	{rl.KeyW, input.Up},
	{rl.KeyDown, input.Down},
	{rl.KeyS, input.Down},
	{rl.KeyLeft, input.Left},
	{rl.KeyA, input.Left},
	{rl.KeyRight, input.Right},
	{rl.KeyD, input.Right},
	{rl.KeySpace, input.TogglePause},
	{rl.KeyP, input.TogglePause},
	{rl.KeyEnter, input.Restart},
	{rl.KeyR, input.Restart},
	{rl.KeyQ, input.Quit},
}

// Renderer draws the game in a raylib window. raylib must be driven from the
// main OS thread, so Render only records the newest snapshot and Run does
// all drawing.
type Renderer struct {
	cellSize        int32
	screenWidth     int32
	screenHeight    int32
	totalGridWidth  int32
	totalGridHeight int32
	offsetX         int32
	offsetY         int32
	buttons         []button

	mu     sync.Mutex
	latest game.Snapshot
	seen   bool
}

// button is a clickable control below the board.
type button struct {
	rect   rl.Rectangle
	label  string
	action input.Action
}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render publishes s for the next frame. Safe from any goroutine.
func (r *Renderer) Render(s game.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latest = s
	r.seen = true
}

func (r *Renderer) snapshot() (game.Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest, r.seen
}

// Run opens the window and loops until it is closed, the player quits or
// ctx is done. Call it from main.
func (r *Renderer) Run(ctx context.Context, c input.Controller) error {
	rl.InitWindow(windowWidth, windowHeight, windowTitle)
	rl.SetWindowState(rl.FlagWindowResizable)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return nil
		}
		r.UpdateDimensions()
		s, ok := r.snapshot()
		if ok {
			r.layout(s.Grid)
		}

		actions := actionsForKeys(rl.IsKeyPressed)
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			actions = append(actions, r.actionAt(rl.GetMousePosition()))
		}
		for _, a := range actions {
			if input.Dispatch(c, a) {
				return nil
			}
		}

		if ok {
			r.Draw(s)
		} else {
			rl.BeginDrawing()
			rl.ClearBackground(rl.Black)
			rl.EndDrawing()
		}
	}
	return nil
}

func actionsForKeys(pressed func(key int32) bool) []input.Action {
	var actions []input.Action
	for _, b := range keyBindings {
		if pressed(b.key) {
			actions = append(actions, b.action)
		}
	}
	return actions
}

// actionAt returns the action of the control under p, or input.None.
func (r *Renderer) actionAt(p rl.Vector2) input.Action {
	for _, b := range r.buttons {
		if rl.CheckCollisionPointRec(p, b.rect) {
			return b.action
		}
	}
	return input.None
}

func (r *Renderer) UpdateDimensions() {
	r.screenWidth = int32(rl.GetScreenWidth())
	r.screenHeight = int32(rl.GetScreenHeight())
}

// layout sizes the cells so the grid fits between the HUD line and the
// controls, centers it, and places the buttons under it.
func (r *Renderer) layout(grid types.Grid) {
	availableWidth := r.screenWidth - borderPadding*2
	availableHeight := r.screenHeight - hudHeight - controlsHeight - borderPadding*2

	cellW := availableWidth / int32(grid.Width)
	cellH := availableHeight / int32(grid.Height)
	r.cellSize = max(min(cellW, cellH), 1)

	r.totalGridWidth = r.cellSize * int32(grid.Width)
	r.totalGridHeight = r.cellSize * int32(grid.Height)

	r.offsetX = (r.screenWidth - r.totalGridWidth) / 2
	r.offsetY = hudHeight + (r.screenHeight-hudHeight-controlsHeight-r.totalGridHeight)/2

	r.layoutButtons()
}

// layoutButtons puts a direction pad in the middle of the controls strip,
// Start on the left and Pause on the right.
func (r *Renderer) layoutButtons() {
	top := float32(r.offsetY + r.totalGridHeight + borderPadding)
	size := float32(controlsHeight-borderPadding) / 3
	centerX := float32(r.screenWidth) / 2
	left := float32(r.offsetX)
	right := float32(r.offsetX + r.totalGridWidth)

	rect := func(x, y, w float32) rl.Rectangle {
		return rl.Rectangle{X: x, Y: y, Width: w, Height: size}
	}
	r.buttons = append(r.buttons[:0],
		button{rect(centerX-size/2, top, size), "^", input.Up},
		button{rect(centerX-size/2-size, top+size, size), "<", input.Left},
		button{rect(centerX+size/2, top+size, size), ">", input.Right},
		button{rect(centerX-size/2, top+2*size, size), "v", input.Down},
		button{rect(left, top+size, 2*size), "Start", input.Restart},
		button{rect(right-2*size, top+size, 2*size), "Pause", input.TogglePause},
	)
}

func (r *Renderer) Draw(s game.Snapshot) {
	r.layout(s.Grid)
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	fontSize := min(r.screenHeight/30, hudHeight-10)

	// Grid background
	rl.DrawRectangle(
		r.offsetX-1,
		r.offsetY-1,
		r.totalGridWidth+2,
		r.totalGridHeight+2,
		rl.DarkGray)

	// Food
	r.drawCell(s.Food, rl.Red)

	// Tail first so the head is drawn on top
	for i := len(s.Body) - 1; i >= 0; i-- {
		if !s.Grid.Contains(s.Body[i]) {
			continue
		}
		if i == 0 {
			r.drawHead(s.Body[i], s.Direction)
		} else {
			r.drawCell(s.Body[i], bodyColor)
		}
	}

	rl.DrawText(hud.ScoreLine(s), r.offsetX, (hudHeight-fontSize)/2, fontSize, rl.White)

	if title, hint, ok := hud.Overlay(s); ok {
		r.drawOverlay(title, hint, fontSize)
	}

	r.drawButtons(fontSize)

	rl.EndDrawing()
}

func (r *Renderer) drawButtons(fontSize int32) {
	mouse := rl.GetMousePosition()
	for _, b := range r.buttons {
		fill := rl.DarkGray
		if rl.CheckCollisionPointRec(mouse, b.rect) {
			fill = rl.Gray
		}
		rl.DrawRectangleRec(b.rect, fill)
		rl.DrawRectangleLinesEx(b.rect, 1, rl.LightGray)

		textWidth := rl.MeasureText(b.label, fontSize)
		rl.DrawText(b.label,
			int32(b.rect.X+(b.rect.Width-float32(textWidth))/2),
			int32(b.rect.Y+(b.rect.Height-float32(fontSize))/2),
			fontSize, rl.White)
	}
}

func (r *Renderer) cellOrigin(p types.Point) (int32, int32) {
	return r.offsetX + int32(p.X)*r.cellSize, r.offsetY + int32(p.Y)*r.cellSize
}

func (r *Renderer) drawCell(p types.Point, color rl.Color) {
	x, y := r.cellOrigin(p)
	rl.DrawRectangle(x, y, r.cellSize, r.cellSize, color)
}

// drawHead draws the head cell with a triangle pointing where it moves.
func (r *Renderer) drawHead(p types.Point, dir types.Direction) {
	r.drawCell(p, headColor)

	headX, headY := r.cellOrigin(p)
	halfCell := r.cellSize / 2
	v := func(x, y int32) rl.Vector2 { return rl.Vector2{X: float32(x), Y: float32(y)} }

	switch dir {
	case types.Right:
		rl.DrawTriangle(
			v(headX+r.cellSize, headY+halfCell),
			v(headX+halfCell, headY),
			v(headX+halfCell, headY+r.cellSize),
			rl.Yellow)
	case types.Left:
		rl.DrawTriangle(
			v(headX, headY+halfCell),
			v(headX+halfCell, headY+r.cellSize),
			v(headX+halfCell, headY),
			rl.Yellow)
	case types.Down:
		rl.DrawTriangle(
			v(headX+halfCell, headY+r.cellSize),
			v(headX+r.cellSize, headY+halfCell),
			v(headX, headY+halfCell),
			rl.Yellow)
	case types.Up:
		rl.DrawTriangle(
			v(headX+halfCell, headY),
			v(headX, headY+halfCell),
			v(headX+r.cellSize, headY+halfCell),
			rl.Yellow)
	}
}

func (r *Renderer) drawOverlay(title, hint string, fontSize int32) {
	rl.DrawRectangle(r.offsetX, r.offsetY, r.totalGridWidth, r.totalGridHeight, rl.Fade(rl.Black, 0.6))

	titleSize := fontSize * 2
	centerY := r.offsetY + r.totalGridHeight/2

	titleWidth := rl.MeasureText(title, titleSize)
	rl.DrawText(title,
		r.offsetX+(r.totalGridWidth-titleWidth)/2,
		centerY-titleSize,
		titleSize, rl.White)

	hintWidth := rl.MeasureText(hint, fontSize)
	rl.DrawText(hint,
		r.offsetX+(r.totalGridWidth-hintWidth)/2,
		centerY+fontSize/2,
		fontSize, rl.LightGray)
}
