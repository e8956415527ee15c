package gui

import (
	"context"
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/gravsnap/internal/dynamo"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColText    = rl.NewColor(200, 200, 200, 255)
	ColTextDim = rl.NewColor(90, 90, 90, 255)
	ColShade   = rl.NewColor(0, 0, 0, 160)
)

// Window is a frame sink that blits every frame into a raylib window the
// size of the grid. Closing the window closes the sink. All calls must
// happen on the main goroutine.
type Window struct {
	Width, Height int
	ShowHUD       bool

	tex    rl.Texture2D
	pixels []color.RGBA
	index  int
	closed bool
}

func initWindow(w, h int, title string) {
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(int32(max(w, 1)), int32(max(h, 1)), title)
	rl.SetExitKey(rl.KeyEscape)
}

// OpenWindow creates the window and its backing texture.
func OpenWindow(title string, width, height int) *Window {
	initWindow(width, height, title)

	img := rl.GenImageColor(max(width, 1), max(height, 1), color.RGBA{A: 255})
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	return &Window{
		Width:   width,
		Height:  height,
		ShowHUD: true,
		tex:     tex,
		pixels:  make([]color.RGBA, max(width, 1)*max(height, 1)),
		index:   -1,
	}
}

func (w *Window) Emit(_ context.Context, index int, frame *dynamo.Frame) error {
	if w.closed {
		return dynamo.ErrSinkClosed
	}
	if frame.Width == w.Width && frame.Height == w.Height {
		for i, j := 0, 0; i < len(frame.Pix); i, j = i+3, j+1 {
			w.pixels[j] = color.RGBA{R: frame.Pix[i], G: frame.Pix[i+1], B: frame.Pix[i+2], A: 255}
		}
		rl.UpdateTexture(w.tex, w.pixels)
	}
	w.index = index
	w.draw("")
	if rl.WindowShouldClose() {
		w.closed = true
	}
	return nil
}

func (w *Window) Closed() bool { return w.closed }

func (w *Window) draw(status string) {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	rl.DrawTexture(w.tex, 0, 0, rl.White)

	if w.ShowHUD && w.index >= 0 {
		label := fmt.Sprintf("frame %d", w.index)
		if status != "" {
			label += "  " + status
		}
		rl.DrawRectangle(0, 0, rl.MeasureText(label, 14)+12, 22, ColShade)
		rl.DrawText(label, 6, 4, 14, ColText)
	}
	rl.EndDrawing()
}

// Hold keeps the last frame on screen until the window is closed or ctx
// ends. H toggles the frame label.
func (w *Window) Hold(ctx context.Context) {
	rl.SetTargetFPS(30)
	for !w.closed && !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return
		}
		if rl.IsKeyPressed(rl.KeyH) {
			w.ShowHUD = !w.ShowHUD
		}
		w.draw("done")
	}
	w.closed = true
}

// Close releases the texture and the window.
func (w *Window) Close() error {
	rl.UnloadTexture(w.tex)
	rl.CloseWindow()
	return nil
}
