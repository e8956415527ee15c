package gui

import (
	"context"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/integrators"
	"github.com/san-kum/gravsnap/internal/physics"
	"github.com/san-kum/gravsnap/internal/sim"
)

const (
	massRadius     = 15
	particleRadius = 5
	maxTrail       = 120
)

func rlColor(c dynamo.RGB) rl.Color {
	return rl.NewColor(c[0], c[1], c[2], 255)
}

// RunInteractive opens a window showing the attractors. A left click drops
// a particle at the cursor and the window follows it step by step; every
// new click resets it. The trail is tinted by the nearest attractor.
func RunInteractive(ctx context.Context, set *physics.AttractorSet, prm integrators.Params, width, height int) {
	initWindow(width, height, "Gravity Snapshot")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	tracker := sim.NewTracker(integrators.NewStepper(set, prm))
	trail := make([]rl.Vector2, 0, maxTrail)
	tints := make([]rl.Color, 0, maxTrail)
	showTrail := true

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return
		}

		mouse := rl.GetMousePosition()
		switch {
		case rl.IsMouseButtonDown(rl.MouseLeftButton):
			if !tracker.Active() || rl.IsMouseButtonPressed(rl.MouseLeftButton) {
				trail, tints = trail[:0], tints[:0]
			}
			tracker.Handle(sim.InputEvent{Kind: sim.Press, X: mouse.X, Y: mouse.Y})
		default:
			tracker.Handle(sim.InputEvent{Kind: sim.Release, X: mouse.X, Y: mouse.Y})
		}
		if rl.IsKeyPressed(rl.KeyT) {
			showTrail = !showTrail
		}

		pos, tint, ok := tracker.Advance()
		if ok && pos.IsValid() {
			if len(trail) == maxTrail {
				trail, tints = trail[1:], tints[1:]
			}
			trail = append(trail, rl.NewVector2(pos.X, pos.Y))
			tints = append(tints, rlColor(tint))
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		for i, m := range set.Masses {
			rl.DrawCircle(int32(m.Pos.X), int32(m.Pos.Y), massRadius, rlColor(set.Color(i)))
		}
		if showTrail {
			for i := 1; i < len(trail); i++ {
				rl.DrawLineV(trail[i-1], trail[i], tints[i])
			}
		}
		if ok {
			rl.DrawCircle(int32(pos.X), int32(pos.Y), particleRadius, rl.White)
		} else {
			rl.DrawText("click to drop a particle", 10, 10, 16, ColTextDim)
		}
		rl.EndDrawing()
	}
}
