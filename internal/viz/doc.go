// Package viz draws gravity snapshots in the terminal.
//
// [Preview] is a frame sink backed by a Bubble Tea program. Each frame is
// scaled onto a [Canvas] of half-block cells, so one terminal row shows two
// pixel rows in true colour. A side panel tracks the frame counter, total
// steps, churn between frames and the attractor palette.
//
// # Key Bindings
//
//	q/Esc - Quit (closes the sink and stops the run)
//	?     - Toggle help
package viz
