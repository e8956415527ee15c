// Package sim sequences rendered frames over time.
//
// A [Sequencer] drives a [render.Renderer] through a schedule of frames. The
// [Policy] decides each frame's iteration budget:
//
//   - [Restart]: every frame starts from rest; frame 0 runs the base budget,
//     later frames run step iterations
//   - [Continue]: particles persist; frame 0 runs the base budget and every
//     later frame adds step iterations
//   - [Growing]: every frame starts from rest and runs base + step*k iterations
//
// Frames are strictly sequential. Pixels inside a frame are rendered in
// parallel by the renderer. A [Tracker] follows one particle for the
// interactive display.
package sim
