// Package player schedules frame rendering against the wall clock.
//
// A [Scheduler] owns the playback state machine:
//
//	Idle -> Playing -> Completed
//	                -> Cancelled
//
// [Scheduler.Run] starts the audio, waits a fixed startup delay so the audio
// pipeline can warm up, then ticks at a fixed rate (30 per second by
// default). On every tick it computes the elapsed playback time, minus a
// fixed skew, and renders the frame whose interval contains it. Playback
// completes once the elapsed time reaches the end of the last frame, and is
// cancelled when the context passed to Run is done. Run returns the
// terminal [State] instead of exiting the process.
//
// Frames are drawn by a [Renderer]: [Terminal] clears the screen and writes
// the frame verbatim, while [Model] shows frames inside a Bubble Tea program.
package player
