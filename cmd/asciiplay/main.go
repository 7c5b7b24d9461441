// Command asciiplay plays precomputed ASCII-art frames in the terminal in
// sync with the audio track of the source video.
//
// # Usage
//
//	asciiplay [flags] <video>
//	asciiplay inspect <frames-file>
//	asciiplay schema
//	asciiplay version
//
// The frame file is derived from the video path as
// <output-dir>/<video-stem>_frames.txt. Audio is extracted with ffmpeg, or
// decoded directly for .mp3 sources, and played through oto or portaudio.
//
// Flags may also be set through ASCIIPLAY_<FLAG> environment variables, a
// .env file, or a YAML config file (asciiplay.yaml by default). Run
// "asciiplay schema" for the config file schema.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run0())
}

func run0() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdout, os.Stderr)

	err := a.execute(ctx, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}

	return 0
}
