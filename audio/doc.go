// Package audio plays the sound track that accompanies frame playback.
//
// A [Source] yields raw PCM (signed 16-bit little-endian, stereo, 44.1 kHz)
// and a [Device] plays it. [Transcoder] extracts the track from a video file
// with ffmpeg, and [MP3File] decodes an mp3 file directly. [OtoDevice] and
// [PortAudioDevice] write to the default output device.
//
// A [Pipeline] wires one source to one device. It is fire-and-forget:
// [Pipeline.Start] returns immediately, failures are logged rather than
// returned, and [Pipeline.Stop] tears everything down. Errors caused by the
// stream being closed on purpose are classified by [IsBenign] and logged at
// debug level only.
package audio
