// Package frames loads time-stamped ASCII-art frames from a flat text file.
//
// A frame file is a sequence of blocks separated by a blank line. Each block
// holds a sequence number, a time range, and one or more lines of literal
// display content:
//
//	1
//	00:00:00,000 --> 00:00:00,033
//	$$##@@**
//	::..  ..
//
// Use [Load] to read a file into a [Store], then [Store.Lookup] to find the
// frame that is active at a given elapsed playback time. Frames are valid
// over the half-open interval [Frame.Start, Frame.End).
package frames
