// Package mng decodes and plays MNG animations, and the PNG and JNG
// images they are built from.
//
// # Overview
//
// mng reads a datastream chunk by chunk, assembles images and delta images
// into records, and plays the records onto an RGBA canvas: framing modes,
// loops, object placement, PAST compositing, MAGN scaling and TERM
// repetition all happen in the decoder. Plain PNG and JNG files play as a
// one-frame stream.
//
// # Quick Start
//
//	import "github.com/gogpu/mng"
//
//	f, _ := os.Open("spinner.mng")
//	anim, err := mng.DecodeAll(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i, frame := range anim.Frames {
//	    fmt.Println(i, frame.Bounds(), anim.Delays[i])
//	}
//
// Importing the package also registers "mng" and "jng" with the standard
// image package, so image.Decode accepts both formats.
//
// # Push and Pull
//
// A Decoder never blocks waiting for input. NewDecoder returns a
// push-mode decoder fed with Write; the bytes may arrive in fragments of
// any size:
//
//	d := mng.NewDecoder(mng.WithCanvas(screen))
//	for packet := range packets {
//	    d.Write(packet)
//	    for {
//	        f, err := d.Advance()
//	        if err != nil || f.Status != mng.StatusFrame {
//	            break
//	        }
//	        time.Sleep(f.Delay)
//	    }
//	}
//	d.Close()
//
// NewReader returns a pull-mode decoder that reads from an io.Reader when
// Advance runs out of records. A source may return ErrSuspend to make
// Advance report StatusNeedData instead of waiting.
//
// # Canvas
//
// A Canvas receives the rows of every changed area after a frame
// completes. Rows are RGBA8 by default, big-endian RGBA16 with
// WithDepth(16). Decoder.Image returns a copy of the whole canvas.
//
// # Errors
//
// Every problem is reported as an *Error with a Kind, a Code and a
// Severity, logged and handed to the WithErrorHandler callback. Warnings
// skip the offending chunk, step errors abort one animation step, and
// fatal errors halt reading. Records read before a fatal error still
// play. Wrapped sentinels such as ErrTruncated and chunk.ErrBadCRC match
// with errors.Is.
//
// # Encoding
//
// Encoder writes PNG, MNG and JNG streams and checks the chunk order as
// it goes. Combined with WithStoreChunks and Decoder.Chunks it can
// re-emit a decoded stream unchanged.
//
// # Logging
//
// mng is silent by default. SetLogger installs a *slog.Logger for the
// package and its sub-packages.
package mng

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
