// Command mngdemo plays an MNG, PNG or JNG file and writes its frames as
// PNG images. Without -input it first builds a small demo animation.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/gogpu/mng"
	"github.com/gogpu/mng/chunk"
)

func main() {
	var (
		input   = flag.String("input", "", "stream to play (default: generate demo.mng)")
		output  = flag.String("output", "frames", "directory for frame PNGs")
		scale   = flag.Int("scale", 1, "integer upscale factor for written frames")
		list    = flag.Bool("list", false, "list chunks instead of writing frames")
		limit   = flag.Int("max", 256, "maximum number of frames to write")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		mng.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	path := *input
	if path == "" {
		path = "demo.mng"
		if err := writeDemo(path); err != nil {
			log.Fatalf("Failed to build demo: %v", err)
		}
		log.Printf("Demo animation saved to %s\n", path)
	}

	if *list {
		if err := listChunks(path); err != nil {
			log.Fatalf("Failed to list %s: %v", path, err)
		}
		return
	}

	n, err := writeFrames(path, *output, *scale, *limit)
	if err != nil {
		log.Fatalf("Failed to play %s: %v", path, err)
	}
	log.Printf("%d frames written to %s\n", n, *output)
}

// writeDemo encodes a square bouncing across a 64x64 canvas.
func writeDemo(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	e, err := mng.NewEncoder(f, chunk.SigMNG)
	if err != nil {
		return err
	}
	recs := []chunk.Record{
		&chunk.MHDR{Width: 64, Height: 64, TicksPerSec: 20, Profile: chunk.ProfileValid | chunk.ProfileSimple},
		&chunk.TEXT{Keyword: "Title", Text: "mngdemo"},
		&chunk.BACK{Red: 0x2000, Green: 0x3000, Blue: 0x5000},
		&chunk.TERM{Action: chunk.TermRepeat, Max: chunk.Infinite},
		&chunk.FRAM{Mode: 3, ChangeDelay: chunk.ChangeDefault, Delay: 2},
	}
	for _, r := range recs {
		if err := e.PutChunk(r); err != nil {
			return err
		}
	}
	const steps = 16
	for i := range steps {
		x := int32(i * (64 - 16) / (steps - 1))
		if err := e.PutChunk(&chunk.DEFI{X: x, Y: 24}); err != nil {
			return err
		}
		if err := e.PutImage(square(16, i, steps)); err != nil {
			return err
		}
	}
	return e.Close()
}

func square(size, i, steps int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	c := color.NRGBA{R: uint8(255 * i / steps), G: 0xc0, B: uint8(255 - 255*i/steps), A: 0xff}
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func listChunks(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	d := mng.NewDecoder(mng.WithStoreChunks(true), mng.WithCRC(mng.CRCAncillary))
	if _, err := d.ReadFrom(f); err != nil {
		return err
	}
	if err := d.Close(); err != nil {
		return err
	}
	fmt.Printf("%s stream\n", d.Signature())
	for i, c := range d.Chunks() {
		kind := ' '
		if !c.Tag.Critical() {
			kind = 'a'
		}
		fmt.Printf("%5d  %v %c %8d bytes\n", i, c.Tag, kind, len(c.Data))
	}
	for _, t := range d.Texts() {
		fmt.Printf("text  %s: %s\n", t.Keyword, t.Text)
	}
	return nil
}

func writeFrames(path, dir string, scale, limit int) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	d := mng.NewReader(f, mng.WithErrorHandler(func(e *mng.Error) {
		if e.Severity != mng.SeverityFatal {
			log.Printf("warning: %v", e)
		}
	}))
	n := 0
	for n < limit {
		fr, err := d.Advance()
		if err != nil {
			return n, err
		}
		if fr.Status == mng.StatusDone || fr.Status == mng.StatusNeedData {
			break
		}
		if fr.Status != mng.StatusFrame {
			continue
		}
		name := filepath.Join(dir, fmt.Sprintf("frame%04d.png", n))
		if err := savePNG(name, d.Image(), scale); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func savePNG(name string, img image.Image, scale int) error {
	if scale > 1 {
		b := img.Bounds()
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		img = dst
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
