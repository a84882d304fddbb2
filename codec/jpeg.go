package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
)

// JPEGSizer is a JPEG that can read the image size from the stream header
// without decoding the pixels.
type JPEGSizer interface {
	JPEG
	JPEGSize(src []byte) (width, height int, err error)
}

// StdJPEG implements JPEG with the standard library decoder and encoder.
type StdJPEG struct{}

// JPEGSize returns the dimensions declared by the JPEG frame header.
func (StdJPEG) JPEGSize(src []byte) (width, height int, err error) {
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(src))
	if err != nil {
		return 0, 0, fmt.Errorf("codec: JPEG header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// DecodeJPEG decodes one baseline or progressive JPEG stream.
func (StdJPEG) DecodeJPEG(src []byte) (image.Image, error) {
	img, err := jpeg.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("codec: decode JPEG: %w", err)
	}
	return img, nil
}

// EncodeJPEG encodes img with the given quality (1-100).
func (StdJPEG) EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	quality = min(max(quality, 1), 100)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("codec: encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
