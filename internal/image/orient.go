package image

// Orientation is a PAST source orientation.
type Orientation uint8

const (
	OrientNone Orientation = 0
	// OrientRotate flips both axes (a 180 degree rotation).
	OrientRotate Orientation = 2
	// OrientMirror flips left to right.
	OrientMirror Orientation = 4
	// OrientFlip flips top to bottom.
	OrientFlip Orientation = 6
	// OrientTile repeats the source to fill the destination.
	OrientTile Orientation = 8
)

// Flip returns src reoriented. OrientNone and OrientTile return src.
func Flip(src *ImageBuf, o Orientation) *ImageBuf {
	var fx, fy bool
	switch o {
	case OrientRotate:
		fx, fy = true, true
	case OrientMirror:
		fx = true
	case OrientFlip:
		fy = true
	default:
		return src
	}

	dst, _ := NewImageBuf(src.width, src.height, src.format)
	bpp := src.format.BytesPerPixel()
	for y := range src.height {
		sy := y
		if fy {
			sy = src.height - 1 - y
		}
		srow, drow := src.Row(sy), dst.Row(y)
		if !fx {
			copy(drow, srow)
			continue
		}
		for x := range src.width {
			sx := src.width - 1 - x
			copy(drow[x*bpp:(x+1)*bpp], srow[sx*bpp:(sx+1)*bpp])
		}
	}
	return dst
}

// Tile returns a width x height buffer filled by repeating src from the
// origin.
func Tile(src *ImageBuf, width, height int) (*ImageBuf, error) {
	dst, err := NewImageBuf(width, height, src.format)
	if err != nil {
		return nil, err
	}
	bpp := src.format.BytesPerPixel()
	for y := range height {
		srow, drow := src.Row(y%src.height), dst.Row(y)
		for x := 0; x < width; x += src.width {
			n := min(src.width, width-x)
			copy(drow[x*bpp:(x+n)*bpp], srow[:n*bpp])
		}
	}
	return dst, nil
}
