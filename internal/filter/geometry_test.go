package filter

import "testing"

func TestBytesPerPixel(t *testing.T) {
	tests := []struct {
		colorType, bitDepth uint8
		want                int
	}{
		{0, 1, 1},
		{0, 8, 1},
		{0, 16, 2},
		{2, 8, 3},
		{2, 16, 6},
		{3, 4, 1},
		{4, 8, 2},
		{4, 16, 4},
		{6, 8, 4},
		{6, 16, 8},
	}
	for _, tt := range tests {
		if got := BytesPerPixel(tt.colorType, tt.bitDepth); got != tt.want {
			t.Errorf("BytesPerPixel(%d, %d) = %d, want %d", tt.colorType, tt.bitDepth, got, tt.want)
		}
	}
}

func TestRowBytes(t *testing.T) {
	tests := []struct {
		width               int
		colorType, bitDepth uint8
		want                int
	}{
		{1, 0, 1, 1},
		{8, 0, 1, 1},
		{9, 0, 1, 2},
		{3, 3, 2, 1},
		{5, 3, 4, 3},
		{10, 2, 8, 30},
		{10, 6, 16, 80},
		{0, 6, 8, 0},
	}
	for _, tt := range tests {
		if got := RowBytes(tt.width, tt.colorType, tt.bitDepth); got != tt.want {
			t.Errorf("RowBytes(%d, %d, %d) = %d, want %d", tt.width, tt.colorType, tt.bitDepth, got, tt.want)
		}
	}
}

func TestPassesCoverImage(t *testing.T) {
	sizes := [][2]int{{1, 1}, {3, 5}, {8, 8}, {9, 17}, {33, 2}}
	for _, s := range sizes {
		w, h := s[0], s[1]
		seen := make([]int, w*h)
		for _, p := range Passes(w, h) {
			for py := range p.Height {
				for px := range p.Width {
					x := p.X0 + px*p.DX
					y := p.Y0 + py*p.DY
					if x >= w || y >= h {
						t.Fatalf("%dx%d: pass pixel (%d,%d) out of bounds", w, h, x, y)
					}
					seen[y*w+x]++
				}
			}
		}
		for i, n := range seen {
			if n != 1 {
				t.Errorf("%dx%d: pixel %d covered %d times, want 1", w, h, i, n)
			}
		}
	}
}

func TestPassesEmpty(t *testing.T) {
	passes := Passes(1, 1)
	if passes[0].Empty() {
		t.Error("pass 1 of 1x1 image should not be empty")
	}
	for i, p := range passes[1:] {
		if !p.Empty() {
			t.Errorf("pass %d of 1x1 image = %+v, want empty", i+2, p)
		}
	}
	if got := Progressive(4, 3); len(got) != 1 || got[0].Width != 4 || got[0].Height != 3 {
		t.Errorf("Progressive(4, 3) = %+v", got)
	}
}

func TestStreamBytes(t *testing.T) {
	tests := []struct {
		width, height       int
		colorType, bitDepth uint8
		interlaced          bool
		want                int
	}{
		{4, 3, 6, 8, false, 51},
		{1, 1, 0, 1, false, 2},
		{9, 2, 0, 1, false, 6},
		{1, 1, 0, 8, true, 2},
		{8, 8, 0, 8, true, 79},
	}
	for _, tt := range tests {
		got := StreamBytes(tt.width, tt.height, tt.colorType, tt.bitDepth, tt.interlaced)
		if got != tt.want {
			t.Errorf("StreamBytes(%d, %d, %d, %d, %v) = %d, want %d",
				tt.width, tt.height, tt.colorType, tt.bitDepth, tt.interlaced, got, tt.want)
		}
	}
}
