package image

import "testing"

func TestFormatFor(t *testing.T) {
	tests := []struct {
		ct    ColorType
		depth uint8
		want  Format
		ok    bool
	}{
		{ColorGray, 1, FormatG1, true},
		{ColorGray, 16, FormatG16, true},
		{ColorRGB, 8, FormatRGB8, true},
		{ColorRGB, 4, 0, false},
		{ColorIndexed, 8, FormatIDX8, true},
		{ColorIndexed, 16, 0, false},
		{ColorGrayAlpha, 16, FormatGA16, true},
		{ColorGrayAlpha, 4, 0, false},
		{ColorRGBA, 8, FormatRGBA8, true},
		{ColorType(5), 8, 0, false},
	}
	for _, tt := range tests {
		got, ok := FormatFor(tt.ct, tt.depth)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("FormatFor(%v, %d) = %v, %v; want %v, %v", tt.ct, tt.depth, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFormatLegalPairs(t *testing.T) {
	count := 0
	for ct := range 7 {
		for _, d := range []uint8{1, 2, 4, 8, 16} {
			if _, ok := FormatFor(ColorType(ct), d); ok {
				count++
			}
		}
	}
	if count != int(formatCount) {
		t.Errorf("legal pairs = %d, want %d", count, formatCount)
	}
}

func TestFormatInfo(t *testing.T) {
	tests := []struct {
		f        Format
		bpp      int
		channels int
		alpha    bool
	}{
		{FormatG1, 1, 1, false},
		{FormatG16, 2, 1, false},
		{FormatRGB16, 6, 3, false},
		{FormatGA8, 2, 2, true},
		{FormatRGBA16, 8, 4, true},
		{FormatIDX4, 1, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.f.String(), func(t *testing.T) {
			if got := tt.f.BytesPerPixel(); got != tt.bpp {
				t.Errorf("BytesPerPixel() = %d, want %d", got, tt.bpp)
			}
			if got := tt.f.Channels(); got != tt.channels {
				t.Errorf("Channels() = %d, want %d", got, tt.channels)
			}
			if got := tt.f.HasAlpha(); got != tt.alpha {
				t.Errorf("HasAlpha() = %v, want %v", got, tt.alpha)
			}
		})
	}
	if Format(200).IsValid() {
		t.Error("Format(200).IsValid() = true")
	}
	if got := Format(200).String(); got != "Format(200)" {
		t.Errorf("String() = %q", got)
	}
}

func TestFormatAlphaVariants(t *testing.T) {
	if got := FormatRGBA16.ColorOnly(); got != FormatRGB16 {
		t.Errorf("ColorOnly(RGBA16) = %v", got)
	}
	if got := FormatG4.ColorOnly(); got != FormatG4 {
		t.Errorf("ColorOnly(G4) = %v", got)
	}
	if got, ok := FormatRGB8.WithAlpha(); !ok || got != FormatRGBA8 {
		t.Errorf("WithAlpha(RGB8) = %v, %v", got, ok)
	}
	if _, ok := FormatIDX8.WithAlpha(); ok {
		t.Error("WithAlpha(IDX8) ok = true")
	}
	if got := MaxSample(4); got != 15 {
		t.Errorf("MaxSample(4) = %d", got)
	}
}
