package image

import (
	"errors"
	"testing"
)

func TestApplyDeltaReplaceThenXOR(t *testing.T) {
	for _, f := range []Format{FormatG4, FormatRGB8, FormatRGBA16, FormatIDX8} {
		t.Run(f.String(), func(t *testing.T) {
			orig, _ := NewImageBuf(4, 3, f)
			for i := range orig.Data() {
				orig.Data()[i] = byte(i*7) & byte(f.MaxSample())
			}
			block, _ := NewImageBuf(2, 2, f)
			for i := range block.Data() {
				block.Data()[i] = byte(i*13+1) & byte(f.MaxSample())
			}

			dst := orig.Clone()
			if err := ApplyDelta(dst, block, 1, 1, OpReplace, ChannelsAll); err != nil {
				t.Fatalf("ApplyDelta(replace) error = %v", err)
			}
			for by := range 2 {
				for bx := range 2 {
					for c := range f.Channels() {
						if dst.Sample(1+bx, 1+by, c) != block.Sample(bx, by, c) {
							t.Fatalf("replace did not copy block at (%d,%d)", bx, by)
						}
					}
				}
			}
			if dst.Sample(0, 0, 0) != orig.Sample(0, 0, 0) {
				t.Error("replace modified pixels outside the block")
			}

			if err := ApplyDelta(dst, block, 1, 1, OpXOR, ChannelsAll); err != nil {
				t.Fatalf("ApplyDelta(xor) error = %v", err)
			}
			for by := range 2 {
				for bx := range 2 {
					for c := range f.Channels() {
						if v := dst.Sample(1+bx, 1+by, c); v != 0 {
							t.Fatalf("replace then xor left %d at (%d,%d)", v, bx, by)
						}
					}
				}
			}
		})
	}
}

func TestApplyDeltaAddWraps(t *testing.T) {
	dst := row8(t, FormatG8, 250, 10)
	block := row8(t, FormatG8, 10, 10)
	if err := ApplyDelta(dst, block, 0, 0, OpAdd, ChannelsAll); err != nil {
		t.Fatalf("ApplyDelta() error = %v", err)
	}
	if dst.Data()[0] != 4 || dst.Data()[1] != 20 {
		t.Errorf("add = %v, want [4 20]", dst.Data())
	}

	dst4 := row8(t, FormatG4, 15)
	block4 := row8(t, FormatG4, 2)
	_ = ApplyDelta(dst4, block4, 0, 0, OpAdd, ChannelsAll)
	if dst4.Data()[0] != 1 {
		t.Errorf("4-bit add = %d, want 1", dst4.Data()[0])
	}
}

func TestApplyDeltaChannels(t *testing.T) {
	dst := row8(t, FormatRGBA8, 1, 2, 3, 4)
	color := row8(t, FormatRGB8, 10, 20, 30)
	if err := ApplyDelta(dst, color, 0, 0, OpAdd, ChannelsColor); err != nil {
		t.Fatalf("ApplyDelta(color) error = %v", err)
	}
	alpha := row8(t, FormatG8, 100)
	if err := ApplyDelta(dst, alpha, 0, 0, OpReplace, ChannelsAlpha); err != nil {
		t.Fatalf("ApplyDelta(alpha) error = %v", err)
	}
	want := []byte{11, 22, 33, 100}
	for i, v := range want {
		if dst.Data()[i] != v {
			t.Fatalf("ApplyDelta() = %v, want %v", dst.Data(), want)
		}
	}
}

func TestApplyDeltaErrors(t *testing.T) {
	dst, _ := NewImageBuf(4, 4, FormatRGB8)
	block, _ := NewImageBuf(2, 2, FormatRGB8)
	tests := []struct {
		name    string
		block   *ImageBuf
		x, y    int
		ch      Channels
		wantErr error
	}{
		{"overflow right", block, 3, 0, ChannelsAll, ErrDeltaBounds},
		{"negative", block, -1, 0, ChannelsAll, ErrDeltaBounds},
		{"format mismatch", row8(t, FormatG8, 1), 0, 0, ChannelsAll, ErrDeltaFormat},
		{"alpha on opaque", row8(t, FormatG8, 1), 0, 0, ChannelsAlpha, ErrDeltaFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ApplyDelta(dst, tt.block, tt.x, tt.y, OpReplace, tt.ch); !errors.Is(err, tt.wantErr) {
				t.Errorf("ApplyDelta() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
