package codec

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestZlibRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("mng rows "), 500)
	for _, level := range []int{-1, 0, 1, 9} {
		z := Zlib{Level: level}
		packed, err := z.Deflate(data)
		if err != nil {
			t.Fatalf("Deflate(level %d) error = %v", level, err)
		}
		got, err := z.Inflate(packed)
		if err != nil {
			t.Fatalf("Inflate(level %d) error = %v", level, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("Inflate(Deflate(data)) differs at level %d", level)
		}
	}
}

func TestZlibLimit(t *testing.T) {
	packed, _ := DefaultZlib.Deflate(make([]byte, 1000))
	z := Zlib{Limit: 999}
	if _, err := z.Inflate(packed); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Inflate() error = %v, want %v", err, ErrTooLarge)
	}
	z.Limit = 1000
	if _, err := z.Inflate(packed); err != nil {
		t.Errorf("Inflate(at limit) error = %v", err)
	}
}

func TestZlibCorrupt(t *testing.T) {
	if _, err := DefaultZlib.Inflate([]byte{1, 2, 3}); err == nil {
		t.Error("Inflate(garbage) error = nil")
	}
}

func TestInflateRows(t *testing.T) {
	packed, _ := DeflateRows(nil, make([]byte, 10))
	tests := []struct {
		name    string
		want    int
		wantErr error
	}{
		{"exact", 10, nil},
		{"short", 11, ErrShortRows},
		{"extra data", 9, ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := InflateRows(nil, packed, tt.want)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("InflateRows(want %d) error = %v, want %v", tt.want, err, tt.wantErr)
			}
		})
	}
}

// plainInflater hides the LimitInflater method of Zlib.
type plainInflater struct{ z Zlib }

func (p plainInflater) Inflate(src []byte) ([]byte, error) { return p.z.Inflate(src) }

func TestInflateLimit(t *testing.T) {
	bomb, err := DefaultZlib.Deflate(make([]byte, 4<<20))
	if err != nil {
		t.Fatal(err)
	}
	inflaters := []struct {
		name string
		inf  Inflater
	}{
		{"zlib", DefaultZlib},
		{"plain", plainInflater{z: DefaultZlib}},
		{"nil", nil},
	}
	for _, tt := range inflaters {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := InflateLimit(tt.inf, bomb, 1024); !errors.Is(err, ErrTooLarge) {
				t.Errorf("InflateLimit(1 KiB) error = %v, want %v", err, ErrTooLarge)
			}
			out, err := InflateLimit(tt.inf, bomb, 4<<20)
			if err != nil || len(out) != 4<<20 {
				t.Errorf("InflateLimit(at size) = %d bytes, %v", len(out), err)
			}
		})
	}
	if _, ok := Inflater(plainInflater{}).(LimitInflater); ok {
		t.Fatal("plainInflater must not implement LimitInflater")
	}
	z := Zlib{Limit: 100}
	if _, err := z.InflateLimit(bomb, 4<<20); !errors.Is(err, ErrTooLarge) {
		t.Errorf("InflateLimit above Zlib.Limit error = %v, want %v", err, ErrTooLarge)
	}
}

func TestStdJPEG(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 16, 8))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	var j StdJPEG
	data, err := j.EncodeJPEG(img, 90)
	if err != nil {
		t.Fatalf("EncodeJPEG() error = %v", err)
	}
	back, err := j.DecodeJPEG(data)
	if err != nil {
		t.Fatalf("DecodeJPEG() error = %v", err)
	}
	if back.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v, want %v", back.Bounds(), img.Bounds())
	}
	g := color.GrayModel.Convert(back.At(3, 3)).(color.Gray)
	if g.Y < 120 || g.Y > 136 {
		t.Errorf("decoded gray = %d, want about 128", g.Y)
	}
	if _, err := j.DecodeJPEG([]byte("nope")); err == nil {
		t.Error("DecodeJPEG(garbage) error = nil")
	}
}
