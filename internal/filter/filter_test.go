package filter

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func randomRow(rng *rand.Rand, n int) []byte {
	row := make([]byte, n)
	for i := range row {
		row[i] = byte(rng.Intn(256))
	}
	return row
}

func TestFilterRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	tests := []struct {
		name string
		bpp  int
		n    int
	}{
		{"gray8", 1, 33},
		{"rgb8", 3, 48},
		{"rgba8", 4, 64},
		{"rgba16", 8, 80},
		{"short row", 4, 3},
	}

	for _, tt := range tests {
		for ft := None; ft < NumTypes; ft++ {
			t.Run(tt.name+"/"+ft.String(), func(t *testing.T) {
				prev := randomRow(rng, tt.n)
				cur := randomRow(rng, tt.n)
				for _, p := range [][]byte{nil, prev} {
					filtered := make([]byte, tt.n)
					if err := Filter(ft, filtered, cur, p, tt.bpp); err != nil {
						t.Fatalf("Filter() error = %v", err)
					}
					if err := Unfilter(ft, filtered, p, tt.bpp); err != nil {
						t.Fatalf("Unfilter() error = %v", err)
					}
					if !bytes.Equal(filtered, cur) {
						t.Errorf("Unfilter(Filter(row)) = %v, want %v", filtered, cur)
					}
				}
			})
		}
	}
}

func TestUnfilterKnownValues(t *testing.T) {
	tests := []struct {
		name string
		ft   Type
		cur  []byte
		prev []byte
		bpp  int
		want []byte
	}{
		{"sub", Sub, []byte{1, 1, 1, 1}, nil, 1, []byte{1, 2, 3, 4}},
		{"sub bpp2", Sub, []byte{1, 2, 1, 2}, nil, 2, []byte{1, 2, 2, 4}},
		{"up", Up, []byte{1, 2, 3}, []byte{10, 20, 30}, 1, []byte{11, 22, 33}},
		{"up first row", Up, []byte{1, 2, 3}, nil, 1, []byte{1, 2, 3}},
		{"average", Average, []byte{4, 4}, []byte{8, 8}, 1, []byte{8, 12}},
		{"paeth first row is sub", Paeth, []byte{5, 1, 1}, nil, 1, []byte{5, 6, 7}},
		{"sub wraps", Sub, []byte{200, 100}, nil, 1, []byte{200, 44}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := append([]byte(nil), tt.cur...)
			if err := Unfilter(tt.ft, row, tt.prev, tt.bpp); err != nil {
				t.Fatalf("Unfilter() error = %v", err)
			}
			if !bytes.Equal(row, tt.want) {
				t.Errorf("Unfilter() = %v, want %v", row, tt.want)
			}
		})
	}
}

func TestUnfilterErrors(t *testing.T) {
	if err := Unfilter(Type(5), make([]byte, 4), nil, 1); !errors.Is(err, ErrUnknownType) {
		t.Errorf("Unfilter(5) error = %v, want %v", err, ErrUnknownType)
	}
	if err := Unfilter(Up, make([]byte, 4), make([]byte, 3), 1); !errors.Is(err, ErrRowLength) {
		t.Errorf("Unfilter(short prev) error = %v, want %v", err, ErrRowLength)
	}
	if err := Filter(Sub, make([]byte, 3), make([]byte, 4), nil, 1); !errors.Is(err, ErrRowLength) {
		t.Errorf("Filter(short dst) error = %v, want %v", err, ErrRowLength)
	}
}

func TestPaeth(t *testing.T) {
	tests := []struct {
		a, b, c byte
		want    byte
	}{
		{0, 0, 0, 0},
		{10, 20, 10, 20},
		{20, 10, 10, 20},
		{10, 10, 20, 10},
		{255, 0, 0, 255},
		{100, 200, 150, 150},
	}
	for _, tt := range tests {
		if got := paeth(tt.a, tt.b, tt.c); got != tt.want {
			t.Errorf("paeth(%d, %d, %d) = %d, want %d", tt.a, tt.b, tt.c, got, tt.want)
		}
	}
}

func TestChoose(t *testing.T) {
	ramp := make([]byte, 32)
	for i := range ramp {
		ramp[i] = byte(i * 3)
	}
	if got := Choose(ramp, nil, 1, nil); got != Sub {
		t.Errorf("Choose(ramp) = %v, want Sub", got)
	}

	prev := randomRow(rand.New(rand.NewSource(1)), 32)
	if got := Choose(prev, prev, 1, make([]byte, 32)); got != Up {
		t.Errorf("Choose(row == prev) = %v, want Up", got)
	}

	if got := Choose(make([]byte, 16), nil, 1, nil); got != None {
		t.Errorf("Choose(zero row) = %v, want None", got)
	}
}

func TestTypeString(t *testing.T) {
	if got := Paeth.String(); got != "Paeth" {
		t.Errorf("Paeth.String() = %q", got)
	}
	if got := Type(9).String(); got != "Type(9)" {
		t.Errorf("Type(9).String() = %q", got)
	}
	if Type(4).IsValid() != true || Type(5).IsValid() != false {
		t.Error("IsValid() boundaries wrong")
	}
}
