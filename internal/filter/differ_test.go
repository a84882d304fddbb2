package filter

import (
	"bytes"
	"testing"
)

func TestDifferenceRoundTrip(t *testing.T) {
	tests := []struct {
		name                string
		colorType, bitDepth uint8
		row                 []byte
	}{
		{"rgb8", 2, 8, []byte{10, 200, 30, 255, 1, 128}},
		{"rgba8", 6, 8, []byte{10, 200, 30, 40, 0, 0, 0, 0}},
		{"rgb16", 2, 16, []byte{0x12, 0x34, 0xff, 0xee, 0x00, 0x01}},
		{"rgba16", 6, 16, []byte{1, 2, 3, 4, 5, 6, 7, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := append([]byte(nil), tt.row...)
			Difference(row, tt.colorType, tt.bitDepth)
			if bytes.Equal(row, tt.row) {
				t.Fatal("Difference() left row unchanged")
			}
			Undifference(row, tt.colorType, tt.bitDepth)
			if !bytes.Equal(row, tt.row) {
				t.Errorf("Undifference(Difference(row)) = %v, want %v", row, tt.row)
			}
		})
	}
}

func TestUndifferenceValues(t *testing.T) {
	row := []byte{5, 100, 250}
	Undifference(row, 2, 8)
	want := []byte{105, 100, 94}
	if !bytes.Equal(row, want) {
		t.Errorf("Undifference() = %v, want %v", row, want)
	}

	gray := []byte{1, 2, 3}
	Undifference(gray, 0, 8)
	if !bytes.Equal(gray, []byte{1, 2, 3}) {
		t.Errorf("Undifference(gray) modified row: %v", gray)
	}
}
