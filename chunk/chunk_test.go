package chunk

import (
	"bytes"
	"errors"
	"testing"
)

func TestTagProperties(t *testing.T) {
	tests := []struct {
		tag                      Tag
		name                     string
		critical, public, copyOK bool
	}{
		{TagIHDR, "IHDR", true, true, false},
		{TagTEXT, "tEXt", false, true, true},
		{TagSRGB, "sRGB", false, true, false},
		{TagEVNT, "evNT", false, false, false},
		{TagMPNG, "mpNG", false, false, false},
		{TagPHYG, "pHYg", false, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tag.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.tag.Critical(); got != tt.critical {
				t.Errorf("Critical() = %v, want %v", got, tt.critical)
			}
			if got := tt.tag.Public(); got != tt.public {
				t.Errorf("Public() = %v, want %v", got, tt.public)
			}
			if got := tt.tag.SafeToCopy(); got != tt.copyOK {
				t.Errorf("SafeToCopy() = %v, want %v", got, tt.copyOK)
			}
			parsed, err := ParseTag(tt.name)
			if err != nil || parsed != tt.tag {
				t.Errorf("ParseTag(%q) = %v, %v", tt.name, parsed, err)
			}
		})
	}
}

func TestParseTagErrors(t *testing.T) {
	for _, s := range []string{"", "IHD", "IHDRX", "IH1R", "IH R"} {
		if _, err := ParseTag(s); !errors.Is(err, ErrBadField) {
			t.Errorf("ParseTag(%q) error = %v, want ErrBadField", s, err)
		}
	}
}

func TestDetectSignature(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want Signature
	}{
		{"mng", SigMNG.Magic(), SigMNG},
		{"png", SigPNG.Magic(), SigPNG},
		{"jng", SigJNG.Magic(), SigJNG},
		{"short", SigMNG.Magic()[:7], SigNone},
		{"garbage", []byte("GIF89a\x00\x00"), SigNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectSignature(tt.in); got != tt.want {
				t.Errorf("DetectSignature() = %v, want %v", got, tt.want)
			}
		})
	}
	if SigNone.Magic() != nil {
		t.Error("SigNone.Magic() should be nil")
	}
}

func TestCRC(t *testing.T) {
	// Well-known CRC of an empty IEND chunk.
	if got := CRC(TagIEND, nil); got != 0xAE426082 {
		t.Errorf("CRC(IEND) = %#x, want 0xae426082", got)
	}
	c := New(TagIEND, nil)
	if !c.Valid() {
		t.Error("New() produced an invalid CRC")
	}
	c.CRC ^= 1
	if c.Valid() {
		t.Error("Valid() accepted a corrupted CRC")
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, New(TagIEND, nil)); err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 0, 0, 0, 'I', 'E', 'N', 'D', 0xAE, 0x42, 0x60, 0x82}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("Write() = % x, want % x", buf.Bytes(), want)
	}

	buf.Reset()
	if err := WriteRecord(&buf, &ENDL{Nest: 2}); err != nil {
		t.Fatal(err)
	}
	if got := buf.Len(); got != 13 {
		t.Errorf("WriteRecord(ENDL) wrote %d bytes, want 13", got)
	}
}

func TestTagsRegistered(t *testing.T) {
	tags := Tags()
	if len(tags) != 54 {
		t.Errorf("len(Tags()) = %d, want 54", len(tags))
	}
	for i := 1; i < len(tags); i++ {
		if tags[i-1] >= tags[i] {
			t.Fatalf("Tags() not sorted at %d", i)
		}
	}
	if Known(Tag(0x76704167)) {
		t.Error("vpAg should not be registered")
	}
}
