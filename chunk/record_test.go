package chunk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"github.com/gogpu/mng/codec"
)

func TestRoundTrip(t *testing.T) {
	mng := Context{InMNG: true}
	header := func(ct uint8) Context { return Context{InMNG: true, HasHeader: true, ColorType: ct} }

	tests := []struct {
		name string
		rec  Record
		ctx  Context
	}{
		{"IHDR", &IHDR{Width: 16, Height: 8, BitDepth: 8, ColorType: 6}, mng},
		{"IHDR intrapixel", &IHDR{Width: 1, Height: 1, BitDepth: 16, ColorType: 2, Filter: FilterIntrapixel, Interlace: 1}, mng},
		{"PLTE", &PLTE{Entries: [][3]uint8{{1, 2, 3}, {4, 5, 6}}}, mng},
		{"PLTE empty", &PLTE{}, mng},
		{"IDAT", &IDAT{Data: []byte{1, 2, 3}}, mng},
		{"IEND", &IEND{}, mng},
		{"tRNS gray", &TRNS{Kind: TRNSGray, Gray: 7}, header(0)},
		{"tRNS rgb", &TRNS{Kind: TRNSRGB, Red: 1, Green: 2, Blue: 3}, header(2)},
		{"tRNS indexed", &TRNS{Kind: TRNSIndexed, Alpha: []uint8{0, 128}}, header(3)},
		{"tRNS raw", &TRNS{Kind: TRNSRaw, Raw: []byte{1, 2}}, mng},
		{"gAMA", &GAMA{Gamma: 45455}, mng},
		{"gAMA empty", &GAMA{Empty: true}, mng},
		{"cHRM", &CHRM{WhiteX: 31270, WhiteY: 32900, RedX: 64000, RedY: 33000, GreenX: 30000, GreenY: 60000, BlueX: 15000, BlueY: 6000}, mng},
		{"sRGB", &SRGB{Intent: 2}, mng},
		{"iCCP", &ICCP{Name: "display", Profile: []byte("fake profile bytes")}, mng},
		{"tEXt", &TEXT{Keyword: "Title", Text: "café"}, mng},
		{"zTXt", &ZTXT{Keyword: "Comment", Text: "compressed text compressed text"}, mng},
		{"iTXt", &ITXT{Keyword: "Title", Compressed: true, Language: "de", Translated: "Titel", Text: "grüß ✓"}, mng},
		{"iTXt plain", &ITXT{Keyword: "Author", Text: "x"}, mng},
		{"bKGD rgb", &BKGD{Kind: BKGDRGB, Red: 1, Green: 2, Blue: 3}, mng},
		{"bKGD index", &BKGD{Kind: BKGDIndex, Index: 4}, header(3)},
		{"bKGD gray", &BKGD{Kind: BKGDGray, Gray: 9}, header(4)},
		{"pHYs", &PHYS{X: 2835, Y: 2835, Unit: 1}, mng},
		{"sBIT", &SBIT{Bits: []uint8{5, 6, 5}}, header(2)},
		{"sPLT 8", &SPLT{Name: "web", Depth: 8, Entries: []SPLTEntry{{Red: 1, Green: 2, Blue: 3, Alpha: 255, Frequency: 9}}}, mng},
		{"sPLT 16", &SPLT{Name: "deep", Depth: 16, Entries: []SPLTEntry{{Red: 1000, Green: 2000, Blue: 3000, Alpha: 65535}}}, mng},
		{"hIST", &HIST{Frequency: []uint16{1, 2, 3}}, mng},
		{"tIME", &TIME{Year: 2024, Month: 5, Day: 17, Hour: 12, Minute: 30, Second: 15}, mng},

		{"MHDR", &MHDR{Width: 64, Height: 32, TicksPerSec: 100, Layers: 3, Frames: 2, PlayTime: 40, Profile: ProfileValid | ProfileDeltaPNG}, mng},
		{"MEND", &MEND{}, mng},
		{"LOOP short", &LOOP{Nest: 1, Count: 3, Min: 1, Max: Infinite}, mng},
		{"LOOP full", &LOOP{Count: Infinite, Termination: TermExternal, Min: 2, Max: 10, Signals: []uint32{7, 8}}, mng},
		{"ENDL", &ENDL{Nest: 1}, mng},
		{"DEFI", &DEFI{ID: 5, X: -3, Y: 4}, mng},
		{"DEFI clip", &DEFI{ID: 1, DoNotShow: 1, Concrete: 1, HasClip: true, Clip: Box{Left: 0, Right: 10, Top: -1, Bottom: 5}}, mng},
		{"BASI", &BASI{Width: 4, Height: 4, BitDepth: 8, ColorType: 2, Red: 10, Alpha: 255}, mng},
		{"BASI viewable", &BASI{Width: 4, Height: 4, BitDepth: 16, ColorType: 6, Alpha: 1, Viewable: 1}, mng},
		{"CLON", &CLON{Source: 1, Clone: 2, Type: ClonePartial}, mng},
		{"CLON location", &CLON{Source: 1, Clone: 3, HasLocation: true, LocDelta: 1, X: 5, Y: -5}, mng},
		{"PAST", &PAST{Dest: 1, X: 2, Y: 3, Sources: []PASTSource{
			{Source: 2, Composition: 1, Orientation: 4, X: 1, Y: 1, BoundaryOrigin: 1, Boundary: Box{Right: 10, Bottom: 10}},
			{Source: 3, Orientation: 8},
		}}, mng},
		{"DISC", &DISC{IDs: []uint16{1, 2}}, mng},
		{"DISC all", &DISC{}, mng},
		{"BACK", &BACK{Red: 0xffff, Mandatory: 1}, mng},
		{"BACK tile", &BACK{Image: 3, Tile: 1}, mng},
		{"FRAM empty", &FRAM{}, mng},
		{"FRAM name", &FRAM{Mode: 3, Name: "intro"}, mng},
		{"FRAM changes", &FRAM{Mode: 1, ChangeDelay: ChangeDefault, Delay: 5, ChangeClip: ChangeNext, Clip: Box{Right: 8, Bottom: 8}, ChangeSync: ChangeNext, SyncIDs: []uint32{9}}, mng},
		{"FRAM timeout", &FRAM{Mode: 0, ChangeTimeout: 1, Timeout: Infinite}, mng},
		{"MOVE", &MOVE{First: 1, Last: 4, Type: 1, X: -2, Y: 2}, mng},
		{"CLIP", &CLIP{First: 1, Last: 1, Box: Box{Right: 4, Bottom: 4}}, mng},
		{"SHOW default", &SHOW{First: 1, Last: 0xffff}, mng},
		{"SHOW single", &SHOW{First: 4, Last: 4}, mng},
		{"SHOW range", &SHOW{First: 3, Last: 7}, mng},
		{"SHOW mode", &SHOW{First: 3, Last: 3, Mode: 2}, mng},
		{"TERM", &TERM{Action: TermClear}, mng},
		{"TERM repeat", &TERM{Action: TermRepeat, After: 1, Delay: 10, Max: Infinite}, mng},
		{"SAVE empty", &SAVE{}, mng},
		{"SAVE entries", &SAVE{OffsetSize: 4, Entries: []SAVEEntry{
			{Type: SaveSegment, Offset: 100, Time: 5, Layer: 1, Frame: 2, Name: "seg"},
			{Type: SaveSubframe},
		}}, mng},
		{"SAVE 64-bit", &SAVE{OffsetSize: 8, Entries: []SAVEEntry{{Offset: 1 << 40, Time: 3, Name: "big"}}}, mng},
		{"SEEK", &SEEK{Name: "seg"}, mng},
		{"SEEK unnamed", &SEEK{}, mng},
		{"eXPI", &EXPI{Snapshot: 3, Name: "snap"}, mng},
		{"fPRI", &FPRI{Delta: 1, Priority: 7}, mng},
		{"nEED", &NEED{Keywords: []string{"CACHEOFF", "MNG-1.0"}}, mng},
		{"pHYg", &PHYG{X: 1, Y: 1}, mng},
		{"DHDR", &DHDR{Object: 1, ImageType: DeltaImagePNG, DeltaType: DeltaBlockReplace, BlockWidth: 2, BlockHeight: 2, X: 1, Y: 1}, mng},
		{"DHDR short", &DHDR{Object: 2, DeltaType: DeltaNoChange}, mng},
		{"PROM", &PROM{ColorType: 6, BitDepth: 16}, mng},
		{"IPNG", &IPNG{}, mng},
		{"IJNG", &IJNG{}, mng},
		{"PPLT", &PPLT{Type: PPLTReplaceRGB, Groups: []PPLTGroup{{First: 0, Last: 1, Samples: []uint8{1, 2, 3, 4, 5, 6}}}}, mng},
		{"PPLT alpha", &PPLT{Type: PPLTDeltaA, Groups: []PPLTGroup{{First: 2, Last: 2, Samples: []uint8{9}}, {First: 5, Last: 6, Samples: []uint8{1, 2}}}}, mng},
		{"DROP", &DROP{Tags: []Tag{TagTEXT, TagZTXT}}, mng},
		{"DBYK", &DBYK{ChunkTag: TagTEXT, Keywords: []string{"Author", "Title"}}, mng},
		{"ORDR", &ORDR{Entries: []ORDREntry{{ChunkTag: TagTEXT, Order: 1}}}, mng},
		{"MAGN default", &MAGN{MX: 1, MY: 1, ML: 1, MR: 1, MT: 1, MB: 1}, mng},
		{"MAGN uniform", &MAGN{First: 1, Last: 1, XMethod: 1, MX: 2, MY: 2, ML: 2, MR: 2, MT: 2, MB: 2, YMethod: 1}, mng},
		{"MAGN full", &MAGN{First: 1, Last: 9, XMethod: 2, MX: 3, MY: 4, ML: 1, MR: 2, MT: 5, MB: 6, YMethod: 3}, mng},
		{"evNT", &EVNT{Entries: []EventEntry{
			{Type: 1, Name: "start"},
			{Type: 2, Mask: EventMaskBoxObject, Box: Box{Right: 5, Bottom: 5}, Object: 3, Name: "click"},
		}}, mng},
		{"mpNG", &MPNG{FrameWidth: 4, FrameHeight: 4, NumPlays: 0, TickRate: 10, Frames: []MPNGFrame{{Width: 4, Height: 4, Ticks: 1}, {X: 4, Width: 4, Height: 4, XOffset: -1, Ticks: 2}}}, mng},
		{"JHDR", &JHDR{Width: 8, Height: 8, ColorType: JNGColorA, SampleDepth: 8, Compression: 8, AlphaDepth: 8}, mng},
		{"JHDR gray", &JHDR{Width: 8, Height: 8, ColorType: JNGGray, SampleDepth: 8, Compression: 8, Interlace: 8}, mng},
		{"JDAT", &JDAT{Data: []byte{0xff, 0xd8}}, mng},
		{"JDAA", &JDAA{Data: []byte{0xff, 0xd8}}, mng},
		{"JSEP", &JSEP{}, mng},
		{"unknown", &Unknown{ChunkTag: Tag(0x76704167), Data: []byte{1, 2}}, mng},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Encode(tt.rec)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if c.Tag != tt.rec.Tag() || !c.Valid() {
				t.Fatalf("Encode() produced tag %s valid=%v", c.Tag, c.Valid())
			}
			got, err := Decode(c, tt.ctx)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.rec) {
				t.Errorf("Decode(Encode(r)) = %+v, want %+v", got, tt.rec)
			}
		})
	}
}

func be32(v uint32) []byte { return binary.BigEndian.AppendUint32(nil, v) }

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func ihdr(w, h uint32, depth, ct, filter uint8) []byte {
	return cat(be32(w), be32(h), []byte{depth, ct, 0, filter, 0})
}

func TestPixelBudget(t *testing.T) {
	ctx := Context{InMNG: true, MaxPixels: 100}
	tests := []struct {
		name string
		tag  Tag
		data []byte
	}{
		{"IHDR at budget", TagIHDR, ihdr(10, 10, 8, 0, 0)},
		{"MHDR unspecified size", TagMHDR, make([]byte, 28)},
		{"DHDR without block", TagDHDR, []byte{0, 1, 0, 0}},
	}
	for _, tt := range tests {
		if _, err := Decode(New(tt.tag, tt.data), ctx); err != nil {
			t.Errorf("%s: Decode() error = %v", tt.name, err)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	png := Context{}
	mng := Context{InMNG: true}

	tests := []struct {
		name string
		tag  Tag
		data []byte
		ctx  Context
		want error
	}{
		{"unknown critical", Tag(0x41424344), nil, mng, ErrUnknownCritical},
		{"IHDR depth", TagIHDR, ihdr(1, 1, 4, 2, 0), png, ErrBadField},
		{"IHDR zero width", TagIHDR, ihdr(0, 1, 8, 0, 0), png, ErrBadField},
		{"IHDR too wide", TagIHDR, ihdr(200, 1, 8, 0, 0), Context{MaxWidth: 100}, ErrBadField},
		{"IHDR over pixel budget", TagIHDR, ihdr(0x7fffffff, 0x7fffffff, 16, 6, 0), Context{MaxPixels: 1 << 20}, ErrImageSize},
		{"MHDR over pixel budget", TagMHDR, cat(be32(2000), be32(1000), make([]byte, 20)), Context{InMNG: true, MaxPixels: 1 << 20}, ErrImageSize},
		{"DHDR block over pixel budget", TagDHDR, cat([]byte{0, 1, 0, 4}, be32(1<<16), be32(1<<16)), Context{InMNG: true, MaxPixels: 1 << 20}, ErrImageSize},
		{"IHDR filter 64 in PNG", TagIHDR, ihdr(1, 1, 8, 2, 64), png, ErrBadField},
		{"IHDR filter 64 gray", TagIHDR, ihdr(1, 1, 8, 0, 64), mng, ErrBadField},
		{"IHDR length", TagIHDR, make([]byte, 12), png, ErrBadLength},
		{"IEND payload", TagIEND, []byte{0}, png, ErrBadLength},
		{"PLTE empty in PNG", TagPLTE, nil, png, ErrBadLength},
		{"PLTE ragged", TagPLTE, []byte{1, 2}, png, ErrBadLength},
		{"PLTE for gray", TagPLTE, []byte{1, 2, 3}, Context{HasHeader: true, ColorType: 0}, ErrBadField},
		{"tRNS for rgba", TagTRNS, []byte{1, 2}, Context{HasHeader: true, ColorType: 6}, ErrBadField},
		{"tRNS gray length", TagTRNS, []byte{1, 2, 3}, Context{HasHeader: true, ColorType: 0}, ErrBadLength},
		{"gAMA zero", TagGAMA, be32(0), png, ErrBadField},
		{"sRGB intent", TagSRGB, []byte{4}, png, ErrBadField},
		{"zTXt corrupt", TagZTXT, cat([]byte("k\x00\x00"), []byte{1, 2, 3}), png, ErrCompressed},
		{"tEXt keyword", TagTEXT, []byte("\x00text"), png, ErrBadField},
		{"tEXt no separator", TagTEXT, []byte("keyword"), png, ErrBadLength},
		{"hIST odd", TagHIST, []byte{1, 2, 3}, png, ErrEntryCount},
		{"sPLT entries", TagSPLT, cat([]byte("p\x00\x08"), make([]byte, 7)), png, ErrEntryCount},
		{"tIME month", TagTIME, []byte{7, 232, 13, 1, 0, 0, 0}, png, ErrBadField},
		{"PAST short", TagPAST, make([]byte, 40), mng, ErrEntryCount},
		{"PAST ragged", TagPAST, make([]byte, 11+30+1), mng, ErrEntryCount},
		{"DISC odd", TagDISC, []byte{0, 1, 2}, mng, ErrEntryCount},
		{"DROP ragged", TagDROP, []byte("tEXtzT"), mng, ErrEntryCount},
		{"ORDR ragged", TagORDR, []byte("tEXt\x01iT"), mng, ErrEntryCount},
		{"PPLT truncated", TagPPLT, []byte{0, 0, 1, 1, 2, 3}, mng, ErrEntryCount},
		{"PPLT reversed", TagPPLT, []byte{2, 5, 4, 0}, mng, ErrBadField},
		{"SHOW length", TagSHOW, []byte{0, 1, 0}, mng, ErrBadLength},
		{"SHOW mode", TagSHOW, []byte{0, 1, 0, 1, 8}, mng, ErrBadField},
		{"MAGN length", TagMAGN, []byte{0, 1, 0}, mng, ErrBadLength},
		{"MAGN zero factor", TagMAGN, []byte{0, 1, 0, 1, 1, 0, 0}, mng, ErrBadField},
		{"TERM repeat short", TagTERM, []byte{3}, mng, ErrBadLength},
		{"LOOP length", TagLOOP, make([]byte, 7), mng, ErrBadLength},
		{"FRAM mode", TagFRAM, []byte{5}, mng, ErrBadField},
		{"FRAM flags", TagFRAM, []byte{1, 0, 1}, mng, ErrBadLength},
		{"FRAM delay", TagFRAM, []byte{1, 0, 1, 0, 0, 0, 0, 0}, mng, ErrBadLength},
		{"SAVE offset size", TagSAVE, []byte{5}, mng, ErrBadField},
		{"SAVE segment", TagSAVE, []byte{4, 0, 0, 0}, mng, ErrEntryCount},
		{"CLON type", TagCLON, []byte{0, 1, 0, 2, 3}, mng, ErrBadField},
		{"PROM depth", TagPROM, []byte{2, 4, 0}, mng, ErrBadField},
		{"DHDR type", TagDHDR, []byte{0, 1, 1, 8}, mng, ErrBadField},
		{"JHDR color", TagJHDR, cat(be32(1), be32(1), []byte{9, 8, 8, 0, 0, 0, 0, 0}), mng, ErrBadField},
		{"JHDR stray alpha", TagJHDR, cat(be32(1), be32(1), []byte{8, 8, 8, 0, 8, 0, 0, 0}), mng, ErrBadField},
		{"mpNG frames", TagMPNG, cat(be32(1), be32(1), []byte{0, 0, 0, 1, 0}, mustDeflate(t, make([]byte, 25))), mng, ErrEntryCount},
		{"nEED empty", TagNEED, nil, mng, ErrBadLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(Chunk{Tag: tt.tag, Data: tt.data}, tt.ctx)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Decode() error = %v, want %v", err, tt.want)
			}
			var ce *Error
			if !errors.As(err, &ce) || ce.Tag != tt.tag {
				t.Errorf("error %v does not carry tag %s", err, tt.tag)
			}
		})
	}
}

func mustDeflate(t *testing.T, b []byte) []byte {
	t.Helper()
	z, err := deflate(TagMPNG, b)
	if err != nil {
		t.Fatal(err)
	}
	return z
}

func TestInflatedFieldLimit(t *testing.T) {
	bomb := mustDeflate(t, bytes.Repeat([]byte{'a'}, MaxInflated+1))
	tests := []struct {
		name string
		tag  Tag
		data []byte
	}{
		{"zTXt", TagZTXT, cat([]byte("k\x00\x00"), bomb)},
		{"iTXt", TagITXT, cat([]byte("k\x00\x01\x00\x00\x00"), bomb)},
		{"iCCP", TagICCP, cat([]byte("p\x00\x00"), bomb)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(New(tt.tag, tt.data), Context{})
			if !errors.Is(err, ErrCompressed) || !errors.Is(err, codec.ErrTooLarge) {
				t.Errorf("Decode() error = %v, want ErrCompressed and codec.ErrTooLarge", err)
			}
		})
	}
	text := mustDeflate(t, bytes.Repeat([]byte{'a'}, 1000))
	r, err := Decode(New(TagZTXT, cat([]byte("k\x00\x00"), text)), Context{})
	if err != nil {
		t.Fatalf("Decode(small zTXt) error = %v", err)
	}
	if got := r.(*ZTXT).Text; len(got) != 1000 {
		t.Errorf("zTXt text has %d bytes, want 1000", len(got))
	}
}

func TestUnknownAncillary(t *testing.T) {
	tag, err := ParseTag("prVt")
	if err != nil {
		t.Fatal(err)
	}
	r, err := Decode(New(tag, []byte("opaque")), Context{})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	u, ok := r.(*Unknown)
	if !ok {
		t.Fatalf("Decode() = %T, want *Unknown", r)
	}
	if u.Tag() != tag || string(u.Data) != "opaque" {
		t.Errorf("Unknown = %+v", u)
	}
	if _, err := Encode(&Unknown{ChunkTag: TagIHDR}); err == nil {
		t.Error("Encode accepted a registered tag as Unknown")
	}
}

func TestDefaults(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
		data []byte
		want Record
	}{
		{"LOOP", TagLOOP, []byte{0, 0, 0, 0, 3}, &LOOP{Count: 3, Min: 1, Max: Infinite}},
		{"SHOW empty", TagSHOW, nil, &SHOW{First: 1, Last: 0xffff}},
		{"SHOW first", TagSHOW, []byte{0, 7}, &SHOW{First: 7, Last: 7}},
		{"DEFI", TagDEFI, []byte{0, 2}, &DEFI{ID: 2}},
		{"BASI", TagBASI, cat(be32(2), be32(2), []byte{4, 0, 0, 0, 0}), &BASI{Width: 2, Height: 2, BitDepth: 4, Alpha: 15}},
		{"MAGN x only", TagMAGN, []byte{0, 1, 0, 2, 1, 0, 3}, &MAGN{First: 1, Last: 2, XMethod: 1, MX: 3, MY: 3, ML: 3, MR: 3, MT: 3, MB: 3, YMethod: 1}},
		{"MAGN y factor", TagMAGN, []byte{0, 1, 0, 1, 2, 0, 2, 0, 4}, &MAGN{First: 1, Last: 1, XMethod: 2, MX: 2, MY: 4, ML: 2, MR: 2, MT: 4, MB: 4, YMethod: 2}},
		{"MAGN empty", TagMAGN, nil, &MAGN{MX: 1, MY: 1, ML: 1, MR: 1, MT: 1, MB: 1}},
		{"TERM", TagTERM, []byte{2}, &TERM{Action: TermShowFirst}},
		{"FRAM mode only", TagFRAM, []byte{4}, &FRAM{Mode: 4}},
		{"DHDR", TagDHDR, []byte{0, 3, 1, 0}, &DHDR{Object: 3, ImageType: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(Chunk{Tag: tt.tag, Data: tt.data}, Context{InMNG: true})
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestShortestEncoding(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want int
	}{
		{"LOOP", &LOOP{Count: 1, Min: 1, Max: Infinite}, 5},
		{"LOOP termination", &LOOP{Count: 1, Termination: 1, Min: 1, Max: Infinite}, 6},
		{"DEFI", &DEFI{ID: 1}, 2},
		{"DEFI location", &DEFI{ID: 1, X: 1}, 12},
		{"SHOW", &SHOW{First: 1, Last: 0xffff}, 0},
		{"MAGN", &MAGN{First: 1, Last: 1, MX: 1, MY: 1, ML: 1, MR: 1, MT: 1, MB: 1}, 2},
		{"MAGN factor", &MAGN{First: 1, Last: 1, XMethod: 1, MX: 2, MY: 2, ML: 2, MR: 2, MT: 2, MB: 2, YMethod: 1}, 7},
		{"TERM", &TERM{}, 1},
		{"BASI", &BASI{Width: 1, Height: 1, BitDepth: 8, Alpha: 255}, 13},
		{"FRAM", &FRAM{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Encode(tt.rec)
			if err != nil {
				t.Fatal(err)
			}
			if len(c.Data) != tt.want {
				t.Errorf("len(Encode().Data) = %d, want %d", len(c.Data), tt.want)
			}
		})
	}
}

func TestTextLatin1(t *testing.T) {
	c := New(TagTEXT, []byte("Author\x00Jos\xe9"))
	r, err := Decode(c, Context{})
	if err != nil {
		t.Fatal(err)
	}
	text := r.(Text)
	if k, v := text.KeywordText(); k != "Author" || v != "José" {
		t.Errorf("KeywordText() = %q, %q", k, v)
	}
	if _, err := Encode(&TEXT{Keyword: "Title", Text: "✓"}); !errors.Is(err, ErrBadField) {
		t.Errorf("Encode() of non-Latin-1 text error = %v, want ErrBadField", err)
	}
}

func TestContextDependentLayouts(t *testing.T) {
	raw := []byte{0, 5}
	r, err := Decode(New(TagTRNS, raw), Context{})
	if err != nil {
		t.Fatal(err)
	}
	if tr := r.(*TRNS); tr.Kind != TRNSRaw || string(tr.Raw) != string(raw) {
		t.Errorf("headerless tRNS = %+v", tr)
	}
	r, err = Decode(New(TagTRNS, raw), Context{HasHeader: true, ColorType: 3})
	if err != nil {
		t.Fatal(err)
	}
	if tr := r.(*TRNS); tr.Kind != TRNSIndexed || len(tr.Alpha) != 2 {
		t.Errorf("indexed tRNS = %+v", tr)
	}
	if _, err := Decode(New(TagSBIT, []byte{8, 8}), Context{HasHeader: true, ColorType: 6}); !errors.Is(err, ErrBadLength) {
		t.Errorf("sBIT with wrong channel count error = %v", err)
	}
}
