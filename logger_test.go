package mng

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/mng/chunk"
	"github.com/gogpu/mng/cms"
)

// capture installs a debug-level text logger for the duration of the test.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func TestNopHandler(t *testing.T) {
	h := nopHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(context.Background(), level) {
			t.Errorf("Enabled(%v) = true", level)
		}
	}
	if err := h.Handle(context.Background(), slog.Record{}); err != nil {
		t.Errorf("Handle = %v", err)
	}
	derived := []struct {
		name string
		h    slog.Handler
	}{
		{"WithAttrs", h.WithAttrs([]slog.Attr{slog.String("component", "chunk")})},
		{"WithGroup", h.WithGroup("mng")},
	}
	for _, tt := range derived {
		if _, ok := tt.h.(nopHandler); !ok {
			t.Errorf("%s returned %T", tt.name, tt.h)
		}
	}
}

func TestDecoderLogging(t *testing.T) {
	png := encode(t, chunk.SigPNG, func(e *Encoder) error { return e.PutImage(solid(2, 2, red)) })

	t.Run("silent by default", func(t *testing.T) {
		if Logger().Enabled(context.Background(), slog.LevelError) {
			t.Fatal("default logger is enabled")
		}
		pushAll(t, png, len(png))
	})

	t.Run("lifecycle", func(t *testing.T) {
		buf := capture(t)
		pushAll(t, png, 5)
		out := buf.String()
		for _, want := range []string{"stream started", "stream complete", "component=decoder", "signature=PNG"} {
			if !strings.Contains(out, want) {
				t.Errorf("log output lacks %q:\n%s", want, out)
			}
		}
	})

	t.Run("logger bound at creation", func(t *testing.T) {
		before := NewDecoder()
		buf := capture(t)
		if _, err := before.Write(png); err != nil {
			t.Fatal(err)
		}
		if buf.Len() != 0 {
			t.Errorf("decoder created before SetLogger logged:\n%s", buf)
		}
	})

	t.Run("fatal error", func(t *testing.T) {
		buf := capture(t)
		d := NewDecoder()
		if _, err := d.Write([]byte("\x89PNX\r\n\x1a\n")); err == nil {
			t.Fatal("bad signature accepted")
		}
		out := buf.String()
		if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "stream halted") {
			t.Errorf("fatal error not logged at ERROR:\n%s", out)
		}
		if !strings.Contains(out, "kind=stream") {
			t.Errorf("log output lacks the error kind:\n%s", out)
		}
	})

	t.Run("nil restores silence", func(t *testing.T) {
		buf := capture(t)
		SetLogger(nil)
		pushAll(t, png, len(png))
		if buf.Len() != 0 {
			t.Errorf("output after SetLogger(nil):\n%s", buf)
		}
		if Logger() == nil {
			t.Error("Logger() = nil")
		}
	})
}

func TestSetLoggerPropagatesToCMS(t *testing.T) {
	buf := capture(t)
	in := cms.Profile{ICCName: "display", ICC: []byte{1, 2, 3}}
	if _, err := cms.NewGammaOnly().NewTransform(in, cms.Profile{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "ICC profile ignored") || !strings.Contains(out, "component=cms") {
		t.Errorf("cms log output = %q", out)
	}
}

func TestSetLoggerDuringDecode(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	data := animation(t, red, green, blue)

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 20 {
				SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
				SetLogger(nil)
			}
		})
		wg.Go(func() {
			d := NewDecoder()
			if _, err := d.Write(data); err != nil {
				t.Error(err)
				return
			}
			if err := d.Close(); err != nil {
				t.Error(err)
				return
			}
			for {
				f, err := d.Advance()
				if err != nil {
					t.Error(err)
					return
				}
				if f.Status == StatusDone || f.Status == StatusNeedData {
					return
				}
			}
		})
	}
	wg.Wait()
}
