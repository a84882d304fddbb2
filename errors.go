package mng

import (
	"errors"
	"fmt"

	"github.com/gogpu/mng/chunk"
	"github.com/gogpu/mng/codec"
	"github.com/gogpu/mng/internal/image"
	"github.com/gogpu/mng/internal/object"
	"github.com/gogpu/mng/internal/reader"
)

// Errors reported by a Decoder. Chunk-level sentinels live in package
// chunk (chunk.ErrBadCRC, chunk.ErrUnknownCritical, ...). Match them with
// errors.Is.
var (
	// ErrBadSignature means the stream does not start with a PNG, MNG or
	// JNG signature.
	ErrBadSignature = reader.ErrBadSignature

	// ErrTruncated means the input ended inside a chunk or before the
	// final IEND or MEND.
	ErrTruncated = errors.New("mng: truncated stream")

	// ErrChunkOrder means a chunk appeared where the format forbids it.
	ErrChunkOrder = errors.New("mng: chunk out of order")

	// ErrUnsupported means an nEED chunk requires a feature this decoder
	// lacks.
	ErrUnsupported = errors.New("mng: unsupported required feature")

	// ErrSuspend may be returned by a pull source to make the decoder
	// report StatusNeedData instead of waiting.
	ErrSuspend = reader.ErrSuspend

	// ErrClosed is returned by Write after Close.
	ErrClosed = errors.New("mng: decoder closed")

	// ErrUnknownObject means a chunk referred to an object that was never
	// defined or has been discarded.
	ErrUnknownObject = object.ErrUnknownObject

	// ErrBadPromotion means a PROM or PAST would lower the precision of an
	// object.
	ErrBadPromotion = object.ErrBadPromotion

	// ErrDeltaBounds means a delta block does not fit its target.
	ErrDeltaBounds = image.ErrDeltaBounds

	// ErrDeltaFormat means a delta block does not match the color type of
	// its target.
	ErrDeltaFormat = image.ErrDeltaFormat
)

// Kind is the error taxonomy class.
type Kind uint8

const (
	KindStream Kind = iota + 1
	KindChunk
	KindObject
	KindDelta
	KindCodec
)

func (k Kind) String() string {
	switch k {
	case KindStream:
		return "stream"
	case KindChunk:
		return "chunk"
	case KindObject:
		return "object"
	case KindDelta:
		return "delta"
	case KindCodec:
		return "codec"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Severity tells what the decoder did after an error.
type Severity uint8

const (
	// SeverityWarning errors were skipped; decoding continued.
	SeverityWarning Severity = iota + 1
	// SeverityStep errors aborted one animation step.
	SeverityStep
	// SeverityFatal errors halted the stream. Frames already rendered
	// stay on the canvas.
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityStep:
		return "step"
	case SeverityFatal:
		return "fatal"
	}
	return fmt.Sprintf("Severity(%d)", uint8(s))
}

// Code is a stable numeric error identifier for diagnostics. The hundreds
// digit follows Kind.
type Code uint16

const (
	CodeBadSignature    Code = 101
	CodeTruncated       Code = 102
	CodeChunkOrder      Code = 103
	CodeUnsupported     Code = 104
	CodeSource          Code = 105
	CodeCRC             Code = 201
	CodeLength          Code = 202
	CodeUnknownCritical Code = 203
	CodeBadField        Code = 204
	CodeEntryCount      Code = 205
	CodeTooLarge        Code = 206
	CodeImageSize       Code = 207
	CodeUnknownObject   Code = 301
	CodeBadPromotion    Code = 302
	CodeFrozen          Code = 303
	CodeMagnify         Code = 304
	CodeBufferSize      Code = 305
	CodeDeltaBounds     Code = 401
	CodeDeltaFormat     Code = 402
	CodeInflate         Code = 501
	CodeJPEG            Code = 502
	CodeColor           Code = 503
	CodeRowData         Code = 504
)

// Error is a classified decoder error. Every Error is handed to
// Config.OnError and logged before the decoder decides whether to halt.
type Error struct {
	Kind     Kind
	Code     Code
	Severity Severity

	// Op names the stage that failed ("read", "decode IHDR", "delta", ...).
	Op string

	// Tag is the chunk being processed, zero when not applicable.
	Tag chunk.Tag

	// Object is the object id involved; HasObject reports whether it is
	// meaningful.
	Object    uint16
	HasObject bool

	// Offset is the stream offset of the chunk, -1 when unknown.
	Offset int64

	Err error
}

func (e *Error) Error() string {
	msg := "mng: " + e.Op
	if e.Tag != 0 {
		msg += " " + e.Tag.String()
	}
	if e.HasObject {
		msg += fmt.Sprintf(" object %d", e.Object)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// codeRule maps a sentinel to its classification. Rules are tried in
// order; the first match wins.
type codeRule struct {
	err  error
	kind Kind
	code Code
}

var codeRules = []codeRule{
	{ErrBadSignature, KindStream, CodeBadSignature},
	{ErrTruncated, KindStream, CodeTruncated},
	{ErrChunkOrder, KindStream, CodeChunkOrder},
	{ErrUnsupported, KindStream, CodeUnsupported},
	{chunk.ErrBadCRC, KindChunk, CodeCRC},
	{chunk.ErrUnknownCritical, KindChunk, CodeUnknownCritical},
	{chunk.ErrCompressed, KindCodec, CodeInflate},
	{codec.ErrTooLarge, KindCodec, CodeInflate},
	{chunk.ErrTooLarge, KindChunk, CodeTooLarge},
	{chunk.ErrEntryCount, KindChunk, CodeEntryCount},
	{chunk.ErrBadLength, KindChunk, CodeLength},
	{chunk.ErrBadField, KindChunk, CodeBadField},
	{chunk.ErrImageSize, KindChunk, CodeImageSize},
	{object.ErrUnknownObject, KindObject, CodeUnknownObject},
	{object.ErrBadPromotion, KindObject, CodeBadPromotion},
	{object.ErrFrozen, KindObject, CodeFrozen},
	{image.ErrBadMagnify, KindObject, CodeMagnify},
	{image.ErrInvalidDimensions, KindObject, CodeBufferSize},
	{image.ErrDeltaBounds, KindDelta, CodeDeltaBounds},
	{image.ErrDeltaFormat, KindDelta, CodeDeltaFormat},
	{image.ErrRowData, KindCodec, CodeRowData},
	{codec.ErrShortRows, KindCodec, CodeRowData},
	{errJPEG, KindCodec, CodeJPEG},
	{errColor, KindCodec, CodeColor},
	{errInflate, KindCodec, CodeInflate},
}

// Internal markers for collaborator failures that carry no sentinel of
// their own.
var (
	errJPEG    = errors.New("jpeg")
	errColor   = errors.New("color transform")
	errInflate = errors.New("inflate")
)

// classify returns the kind and code for err. Unmatched errors are source
// failures.
func classify(err error) (Kind, Code) {
	for _, r := range codeRules {
		if errors.Is(err, r.err) {
			return r.kind, r.code
		}
	}
	return KindStream, CodeSource
}

// newError classifies err into an *Error. An err that already is an
// *Error is returned unchanged.
func newError(op string, sev Severity, tag chunk.Tag, offset int64, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	kind, code := classify(err)
	e = &Error{Kind: kind, Code: code, Severity: sev, Op: op, Tag: tag, Offset: offset, Err: err}
	var ce *chunk.Error
	if tag == 0 && errors.As(err, &ce) {
		e.Tag = ce.Tag
	}
	return e
}

// tagged wraps err with a marker so classify can recognize collaborator
// failures.
func tagged(marker, err error) error {
	return fmt.Errorf("%w: %w", marker, err)
}
