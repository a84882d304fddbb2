package object

import (
	"iter"

	"github.com/gogpu/mng/chunk"
	"github.com/gogpu/mng/cms"
	"github.com/gogpu/mng/internal/image"
)

// Record is one entry of the animation queue: *Chunk, *Image or *Delta.
// Records are not modified after Enqueue.
type Record interface {
	record()
}

// Chunk wraps a chunk that affects the animation without carrying pixels.
type Chunk struct {
	Rec chunk.Record
}

// Image is a decoded PNG, JNG or BASI image bound to an object id.
type Image struct {
	ID      uint16
	Source  chunk.Tag // IHDR, JHDR or BASI
	Buf     *image.ImageBuf
	Palette *image.Palette
	Key     image.ColorKey
	Profile cms.Profile

	Interlaced bool
	Viewable   bool
}

// Delta is a delta image applied to an existing object.
type Delta struct {
	Header  chunk.DHDR
	Promote *chunk.PROM
	Palette []*chunk.PPLT

	// Block holds the decoded pixel data, nil when the delta carries none
	// or when Rows must be decoded against the target.
	Block *image.ImageBuf
	// Key is a tRNS color key carried by the delta, applied to the target.
	Key *image.ColorKey

	// Rows is the inflated, still filtered pixel stream of the block. Its
	// layout depends on the target format after promotion, so it is only
	// decoded when the delta is applied. Width and Height of 0 mean the
	// target's size.
	Rows          []byte
	Width, Height int
	Interlaced    bool
	Method        uint8

	// Format is the block format declared by an embedded IHDR; it is
	// meaningful only when HasFormat is set.
	Format    image.Format
	HasFormat bool
}

func (*Chunk) record() {}
func (*Image) record() {}
func (*Delta) record() {}

// Enqueue appends rec to the record queue.
func (s *Store) Enqueue(rec Record) {
	s.queue = append(s.queue, rec)
}

// Len returns the number of queued records.
func (s *Store) Len() int { return len(s.queue) }

// At returns queued record i.
func (s *Store) At(i int) Record { return s.queue[i] }

// Records yields the queued records in FIFO order without removing them.
func (s *Store) Records() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i, r := range s.queue {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Drain yields the queued records in FIFO order and removes the ones it
// yielded. Stopping early leaves the rest queued.
func (s *Store) Drain() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		n := 0
		defer func() {
			clear(s.queue[:n])
			s.queue = s.queue[n:]
		}()
		for n < len(s.queue) {
			i, r := n, s.queue[n]
			n++
			if !yield(i, r) {
				return
			}
		}
	}
}

// NewImage binds an Image record to the store, creating or replacing its
// object with a copy of the pixels so that replaying the queue starts from
// the recorded state.
func (s *Store) NewImage(img *Image, a Attrs) (*Object, error) {
	a.Palette = img.Palette.Clone()
	a.Key = img.Key
	a.Profile = img.Profile
	a.Interlaced = img.Interlaced
	a.Viewable = img.Viewable
	return s.Create(img.ID, img.Buf.Clone(), a)
}
