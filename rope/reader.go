package rope

import (
	"io"

	"github.com/arkedit/doccore/text"
)

// Reader reads UTF-8 bytes out of a Rope. It implements text.CloneableReader.
// A Rope is not safe for concurrent mutation while a Reader is in use.
type Reader struct {
	blk       *block
	byteOff   int
	direction text.ReadDirection
}

// NewForwardReader returns a Reader that streams bytes starting at charPos
// to the end of the rope.
func NewForwardReader(r *Rope, charPos int) *Reader {
	_, _, target, offsetInTarget := r.seek(charPos)
	byteOff := 0
	if target != nil {
		byteOff = charOffsetToByteOffset(target.bytes, offsetInTarget)
	}
	return &Reader{blk: target, byteOff: byteOff, direction: text.ReadDirectionForward}
}

// Read implements io.Reader.
func (rd *Reader) Read(b []byte) (int, error) {
	n := 0
	for n < len(b) {
		if rd.blk == nil {
			if n == 0 {
				return 0, io.EOF
			}
			return n, nil
		}
		avail := len(rd.blk.bytes) - rd.byteOff
		if avail == 0 {
			rd.blk = rd.blk.forward[0]
			rd.byteOff = 0
			continue
		}
		copied := copy(b[n:], rd.blk.bytes[rd.byteOff:])
		n += copied
		rd.byteOff += copied
	}
	return n, nil
}

// Clone returns an independent Reader at the same position.
func (rd *Reader) Clone() text.CloneableReader {
	clone := *rd
	return &clone
}
