// Package rope implements a UTF-8 text buffer as a skip list of small
// byte blocks, giving O(log n) random-access insert, delete and substring
// extraction in codepoint coordinates.
//
// The algorithm is ported from a C rope that stores blocks in a classic
// augmented skip list: each forward pointer at level k carries a "skip"
// count of how many codepoints it spans. Insertion and deletion keep
// those counts correct at every level that spans the edit. The node
// height is drawn from a geometric distribution so expected search depth
// stays O(log n) without any tree rebalancing.
package rope

import (
	"fmt"
	"math/rand"

	"github.com/arkedit/doccore/config"
	"github.com/arkedit/doccore/text/utf8"
)

// InvalidUTF8Error reports the byte offset of the first malformed byte in
// an attempted insert. The rope is left unchanged.
type InvalidUTF8Error struct {
	ByteOffset int
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("invalid UTF-8 at byte offset %d", e.ByteOffset)
}

// block is one node of the skip list: a bounded run of UTF-8 bytes plus a
// forward-pointer/skip-count pair at each level it participates in.
// A block never holds a partial codepoint.
type block struct {
	bytes     []byte
	charCount int
	forward   []*block
	skip      []int
}

func (b *block) height() int {
	return len(b.forward)
}

// Rope is a mutable UTF-8 text buffer. The zero value is not usable; use
// New or FromUTF8.
type Rope struct {
	cfg       config.Config
	head      *block
	height    int
	charCount int
	byteCount int
	rng       *rand.Rand
}

// New creates an empty rope tuned by cfg.
func New(cfg config.Config) *Rope {
	return &Rope{
		cfg:    cfg,
		head:   &block{forward: make([]*block, 1), skip: make([]int, 1)},
		height: 1,
		rng:    rand.New(rand.NewSource(1)),
	}
}

// FromUTF8 creates a rope containing the codepoints of b. It fails with
// *InvalidUTF8Error if b is not valid UTF-8; on failure the error carries
// the offset of the first bad byte and no Rope is returned.
func FromUTF8(cfg config.Config, b []byte) (*Rope, error) {
	r := New(cfg)
	if err := r.Insert(0, b); err != nil {
		return nil, err
	}
	return r, nil
}

// CharCount returns the number of codepoints in the rope.
func (r *Rope) CharCount() int {
	return r.charCount
}

// ByteCount returns the number of UTF-8 bytes in the rope.
func (r *Rope) ByteCount() int {
	return r.byteCount
}

// seek descends the skip list to character position pos, returning the
// predecessor at every level (update), the absolute character position of
// each predecessor (rank), the block that contains pos (target, nil if pos
// is at the very end of the rope) and the offset of pos within target.
func (r *Rope) seek(pos int) (update []*block, rank []int, target *block, offsetInTarget int) {
	update = make([]*block, r.height)
	rank = make([]int, r.height)

	cur := r.head
	remaining := pos
	for level := r.height - 1; level >= 0; level-- {
		for cur.forward[level] != nil && remaining >= cur.skip[level] {
			remaining -= cur.skip[level]
			cur = cur.forward[level]
		}
		update[level] = cur
		rank[level] = pos - remaining
	}

	target = cur.forward[0]
	offsetInTarget = remaining
	return update, rank, target, offsetInTarget
}

// randomHeight draws a block height from a geometric distribution with
// per-level continuation probability cfg.HeightBias, capped at
// cfg.MaxHeight.
func (r *Rope) randomHeight() int {
	h := 1
	for h < r.cfg.MaxHeight && r.rng.Float64() < r.cfg.HeightBias {
		h++
	}
	return h
}

func (r *Rope) newBlock(data []byte) *block {
	h := r.randomHeight()
	return &block{
		bytes:     append([]byte(nil), data...),
		charCount: countCodepoints(data),
		forward:   make([]*block, h),
		skip:      make([]int, h),
	}
}

// insertNodeAfterPos splices blk into the skip list so that it occupies
// exactly [pos, pos+blk.charCount). Nothing may currently start inside that
// span.
func (r *Rope) insertNodeAfterPos(pos int, blk *block) {
	h := blk.height()
	update, rank, _, _ := r.seek(pos)

	if h > r.height {
		grownUpdate := make([]*block, h)
		grownRank := make([]int, h)
		copy(grownUpdate, update)
		copy(grownRank, rank)
		for l := r.height; l < h; l++ {
			r.head.forward = append(r.head.forward, nil)
			r.head.skip = append(r.head.skip, r.charCount)
			grownUpdate[l] = r.head
			grownRank[l] = 0
		}
		update, rank = grownUpdate, grownRank
		r.height = h
	}

	for l := 0; l < h; l++ {
		blk.forward[l] = update[l].forward[l]
		blk.skip[l] = update[l].skip[l] - (rank[0] - rank[l])
		update[l].forward[l] = blk
		update[l].skip[l] = (rank[0] - rank[l]) + blk.charCount
	}
	for l := h; l < r.height; l++ {
		update[l].skip[l] += blk.charCount
	}

	r.charCount += blk.charCount
	r.byteCount += len(blk.bytes)
}

// deleteNodeAt removes the block that starts exactly at character position
// pos from every level of the skip list.
func (r *Rope) deleteNodeAt(pos int) {
	update, _, target, offsetInTarget := r.seek(pos)
	if target == nil || offsetInTarget != 0 {
		panic("deleteNodeAt: no block starts at pos")
	}

	h := target.height()
	for l := 0; l < r.height; l++ {
		if l < h {
			update[l].forward[l] = target.forward[l]
			update[l].skip[l] = update[l].skip[l] + target.skip[l] - target.charCount
		} else {
			update[l].skip[l] -= target.charCount
		}
	}

	r.charCount -= target.charCount
	r.byteCount -= len(target.bytes)
}

// Insert validates data as UTF-8, then splices it into the rope at character
// position pos (clamped to [0, CharCount()]). On InvalidUTF8Error the rope
// is left completely unchanged.
func (r *Rope) Insert(pos int, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if ok, badOffset := utf8.ValidateString(data); !ok {
		return &InvalidUTF8Error{ByteOffset: badOffset}
	}

	if pos < 0 {
		pos = 0
	}
	if pos > r.charCount {
		pos = r.charCount
	}
	inputCharCount := countCodepoints(data)

	update, _, target, offsetInTarget := r.seek(pos)

	if target != nil && len(target.bytes)+len(data) <= r.cfg.BlockBytes {
		byteOff := charOffsetToByteOffset(target.bytes, offsetInTarget)
		target.bytes = spliceBytes(target.bytes, byteOff, data)
		target.charCount += inputCharCount
		for l := 0; l < r.height; l++ {
			update[l].skip[l] += inputCharCount
		}
		r.charCount += inputCharCount
		r.byteCount += len(data)
		return nil
	}

	var prefixBytes, suffixBytes []byte
	insertAt := pos
	if target != nil {
		byteOff := charOffsetToByteOffset(target.bytes, offsetInTarget)
		prefixBytes = target.bytes[:byteOff]
		suffixBytes = target.bytes[byteOff:]
		insertAt = pos - offsetInTarget
		r.deleteNodeAt(insertAt)
	}

	cursor := insertAt
	if len(prefixBytes) > 0 {
		blk := r.newBlock(prefixBytes)
		r.insertNodeAfterPos(cursor, blk)
		cursor += blk.charCount
	}
	for _, chunk := range splitUTF8Chunks(data, r.cfg.BlockBytes) {
		blk := r.newBlock(chunk)
		r.insertNodeAfterPos(cursor, blk)
		cursor += blk.charCount
	}
	if len(suffixBytes) > 0 {
		blk := r.newBlock(suffixBytes)
		r.insertNodeAfterPos(cursor, blk)
		cursor += blk.charCount
	}

	return nil
}

// Delete removes up to charLen codepoints starting at charPos, clamping
// both to the rope's current bounds.
func (r *Rope) Delete(charPos, charLen int) {
	if charPos < 0 {
		charPos = 0
	}
	if charPos > r.charCount {
		charPos = r.charCount
	}
	remaining := charLen
	if remaining > r.charCount-charPos {
		remaining = r.charCount - charPos
	}

	for remaining > 0 {
		update, _, target, offsetInTarget := r.seek(charPos)
		if target == nil {
			break
		}

		if offsetInTarget == 0 && target.charCount <= remaining {
			remaining -= target.charCount
			r.deleteNodeAt(charPos)
			continue
		}

		toRemove := target.charCount - offsetInTarget
		if toRemove > remaining {
			toRemove = remaining
		}
		byteStart := charOffsetToByteOffset(target.bytes, offsetInTarget)
		byteEnd := charOffsetToByteOffset(target.bytes, offsetInTarget+toRemove)
		removedBytes := byteEnd - byteStart
		target.bytes = append(target.bytes[:byteStart], target.bytes[byteEnd:]...)
		target.charCount -= toRemove
		for l := 0; l < r.height; l++ {
			update[l].skip[l] -= toRemove
		}
		r.charCount -= toRemove
		r.byteCount -= removedBytes
		remaining -= toRemove
	}
}

// CharAt returns the codepoint at charPos. It panics if charPos is out of
// range; callers should check against CharCount first.
func (r *Rope) CharAt(charPos int) rune {
	_, _, target, offsetInTarget := r.seek(charPos)
	if charPos < 0 || target == nil {
		panic("CharAt: position out of range")
	}
	byteOff := charOffsetToByteOffset(target.bytes, offsetInTarget)
	rr, _ := decodeRuneAt(target.bytes, byteOff)
	return rr
}

// Substring copies up to charLen codepoints starting at charPos into a new
// string.
func (r *Rope) Substring(charPos, charLen int) string {
	if charPos < 0 {
		charPos = 0
	}
	if charPos > r.charCount {
		charPos = r.charCount
	}
	remaining := charLen
	if remaining > r.charCount-charPos {
		remaining = r.charCount - charPos
	}

	var out []byte
	_, _, target, offsetInTarget := r.seek(charPos)
	for remaining > 0 && target != nil {
		byteOff := charOffsetToByteOffset(target.bytes, offsetInTarget)
		take := target.charCount - offsetInTarget
		if take > remaining {
			take = remaining
		}
		byteEnd := charOffsetToByteOffset(target.bytes, offsetInTarget+take)
		out = append(out, target.bytes[byteOff:byteEnd]...)
		remaining -= take
		target = target.forward[0]
		offsetInTarget = 0
	}
	return string(out)
}

// ReadAll returns the entire contents of the rope as a string.
func (r *Rope) ReadAll() string {
	return r.Substring(0, r.charCount)
}

// Clone returns an independent rope with the same contents. It is O(n) in
// the character count, rebuilding a fresh skip list rather than sharing any
// node with the original.
func (r *Rope) Clone() *Rope {
	clone := New(r.cfg)
	clone.rng = rand.New(rand.NewSource(1))
	// Insert already validates UTF-8; the rope's own bytes are valid by
	// construction so the error return is unreachable here.
	_ = clone.Insert(0, []byte(r.ReadAll()))
	return clone
}

// countCodepoints counts the codepoints in validated UTF-8 bytes.
func countCodepoints(b []byte) int {
	n := 0
	for _, c := range b {
		n += int(utf8.StartByteIndicator[c])
	}
	return n
}

// charOffsetToByteOffset scans validated UTF-8 bytes to find the byte
// offset of the charOff-th codepoint.
func charOffsetToByteOffset(b []byte, charOff int) int {
	i := 0
	for n := 0; n < charOff; n++ {
		i += int(utf8.CharWidth[b[i]])
	}
	return i
}

func decodeRuneAt(b []byte, byteOff int) (rune, int) {
	width := int(utf8.CharWidth[b[byteOff]])
	switch width {
	case 1:
		return rune(b[byteOff]), 1
	case 2:
		return rune(b[byteOff]&0x1F)<<6 | rune(b[byteOff+1]&0x3F), 2
	case 3:
		return rune(b[byteOff]&0x0F)<<12 | rune(b[byteOff+1]&0x3F)<<6 | rune(b[byteOff+2]&0x3F), 3
	case 4:
		return rune(b[byteOff]&0x07)<<18 | rune(b[byteOff+1]&0x3F)<<12 | rune(b[byteOff+2]&0x3F)<<6 | rune(b[byteOff+3]&0x3F), 4
	default:
		panic("decodeRuneAt: not a codepoint boundary")
	}
}

// spliceBytes inserts ins into b at byte offset at.
func spliceBytes(b []byte, at int, ins []byte) []byte {
	out := make([]byte, 0, len(b)+len(ins))
	out = append(out, b[:at]...)
	out = append(out, ins...)
	out = append(out, b[at:]...)
	return out
}

// splitUTF8Chunks splits validated UTF-8 bytes into chunks of at most
// maxBytes, never splitting a codepoint.
func splitUTF8Chunks(b []byte, maxBytes int) [][]byte {
	var chunks [][]byte
	for len(b) > 0 {
		end := 0
		for end < len(b) {
			width := int(utf8.CharWidth[b[end]])
			if end+width > maxBytes {
				break
			}
			end += width
		}
		if end == 0 {
			// A single codepoint wider than maxBytes; must still emit it
			// whole rather than split it.
			end = int(utf8.CharWidth[b[0]])
		}
		chunks = append(chunks, b[:end])
		b = b[end:]
	}
	return chunks
}
