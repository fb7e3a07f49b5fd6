// Package utf8 provides byte-oriented UTF-8 tables and a streaming validator.
//
// The accepted forms are the four in RFC 3629 (1-4 bytes per codepoint).
// The historical 5- and 6-byte lead-byte forms are rejected: modern Unicode
// never requires them, and accepting them would mean this package disagrees
// with the standard library's own unicode/utf8 about what counts as valid
// text.
package utf8

// CharWidth maps a leading byte to the total byte length of the codepoint it
// starts, or 0 if the byte is a continuation byte or otherwise cannot start
// a valid codepoint.
var CharWidth [256]uint8

// StartByteIndicator is 1 for a byte that begins a codepoint, 0 for a
// continuation byte. Summing it over a byte slice counts codepoints.
var StartByteIndicator [256]uint8

func init() {
	for b := 0; b < 256; b++ {
		switch {
		case b <= 0x7F:
			CharWidth[b] = 1
		case b >= 0xC2 && b <= 0xDF:
			CharWidth[b] = 2
		case b >= 0xE0 && b <= 0xEF:
			CharWidth[b] = 3
		case b >= 0xF0 && b <= 0xF4:
			CharWidth[b] = 4
		default:
			CharWidth[b] = 0
		}
		if CharWidth[b] > 0 {
			StartByteIndicator[b] = 1
		}
	}
}

// IsContinuation reports whether b is a valid UTF-8 continuation byte.
func IsContinuation(b byte) bool {
	return b&0xC0 == 0x80
}

// Validator incrementally validates a stream of bytes as UTF-8, so callers
// can feed it chunks (e.g. from an io.Reader) without buffering the whole
// input. Once ValidateBytes or ValidateEnd has returned false, ByteOffset
// reports how many codepoints were fully validated before the error.
type Validator struct {
	// pending holds bytes from an in-progress multi-byte codepoint that
	// straddles two ValidateBytes calls.
	pending    [4]byte
	pendingLen int
	want       int // total bytes needed for the codepoint in progress
	consumed   uint64
	valid      bool
	done       bool
}

// NewValidator returns a Validator ready to validate from offset 0.
func NewValidator() *Validator {
	return &Validator{valid: true}
}

// ValidateBytes feeds the next chunk of input to the validator. It returns
// false as soon as an invalid byte is seen; once false, the validator is
// latched and further calls keep returning false.
func (v *Validator) ValidateBytes(b []byte) bool {
	if !v.valid {
		return false
	}

	for _, c := range b {
		if v.pendingLen == 0 {
			width := CharWidth[c]
			if width == 0 {
				v.valid = false
				return false
			}
			v.pending[0] = c
			v.pendingLen = 1
			v.want = int(width)
			if v.want == 1 {
				v.pendingLen = 0
				v.consumed++
			}
			continue
		}

		if !IsContinuation(c) {
			v.valid = false
			return false
		}
		v.pending[v.pendingLen] = c
		v.pendingLen++
		if v.pendingLen == v.want {
			v.pendingLen = 0
			v.consumed++
		}
	}

	return true
}

// ValidateEnd reports whether the input ended on a complete codepoint
// boundary. It must be called once all bytes have been fed to ValidateBytes.
func (v *Validator) ValidateEnd() bool {
	v.done = true
	if v.pendingLen != 0 {
		v.valid = false
	}
	return v.valid
}

// ByteOffset returns the number of codepoints successfully validated before
// the first error, which is also usable as the char-position of the failure
// site by a caller tracking rune offsets alongside byte offsets.
func (v *Validator) ByteOffset() uint64 {
	return v.consumed
}

// ValidateString is a convenience wrapper for validating a complete,
// already-assembled byte slice and returning the byte offset of the first
// malformed byte, matching the error shape Document/Rope report to callers.
func ValidateString(b []byte) (ok bool, badByteOffset int) {
	var byteOff int
	i := 0
	for i < len(b) {
		width := CharWidth[b[i]]
		if width == 0 {
			return false, i
		}
		if i+int(width) > len(b) {
			return false, i
		}
		for k := 1; k < int(width); k++ {
			if !IsContinuation(b[i+k]) {
				return false, i
			}
		}
		i += int(width)
		byteOff = i
	}
	_ = byteOff
	return true, -1
}
