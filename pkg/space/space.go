// Package space maps indices in [0, 16^digits) to fixed-width lowercase hex candidates.
//
// At 32 digits the space holds 2^128 candidates, so indices are carried in a
// uint256.Int. Exhausting more than a handful of digits is not practical;
// the wide representation only guarantees that sizes and cursors never wrap.
package space

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// MaxDigits is the widest candidate whose space fits in 128 bits.
const MaxDigits = 32

const hexDigits = "0123456789abcdef"

// ErrInvalidCandidate is returned by Decode for strings outside the space.
var ErrInvalidCandidate = errors.New("invalid candidate")

// Space is the set of all candidates of a fixed width
type Space struct {
	digits int
	size   *uint256.Int
}

// New creates the candidate space for digits in [1, MaxDigits].
func New(digits int) Space {
	return Space{
		digits: digits,
		size:   new(uint256.Int).Lsh(uint256.NewInt(1), uint(4*digits)),
	}
}

// Digits returns the candidate width
func (s Space) Digits() int {
	return s.digits
}

// Size returns 16^digits. The caller must not modify the result.
func (s Space) Size() *uint256.Int {
	return s.size
}

// Encode writes the zero-padded lowercase hex form of idx into dst[:digits].
func (s Space) Encode(dst []byte, idx *uint256.Int) {
	for k := 0; k < s.digits; k++ {
		nib := (idx[k/16] >> (4 * uint(k%16))) & 0xf
		dst[s.digits-1-k] = hexDigits[nib]
	}
}

// Candidate returns the candidate string for idx
func (s Space) Candidate(idx *uint256.Int) string {
	buf := make([]byte, s.digits)
	s.Encode(buf, idx)
	return string(buf)
}

// Decode is the inverse of Encode.
func (s Space) Decode(c string) (*uint256.Int, error) {
	if len(c) != s.digits {
		return nil, fmt.Errorf("%w: %q has %d characters, want %d", ErrInvalidCandidate, c, len(c), s.digits)
	}
	z := new(uint256.Int)
	for i := 0; i < len(c); i++ {
		nib, ok := nibble(c[i])
		if !ok {
			return nil, fmt.Errorf("%w: %q is not lowercase hex", ErrInvalidCandidate, c)
		}
		z.Lsh(z, 4)
		z[0] |= uint64(nib)
	}
	return z, nil
}

// Increment advances an encoded candidate in place to the next index.
// It returns false when the candidate wraps from all 'f' back to all '0'.
func Increment(hex []byte) bool {
	for i := len(hex) - 1; i >= 0; i-- {
		switch c := hex[i]; {
		case c == '9':
			hex[i] = 'a'
			return true
		case c == 'f':
			hex[i] = '0'
		default:
			hex[i] = c + 1
			return true
		}
	}
	return false
}

func nibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}
