package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"
	"hash"

	sha256 "github.com/minio/sha256-simd"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// DigestLen is the output size of every supported algorithm
const DigestLen = 32

// Algorithm names a digest function
type Algorithm string

const (
	SHA256    Algorithm = "sha256"
	SHA3_256  Algorithm = "sha3-256"
	Keccak256 Algorithm = "keccak256"
	BLAKE3    Algorithm = "blake3"
)

// Algorithms lists the supported algorithm names in display order
var Algorithms = []Algorithm{SHA256, SHA3_256, Keccak256, BLAKE3}

// ErrUnknownAlgorithm is returned for algorithm names outside Algorithms
var ErrUnknownAlgorithm = errors.New("unknown digest algorithm")

// Digester hashes a message into a caller-owned digest buffer.
// Implementations keep per-instance state and are not safe for concurrent use;
// each worker owns its own.
type Digester interface {
	Sum(dst *[DigestLen]byte, msg []byte)
}

// NewDigester returns a fresh Digester for the algorithm
func NewDigester(a Algorithm) (Digester, error) {
	switch a {
	case SHA256, "":
		return sha256Digester{}, nil
	case SHA3_256:
		return &hashDigester{h: sha3.New256()}, nil
	case Keccak256:
		return &hashDigester{h: sha3.NewLegacyKeccak256()}, nil
	case BLAKE3:
		return blake3Digester{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(a))
}

// Sum hashes msg with a one-off digester. Intended for verification, not the hot path.
func Sum(a Algorithm, msg []byte) ([DigestLen]byte, error) {
	var out [DigestLen]byte
	d, err := NewDigester(a)
	if err != nil {
		return out, err
	}
	d.Sum(&out, msg)
	return out, nil
}

// HexDigest returns the lowercase hex encoding of a digest
func HexDigest(digest [DigestLen]byte) string {
	return hex.EncodeToString(digest[:])
}

type sha256Digester struct{}

func (sha256Digester) Sum(dst *[DigestLen]byte, msg []byte) {
	*dst = sha256.Sum256(msg)
}

type blake3Digester struct{}

func (blake3Digester) Sum(dst *[DigestLen]byte, msg []byte) {
	*dst = blake3.Sum256(msg)
}

// hashDigester reuses one hash.Hash to avoid allocations
type hashDigester struct {
	h hash.Hash
}

func (d *hashDigester) Sum(dst *[DigestLen]byte, msg []byte) {
	d.h.Reset()
	d.h.Write(msg)
	d.h.Sum(dst[:0])
}
