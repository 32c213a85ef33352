// Package blockcipher adapts the stdlib AES implementation and the tjfoc
// SM4 implementation behind a single, padding-free, single-block ECB
// encryption interface for use by the FF1/FF3/FF3-1 Feistel engines.
//
// The adapter owns no chaining state: every call to Encrypt operates on
// exactly one 16-byte block and is deterministic for a fixed key.
package blockcipher

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"

	"github.com/tjfoc/gmsm/sm4"
)

// Algo identifies the underlying 128-bit block cipher primitive.
type Algo int

const (
	// AlgoAES selects AES-128/192/256 depending on key length.
	AlgoAES Algo = iota
	// AlgoSM4 selects SM4-128 (key must be 16 bytes).
	AlgoSM4
)

// BlockSize is the fixed block size required by every supported cipher.
const BlockSize = 16

// ErrCipherFailure wraps any failure reported by the underlying AES or SM4
// primitive during adapter construction.
var ErrCipherFailure = errors.New("blockcipher: cipher failure")

// Adapter exposes single-block ECB encryption over a fixed key.
type Adapter struct {
	block cipher.Block
}

// New builds an Adapter for the given algorithm and key. It fails if the
// selected algorithm's block size is not 128 bits or the key length does
// not match the algorithm's requirements.
func New(algo Algo, key []byte) (*Adapter, error) {
	var (
		block cipher.Block
		err   error
	)

	switch algo {
	case AlgoAES:
		switch len(key) {
		case 16, 24, 32:
		default:
			return nil, fmt.Errorf("blockcipher: aes key must be 16, 24 or 32 bytes, got %d", len(key))
		}
		block, err = aes.NewCipher(key)
	case AlgoSM4:
		if len(key) != 16 {
			return nil, fmt.Errorf("blockcipher: sm4 key must be 16 bytes, got %d", len(key))
		}
		block, err = sm4.NewCipher(key)
	default:
		return nil, fmt.Errorf("blockcipher: unsupported algorithm %d", algo)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: unable to initialize cipher: %s", ErrCipherFailure, err)
	}
	if block.BlockSize() != BlockSize {
		return nil, fmt.Errorf("%w: unsupported block size %d, want %d", ErrCipherFailure, block.BlockSize(), BlockSize)
	}

	return &Adapter{block: block}, nil
}

// Encrypt performs a single-block ECB encryption of a 16-byte plaintext. dst
// and src may be the same slice but must not otherwise overlap, per
// crypto/cipher.Block's contract. No padding is ever applied.
func (a *Adapter) Encrypt(dst, src []byte) {
	if len(src) != BlockSize || len(dst) != BlockSize {
		panic("blockcipher: Encrypt requires exactly one 16-byte block")
	}
	a.block.Encrypt(dst, src)
}
