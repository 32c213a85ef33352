package ff3

import (
	"fmt"

	"github.com/DataDog/go-secure-sdk/privacy/encryption/fpe/internal/blockcipher"
)

// FF31Engine implements FF3-1, the NIST SP 800-38G Revision 1 fix for FF3's
// tweak handling. Structurally identical to FF3Engine; the only difference
// is how the 56-bit tweak is split into Tl and Tr.
type FF31Engine struct {
	engine
}

// NewFF31 builds an FF3-1 engine bound to cipher and radix. cipher must
// already be keyed with the byte-reversed key (see ReverseKey).
func NewFF31(cipher *blockcipher.Adapter, radix uint32) *FF31Engine {
	return &FF31Engine{engine{cipher: cipher, radix: radix, split: splitFF31}}
}

// Encrypt runs the forward FF3-1 Feistel schedule. tweak must be 7 bytes
// (canonical), 8 bytes (legacy-permissive, last byte ignored), or 0 bytes
// (zero tweak).
func (e *FF31Engine) Encrypt(digits []uint16, tweak []byte) ([]uint16, error) {
	if err := validateFF31TweakLen(tweak); err != nil {
		return nil, err
	}
	return e.run(digits, tweak, true)
}

// Decrypt inverts Encrypt.
func (e *FF31Engine) Decrypt(digits []uint16, tweak []byte) ([]uint16, error) {
	if err := validateFF31TweakLen(tweak); err != nil {
		return nil, err
	}
	return e.run(digits, tweak, false)
}

func validateFF31TweakLen(tweak []byte) error {
	switch len(tweak) {
	case 0, 7, 8:
		return nil
	default:
		return fmt.Errorf("%w: length %d, want 0, 7 or 8", ErrInvalidTweakLength, len(tweak))
	}
}

// splitFF31 derives Tl/Tr per the corrected NIST Revision 1 rule: Tl holds
// bits 0-27 (the first 3 tweak bytes plus the high nibble of byte 3), Tr
// holds bits 28-55 (the low nibble of byte 3, shifted into the high nibble
// of Tr[0], followed by the remaining 3 bytes).
func splitFF31(tweak []byte) (tl, tr [4]byte) {
	if len(tweak) < 7 {
		return tl, tr
	}
	tl[0], tl[1], tl[2] = tweak[0], tweak[1], tweak[2]
	tl[3] = tweak[3] & 0xF0
	tr[0] = (tweak[3] & 0x0F) << 4
	tr[1], tr[2], tr[3] = tweak[4], tweak[5], tweak[6]
	return tl, tr
}
