package ff3

import (
	"fmt"

	"github.com/DataDog/go-secure-sdk/privacy/encryption/fpe/internal/blockcipher"
)

// FF3Engine implements the legacy FF3 Feistel construction from NIST
// SP 800-38G. FF3 was weakened by cryptanalysis published after the
// standard's release; it is retained only for interoperability with
// existing ciphertexts and should not be chosen for new designs.
type FF3Engine struct {
	engine
}

// NewFF3 builds a legacy FF3 engine bound to cipher and radix. cipher must
// already be keyed with the byte-reversed key (see ReverseKey): the Context
// owns that transformation, not the engine.
func NewFF3(cipher *blockcipher.Adapter, radix uint32) *FF3Engine {
	return &FF3Engine{engine{cipher: cipher, radix: radix, split: splitFF3}}
}

// Encrypt runs the forward FF3 Feistel schedule. tweak must be 0, 7 or 8
// bytes long.
func (e *FF3Engine) Encrypt(digits []uint16, tweak []byte) ([]uint16, error) {
	if err := validateFF3TweakLen(tweak); err != nil {
		return nil, err
	}
	return e.run(digits, tweak, true)
}

// Decrypt inverts Encrypt.
func (e *FF3Engine) Decrypt(digits []uint16, tweak []byte) ([]uint16, error) {
	if err := validateFF3TweakLen(tweak); err != nil {
		return nil, err
	}
	return e.run(digits, tweak, false)
}

func validateFF3TweakLen(tweak []byte) error {
	switch len(tweak) {
	case 0, 7, 8:
		return nil
	default:
		return fmt.Errorf("%w: length %d, want 0, 7 or 8", ErrInvalidTweakLength, len(tweak))
	}
}

// splitFF3 derives Tl/Tr per the legacy FF3 rule: Tl is always the first
// four tweak bytes; Tr is the last four when the tweak is 8 bytes, or the
// remaining three padded with a zero byte when the tweak is 7 bytes.
func splitFF3(tweak []byte) (tl, tr [4]byte) {
	switch len(tweak) {
	case 7:
		copy(tl[:], tweak[0:4])
		copy(tr[:3], tweak[4:7])
	case 8:
		copy(tl[:], tweak[0:4])
		copy(tr[:], tweak[4:8])
	}
	return tl, tr
}
