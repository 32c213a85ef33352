// Package fpe implements Format-Preserving Encryption per NIST SP 800-38G
// and its Revision 1: FF1, FF3 (legacy) and FF3-1, each selectable with an
// AES-128/192/256 or SM4-128 block cipher.
package fpe

import (
	"errors"
	"fmt"

	"github.com/awnumar/memguard"

	security "github.com/DataDog/go-secure-sdk"
	"github.com/DataDog/go-secure-sdk/log"
	"github.com/DataDog/go-secure-sdk/privacy/encryption/fpe/ff1"
	"github.com/DataDog/go-secure-sdk/privacy/encryption/fpe/ff3"
	"github.com/DataDog/go-secure-sdk/privacy/encryption/fpe/internal/blockcipher"
	"github.com/DataDog/go-secure-sdk/privacy/encryption/fpe/internal/numeral"
)

// Sentinel errors surfaced by Context construction and by Encrypt/Decrypt.
// Every error a caller can observe wraps one of these so callers can branch
// on taxonomy with errors.Is.
var (
	// ErrInvalidAlgorithm is returned for an unsupported (mode, cipher)
	// combination, or an (algo, key length) mismatch.
	ErrInvalidAlgorithm = errors.New("fpe: invalid algorithm")
	// ErrInvalidRadix is returned when radix falls outside [2, 65536].
	ErrInvalidRadix = errors.New("fpe: invalid radix")
	// ErrInvalidLength is returned when a numeral string is shorter than
	// the engine minimum, longer than the library cap, or too long for the
	// FF3/FF3-1 round block at the Context's radix.
	ErrInvalidLength = errors.New("fpe: invalid length")
	// ErrInvalidTweakLength is returned when the tweak violates the
	// active mode's length rule.
	ErrInvalidTweakLength = errors.New("fpe: invalid tweak length")
	// ErrInvalidDigit is returned when a numeral string digit is not in
	// [0, radix).
	ErrInvalidDigit = errors.New("fpe: invalid digit")
	// ErrCipherFailure wraps an error surfaced by the underlying block
	// cipher primitive.
	ErrCipherFailure = errors.New("fpe: cipher failure")
	// ErrDestroyed is returned by Encrypt/Decrypt once the owning Context
	// has been destroyed.
	ErrDestroyed = errors.New("fpe: context destroyed")
)

// Mode selects the Feistel construction a Context runs.
type Mode int

const (
	// FF1 selects the 10-round CBC-MAC-based construction.
	FF1 Mode = iota
	// FF3 selects the deprecated, legacy 8-round construction. Present
	// only for interoperability with existing FF3 ciphertexts.
	FF3
	// FF31 selects the NIST SP 800-38G Revision 1 corrected construction.
	FF31
)

func (m Mode) String() string {
	switch m {
	case FF1:
		return "FF1"
	case FF3:
		return "FF3"
	case FF31:
		return "FF3-1"
	default:
		return "unknown"
	}
}

// Algo selects the underlying 128-bit block cipher. AES variants are
// distinguished purely by key length at Context construction time.
type Algo int

const (
	// AlgoAES selects AES-128, AES-192 or AES-256 depending on key length.
	AlgoAES Algo = iota
	// AlgoSM4 selects SM4-128. Rejected when the package's FIPS mode flag
	// is enabled, since SM4 is not a FIPS-approved primitive.
	AlgoSM4
)

// Operation selects which direction Regex and IP run their FPE
// transformation in.
type Operation int

const (
	// Encrypt runs the forward FPE transformation.
	Encrypt Operation = iota
	// Decrypt inverts Encrypt.
	Decrypt
)

// MaxNumeralLength is the library cap on the number of digits any engine
// will operate on, bounding the working-buffer sizes described for the
// reference implementation's fixed stack arrays.
const MaxNumeralLength = 256

// Context owns the key material, mode, radix and block-cipher adapter for a
// sequence of FPE calls. A Context is not safe for concurrent use from
// multiple goroutines without external synchronization; callers that need
// concurrency should construct one Context per goroutine.
type Context struct {
	mode  Mode
	radix uint32

	keyEnclave *memguard.Enclave

	ff1Engine  *ff1.Engine
	ff3Engine  *ff3.FF3Engine
	ff31Engine *ff3.FF31Engine

	destroyed bool
}

// New constructs a Context for mode, keyed by key under algo, operating on
// numeral strings of the given radix. For FF3 and FF3-1, the cipher is keyed
// with the byte-reversed key instead, per the FF3 family's key
// transformation rule; the original key is what's retained in the enclave,
// not the reversed derivative.
//
// New takes ownership of key: once the block cipher is built, its bytes are
// copied into a locked enclave and the caller's slice is wiped. When New
// rejects the radix, the algorithm or the key, the caller's slice is left
// unchanged. Callers that need the key afterward must keep their own copy.
func New(mode Mode, algo Algo, key []byte, radix uint32) (*Context, error) {
	if radix < 2 || radix > numeral.MaxRadix {
		return nil, fmt.Errorf("%w: radix %d outside [2, %d]", ErrInvalidRadix, radix, numeral.MaxRadix)
	}
	if algo == AlgoSM4 && security.InFIPSMode() {
		return nil, fmt.Errorf("%w: sm4 is not permitted while FIPS mode is enabled", ErrInvalidAlgorithm)
	}

	blockAlgo := blockcipher.AlgoAES
	if algo == AlgoSM4 {
		blockAlgo = blockcipher.AlgoSM4
	}

	cipherKey := key
	if mode == FF3 || mode == FF31 {
		cipherKey = ff3.ReverseKey(key)
		defer memguard.WipeBytes(cipherKey)
	}

	adapter, err := blockcipher.New(blockAlgo, cipherKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAlgorithm, err)
	}

	ctx := &Context{
		mode:       mode,
		radix:      radix,
		keyEnclave: memguard.NewEnclave(key),
	}
	memguard.WipeBytes(key)

	switch mode {
	case FF1:
		ctx.ff1Engine = ff1.New(adapter, radix)
	case FF3:
		ctx.ff3Engine = ff3.NewFF3(adapter, radix)
	case FF31:
		ctx.ff31Engine = ff3.NewFF31(adapter, radix)
	default:
		return nil, fmt.Errorf("%w: unsupported mode %s", ErrInvalidAlgorithm, mode)
	}

	log.Level(log.DebugLevel).Field("mode", mode.String()).Field("radix", radix).Message("fpe: context initialized")

	return ctx, nil
}

// Encrypt runs the forward FPE transformation over digits (each < radix),
// contextualized by tweak, and returns a freshly allocated ciphertext
// numeral string of the same length.
func (c *Context) Encrypt(digits []uint16, tweak []byte) ([]uint16, error) {
	return c.run(digits, tweak, true)
}

// Decrypt inverts Encrypt.
func (c *Context) Decrypt(digits []uint16, tweak []byte) ([]uint16, error) {
	return c.run(digits, tweak, false)
}

func (c *Context) run(digits []uint16, tweak []byte, encrypt bool) ([]uint16, error) {
	if c.destroyed {
		return nil, ErrDestroyed
	}
	if len(digits) < 2 || len(digits) > MaxNumeralLength {
		return nil, fmt.Errorf("%w: numeral string length %d", ErrInvalidLength, len(digits))
	}
	for _, d := range digits {
		if uint32(d) >= c.radix {
			return nil, fmt.Errorf("%w: digit %d >= radix %d", ErrInvalidDigit, d, c.radix)
		}
	}

	var (
		out []uint16
		err error
	)
	switch c.mode {
	case FF1:
		if encrypt {
			out, err = c.ff1Engine.Encrypt(digits, tweak)
		} else {
			out, err = c.ff1Engine.Decrypt(digits, tweak)
		}
	case FF3:
		if encrypt {
			out, err = c.ff3Engine.Encrypt(digits, tweak)
		} else {
			out, err = c.ff3Engine.Decrypt(digits, tweak)
		}
	case FF31:
		if encrypt {
			out, err = c.ff31Engine.Encrypt(digits, tweak)
		} else {
			out, err = c.ff31Engine.Decrypt(digits, tweak)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported mode %s", ErrInvalidAlgorithm, c.mode)
	}
	if err != nil {
		return nil, classifyEngineError(err)
	}
	return out, nil
}

// classifyEngineError maps an engine-level error onto the package's
// taxonomy so callers branching on errors.Is see a stable sentinel
// regardless of which engine produced it.
func classifyEngineError(err error) error {
	switch {
	case errors.Is(err, blockcipher.ErrCipherFailure):
		return fmt.Errorf("%w: %s", ErrCipherFailure, err)
	case errors.Is(err, ff3.ErrInvalidTweakLength):
		return fmt.Errorf("%w: %s", ErrInvalidTweakLength, err)
	case errors.Is(err, ff1.ErrInvalidLength), errors.Is(err, ff3.ErrInvalidLength):
		return fmt.Errorf("%w: %s", ErrInvalidLength, err)
	default:
		return err
	}
}

// Destroy wipes the decrypted copy of the key opened from the Context's
// enclave, drops the enclave and detaches the engines. Encrypt/Decrypt fail
// with ErrDestroyed afterward. The block cipher's expanded key schedule held
// by the engines is not overwritten; it is only released to the garbage
// collector.
func (c *Context) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	if c.keyEnclave != nil {
		if lb, err := c.keyEnclave.Open(); err == nil {
			lb.Destroy()
		}
		c.keyEnclave = nil
	}
	c.ff1Engine = nil
	c.ff3Engine = nil
	c.ff31Engine = nil
}
