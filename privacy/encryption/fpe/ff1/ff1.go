package ff1

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/DataDog/go-secure-sdk/privacy/encryption/fpe/internal/blockcipher"
	"github.com/DataDog/go-secure-sdk/privacy/encryption/fpe/internal/numeral"
)

// Rounds is the fixed number of Feistel rounds FF1 always performs.
const Rounds = 10

// MaxLength is the library cap on the number of digits FF1 will operate on,
// bounding the size of the stack-sized working buffers described in
// the design note on "implementation may cap m <= 256".
const MaxLength = 256

// ErrInvalidLength is returned when a numeral string falls outside
// [2, MaxLength].
var ErrInvalidLength = errors.New("ff1: invalid numeral string length")

// Engine implements the FF1 Feistel construction over a fixed block cipher
// and radix. It holds no per-call state; all working buffers are allocated
// fresh on every Encrypt/Decrypt so a single Engine may be reused for many
// calls (subject to the single-threaded-use contract documented on the
// owning Context).
type Engine struct {
	cipher *blockcipher.Adapter
	radix  uint32
}

// New builds an FF1 Engine bound to the given cipher adapter and radix.
func New(cipher *blockcipher.Adapter, radix uint32) *Engine {
	return &Engine{cipher: cipher, radix: radix}
}

// Encrypt runs the forward FF1 Feistel schedule over digits (each < radix)
// using tweak as the contextual input, and returns a freshly allocated
// ciphertext numeral string of the same length.
func (e *Engine) Encrypt(digits []uint16, tweak []byte) ([]uint16, error) {
	return e.run(digits, tweak, true)
}

// Decrypt inverts Encrypt.
func (e *Engine) Decrypt(digits []uint16, tweak []byte) ([]uint16, error) {
	return e.run(digits, tweak, false)
}

func (e *Engine) run(digits []uint16, tweak []byte, encrypt bool) ([]uint16, error) {
	n := len(digits)
	if n < 2 {
		return nil, fmt.Errorf("%w: length %d below minimum of 2", ErrInvalidLength, n)
	}
	if n > MaxLength {
		return nil, fmt.Errorf("%w: length %d exceeds library cap of %d", ErrInvalidLength, n, MaxLength)
	}

	u := n / 2
	v := n - u

	A := make([]uint16, u)
	B := make([]uint16, v)
	copy(A, digits[:u])
	copy(B, digits[u:])

	b := numeral.Width(v, e.radix)
	d := 4*ceilDiv(b, 4) + 4

	P := buildPrefix(e.radix, u, n, len(tweak))

	pA, pB := A, B

	round := func(i int) error {
		mLen := u
		if i%2 == 1 {
			mLen = v
		}

		Q := buildQ(tweak, b, i, pB, e.radix)

		S, err := e.prf(P, Q, d)
		if err != nil {
			return fmt.Errorf("ff1: round %d: %w", i, err)
		}

		y := numeral.FromBytes(S, mLen, e.radix, numeral.Natural)

		if encrypt {
			numeral.AddMod(pA, y, e.radix, numeral.Natural)
		} else {
			numeral.SubMod(pA, y, e.radix, numeral.Natural)
		}
		return nil
	}

	if encrypt {
		for i := 0; i < Rounds; i++ {
			if err := round(i); err != nil {
				return nil, err
			}
			pA, pB = pB, pA
		}
	} else {
		for i := Rounds - 1; i >= 0; i-- {
			pA, pB = pB, pA
			if err := round(i); err != nil {
				return nil, err
			}
		}
	}

	out := make([]uint16, n)
	copy(out[:u], pA)
	copy(out[u:], pB)
	return out, nil
}

// buildPrefix builds the fixed 16-byte P vector: algorithm/mode markers,
// radix, round count, split length, numeral length and tweak length.
func buildPrefix(radix uint32, u, m, tweakLen int) []byte {
	p := make([]byte, 16)
	p[0] = 0x01
	p[1] = 0x02
	p[2] = 0x01
	p[3] = byte(radix >> 16)
	p[4] = byte(radix >> 8)
	p[5] = byte(radix)
	p[6] = 0x0A
	p[7] = byte(u % 256)
	binary.BigEndian.PutUint32(p[8:12], uint32(m))
	binary.BigEndian.PutUint32(p[12:16], uint32(tweakLen))
	return p
}

// buildQ builds Q = tweak || 0^p || byte(i) || NUM(B), padded so |Q| is a
// multiple of 16 bytes.
func buildQ(tweak []byte, b, round int, other []uint16, radix uint32) []byte {
	padLen := mod16(-len(tweak) - b - 1)

	q := make([]byte, 0, len(tweak)+padLen+1+b)
	q = append(q, tweak...)
	q = append(q, make([]byte, padLen)...)
	q = append(q, byte(round))
	q = append(q, numeral.ToBytes(other, radix, numeral.Natural, b)...)
	return q
}

// prf computes the FF1 PRF: CBC-MAC over P||Q, extended by counter mode to d
// bytes when one block isn't enough.
func (e *Engine) prf(p, q []byte, d int) ([]byte, error) {
	if len(p) != blockcipher.BlockSize {
		return nil, fmt.Errorf("prf: P must be exactly %d bytes", blockcipher.BlockSize)
	}
	if len(q)%blockcipher.BlockSize != 0 {
		return nil, fmt.Errorf("prf: Q length %d is not a multiple of %d", len(q), blockcipher.BlockSize)
	}

	r := make([]byte, blockcipher.BlockSize)
	e.cipher.Encrypt(r, p)

	block := make([]byte, blockcipher.BlockSize)
	for i := 0; i < len(q); i += blockcipher.BlockSize {
		for j := 0; j < blockcipher.BlockSize; j++ {
			block[j] = q[i+j] ^ r[j]
		}
		e.cipher.Encrypt(r, block)
	}

	s := make([]byte, d)
	n := copy(s, r)
	for k := 1; n < d; k++ {
		tmp := make([]byte, blockcipher.BlockSize)
		binary.BigEndian.PutUint32(tmp[12:16], uint32(k))
		for j := range tmp {
			tmp[j] ^= r[j]
		}
		enc := make([]byte, blockcipher.BlockSize)
		e.cipher.Encrypt(enc, tmp)
		n += copy(s[n:], enc)
	}
	return s, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// mod16 returns ((x % 16) + 16) % 16, i.e. Euclidean mod for possibly
// negative x, used to compute the zero-padding length for Q.
func mod16(x int) int {
	m := x % 16
	if m < 0 {
		m += 16
	}
	return m
}
