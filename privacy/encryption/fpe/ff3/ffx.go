// Copyright (c) 2021- Ubiq Security, Inc. (https://ubiqsecurity.com)
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package ff3

import (
	"errors"
	"fmt"

	"github.com/DataDog/go-secure-sdk/privacy/encryption/fpe/internal/blockcipher"
	"github.com/DataDog/go-secure-sdk/privacy/encryption/fpe/internal/numeral"
)

// Rounds is the fixed number of Feistel rounds both FF3 and FF3-1 perform.
const Rounds = 8

// MaxLength is the library cap on the number of digits an engine will
// operate on, matching the FF1 cap for consistency across modes.
const MaxLength = 256

// maxBlockWidth is the size, in bytes, of the NUM(B) window inside the
// 16-byte round block (the remaining 4 bytes hold the tweak half).
const maxBlockWidth = 12

// ErrInvalidLength is returned when a numeral string falls outside
// [2, MaxLength] or its halves don't fit the 96-bit round block window.
var ErrInvalidLength = errors.New("ff3: invalid numeral string length")

// ErrInvalidTweakLength is returned when a tweak violates the active
// engine's length rule.
var ErrInvalidTweakLength = errors.New("ff3: invalid tweak length")

// tweakSplit derives the two 4-byte tweak halves Tl, Tr consumed across the
// 8 rounds from the raw tweak bytes. FF3 and FF3-1 differ only in this step.
type tweakSplit func(tweak []byte) (tl, tr [4]byte)

// engine holds the Feistel mechanics shared by FF3 and FF3-1: both run 8
// rounds over a byte-reversed-keyed cipher and digit-reversed numeral
// strings, differing only in how the tweak is split into Tl/Tr.
type engine struct {
	cipher *blockcipher.Adapter
	radix  uint32
	split  tweakSplit
}

func (e *engine) run(digits []uint16, tweak []byte, encrypt bool) ([]uint16, error) {
	n := len(digits)
	if n < 2 {
		return nil, fmt.Errorf("%w: length %d below minimum of 2", ErrInvalidLength, n)
	}
	if n > MaxLength {
		return nil, fmt.Errorf("%w: length %d exceeds library cap of %d", ErrInvalidLength, n, MaxLength)
	}

	// FF3 splits with ceiling for u, unlike FF1's floor split.
	u := (n + 1) / 2
	v := n - u

	if numeral.Width(u, e.radix) > maxBlockWidth || numeral.Width(v, e.radix) > maxBlockWidth {
		return nil, fmt.Errorf("%w: length %d too large for radix %d", ErrInvalidLength, n, e.radix)
	}

	tl, tr := e.split(tweak)

	A := append([]uint16(nil), digits[:u]...)
	B := append([]uint16(nil), digits[u:]...)

	round := func(i int) error {
		half := tr
		if i%2 == 1 {
			half = tl
		}

		W, err := e.feistelRound(half, byte(i), B)
		if err != nil {
			return fmt.Errorf("ff3: round %d: %w", i, err)
		}

		y := numeral.FromBytes(W, len(A), e.radix, numeral.Reversed)
		if encrypt {
			numeral.AddMod(A, y, e.radix, numeral.Reversed)
		} else {
			numeral.SubMod(A, y, e.radix, numeral.Reversed)
		}
		return nil
	}

	if encrypt {
		for i := 0; i < Rounds; i++ {
			if err := round(i); err != nil {
				return nil, err
			}
			A, B = B, A
		}
	} else {
		for i := Rounds - 1; i >= 0; i-- {
			A, B = B, A
			if err := round(i); err != nil {
				return nil, err
			}
		}
	}

	out := make([]uint16, n)
	copy(out[:u], A)
	copy(out[u:], B)
	return out, nil
}

// feistelRound computes the FF3/FF3-1 round function: encrypt a 16-byte
// block built from the tweak half and NUM(B), with the byte-reversal the
// NIST spec requires immediately before and after the block-cipher call.
func (e *engine) feistelRound(half [4]byte, roundIdx byte, B []uint16) ([]byte, error) {
	b := numeral.Width(len(B), e.radix)
	if b > maxBlockWidth {
		return nil, fmt.Errorf("width %d exceeds block capacity of %d bytes", b, maxBlockWidth)
	}

	P := make([]byte, blockcipher.BlockSize)
	copy(P[:4], half[:])
	P[3] ^= roundIdx

	encoded := numeral.ToBytes(B, e.radix, numeral.Reversed, b)
	copy(P[blockcipher.BlockSize-b:], encoded)

	reverseBytes(P)
	C := make([]byte, blockcipher.BlockSize)
	e.cipher.Encrypt(C, P)
	reverseBytes(C)
	return C, nil
}

// reverseBytes reverses s in place.
func reverseBytes(s []byte) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// ReverseKey returns a copy of key with its byte order reversed, the key
// transformation both FF3 and FF3-1 require before constructing their
// BlockCipherAdapter.
func ReverseKey(key []byte) []byte {
	out := make([]byte, len(key))
	copy(out, key)
	reverseBytes(out)
	return out
}
