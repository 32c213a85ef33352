package fpe

import (
	"fmt"
)

// Alphabet maps between strings drawn from a fixed character set and the
// digit-sequence representation the core engines operate on. It is a thin
// convenience layer over Context: the core spec deals exclusively in
// numeral strings, never characters.
type Alphabet struct {
	chars []rune
	index map[rune]uint16
}

// NewAlphabet builds an Alphabet from chars, a string of distinct runes
// whose length becomes the implied radix. Radix-10 callers typically pass
// "0123456789"; hexadecimal callers "0123456789abcdef".
func NewAlphabet(chars string) (*Alphabet, error) {
	runes := []rune(chars)
	if len(runes) < 2 {
		return nil, fmt.Errorf("%w: alphabet must have at least 2 symbols, got %d", ErrInvalidRadix, len(runes))
	}

	index := make(map[rune]uint16, len(runes))
	for i, r := range runes {
		if _, exists := index[r]; exists {
			return nil, fmt.Errorf("%w: alphabet contains duplicate symbol %q", ErrInvalidAlgorithm, r)
		}
		index[r] = uint16(i)
	}

	return &Alphabet{chars: runes, index: index}, nil
}

// Radix returns the alphabet's size, the radix a Context must be created
// with to operate on strings encoded through this Alphabet.
func (a *Alphabet) Radix() uint32 {
	return uint32(len(a.chars))
}

// ToDigits maps s to a numeral string. It fails if s contains a symbol
// outside the alphabet.
func (a *Alphabet) ToDigits(s string) ([]uint16, error) {
	runes := []rune(s)
	digits := make([]uint16, len(runes))
	for i, r := range runes {
		d, ok := a.index[r]
		if !ok {
			return nil, fmt.Errorf("%w: symbol %q not in alphabet", ErrInvalidDigit, r)
		}
		digits[i] = d
	}
	return digits, nil
}

// FromDigits maps a numeral string back to its string representation. It
// panics if a digit is out of range for the alphabet, which can only
// happen if the caller bypasses ToDigits; Context.Encrypt/Decrypt always
// return digits within range for the radix they were given.
func (a *Alphabet) FromDigits(digits []uint16) string {
	runes := make([]rune, len(digits))
	for i, d := range digits {
		if int(d) >= len(a.chars) {
			panic(fmt.Sprintf("fpe: digit %d out of range for %d-symbol alphabet", d, len(a.chars)))
		}
		runes[i] = a.chars[d]
	}
	return string(runes)
}

// EncryptString is a convenience wrapper that maps s through alphabet,
// encrypts the resulting numeral string with ctx, and maps the ciphertext
// back through alphabet. ctx must have been constructed with
// radix == alphabet.Radix().
func EncryptString(ctx *Context, alphabet *Alphabet, s string, tweak []byte) (string, error) {
	return transformString(ctx, alphabet, s, tweak, true)
}

// DecryptString inverts EncryptString.
func DecryptString(ctx *Context, alphabet *Alphabet, s string, tweak []byte) (string, error) {
	return transformString(ctx, alphabet, s, tweak, false)
}

func transformString(ctx *Context, alphabet *Alphabet, s string, tweak []byte, encrypt bool) (string, error) {
	digits, err := alphabet.ToDigits(s)
	if err != nil {
		return "", err
	}

	var out []uint16
	if encrypt {
		out, err = ctx.Encrypt(digits, tweak)
	} else {
		out, err = ctx.Decrypt(digits, tweak)
	}
	if err != nil {
		return "", err
	}

	return alphabet.FromDigits(out), nil
}
