package ff1_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DataDog/go-secure-sdk/privacy/encryption/fpe/ff1"
	"github.com/DataDog/go-secure-sdk/privacy/encryption/fpe/internal/blockcipher"
)

func mustAdapter(t *testing.T, algo blockcipher.Algo, keyHex string) *blockcipher.Adapter {
	t.Helper()
	key, err := hex.DecodeString(keyHex)
	require.NoError(t, err)
	a, err := blockcipher.New(algo, key)
	require.NoError(t, err)
	return a
}

// TestNISTVectors exercises known-answer vectors taken from NIST SP 800-38G
// Appendix A (FF1-AES128 samples 1 and 2) and the SM4 vector set carried by the
// original source repository's test suite.
func TestNISTVectors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		algo      blockcipher.Algo
		key       string
		radix     uint32
		tweak     string
		plaintext []uint16
		ciphertext []uint16
	}{
		{
			name:       "FF1-AES128-empty-tweak-radix10",
			algo:       blockcipher.AlgoAES,
			key:        "2B7E151628AED2A6ABF7158809CF4F3C",
			radix:      10,
			tweak:      "",
			plaintext:  []uint16{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			ciphertext: []uint16{2, 4, 3, 3, 4, 7, 7, 4, 8, 4},
		},
		{
			name:       "FF1-AES128-tweak-radix10",
			algo:       blockcipher.AlgoAES,
			key:        "2B7E151628AED2A6ABF7158809CF4F3C",
			radix:      10,
			tweak:      "39383736353433323130",
			plaintext:  []uint16{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			ciphertext: []uint16{6, 1, 2, 4, 2, 0, 0, 7, 7, 3},
		},
		{
			name:       "FF1-SM4-empty-tweak-radix36",
			algo:       blockcipher.AlgoSM4,
			key:        "0123456789ABCDEFFEDCBA9876543210",
			radix:      36,
			tweak:      "",
			plaintext:  alphaDigits("0123456789abcdefghi"),
			ciphertext: alphaDigits("vsxvfxa16cjf2utxvlg"),
		},
		{
			name:       "FF1-SM4-tweak-radix10",
			algo:       blockcipher.AlgoSM4,
			key:        "0123456789ABCDEFFEDCBA9876543210",
			radix:      10,
			tweak:      "39383736353433323130",
			plaintext:  []uint16{1, 2, 3, 4, 5, 6, 7, 8, 9, 0},
			ciphertext: []uint16{3, 8, 0, 5, 8, 4, 9, 4, 7, 3},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tweakHex := tc.tweak
			var tweak []byte
			if tweakHex != "" {
				var err error
				tweak, err = hex.DecodeString(tweakHex)
				require.NoError(t, err)
			}

			adapter := mustAdapter(t, tc.algo, tc.key)
			engine := ff1.New(adapter, tc.radix)

			got, err := engine.Encrypt(tc.plaintext, tweak)
			require.NoError(t, err)
			require.Equal(t, tc.ciphertext, got)

			back, err := engine.Decrypt(got, tweak)
			require.NoError(t, err)
			require.Equal(t, tc.plaintext, back)
		})
	}
}

// alphaDigits maps a string over the alphabet 0-9a-z into digit values.
func alphaDigits(s string) []uint16 {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	out := make([]uint16, len(s))
	for i, c := range s {
		for idx, a := range alphabet {
			if a == c {
				out[i] = uint16(idx)
				break
			}
		}
	}
	return out
}

func TestRoundTripAcrossRadixAndLength(t *testing.T) {
	t.Parallel()

	adapter := mustAdapter(t, blockcipher.AlgoAES, "2B7E151628AED2A6ABF7158809CF4F3C")

	for _, radix := range []uint32{2, 10, 26, 62, 1000, 65536} {
		for _, m := range []int{2, 3, 10, 50} {
			engine := ff1.New(adapter, radix)
			digits := make([]uint16, m)
			for i := range digits {
				digits[i] = uint16((i*7 + int(radix)) % int(radix))
			}
			tweak := []byte{1, 2, 3}

			ct, err := engine.Encrypt(digits, tweak)
			require.NoErrorf(t, err, "radix=%d m=%d", radix, m)
			require.Len(t, ct, m)
			for _, d := range ct {
				require.Lessf(t, d, uint16(radix), "ciphertext digit out of alphabet for radix=%d", radix)
			}

			pt, err := engine.Decrypt(ct, tweak)
			require.NoError(t, err)
			require.Equal(t, digits, pt)
		}
	}
}

func TestRejectsTooShortInput(t *testing.T) {
	t.Parallel()

	adapter := mustAdapter(t, blockcipher.AlgoAES, "2B7E151628AED2A6ABF7158809CF4F3C")
	engine := ff1.New(adapter, 10)

	_, err := engine.Encrypt([]uint16{1}, nil)
	require.Error(t, err)
}

func TestKeySensitivity(t *testing.T) {
	t.Parallel()

	digits := []uint16{1, 2, 3, 4, 5, 6, 7, 8}
	tweak := []byte{9, 9}

	a1 := mustAdapter(t, blockcipher.AlgoAES, "2B7E151628AED2A6ABF7158809CF4F3C")
	a2 := mustAdapter(t, blockcipher.AlgoAES, "2B7E151628AED2A6ABF7158809CF4F3D")

	c1, err := ff1.New(a1, 10).Encrypt(digits, tweak)
	require.NoError(t, err)
	c2, err := ff1.New(a2, 10).Encrypt(digits, tweak)
	require.NoError(t, err)
	require.NotEqual(t, c1, c2)
}

func TestTweakSensitivity(t *testing.T) {
	t.Parallel()

	digits := []uint16{1, 2, 3, 4, 5, 6, 7, 8}
	adapter := mustAdapter(t, blockcipher.AlgoAES, "2B7E151628AED2A6ABF7158809CF4F3C")
	engine := ff1.New(adapter, 10)

	c1, err := engine.Encrypt(digits, []byte{1})
	require.NoError(t, err)
	c2, err := engine.Encrypt(digits, []byte{2})
	require.NoError(t, err)
	require.NotEqual(t, c1, c2)
}
