package fpe

// EncryptOneshot builds a Context for (mode, algo, key, radix), encrypts
// digits under tweak, and destroys the Context before returning. Prefer
// constructing a Context directly when performing many calls with the same
// key: each oneshot call re-runs key schedule setup.
func EncryptOneshot(mode Mode, algo Algo, key []byte, radix uint32, digits []uint16, tweak []byte) ([]uint16, error) {
	return oneshot(mode, algo, key, radix, digits, tweak, true)
}

// DecryptOneshot inverts EncryptOneshot.
func DecryptOneshot(mode Mode, algo Algo, key []byte, radix uint32, digits []uint16, tweak []byte) ([]uint16, error) {
	return oneshot(mode, algo, key, radix, digits, tweak, false)
}

func oneshot(mode Mode, algo Algo, key []byte, radix uint32, digits []uint16, tweak []byte, encrypt bool) ([]uint16, error) {
	ctx, err := New(mode, algo, key, radix)
	if err != nil {
		return nil, err
	}
	defer ctx.Destroy()

	if encrypt {
		return ctx.Encrypt(digits, tweak)
	}
	return ctx.Decrypt(digits, tweak)
}
