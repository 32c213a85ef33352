package fpe

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/netip"
)

var hexAlphabet = mustHexAlphabet()

func mustHexAlphabet() *Alphabet {
	a, err := NewAlphabet("0123456789abcdef")
	if err != nil {
		panic(err)
	}
	return a
}

// IP applies FF3-1 format-preserving encryption to the input netip.Addr,
// operating on its hexadecimal digit representation. An IPv4 input maps to
// a reversible IPv4, an IPv6 input to a reversible IPv6.
func IP(key, tweak []byte, ip netip.Addr, operation Operation) (*netip.Addr, error) {
	var (
		ipHex string
		width int
	)

	switch {
	case ip.Is4():
		ipv4 := ip.As4()
		ipHex = hex.EncodeToString(ipv4[:])
		width = len(ipv4)
	case ip.Is6():
		ipv6 := ip.As16()
		ipHex = hex.EncodeToString(ipv6[:])
		width = len(ipv6)
	default:
		return nil, errors.New("invalid ip address")
	}

	ctx, err := New(FF31, AlgoAES, append([]byte(nil), key...), hexAlphabet.Radix())
	if err != nil {
		return nil, fmt.Errorf("unable to initialize the encryption engine: %w", err)
	}
	defer ctx.Destroy()

	var outHex string
	switch operation {
	case Encrypt:
		outHex, err = EncryptString(ctx, hexAlphabet, ipHex, tweak)
	case Decrypt:
		outHex, err = DecryptString(ctx, hexAlphabet, ipHex, tweak)
	default:
		return nil, fmt.Errorf("unsupported operation")
	}
	if err != nil {
		return nil, fmt.Errorf("unable to successfully apply the requested operation: %w", err)
	}

	outRaw, err := hex.DecodeString(outHex)
	if err != nil {
		return nil, fmt.Errorf("unable to decode hex output: %w", err)
	}
	if len(outRaw) != width {
		return nil, errors.New("unexpected decoded address width")
	}

	out, valid := netip.AddrFromSlice(outRaw)
	if !valid {
		return nil, errors.New("invalid decoded IP address")
	}

	return &out, nil
}
