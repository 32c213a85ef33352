package fpe

import (
	"errors"
	"fmt"
	"regexp"
)

// Regex applies FF3-1 format-preserving encryption to every capture group of
// pattern matched against value, using alphabet to map captured substrings
// to numeral strings and back.
func Regex(key, tweak []byte, value, pattern, alphabet string, operation Operation) (string, error) {
	if pattern == "" {
		return "", errors.New("replacement pattern must not be blank")
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("unable to compile pattern expression: %w", err)
	}

	if !re.MatchString(value) {
		return "", fmt.Errorf("unable to match given value with replacement pattern: %w", err)
	}
	if re.NumSubexp() < 1 {
		return "", errors.New("the pattern must define atleast one group")
	}

	parts := re.FindStringSubmatch(value)
	if len(parts) == 0 {
		return "", errors.New("unable to extract match groups")
	}
	indexes := re.FindStringSubmatchIndex(value)
	if len(indexes) == 0 {
		return "", errors.New("unable to extract match groups indexes")
	}

	a, err := NewAlphabet(alphabet)
	if err != nil {
		return "", fmt.Errorf("unable to build alphabet: %w", err)
	}

	ctx, err := New(FF31, AlgoAES, append([]byte(nil), key...), a.Radix())
	if err != nil {
		return "", fmt.Errorf("unable to initialize the encryption engine: %w", err)
	}
	defer ctx.Destroy()

	raw := []byte(value)
	for i, p := range parts {
		if i == 0 {
			continue
		}

		start := indexes[2*i]
		end := indexes[2*i+1]

		if p != value[start:end] {
			return "", errors.New("invalid match group value")
		}

		var out string
		switch operation {
		case Encrypt:
			out, err = EncryptString(ctx, a, p, tweak)
		case Decrypt:
			out, err = DecryptString(ctx, a, p, tweak)
		default:
			return "", fmt.Errorf("unsupported operation")
		}
		if err != nil {
			return "", fmt.Errorf("unable to successfully apply the requested operation: %w", err)
		}

		for j := range out {
			raw[start+j] = out[j]
		}
	}

	return string(raw), nil
}
