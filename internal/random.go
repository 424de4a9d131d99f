package internal

import (
	"crypto/rand"
	"math/big"
)

// codeSpan covers [100000, 999999], so every code is exactly six digits
// with no leading zero.
var codeSpan = big.NewInt(900000)

// SixDigitCode returns a uniformly random six digit challenge code.
func SixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpan)
	if err != nil {
		return "", err
	}
	return n.Add(n, big.NewInt(100000)).String(), nil
}
