package codegen

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// VerifyCodeLength is the number of digits in a verification code.
const VerifyCodeLength = 6

// codeRange covers 100000..999999 so every code is exactly six digits.
var codeRange = big.NewInt(900000)

// VerificationCode generates a uniform 6-digit numeric verification code.
func VerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeRange)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
