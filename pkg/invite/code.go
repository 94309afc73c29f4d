package invite

import "crypto/rand"

// Codes are URL-safe and collision-resistant at expected invite volume:
// 62^12 ≈ 3x10^21 possibilities.
const (
	codeLength   = 12
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// GenerateCode returns a random alphanumeric invite code. Bytes outside
// the largest multiple of the alphabet size are rejected so every
// character is equally likely.
func GenerateCode() (string, error) {
	const limit = 256 - (256 % len(codeAlphabet))

	code := make([]byte, 0, codeLength)
	buf := make([]byte, codeLength)
	for len(code) < codeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			code = append(code, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(code) == codeLength {
				break
			}
		}
	}
	return string(code), nil
}
