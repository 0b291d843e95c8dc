package utils

import (
	"crypto/rand"
	"math/big"
)

const randomCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// CreateRandomString returns a random lowercase alphanumeric string of the
// given length, used for check ids. Uniqueness is probabilistic, not enforced.
func CreateRandomString(length int) string {
	if length <= 0 {
		return ""
	}
	result := make([]byte, length)
	max := big.NewInt(int64(len(randomCharset)))
	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			panic(err)
		}
		result[i] = randomCharset[n.Int64()]
	}
	return string(result)
}
