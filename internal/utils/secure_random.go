package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const cardAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCardSuffix returns n random uppercase alphanumeric characters.
func GenerateCardSuffix(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("n must be positive")
	}
	max := big.NewInt(int64(len(cardAlphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random index: %w", err)
		}
		out[i] = cardAlphabet[idx.Int64()]
	}
	return string(out), nil
}
