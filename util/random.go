package util

import (
	crand "crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/exp/rand"
)

const (
	alphabet    = "abcdefghijklmnopqrstuvwxyz"
	keyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_"

	// PrefixLength is the length of the public part of an API key.
	PrefixLength = 8
	tokenLength  = 16
)

var rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))

// RandomInt generates a random integer between min and max
func RandomInt(min, max int32) int32 {
	return min + int32(rng.Int63n(int64(max-min+1)))
}

// RandomString generates a random string of length n
func RandomString(n int) string {
	var sb strings.Builder
	k := len(alphabet)
	for i := 0; i < n; i++ {
		sb.WriteByte(alphabet[rng.Intn(k)])
	}
	return sb.String()
}

// RandomTicker generates a random upper case ticker
func RandomTicker() string {
	return strings.ToUpper(RandomString(4))
}

// RandomEmail generates a random email
func RandomEmail() string {
	return fmt.Sprintf("%s@email.com", RandomString(6))
}

// RandomFloat returns a uniform draw in [min, max).
func RandomFloat(min, max float64) float64 {
	return min + (max-min)*rng.Float64()
}

// GenerateToken returns the two halves of an API key. The key handed to the
// user is prefix + "." + token; the prefix is stored in clear for lookup.
func GenerateToken() (prefix, token string, err error) {
	if prefix, err = secureString(PrefixLength); err != nil {
		return "", "", err
	}
	if token, err = secureString(tokenLength); err != nil {
		return "", "", err
	}
	return prefix, token, nil
}

func secureString(n int) (string, error) {
	var sb strings.Builder
	max := big.NewInt(int64(len(keyAlphabet)))
	for i := 0; i < n; i++ {
		j, err := crand.Int(crand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(keyAlphabet[j.Int64()])
	}
	return sb.String(), nil
}
