package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

const (
	// CardNumberLength is the number of digits in an issued card number
	CardNumberLength = 16
	// CardIssueTermYears is how long a card stays valid after issue
	CardIssueTermYears = 7
	// SecondsInYear is the length of a validity year (365 days)
	SecondsInYear = 31536000

	// Issued numbers fall into [CardNumberMin, CardNumberMax]
	CardNumberMin int64 = 7770000000000000
	CardNumberMax int64 = 7776999999999999
)

// GenerateCardNumber draws a uniform random card number in [lo, hi]
func GenerateCardNumber(lo, hi int64) (string, error) {
	if lo > hi || len(strconv.FormatInt(lo, 10)) != CardNumberLength || len(strconv.FormatInt(hi, 10)) != CardNumberLength {
		return "", fmt.Errorf("invalid card number band: %d-%d", lo, hi)
	}

	n, err := rand.Int(rand.Reader, big.NewInt(hi-lo+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate random digits: %w", err)
	}

	return strconv.FormatInt(lo+n.Int64(), 10), nil
}

// ExpiresEnd returns the end of the validity term for a card issued at validFrom (epoch seconds)
func ExpiresEnd(validFrom int64) int64 {
	return validFrom + CardIssueTermYears*SecondsInYear
}

// MaskCardNumber keeps the first two and last two digits: 7771234567890012 -> 77**12
func MaskCardNumber(number string) string {
	if len(number) < 4 {
		return number
	}
	return number[:2] + "**" + number[len(number)-2:]
}

// IsCardNumber reports whether s looks like an issued card number
func IsCardNumber(s string) bool {
	if len(s) != CardNumberLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
