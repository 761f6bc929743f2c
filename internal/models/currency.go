package models

import (
	"errors"
	"fmt"
	"strings"
)

// Currency is an ISO 4217 code supported by the ledger
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	UAH Currency = "UAH"
)

// Currencies lists every supported currency
var Currencies = []Currency{USD, EUR, UAH}

// ErrUnsupportedCurrency is returned for codes outside Currencies
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// ParseCurrency validates a currency code, case-insensitively
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	for _, known := range Currencies {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
}
