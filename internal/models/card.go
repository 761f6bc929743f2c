package models

import "github.com/shopspring/decimal"

// Card represents a payment card
type Card struct {
	Number     string          `json:"number"`
	Name       string          `json:"name"`
	ValidFrom  int64           `json:"validFrom"`  // Epoch seconds
	ExpiresEnd int64           `json:"expiresEnd"` // Epoch seconds
	Balance    decimal.Decimal `json:"balance"`
	Active     bool            `json:"active"`
	Currency   Currency        `json:"currency"`
	UserID     int64           `json:"userId"`
}

// Expired reports whether the card is past its validity term at now (epoch seconds)
func (c Card) Expired(now int64) bool {
	return now >= c.ExpiresEnd
}

// CardPatch lists the card fields that may be changed after issue.
// Number selects the card and is never written.
type CardPatch struct {
	Number string  `json:"number"`
	Name   *string `json:"name"`
	Active *bool   `json:"active"`
}
