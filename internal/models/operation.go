package models

import "github.com/shopspring/decimal"

// Operation types used by the ledger itself. Callers may tag withdrawals
// and top-ups with any other type (charity, shopping, mobile...).
const (
	OperationTopUp        = "topup"
	OperationWithdraw     = "withdraw"
	OperationTransferTo   = "transfer_to"
	OperationTransferFrom = "transfer_from"
)

// Operation represents a monetary event on a card.
// Amount is signed: negative for outflow, in the card currency.
type Operation struct {
	Timestamp   int64           `json:"timestamp"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
}
