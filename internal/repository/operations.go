package repository

import "github.com/Dan9191/card-ledger/internal/models"

// OperationLog is the append-only history of operations per card number
type OperationLog struct {
	byCardNumber map[string][]models.Operation
}

// NewOperationLog initializes an empty log
func NewOperationLog() *OperationLog {
	return &OperationLog{byCardNumber: make(map[string][]models.Operation)}
}

// Append adds an operation to the history of a card
func (l *OperationLog) Append(cardNumber string, op models.Operation) models.Operation {
	l.byCardNumber[cardNumber] = append(l.byCardNumber[cardNumber], op)
	return op
}

// History returns a copy of the operations of a card in insertion order.
// Unknown numbers yield an empty slice.
func (l *OperationLog) History(cardNumber string) []models.Operation {
	ops := l.byCardNumber[cardNumber]
	out := make([]models.Operation, len(ops))
	copy(out, ops)
	return out
}

// Has reports whether any operation was ever recorded for the number
func (l *OperationLog) Has(cardNumber string) bool {
	_, ok := l.byCardNumber[cardNumber]
	return ok
}
