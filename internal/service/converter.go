package service

import (
	"fmt"
	"sync/atomic"

	"github.com/Dan9191/card-ledger/internal/integrations/rates"
	"github.com/Dan9191/card-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// Converter converts amounts between currencies using a rate table that can
// be swapped at runtime
type Converter struct {
	table atomic.Pointer[rates.Table]
}

// NewConverter initializes a converter with a validated table
func NewConverter(table rates.Table) (*Converter, error) {
	c := &Converter{}
	if err := c.SetRates(table); err != nil {
		return nil, err
	}
	return c, nil
}

// Convert multiplies amount by the from->to rate. Identity pairs are returned unchanged.
func (c *Converter) Convert(amount decimal.Decimal, from, to models.Currency) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	rate, ok := (*c.table.Load())[rates.Pair{From: from, To: to}]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s_%s", ErrInvalidCurrencyPair, from, to)
	}
	return amount.Mul(rate), nil
}

// SetRates replaces the table after validating it
func (c *Converter) SetRates(table rates.Table) error {
	if err := table.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	t := table.Clone()
	c.table.Store(&t)
	return nil
}

// Rates returns a copy of the current table
func (c *Converter) Rates() rates.Table {
	return c.table.Load().Clone()
}
