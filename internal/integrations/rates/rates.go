package rates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Dan9191/card-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// Pair is an ordered conversion direction
type Pair struct {
	From models.Currency
	To   models.Currency
}

func (p Pair) String() string {
	return string(p.From) + "_" + string(p.To)
}

// Table maps a conversion direction to the multiplier applied to the amount.
// Rates are quoted independently per direction, so Table[A,B] is generally
// not the inverse of Table[B,A].
type Table map[Pair]decimal.Decimal

// Default returns the built-in rate table
func Default() Table {
	return Table{
		{models.USD, models.USD}: decimal.NewFromInt(1),
		{models.USD, models.EUR}: decimal.RequireFromString("0.920"),
		{models.USD, models.UAH}: decimal.RequireFromString("36.700"),

		{models.EUR, models.USD}: decimal.RequireFromString("1.087"),
		{models.EUR, models.EUR}: decimal.NewFromInt(1),
		{models.EUR, models.UAH}: decimal.RequireFromString("39.900"),

		{models.UAH, models.USD}: decimal.RequireFromString("0.027"),
		{models.UAH, models.EUR}: decimal.RequireFromString("0.025"),
		{models.UAH, models.UAH}: decimal.NewFromInt(1),
	}
}

// Validate checks that the table quotes every ordered pair of supported
// currencies with a positive rate and identity pairs at 1
func (t Table) Validate() error {
	var missing []string
	for _, from := range models.Currencies {
		for _, to := range models.Currencies {
			pair := Pair{from, to}
			rate, ok := t[pair]
			if !ok {
				missing = append(missing, pair.String())
				continue
			}
			if !rate.IsPositive() {
				return fmt.Errorf("rate %s must be positive, got %s", pair, rate)
			}
			if from == to && !rate.Equal(decimal.NewFromInt(1)) {
				return fmt.Errorf("identity rate %s must be 1, got %s", pair, rate)
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("rate table is missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Clone returns an independent copy of the table
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Quotes flattens the table into FROM_TO keys, for JSON responses
func (t Table) Quotes() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(t))
	for k, v := range t {
		out[k.String()] = v
	}
	return out
}
