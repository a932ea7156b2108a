package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value in a specific currency.
type Money struct {
	Amount   decimal.Decimal
	Currency string // ISO 4217 or crypto ticker
}

// NewMoney creates a Money rounded to the currency's minor unit.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount.Round(MinorUnits(currency)), Currency: currency}
}

// MinorUnits returns the number of decimal places kept for a currency.
func MinorUnits(currency string) int32 {
	switch currency {
	case "BTC", "ETH", "USDT":
		return 8
	case "JPY":
		return 0
	default:
		return 2
	}
}

// feeRates are the percentage fees charged per payment method.
var feeRates = map[PaymentMethod]decimal.Decimal{
	PaymentBankTransfer: decimal.RequireFromString("0.005"),
	PaymentCreditCard:   decimal.RequireFromString("0.029"),
	PaymentPayPal:       decimal.RequireFromString("0.034"),
	PaymentCrypto:       decimal.RequireFromString("0.01"),
}

// FeeFor computes the fee charged on amount for the given payment method.
// It rounds down to the currency's minor unit and is never negative.
func FeeFor(amount Money, method PaymentMethod) Money {
	rate, ok := feeRates[method]
	if !ok || amount.Amount.IsNegative() {
		return Money{Amount: decimal.Zero, Currency: amount.Currency}
	}
	fee := amount.Amount.Mul(rate).RoundFloor(MinorUnits(amount.Currency))
	return Money{Amount: fee, Currency: amount.Currency}
}

// Add sums two amounts of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// String returns the string representation of the money.
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(MinorUnits(m.Currency)), m.Currency)
}
