// Package money provides a decimal amount type and currency codes for ledger arithmetic.
package money

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// Amount is a fixed-point monetary value. The zero value is 0.
type Amount struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{}

// New parses a decimal string such as "5025.50".
func New(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{d: d}, nil
}

// MustParse is New that panics on error. Intended for constants and tests.
func MustParse(s string) Amount {
	a, err := New(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromInt returns a whole-unit amount.
func FromInt(v int64) Amount {
	return Amount{d: decimal.NewFromInt(v)}
}

// FromDecimal wraps a decimal value.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d}
}

// Decimal exposes the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal { return a.d }

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }
func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }

// Mul multiplies by a decimal factor, e.g. an exchange rate.
func (a Amount) Mul(f decimal.Decimal) Amount { return Amount{d: a.d.Mul(f)} }

// Percent returns p percent of a. Percent(1.5) on 1000 is 15.
func (a Amount) Percent(p decimal.Decimal) Amount {
	return Amount{d: a.d.Mul(p).Div(decimal.NewFromInt(100))}
}

// Min returns the smaller of a and b.
func (a Amount) Min(b Amount) Amount {
	if a.d.LessThanOrEqual(b.d) {
		return a
	}
	return b
}

// Round2 rounds half away from zero to two decimal places.
func (a Amount) Round2() Amount { return Amount{d: a.d.Round(2)} }

func (a Amount) Cmp(b Amount) int                 { return a.d.Cmp(b.d) }
func (a Amount) Equal(b Amount) bool              { return a.d.Equal(b.d) }
func (a Amount) GreaterThan(b Amount) bool        { return a.d.GreaterThan(b.d) }
func (a Amount) LessThan(b Amount) bool           { return a.d.LessThan(b.d) }
func (a Amount) LessThanOrEqual(b Amount) bool    { return a.d.LessThanOrEqual(b.d) }
func (a Amount) GreaterThanOrEqual(b Amount) bool { return a.d.GreaterThanOrEqual(b.d) }
func (a Amount) IsZero() bool                     { return a.d.IsZero() }
func (a Amount) IsPositive() bool                 { return a.d.IsPositive() }
func (a Amount) IsNegative() bool                 { return a.d.IsNegative() }
func (a Amount) Neg() Amount                      { return Amount{d: a.d.Neg()} }

// String renders the amount with two decimal places.
func (a Amount) String() string { return a.d.StringFixed(2) }

// MarshalJSON encodes the amount as a JSON string to avoid float rounding in clients.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts both JSON strings and numbers.
func (a *Amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	a.d = d
	return nil
}

// MarshalDynamoDBAttributeValue stores the amount as a number so that condition
// expressions such as "balance >= :amount" compare numerically.
func (a Amount) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: a.d.String()}, nil
}

// UnmarshalDynamoDBAttributeValue reads N (and, for older items, S) attributes.
func (a *Amount) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	var raw string
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		raw = v.Value
	case *types.AttributeValueMemberS:
		raw = v.Value
	case *types.AttributeValueMemberNULL:
		a.d = decimal.Zero
		return nil
	default:
		return fmt.Errorf("unsupported attribute type %T for amount", av)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid stored amount %q: %w", raw, err)
	}
	a.d = d
	return nil
}
