package money

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// Rate is an exchange rate: one unit of the source currency in the target currency.
type Rate struct {
	d decimal.Decimal
}

// One is the identity rate.
var One = Rate{d: decimal.NewFromInt(1)}

// NewRate parses a rate from its decimal string form.
func NewRate(s string) (Rate, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Rate{}, fmt.Errorf("invalid rate %q: %w", s, err)
	}
	if !d.IsPositive() {
		return Rate{}, fmt.Errorf("invalid rate %q: must be positive", s)
	}
	return Rate{d: d}, nil
}

// RateFromFloat converts a rate reported by an upstream JSON API.
func RateFromFloat(f float64) Rate {
	return Rate{d: decimal.NewFromFloat(f)}
}

func (r Rate) Decimal() decimal.Decimal { return r.d }
func (r Rate) IsZero() bool             { return r.d.IsZero() }
func (r Rate) Equal(o Rate) bool        { return r.d.Equal(o.d) }
func (r Rate) String() string           { return r.d.String() }

// Convert applies the rate to an amount and rounds to two decimal places.
func (r Rate) Convert(a Amount) Amount {
	return a.Mul(r.d).Round2()
}

func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.d.String() + `"`), nil
}

func (r *Rate) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("invalid rate: %w", err)
	}
	r.d = d
	return nil
}

func (r Rate) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: r.d.String()}, nil
}

func (r *Rate) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return fmt.Errorf("unsupported attribute type %T for rate", av)
	}
	d, err := decimal.NewFromString(n.Value)
	if err != nil {
		return fmt.Errorf("invalid stored rate %q: %w", n.Value, err)
	}
	r.d = d
	return nil
}
