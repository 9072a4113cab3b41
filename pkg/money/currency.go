package money

import "strings"

// Currency is an ISO 4217 code.
type Currency string

const (
	NGN Currency = "NGN"
	GHS Currency = "GHS"
	KES Currency = "KES"
	UGX Currency = "UGX"
	TZS Currency = "TZS"
	ZAR Currency = "ZAR"
	RWF Currency = "RWF"
	ETB Currency = "ETB"
	XOF Currency = "XOF"
	XAF Currency = "XAF"
	USD Currency = "USD"
	GBP Currency = "GBP"
	EUR Currency = "EUR"
)

var supported = map[Currency]bool{
	NGN: true, GHS: true, KES: true, UGX: true, TZS: true, ZAR: true, RWF: true,
	ETB: true, XOF: true, XAF: true, USD: true, GBP: true, EUR: true,
}

// ParseCurrency normalizes a code and reports whether it is supported.
func ParseCurrency(s string) (Currency, bool) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	return c, supported[c]
}

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool { return supported[c] }

func (c Currency) String() string { return string(c) }
