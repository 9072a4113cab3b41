// Package fees computes the fee breakdown of a transaction. Every function here is
// pure: the same inputs always produce the same breakdown, so a quote and the
// transaction created from it agree exactly.
package fees

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/money"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed schedule.yaml
var defaultSchedule []byte

// DepositMethod is how a deposit is funded.
type DepositMethod string

const (
	MethodCard         DepositMethod = "card"
	MethodBankTransfer DepositMethod = "bank_transfer"
)

// Tier is one band of a tiered rule. A tier applies when UpTo is nil or the amount
// is at most UpTo. The fee is Flat plus Percent of the amount, capped at Cap.
type Tier struct {
	UpTo    *decimal.Decimal `yaml:"up_to"`
	Flat    decimal.Decimal  `yaml:"flat"`
	Percent decimal.Decimal  `yaml:"percent"`
	Cap     *decimal.Decimal `yaml:"cap"`
}

// Rate is a flat percentage with an optional cap.
type Rate struct {
	Percent decimal.Decimal  `yaml:"percent"`
	Cap     *decimal.Decimal `yaml:"cap"`
}

// Schedule is the parsed fee table.
type Schedule struct {
	ConversionPercent decimal.Decimal                   `yaml:"conversion_percent"`
	Types             map[models.TransactionType][]Tier `yaml:"types"`
	DepositMethods    map[DepositMethod]Rate            `yaml:"deposit_methods"`
}

// Parse reads a YAML fee schedule.
func Parse(data []byte) (Schedule, error) {
	var s Schedule
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Schedule{}, fmt.Errorf("failed to parse fee schedule: %w", err)
	}
	for t, tiers := range s.Types {
		if len(tiers) == 0 {
			return Schedule{}, fmt.Errorf("fee schedule: no tiers for %s", t)
		}
		if tiers[len(tiers)-1].UpTo != nil {
			return Schedule{}, fmt.Errorf("fee schedule: last tier of %s must be unbounded", t)
		}
	}
	return s, nil
}

var (
	defaultOnce sync.Once
	defaultSch  Schedule
)

// Default returns the embedded schedule.
func Default() Schedule {
	defaultOnce.Do(func() {
		s, err := Parse(defaultSchedule)
		if err != nil {
			panic(err)
		}
		defaultSch = s
	})
	return defaultSch
}

// Compute returns the fee breakdown for an outbound transaction.
func (s Schedule) Compute(t models.TransactionType, amount money.Amount, hasConversion bool) models.Fees {
	txFee := s.tierFee(t, amount)
	var exFee money.Amount
	if hasConversion {
		exFee = amount.Percent(s.ConversionPercent).Round2()
	}
	return breakdown(txFee, exFee, money.Zero)
}

// ComputeDeposit returns the fee breakdown for a deposit funded by method.
func (s Schedule) ComputeDeposit(amount money.Amount, method DepositMethod) (models.Fees, error) {
	r, ok := s.DepositMethods[method]
	if !ok {
		return models.Fees{}, fmt.Errorf("unsupported deposit method %q", method)
	}
	fee := amount.Percent(r.Percent)
	if r.Cap != nil {
		fee = fee.Min(money.FromDecimal(*r.Cap))
	}
	return breakdown(money.Zero, money.Zero, fee.Round2()), nil
}

func (s Schedule) tierFee(t models.TransactionType, amount money.Amount) money.Amount {
	for _, tier := range s.Types[t] {
		if tier.UpTo != nil && amount.GreaterThan(money.FromDecimal(*tier.UpTo)) {
			continue
		}
		fee := money.FromDecimal(tier.Flat).Add(amount.Percent(tier.Percent))
		if tier.Cap != nil {
			fee = fee.Min(money.FromDecimal(*tier.Cap))
		}
		return fee.Round2()
	}
	return money.Zero
}

func breakdown(tx, ex, proc money.Amount) models.Fees {
	return models.Fees{
		TransactionFee: tx,
		ExchangeFee:    ex,
		ProcessingFee:  proc,
		TotalFees:      tx.Add(ex).Add(proc),
	}
}

// Compute is Default().Compute.
func Compute(t models.TransactionType, amount money.Amount, hasConversion bool) models.Fees {
	return Default().Compute(t, amount, hasConversion)
}
