package fees

import (
	"testing"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	s := Default()

	cases := []struct {
		name   string
		typ    models.TransactionType
		amount string
		conv   bool
		fee    string
		total  string
	}{
		{"Bank Small", models.TypeBankTransfer, "1000", false, "10.00", "10.00"},
		{"Bank Mid", models.TypeBankTransfer, "5000", false, "25.00", "25.00"},
		{"Bank Large", models.TypeBankTransfer, "20000", false, "300.00", "300.00"},
		{"Bank Capped", models.TypeBankTransfer, "100000", false, "500.00", "500.00"},
		{"Internal Free Tier", models.TypeInternalTransfer, "10000", false, "0.00", "0.00"},
		{"Internal Above Threshold", models.TypeInternalTransfer, "20000", false, "100.00", "100.00"},
		{"Mobile Money", models.TypeMobileMoney, "1000", false, "20.00", "20.00"},
		{"Mobile Money Capped", models.TypeMobileMoney, "50000", false, "300.00", "300.00"},
		{"Withdrawal Capped", models.TypeWalletWithdrawal, "20000", false, "100.00", "100.00"},
		{"Refund Free", models.TypeRefund, "20000", false, "0.00", "0.00"},
		{"Bank With Conversion", models.TypeBankTransfer, "5000", true, "25.00", "75.00"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := s.Compute(c.typ, money.MustParse(c.amount), c.conv)
			assert.Equal(t, c.fee, f.TransactionFee.String())
			assert.Equal(t, c.total, f.TotalFees.String())
		})
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	a := Compute(models.TypeBankTransfer, money.MustParse("12345.67"), true)
	b := Compute(models.TypeBankTransfer, money.MustParse("12345.67"), true)
	assert.Equal(t, a, b)
	assert.Equal(t, "185.19", a.TransactionFee.String())
	assert.Equal(t, "123.46", a.ExchangeFee.String())
}

func TestComputeDeposit(t *testing.T) {
	s := Default()

	t.Run("Card", func(t *testing.T) {
		f, err := s.ComputeDeposit(money.FromInt(10000), MethodCard)
		require.NoError(t, err)
		assert.Equal(t, "150.00", f.ProcessingFee.String())
		assert.Equal(t, "150.00", f.TotalFees.String())
	})

	t.Run("Bank Transfer", func(t *testing.T) {
		f, err := s.ComputeDeposit(money.FromInt(10000), MethodBankTransfer)
		require.NoError(t, err)
		assert.True(t, f.TotalFees.IsZero())
	})

	t.Run("Unknown Method Fails", func(t *testing.T) {
		_, err := s.ComputeDeposit(money.FromInt(10000), DepositMethod("cash"))
		assert.Error(t, err)
	})
}

func TestParse(t *testing.T) {
	t.Run("Unbounded Last Tier Required", func(t *testing.T) {
		_, err := Parse([]byte("types:\n  bank_transfer:\n    - up_to: 10\n      flat: 1\n"))
		assert.Error(t, err)
	})

	t.Run("Invalid YAML Fails", func(t *testing.T) {
		_, err := Parse([]byte("types: ["))
		assert.Error(t, err)
	})
}
