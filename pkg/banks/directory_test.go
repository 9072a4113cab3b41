package banks

import (
	"testing"

	"github.com/chris/remittance-ledger/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDirectory(t *testing.T) {
	d := Default()
	assert.Equal(t, []string{"ET", "GH", "KE", "NG", "RW", "TZ", "UG", "ZA"}, d.Countries())

	banks, err := d.ListBanks("ng")
	require.NoError(t, err)
	assert.NotEmpty(t, banks)

	cur, err := d.Currency("GH")
	require.NoError(t, err)
	assert.Equal(t, money.GHS, cur)
}

func TestFindBank(t *testing.T) {
	d := Default()

	t.Run("Success", func(t *testing.T) {
		b, err := d.FindBank("NG", "058")
		require.NoError(t, err)
		assert.Equal(t, "Guaranty Trust Bank", b.Name)
	})

	t.Run("Unknown Bank Fails", func(t *testing.T) {
		_, err := d.FindBank("NG", "999")
		assert.ErrorIs(t, err, ErrBankNotFound)
	})

	t.Run("Unknown Country Fails", func(t *testing.T) {
		_, err := d.FindBank("FR", "058")
		assert.ErrorIs(t, err, ErrUnsupportedCountry)
	})
}

func TestValidateAccountNumber(t *testing.T) {
	d := Default()
	assert.NoError(t, d.ValidateAccountNumber("NG", "0123456789"))
	assert.ErrorIs(t, d.ValidateAccountNumber("NG", "12345"), ErrInvalidAccountNumber)
	assert.NoError(t, d.ValidateAccountNumber("ZA", "123456789"))
	assert.NoError(t, d.ValidateAccountNumber("ZA", "12345678901"))
	assert.ErrorIs(t, d.ValidateAccountNumber("RW", "123"), ErrInvalidAccountNumber)
}

func TestMobileMoneyProviders(t *testing.T) {
	d := Default()

	p, err := d.FindMobileMoneyProvider("KE", "mpesa")
	require.NoError(t, err)
	assert.Equal(t, "M-Pesa", p.Name)

	ng, err := d.MobileMoneyProviders("NG")
	require.NoError(t, err)
	assert.Empty(t, ng)

	_, err = d.FindMobileMoneyProvider("NG", "MTN")
	assert.ErrorIs(t, err, ErrBankNotFound)
}

func TestLoadBadPattern(t *testing.T) {
	_, err := Load([]byte("countries:\n  XX:\n    account_pattern: '['\n"))
	assert.Error(t, err)
}
