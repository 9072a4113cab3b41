package money

import (
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountArithmetic(t *testing.T) {
	a := MustParse("5000")
	fee := FromInt(25)

	assert.Equal(t, "5025.00", a.Add(fee).String())
	assert.Equal(t, "4975.00", a.Sub(fee).String())
	assert.Equal(t, "75.00", a.Percent(decimal.NewFromFloat(1.5)).String())
	assert.Equal(t, "25.00", a.Min(fee).String())
	assert.True(t, a.GreaterThan(fee))
	assert.True(t, Zero.IsZero())
	assert.True(t, fee.Neg().IsNegative())
}

func TestAmountRound2(t *testing.T) {
	assert.Equal(t, "0.02", MustParse("0.015").Round2().String())
	assert.Equal(t, "10.00", MustParse("9.999").Round2().String())
}

func TestAmountJSON(t *testing.T) {
	t.Run("Marshal As String", func(t *testing.T) {
		b, err := json.Marshal(struct {
			Amount Amount `json:"amount"`
		}{MustParse("12.5")})
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"12.50"}`, string(b))
	})

	t.Run("Unmarshal Number And String", func(t *testing.T) {
		var v struct {
			A Amount `json:"a"`
			B Amount `json:"b"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"a":100,"b":"200.25"}`), &v))
		assert.True(t, v.A.Equal(FromInt(100)))
		assert.True(t, v.B.Equal(MustParse("200.25")))
	})

	t.Run("Unmarshal Garbage Fails", func(t *testing.T) {
		var a Amount
		assert.Error(t, json.Unmarshal([]byte(`"abc"`), &a))
	})
}

func TestAmountDynamoDB(t *testing.T) {
	av, err := attributevalue.Marshal(MustParse("94975"))
	require.NoError(t, err)
	n, ok := av.(*types.AttributeValueMemberN)
	require.True(t, ok)
	assert.Equal(t, "94975", n.Value)

	var out Amount
	require.NoError(t, attributevalue.Unmarshal(&types.AttributeValueMemberN{Value: "10.75"}, &out))
	assert.Equal(t, "10.75", out.String())

	assert.Error(t, out.UnmarshalDynamoDBAttributeValue(&types.AttributeValueMemberBOOL{Value: true}))
}

func TestParseCurrency(t *testing.T) {
	c, ok := ParseCurrency(" ngn ")
	assert.True(t, ok)
	assert.Equal(t, NGN, c)

	_, ok = ParseCurrency("XYZ")
	assert.False(t, ok)
}

func TestRateConvert(t *testing.T) {
	r, err := NewRate("1520.5")
	require.NoError(t, err)
	assert.Equal(t, "152050.00", r.Convert(FromInt(100)).String())

	_, err = NewRate("0")
	assert.Error(t, err)

	assert.Equal(t, "7.00", One.Convert(FromInt(7)).String())
}
