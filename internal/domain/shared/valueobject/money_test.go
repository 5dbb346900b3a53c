package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), BRL)
		require.NoError(t, err)
		assert.Equal(t, BRL, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		assert.ErrorContains(t, err, "currency cannot be empty")
	})
}

func TestNewMoneyBRLFromString(t *testing.T) {
	m, err := NewMoneyBRLFromString("123.45")
	require.NoError(t, err)
	assert.Equal(t, "123.45 BRL", m.String())

	_, err = NewMoneyBRLFromString("abc")
	assert.Error(t, err)
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyBRL(decimal.RequireFromString("0.10"))
	b := NewMoneyBRL(decimal.RequireFromString("0.20"))

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.RequireFromString("0.30")), "decimal addition keeps cents exact")

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.IsNegative())
	assert.True(t, diff.Abs().Equals(a))

	usd, _ := NewMoney(decimal.NewFromInt(1), USD)
	_, err = a.Add(usd)
	assert.Error(t, err)
	assert.Panics(t, func() { a.MustAdd(usd) })
}

func TestMoney_RoundCents(t *testing.T) {
	m := NewMoneyBRL(decimal.RequireFromString("10.005"))
	assert.Equal(t, "10.01", m.RoundCents().Amount().StringFixed(2))
}

func TestMoney_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewMoneyBRL(decimal.NewFromInt(1000)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"1000.00","currency":"BRL"}`, string(data))
}

func TestMinDecimal(t *testing.T) {
	assert.True(t, MinDecimal(decimal.NewFromInt(3), decimal.NewFromInt(5)).Equal(decimal.NewFromInt(3)))
	assert.True(t, MinDecimal(decimal.NewFromInt(5), decimal.NewFromInt(3)).Equal(decimal.NewFromInt(3)))
}
