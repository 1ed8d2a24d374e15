package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, StockOutOfStock, StatusFor(0, 10))
	assert.Equal(t, StockLow, StatusFor(10, 10))
	assert.Equal(t, StockLow, StatusFor(3, 10))
	assert.Equal(t, StockInStock, StatusFor(11, 10))
	assert.Equal(t, StockInStock, StatusFor(1, 0))
}

func TestProductDraft_Validate(t *testing.T) {
	valid := ProductDraft{Code: "CSC001", Name: "Custom Steel Component", UnitPrice: decimal.RequireFromString("12.50")}

	t.Run("Valid draft", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("Missing code and name", func(t *testing.T) {
		err := ProductDraft{}.Validate()

		var fields FieldErrors
		require.ErrorAs(t, err, &fields)
		assert.Equal(t, "required", fields["code"])
		assert.Equal(t, "required", fields["name"])
	})

	t.Run("Negative price", func(t *testing.T) {
		d := valid
		d.UnitPrice = decimal.NewFromInt(-1)

		var fields FieldErrors
		require.ErrorAs(t, d.Validate(), &fields)
		assert.Equal(t, FieldErrors{"unit_price": "gte"}, fields)
	})

	t.Run("Price finer than a cent", func(t *testing.T) {
		d := valid
		d.UnitPrice = decimal.RequireFromString("10.005")

		var fields FieldErrors
		require.ErrorAs(t, d.Validate(), &fields)
		assert.Equal(t, FieldErrors{"unit_price": "decimals"}, fields)
	})

	t.Run("Trailing zeros are fine", func(t *testing.T) {
		d := valid
		d.UnitPrice = decimal.RequireFromString("10.5000")
		assert.NoError(t, d.Validate())
	})

	t.Run("Negative price alongside other failures", func(t *testing.T) {
		d := ProductDraft{Name: strings.Repeat("x", 201), UnitPrice: decimal.NewFromInt(-5)}

		var fields FieldErrors
		require.ErrorAs(t, d.Validate(), &fields)
		assert.Equal(t, "gte", fields["unit_price"])
		assert.Equal(t, "max", fields["name"])
		assert.Equal(t, "required", fields["code"])
	})
}

func TestValidPrice(t *testing.T) {
	_, ok := ValidPrice(decimal.RequireFromString("0"))
	assert.True(t, ok)

	tag, ok := ValidPrice(decimal.RequireFromString("25.50"))
	assert.True(t, ok)
	assert.Empty(t, tag)

	tag, ok = ValidPrice(decimal.RequireFromString("0.001"))
	assert.False(t, ok)
	assert.Equal(t, "decimals", tag)
}

func TestProductDraft_Normalize(t *testing.T) {
	d := ProductDraft{Code: "  SAP001 ", Name: " Special Aluminum Part "}.Normalize()
	assert.Equal(t, "SAP001", d.Code)
	assert.Equal(t, "Special Aluminum Part", d.Name)
	assert.Equal(t, "pcs", d.Unit)
}

func TestNewProduct(t *testing.T) {
	p := NewProduct(ProductDraft{Code: "X1", Name: "X", UnitPrice: decimal.RequireFromString("3.456")})
	assert.Equal(t, "3.46", p.UnitPrice.StringFixed(2))
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, StockOutOfStock, p.Status)
}
