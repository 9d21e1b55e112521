package views

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equitydesk/equitydesk/internal/domain"
)

func fillForm(t *testing.T, f *OrderForm, values map[string]string) {
	t.Helper()
	for k, v := range values {
		require.NoError(t, f.Set(k, v))
	}
}

func validValues() map[string]string {
	return map[string]string{
		FieldTradeID:    "1",
		FieldSymbol:     "AAPL",
		FieldQuantity:   "10",
		FieldActionType: "INSERT",
		FieldOrderType:  "BUY",
	}
}

func TestOrderForm_EmptyIsRequired(t *testing.T) {
	f := NewOrderForm()
	errs := f.Errors()
	for _, field := range OrderFields {
		assert.Equal(t, ErrKindRequired, errs[field], field)
	}
	assert.False(t, f.Valid())
}

func TestOrderForm_ErrorsHiddenUntilTouched(t *testing.T) {
	f := NewOrderForm()
	assert.Empty(t, f.FieldError(FieldSymbol))

	f.Touch(FieldSymbol)
	assert.Equal(t, "symbol is required", f.FieldError(FieldSymbol))
	assert.Empty(t, f.FieldError(FieldQuantity))
}

func TestOrderForm_SymbolPattern(t *testing.T) {
	cases := map[string]bool{
		"AAPL":   true,
		"A":      true,
		"GOOGL":  true,
		"AAPLX":  true,
		"AAPLXY": false,
		"aapl":   false,
		"AA1":    false,
		"AA PL":  false,
	}
	for sym, ok := range cases {
		f := NewOrderForm()
		vals := validValues()
		vals[FieldSymbol] = sym
		fillForm(t, f, vals)
		f.Touch(FieldSymbol)
		if ok {
			assert.Empty(t, f.FieldError(FieldSymbol), sym)
		} else {
			assert.Equal(t, "Invalid symbol format", f.FieldError(FieldSymbol), sym)
		}
	}
}

func TestOrderForm_Quantity(t *testing.T) {
	cases := []struct {
		in   string
		kind string
	}{
		{"10", ""},
		{"1", ""},
		{"0", ErrKindMin},
		{"-5", ErrKindMin},
		{"1.5", ErrKindPattern},
		{"ten", ErrKindPattern},
		{"", ErrKindRequired},
	}
	for _, c := range cases {
		f := NewOrderForm()
		vals := validValues()
		vals[FieldQuantity] = c.in
		fillForm(t, f, vals)
		assert.Equal(t, c.kind, f.Errors()[FieldQuantity], c.in)
	}

	f := NewOrderForm()
	vals := validValues()
	vals[FieldQuantity] = "0"
	fillForm(t, f, vals)
	f.MarkAllTouched()
	assert.Equal(t, "quantity must be greater than 0", f.FieldError(FieldQuantity))
}

func TestOrderForm_EnumFields(t *testing.T) {
	f := NewOrderForm()
	vals := validValues()
	vals[FieldActionType] = "DELETE"
	vals[FieldOrderType] = "HOLD"
	fillForm(t, f, vals)

	errs := f.Errors()
	assert.Equal(t, ErrKindPattern, errs[FieldActionType])
	assert.Equal(t, ErrKindPattern, errs[FieldOrderType])
}

func TestOrderForm_Order(t *testing.T) {
	f := NewOrderForm()
	fillForm(t, f, validValues())

	order, err := f.Order()
	require.NoError(t, err)
	assert.Equal(t, domain.Order{
		TradeID:    "1",
		Symbol:     "AAPL",
		Quantity:   10,
		ActionType: domain.ActionTypeInsert,
		OrderType:  domain.OrderTypeBuy,
	}, order)
}

func TestOrderForm_OrderInvalid(t *testing.T) {
	f := NewOrderForm()
	require.NoError(t, f.Set(FieldSymbol, "AAPL"))

	_, err := f.Order()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.NotContains(t, verr.Fields, FieldSymbol)
	assert.Equal(t, ErrKindRequired, verr.Fields[FieldTradeID])
	assert.Contains(t, err.Error(), "tradeId(required)")
}

func TestOrderForm_UnknownField(t *testing.T) {
	f := NewOrderForm()
	err := f.Set("price", "10")
	assert.True(t, errors.Is(err, ErrUnknownField))
}

func TestOrderForm_Reset(t *testing.T) {
	f := NewOrderForm()
	fillForm(t, f, validValues())
	f.MarkAllTouched()

	f.Reset()
	for _, field := range OrderFields {
		assert.Empty(t, f.Value(field))
		assert.False(t, f.Touched(field))
	}
}
