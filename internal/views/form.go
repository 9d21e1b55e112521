package views

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/equitydesk/equitydesk/internal/domain"
)

const (
	FieldTradeID    = "tradeId"
	FieldSymbol     = "symbol"
	FieldQuantity   = "quantity"
	FieldActionType = "actionType"
	FieldOrderType  = "orderType"
)

// OrderFields lists the form fields in display order.
var OrderFields = []string{FieldTradeID, FieldSymbol, FieldQuantity, FieldActionType, FieldOrderType}

// Error kinds reported per field.
const (
	ErrKindRequired = "required"
	ErrKindPattern  = "pattern"
	ErrKindMin      = "min"
)

var ErrUnknownField = errors.New("unknown form field")

var symbolPattern = regexp.MustCompile(`^[A-Z]{1,5}$`)

// orderInput is the raw form state validated through struct tags.
type orderInput struct {
	TradeID    string `form:"tradeId" validate:"required"`
	Symbol     string `form:"symbol" validate:"required,symbol"`
	Quantity   string `form:"quantity" validate:"required,integer,positive"`
	ActionType string `form:"actionType" validate:"required,oneof=INSERT UPDATE CANCEL"`
	OrderType  string `form:"orderType" validate:"required,oneof=BUY SELL"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			return f.Tag.Get("form")
		})
		mustRegister(v, "symbol", func(fl validator.FieldLevel) bool {
			return symbolPattern.MatchString(fl.Field().String())
		})
		mustRegister(v, "integer", func(fl validator.FieldLevel) bool {
			_, err := parseQuantity(fl.Field().String())
			return err == nil
		})
		mustRegister(v, "positive", func(fl validator.FieldLevel) bool {
			n, err := parseQuantity(fl.Field().String())
			return err == nil && n >= 1
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

func parseQuantity(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func errorKind(tag string) string {
	switch tag {
	case "required":
		return ErrKindRequired
	case "positive", "min":
		return ErrKindMin
	default:
		return ErrKindPattern
	}
}

// ValidationError carries the failing fields and their error kinds. It never
// leaves the view layer.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range OrderFields {
		if kind, ok := e.Fields[f]; ok {
			parts = append(parts, f+"("+kind+")")
		}
	}
	return "invalid order form: " + strings.Join(parts, ", ")
}

// OrderForm holds raw field values and touched marks. It is not safe for
// concurrent use; OrderExecutionView guards it.
type OrderForm struct {
	values  map[string]string
	touched map[string]bool
}

func NewOrderForm() *OrderForm {
	f := &OrderForm{}
	f.Reset()
	return f
}

func knownField(field string) bool {
	for _, f := range OrderFields {
		if f == field {
			return true
		}
	}
	return false
}

func (f *OrderForm) Set(field, value string) error {
	if !knownField(field) {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	f.values[field] = value
	return nil
}

func (f *OrderForm) Value(field string) string {
	return f.values[field]
}

// Touch marks a field as interacted with so its error text is shown.
func (f *OrderForm) Touch(field string) {
	if knownField(field) {
		f.touched[field] = true
	}
}

func (f *OrderForm) Touched(field string) bool {
	return f.touched[field]
}

func (f *OrderForm) MarkAllTouched() {
	for _, field := range OrderFields {
		f.touched[field] = true
	}
}

func (f *OrderForm) input() orderInput {
	return orderInput{
		TradeID:    f.values[FieldTradeID],
		Symbol:     f.values[FieldSymbol],
		Quantity:   f.values[FieldQuantity],
		ActionType: f.values[FieldActionType],
		OrderType:  f.values[FieldOrderType],
	}
}

// Errors maps each invalid field to its error kind. Empty means valid.
func (f *OrderForm) Errors() map[string]string {
	out := make(map[string]string)
	err := formValidator().Struct(f.input())
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		for _, field := range OrderFields {
			out[field] = ErrKindPattern
		}
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = errorKind(fe.Tag())
	}
	return out
}

func (f *OrderForm) Valid() bool {
	return len(f.Errors()) == 0
}

// FieldError returns the message for a touched invalid field, or "".
func (f *OrderForm) FieldError(field string) string {
	if !f.touched[field] {
		return ""
	}
	switch f.Errors()[field] {
	case ErrKindRequired:
		return field + " is required"
	case ErrKindPattern:
		return "Invalid " + field + " format"
	case ErrKindMin:
		return field + " must be greater than 0"
	}
	return ""
}

// Order converts a valid form into a domain order.
func (f *OrderForm) Order() (domain.Order, error) {
	if errs := f.Errors(); len(errs) > 0 {
		return domain.Order{}, &ValidationError{Fields: errs}
	}
	in := f.input()
	qty, _ := parseQuantity(in.Quantity)
	return domain.Order{
		TradeID:    in.TradeID,
		Symbol:     in.Symbol,
		Quantity:   qty,
		ActionType: domain.ActionType(in.ActionType),
		OrderType:  domain.OrderType(in.OrderType),
	}, nil
}

// Reset clears values and touched marks.
func (f *OrderForm) Reset() {
	f.values = make(map[string]string, len(OrderFields))
	f.touched = make(map[string]bool, len(OrderFields))
}

// Snapshot returns a copy of the current values.
func (f *OrderForm) Snapshot() map[string]string {
	out := make(map[string]string, len(OrderFields))
	for _, field := range OrderFields {
		out[field] = f.values[field]
	}
	return out
}
