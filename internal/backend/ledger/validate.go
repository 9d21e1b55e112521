package ledger

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var symbolPattern = regexp.MustCompile(`^[A-Z]{1,5}$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func instructionValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		if err := v.RegisterValidation("symbol", func(fl validator.FieldLevel) bool {
			return symbolPattern.MatchString(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("register symbol validation: %v", err))
		}
		validate = v
	})
	return validate
}

// validateInstruction reports the first invalid field as a rejection. CANCEL
// only needs the trade id and action.
func validateInstruction(in Instruction) error {
	v := instructionValidator()
	var err error
	if in.ActionType == "CANCEL" {
		err = v.StructPartial(in, "TradeID", "ActionType")
	} else {
		err = v.Struct(in)
	}
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return reject("invalid instruction")
	}
	fe := verrs[0]
	switch fe.Field() {
	case "TradeID":
		return reject("tradeID is required")
	case "Symbol":
		if fe.Tag() == "required" {
			return reject("symbol is required")
		}
		return reject("invalid symbol %q", in.Symbol)
	case "Quantity":
		return reject("quantity must be greater than 0")
	case "ActionType":
		return reject("invalid actionType %q", in.ActionType)
	case "OrderType":
		return reject("invalid orderType %q", in.OrderType)
	}
	return reject("invalid %s", fe.Field())
}
