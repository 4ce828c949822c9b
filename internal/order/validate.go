package order

import "fmt"

type ValidationCode string

const (
	CodeInvalidSymbol    ValidationCode = "InvalidSymbol"
	CodeInvalidSide      ValidationCode = "InvalidSide"
	CodeInvalidOrderType ValidationCode = "InvalidOrderType"
	CodeInvalidQuantity  ValidationCode = "InvalidQuantity"
	CodeMissingPrice     ValidationCode = "MissingPrice"
)

// ValidationError describes a structural problem with a Request. It is
// produced before any network call is made.
type ValidationError struct {
	Code    ValidationCode
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(code ValidationCode, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Validate checks a request for structural correctness. Rules apply in
// order and short-circuit on the first failure. Pure; no side effects.
// A supplied price on a MARKET order is not an error, it is dropped
// later by Translate.
func Validate(req Request) *ValidationError {
	if NormalizeSymbol(req.Symbol) == "" {
		return invalid(CodeInvalidSymbol, "symbol must not be empty")
	}
	switch req.Side {
	case SideBuy, SideSell:
	default:
		return invalid(CodeInvalidSide, "side %q must be BUY or SELL", string(req.Side))
	}
	switch req.Type {
	case TypeMarket, TypeLimit:
	default:
		return invalid(CodeInvalidOrderType, "order type %q not supported", string(req.Type))
	}
	if !req.Quantity.IsPositive() {
		return invalid(CodeInvalidQuantity, "quantity %s must be positive", req.Quantity)
	}
	if req.Type == TypeLimit {
		if req.Price == nil || !req.Price.IsPositive() {
			return invalid(CodeMissingPrice, "limit order requires a positive price")
		}
	}
	return nil
}
