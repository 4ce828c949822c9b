package order

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Side string

type Type string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

const (
	TypeMarket Type = "MARKET"
	TypeLimit  Type = "LIMIT"
)

// ParseSide normalizes a free-form side string. Unknown values are
// returned as-is so the validator can reject them with a typed error.
func ParseSide(s string) Side {
	return Side(strings.ToUpper(strings.TrimSpace(s)))
}

func ParseType(s string) Type {
	return Type(strings.ToUpper(strings.TrimSpace(s)))
}

// Request is a caller-supplied order intent. Symbol is upper-cased by
// NormalizeSymbol before validation; Price is nil for MARKET orders.
type Request struct {
	Symbol   string           `json:"symbol"`
	Side     Side             `json:"side"`
	Type     Type             `json:"order_type"`
	Quantity decimal.Decimal  `json:"quantity"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Params is the exchange wire shape of a validated request. Quantity
// and Price carry exchange-formatted strings; Price and TimeInForce
// are empty for MARKET orders.
type Params struct {
	Symbol        string `json:"symbol"`
	Side          Side   `json:"side"`
	Type          Type   `json:"type"`
	Quantity      string `json:"quantity"`
	Price         string `json:"price,omitempty"`
	TimeInForce   string `json:"time_in_force,omitempty"`
	ClientOrderID string `json:"client_order_id"`
}

// Outcome is the result of one submission attempt. Either Accepted is
// true and the exchange fields are set, or Accepted is false and
// Reason explains the rejection. Never both.
type Outcome struct {
	Accepted        bool   `json:"accepted"`
	ExchangeOrderID string `json:"exchange_order_id,omitempty"`
	Status          string `json:"status,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

func Accepted(orderID, status string) Outcome {
	return Outcome{Accepted: true, ExchangeOrderID: orderID, Status: status}
}

func Rejected(reason string) Outcome {
	return Outcome{Accepted: false, Reason: reason}
}
