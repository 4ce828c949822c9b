package audit

import (
	"context"
	"time"

	"github.com/hquant/futuresbot/internal/order"
)

type Level string

const (
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

// DefaultTail is the number of records returned when the caller does
// not ask for a specific count.
const DefaultTail = 50

// RequestView is the redacted copy of an order request stored in the
// audit trail. It never carries credentials.
type RequestView struct {
	Symbol   string     `json:"symbol"`
	Side     order.Side `json:"side"`
	Type     order.Type `json:"order_type"`
	Quantity string     `json:"quantity"`
	Price    string     `json:"price,omitempty"`
}

// ViewOf builds the stored view of a request.
func ViewOf(req order.Request) RequestView {
	v := RequestView{
		Symbol:   order.NormalizeSymbol(req.Symbol),
		Side:     req.Side,
		Type:     req.Type,
		Quantity: req.Quantity.String(),
	}
	if req.Price != nil {
		v.Price = req.Price.String()
	}
	return v
}

// Record is one immutable audit entry: a submission attempt and its
// outcome. Created once per PlaceOrder call, never mutated.
type Record struct {
	Timestamp     time.Time     `json:"timestamp"`
	Level         Level         `json:"level"`
	ClientOrderID string        `json:"client_order_id,omitempty"`
	Request       RequestView   `json:"request"`
	Outcome       order.Outcome `json:"outcome"`

	// Detail holds the raw failure for diagnosis; the outcome carries
	// only the sanitized reason shown to callers.
	Detail string `json:"detail,omitempty"`
}

// Store is an append-only audit log.
type Store interface {
	// Append writes one record. Each record is written atomically so
	// concurrent appends never interleave.
	Append(ctx context.Context, rec Record) error

	// Tail returns the last n records in the order they were written.
	// A missing or empty log yields an empty slice, not an error.
	Tail(ctx context.Context, n int) ([]Record, error)
}
