package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/hquant/futuresbot/internal/order"
)

// Gateway defines the single call the bot makes against an exchange.
type Gateway interface {
	// Submit places one futures order. A failed call yields exactly one
	// error; the gateway never retries.
	Submit(ctx context.Context, params order.Params) (*Ack, error)

	// Ping checks that the exchange endpoint is reachable. It does not
	// verify credentials.
	Ping(ctx context.Context) error
}

// Ack is the exchange acknowledgement of an accepted order.
type Ack struct {
	OrderID       int64
	ClientOrderID string
	Status        string
}

type ErrorKind string

const (
	KindNetwork          ErrorKind = "NetworkError"
	KindAuth             ErrorKind = "AuthError"
	KindExchangeRejected ErrorKind = "ExchangeRejected"
	KindCancelled        ErrorKind = "Cancelled"
)

// Error classifies a failed exchange call. Message keeps the raw
// detail for the audit trail; callers surface only the kind.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the error kind, defaulting to NetworkError for
// errors that did not come from a gateway.
func KindOf(err error) ErrorKind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindNetwork
}
