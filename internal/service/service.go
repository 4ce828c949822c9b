package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/hquant/futuresbot/internal/audit"
	"github.com/hquant/futuresbot/internal/gateway"
	"github.com/hquant/futuresbot/internal/order"
	"github.com/hquant/futuresbot/internal/session"
)

// DefaultOrderTimeout bounds a single exchange call.
const DefaultOrderTimeout = 10 * time.Second

// OrderService composes validation, translation, gateway submission
// and audit logging into one atomic place-order operation.
type OrderService struct {
	store        audit.Store
	log          *slog.Logger
	orderTimeout time.Duration
}

func NewOrderService(store audit.Store, log *slog.Logger, orderTimeout time.Duration) *OrderService {
	if orderTimeout <= 0 {
		orderTimeout = DefaultOrderTimeout
	}
	return &OrderService{
		store:        store,
		log:          log,
		orderTimeout: orderTimeout,
	}
}

// PlaceOrder runs one submission attempt against the given session
// snapshot. Every path returns a well-formed outcome and writes
// exactly one audit record; no error escapes to the caller.
func (s *OrderService) PlaceOrder(ctx context.Context, sess *session.Session, req order.Request) order.Outcome {
	req.Symbol = order.NormalizeSymbol(req.Symbol)

	if sess == nil {
		outcome := order.Rejected(session.ErrNotConfigured.Error())
		s.record(ctx, audit.LevelError, "", req, outcome, "")
		return outcome
	}

	if verr := order.Validate(req); verr != nil {
		outcome := order.Rejected(string(verr.Code))
		s.record(ctx, audit.LevelError, "", req, outcome, verr.Message)
		return outcome
	}

	clientOrderID := uuid.NewString()
	params := order.Translate(req, clientOrderID)

	callCtx, cancel := context.WithTimeout(ctx, s.orderTimeout)
	defer cancel()

	ack, err := sess.Gateway.Submit(callCtx, params)
	if err != nil {
		ge := gatewayError(err)
		outcome := order.Rejected(callerReason(ge))
		s.record(ctx, audit.LevelError, clientOrderID, req, outcome, ge.Error())
		return outcome
	}

	outcome := order.Outcome{
		Accepted:        true,
		ExchangeOrderID: strconv.FormatInt(ack.OrderID, 10),
		Status:          ack.Status,
	}
	s.record(ctx, audit.LevelInfo, clientOrderID, req, outcome, "")
	return outcome
}

// Tail exposes the audit trail for display.
func (s *OrderService) Tail(ctx context.Context, n int) ([]audit.Record, error) {
	return s.store.Tail(ctx, n)
}

// record appends one audit entry. Append failures are reported on the
// process log and swallowed; they never mask the order outcome.
func (s *OrderService) record(ctx context.Context, level audit.Level, clientOrderID string, req order.Request, outcome order.Outcome, detail string) {
	rec := audit.Record{
		Timestamp:     time.Now().UTC(),
		Level:         level,
		ClientOrderID: clientOrderID,
		Request:       audit.ViewOf(req),
		Outcome:       outcome,
		Detail:        detail,
	}
	// the audit write must land even when the caller's context is
	// already cancelled
	if err := s.store.Append(context.WithoutCancel(ctx), rec); err != nil {
		s.log.Error("failed to append audit record", "err", err, "client_order_id", clientOrderID)
	}
}

func gatewayError(err error) *gateway.Error {
	var ge *gateway.Error
	if errors.As(err, &ge) {
		return ge
	}
	return gateway.NewError(gateway.KindNetwork, "%v", err)
}

// callerReason sanitizes a gateway failure for the caller. Exchange
// rejections keep their message since it describes the caller's own
// order; auth and transport detail stays in the audit record only.
func callerReason(ge *gateway.Error) string {
	if ge.Kind == gateway.KindExchangeRejected {
		return ge.Error()
	}
	return string(ge.Kind)
}
