package binance

import (
	"context"
	"errors"
	"sync"

	"github.com/hquant/futuresbot/internal/gateway"
	"github.com/hquant/futuresbot/internal/order"
	"github.com/hquant/futuresbot/internal/utils/request"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
)

const (
	prodBaseURL    = "https://fapi.binance.com"
	testnetBaseURL = "https://testnet.binancefuture.com"
)

// auth-related Binance API error codes
const (
	codeInvalidSignature = -1022
	codeBadAPIKeyFormat  = -2014
	codeInvalidAPIKey    = -2015
)

// Gateway implements gateway.Gateway against Binance USD-M futures.
type Gateway struct {
	client  *futures.Client
	baseURL string
	mu      sync.Mutex
}

// New builds a gateway bound to one credential set. testnet selects the
// sandbox endpoint for every call made through this gateway. The base
// URL is pinned on the client rather than via futures.UseTestnet, so a
// reconfigure with a flipped flag cannot reroute another gateway's
// in-flight call.
func New(apiKey, secretKey string, testnet bool) *Gateway {
	baseURL := prodBaseURL
	if testnet {
		baseURL = testnetBaseURL
	}

	client := futures.NewClient(apiKey, secretKey)
	client.BaseURL = baseURL

	return &Gateway{
		client:  client,
		baseURL: baseURL,
	}
}

// Submit places one futures order and classifies any failure into the
// gateway error taxonomy.
func (g *Gateway) Submit(ctx context.Context, params order.Params) (*gateway.Ack, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var side futures.SideType
	switch params.Side {
	case order.SideBuy:
		side = futures.SideTypeBuy
	case order.SideSell:
		side = futures.SideTypeSell
	default:
		return nil, gateway.NewError(gateway.KindExchangeRejected, "invalid side: %s", params.Side)
	}

	var orderType futures.OrderType
	switch params.Type {
	case order.TypeMarket:
		orderType = futures.OrderTypeMarket
	case order.TypeLimit:
		orderType = futures.OrderTypeLimit
	default:
		return nil, gateway.NewError(gateway.KindExchangeRejected, "unsupported order type: %s", params.Type)
	}

	svc := g.client.NewCreateOrderService().
		Symbol(params.Symbol).
		Side(side).
		Type(orderType).
		Quantity(params.Quantity).
		NewClientOrderID(params.ClientOrderID)

	if orderType == futures.OrderTypeLimit {
		svc.TimeInForce(futures.TimeInForceTypeGTC)
		svc.Price(params.Price)
	}

	result, err := svc.Do(ctx)
	if err != nil {
		return nil, classify(err)
	}

	return &gateway.Ack{
		OrderID:       result.OrderID,
		ClientOrderID: result.ClientOrderID,
		Status:        string(result.Status),
	}, nil
}

// Ping checks endpoint reachability. Credentials are not verified here;
// a bad key surfaces on the first order.
func (g *Gateway) Ping(ctx context.Context) error {
	resp, err := request.Request.R().SetContext(ctx).Get(g.baseURL + "/fapi/v1/ping")
	if err != nil {
		return gateway.NewError(gateway.KindNetwork, "ping %s: %v", g.baseURL, err)
	}
	if resp.IsError() {
		return gateway.NewError(gateway.KindNetwork, "ping %s: status %d", g.baseURL, resp.StatusCode())
	}
	return nil
}

// classify maps a go-binance error onto the gateway taxonomy: API
// errors with auth codes become AuthError, other API errors become
// ExchangeRejected, context errors become Cancelled (or NetworkError
// for a plain timeout), everything else is a NetworkError.
func classify(err error) *gateway.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return gateway.NewError(gateway.KindNetwork, "exchange call timed out")
	}
	if errors.Is(err, context.Canceled) {
		return gateway.NewError(gateway.KindCancelled, "exchange call cancelled")
	}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case codeInvalidSignature, codeBadAPIKeyFormat, codeInvalidAPIKey:
			return gateway.NewError(gateway.KindAuth, "binance auth failure (%d): %s", apiErr.Code, apiErr.Message)
		default:
			return gateway.NewError(gateway.KindExchangeRejected, "binance rejected order (%d): %s", apiErr.Code, apiErr.Message)
		}
	}

	return gateway.NewError(gateway.KindNetwork, "exchange call failed: %v", err)
}
