package web

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hquant/futuresbot/internal/audit"
	"github.com/hquant/futuresbot/internal/gateway"
	"github.com/hquant/futuresbot/internal/order"
	"github.com/hquant/futuresbot/internal/service"
	"github.com/hquant/futuresbot/internal/session"
)

type fakeGateway struct {
	submitErr error
	pingErr   error
}

func (f *fakeGateway) Submit(_ context.Context, params order.Params) (*gateway.Ack, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &gateway.Ack{OrderID: 777, ClientOrderID: params.ClientOrderID, Status: "NEW"}, nil
}

func (f *fakeGateway) Ping(context.Context) error { return f.pingErr }

func newTestServer(t *testing.T, gw *fakeGateway) (*Server, *session.Manager, *audit.FileStore) {
	t.Helper()

	store, err := audit.NewFileStore(filepath.Join(t.TempDir(), "audit.log"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	manager := session.NewManager(func(session.Credentials) gateway.Gateway { return gw })
	orders := service.NewOrderService(store, log, time.Second)

	srv, err := NewServer(manager, orders, log)
	require.NoError(t, err)
	return srv, manager, store
}

func configure(t *testing.T, manager *session.Manager) {
	t.Helper()
	_, err := manager.Configure(context.Background(), session.Credentials{APIKey: "k", APISecret: "s", Testnet: true})
	require.NoError(t, err)
}

func postOrder(t *testing.T, h http.Handler, body string) placeOrderResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/place_order", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp placeOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestPlaceOrderNotConfigured(t *testing.T) {
	srv, _, store := newTestServer(t, &fakeGateway{})

	resp := postOrder(t, srv.Handler(), `{"symbol":"BTCUSDT","side":"BUY","order_type":"MARKET","quantity":0.01}`)
	require.False(t, resp.Success)
	require.Equal(t, "Bot not configured", resp.Error)

	// the unconfigured attempt still lands in the audit trail
	records, err := store.Tail(context.Background(), audit.DefaultTail)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, audit.LevelError, records[0].Level)
	require.Equal(t, "BTCUSDT", records[0].Request.Symbol)
	require.False(t, records[0].Outcome.Accepted)
}

func TestPlaceOrderMarket(t *testing.T) {
	srv, manager, _ := newTestServer(t, &fakeGateway{})
	configure(t, manager)

	resp := postOrder(t, srv.Handler(), `{"symbol":"btcusdt","side":"buy","order_type":"market","quantity":"0.01","price":""}`)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Order)
	require.Equal(t, "777", resp.Order.OrderID)
	require.Equal(t, "BTCUSDT", resp.Order.Symbol)
	require.Equal(t, "NEW", resp.Order.Status)
}

func TestPlaceOrderLimitWithoutPrice(t *testing.T) {
	srv, manager, _ := newTestServer(t, &fakeGateway{})
	configure(t, manager)

	resp := postOrder(t, srv.Handler(), `{"symbol":"BTCUSDT","side":"SELL","order_type":"LIMIT","quantity":0.5}`)
	require.False(t, resp.Success)
	require.Equal(t, "MissingPrice", resp.Error)
}

func TestPlaceOrderGatewayAuthFailure(t *testing.T) {
	gw := &fakeGateway{submitErr: gateway.NewError(gateway.KindAuth, "bad key")}
	srv, manager, _ := newTestServer(t, gw)
	configure(t, manager)

	resp := postOrder(t, srv.Handler(), `{"symbol":"BTCUSDT","side":"BUY","order_type":"MARKET","quantity":1}`)
	require.False(t, resp.Success)
	require.Contains(t, resp.Error, "AuthError")

	// an auth failure does not deconfigure the session
	require.NotNil(t, manager.Current())
}

func TestPlaceOrderBadBody(t *testing.T) {
	srv, manager, _ := newTestServer(t, &fakeGateway{})
	configure(t, manager)

	resp := postOrder(t, srv.Handler(), `{not json`)
	require.False(t, resp.Success)
	require.NotEmpty(t, resp.Error)

	resp = postOrder(t, srv.Handler(), `{"symbol":"BTCUSDT","side":"BUY","order_type":"MARKET","quantity":"abc"}`)
	require.False(t, resp.Success)
	require.Equal(t, "invalid quantity", resp.Error)
}

func TestSetupFlow(t *testing.T) {
	srv, manager, _ := newTestServer(t, &fakeGateway{})
	h := srv.Handler()

	form := url.Values{"api_key": {"k"}, "api_secret": {"s"}, "testnet": {"on"}}
	req := httptest.NewRequest(http.MethodPost, "/setup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/trading", rec.Header().Get("Location"))
	require.NotNil(t, manager.Current())
	require.True(t, manager.Current().Testnet)
}

func TestSetupMissingSecretLeavesSessionUnchanged(t *testing.T) {
	srv, manager, _ := newTestServer(t, &fakeGateway{})
	h := srv.Handler()

	form := url.Values{"api_key": {"k"}}
	req := httptest.NewRequest(http.MethodPost, "/setup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Configuration failed")
	require.Nil(t, manager.Current())
}

func TestTradingRedirectsWhenUnconfigured(t *testing.T) {
	srv, _, _ := newTestServer(t, &fakeGateway{})

	req := httptest.NewRequest(http.MethodGet, "/trading", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/setup", rec.Header().Get("Location"))
}

func TestLogsPage(t *testing.T) {
	srv, manager, _ := newTestServer(t, &fakeGateway{})
	configure(t, manager)
	h := srv.Handler()

	postOrder(t, h, `{"symbol":"BTCUSDT","side":"BUY","order_type":"MARKET","quantity":0.01}`)
	postOrder(t, h, `{"symbol":"ETHUSDT","side":"SELL","order_type":"LIMIT","quantity":0.5}`)

	req := httptest.NewRequest(http.MethodGet, "/logs", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "BTCUSDT")
	require.Contains(t, body, "MissingPrice")
}

func TestIndexPage(t *testing.T) {
	srv, _, _ := newTestServer(t, &fakeGateway{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "not configured")
}
