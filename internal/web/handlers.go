package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hquant/futuresbot/internal/audit"
	"github.com/hquant/futuresbot/internal/order"
	"github.com/hquant/futuresbot/internal/session"
)

const flashCookie = "flash"

type flash struct {
	Message string
	Kind    string // success, error, warning
}

type pageData struct {
	Configured bool
	Testnet    bool
	Flash      *flash
	Error      string
	Records    []audit.Record
}

func (s *Server) render(w http.ResponseWriter, name string, data pageData) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error("failed to render template", "template", name, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func setFlash(w http.ResponseWriter, f flash) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(f.Kind + "|" + f.Message),
		Path:     "/",
		MaxAge:   int(time.Minute.Seconds()),
		HttpOnly: true,
	})
}

func popFlash(w http.ResponseWriter, r *http.Request) *flash {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})

	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}
	kind, msg, ok := strings.Cut(raw, "|")
	if !ok {
		return nil
	}
	return &flash{Kind: kind, Message: msg}
}

func (s *Server) pageData(w http.ResponseWriter, r *http.Request) pageData {
	data := pageData{Flash: popFlash(w, r)}
	if sess := s.manager.Current(); sess != nil {
		data.Configured = true
		data.Testnet = sess.Testnet
	}
	return data
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", s.pageData(w, r))
}

func (s *Server) handleSetupForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, "setup.html", s.pageData(w, r))
}

func (s *Server) handleSetupSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, "setup.html", pageData{Error: "invalid form submission"})
		return
	}

	creds := session.Credentials{
		APIKey:    r.PostFormValue("api_key"),
		APISecret: r.PostFormValue("api_secret"),
		Testnet:   r.PostFormValue("testnet") == "on",
	}

	if _, err := s.manager.Configure(r.Context(), creds); err != nil {
		s.log.Error("configuration failed", "err", err)
		data := s.pageData(w, r)
		data.Error = "Configuration failed: " + err.Error()
		s.render(w, "setup.html", data)
		return
	}

	s.log.Info("bot configured", "testnet", creds.Testnet)
	setFlash(w, flash{Kind: "success", Message: "Bot configured successfully!"})
	http.Redirect(w, r, "/trading", http.StatusSeeOther)
}

func (s *Server) handleTrading(w http.ResponseWriter, r *http.Request) {
	if s.manager.Current() == nil {
		setFlash(w, flash{Kind: "warning", Message: "Please configure your bot first"})
		http.Redirect(w, r, "/setup", http.StatusSeeOther)
		return
	}
	s.render(w, "trading.html", s.pageData(w, r))
}

// placeOrderRequest is the wire shape of POST /place_order. Quantity
// and price accept JSON numbers or strings; an empty-string price
// counts as absent.
type placeOrderRequest struct {
	Symbol    string          `json:"symbol"`
	Side      string          `json:"side"`
	OrderType string          `json:"order_type"`
	Quantity  json.RawMessage `json:"quantity"`
	Price     json.RawMessage `json:"price"`
}

type placeOrderResponse struct {
	Success bool       `json:"success"`
	Order   *orderInfo `json:"order,omitempty"`
	Error   string     `json:"error,omitempty"`
}

type orderInfo struct {
	OrderID       string `json:"order_id"`
	ClientOrderID string `json:"client_order_id,omitempty"`
	Symbol        string `json:"symbol"`
	Status        string `json:"status"`
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var body placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, placeOrderResponse{Success: false, Error: "invalid JSON body"})
		return
	}

	quantity, err := parseDecimal(body.Quantity)
	if err != nil || quantity == nil {
		writeJSON(w, placeOrderResponse{Success: false, Error: "invalid quantity"})
		return
	}
	price, err := parseDecimal(body.Price)
	if err != nil {
		writeJSON(w, placeOrderResponse{Success: false, Error: "invalid price"})
		return
	}

	req := order.Request{
		Symbol:   order.NormalizeSymbol(body.Symbol),
		Side:     order.ParseSide(body.Side),
		Type:     order.ParseType(body.OrderType),
		Quantity: *quantity,
		Price:    price,
	}

	// a nil session still flows through the service so the attempt is
	// audited; the service rejects it without touching the gateway
	sess := s.manager.Current()
	outcome := s.orders.PlaceOrder(r.Context(), sess, req)
	if !outcome.Accepted {
		if sess == nil {
			writeJSON(w, placeOrderResponse{Success: false, Error: "Bot not configured"})
			return
		}
		writeJSON(w, placeOrderResponse{Success: false, Error: outcome.Reason})
		return
	}

	writeJSON(w, placeOrderResponse{
		Success: true,
		Order: &orderInfo{
			OrderID: outcome.ExchangeOrderID,
			Symbol:  req.Symbol,
			Status:  outcome.Status,
		},
	})
}

// parseDecimal accepts a JSON number or string. null, a missing field
// and an empty string all mean absent.
func parseDecimal(raw json.RawMessage) (*decimal.Decimal, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte(`""`)) {
		return nil, nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	data := s.pageData(w, r)

	records, err := s.orders.Tail(r.Context(), audit.DefaultTail)
	if err != nil {
		s.log.Error("failed to read audit log", "err", err)
		data.Error = "Error reading logs: " + err.Error()
		s.render(w, "logs.html", data)
		return
	}

	// newest first for display
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	data.Records = records
	s.render(w, "logs.html", data)
}
