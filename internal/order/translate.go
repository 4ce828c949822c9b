package order

// TimeInForceGTC is the only time-in-force policy used for LIMIT
// orders: good till cancelled.
const TimeInForceGTC = "GTC"

// Translate maps a validated request onto exchange wire parameters.
// MARKET orders carry no price and no time-in-force; LIMIT orders are
// always GTC. Pure mapping, call only after Validate passed.
func Translate(req Request, clientOrderID string) Params {
	p := Params{
		Symbol:        NormalizeSymbol(req.Symbol),
		Side:          req.Side,
		Type:          req.Type,
		Quantity:      req.Quantity.String(),
		ClientOrderID: clientOrderID,
	}

	if req.Type == TypeLimit {
		p.TimeInForce = TimeInForceGTC
		p.Price = req.Price.String()
	}

	return p
}
