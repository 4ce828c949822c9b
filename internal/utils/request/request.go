package request

import (
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Request is the shared HTTP client for unauthenticated exchange
// endpoints (reachability checks). No retries: the bot reports a
// failed call rather than retrying it.
var Request = resty.New().SetTransport(&http.Transport{
	Proxy: http.ProxyFromEnvironment,
}).SetRetryCount(0)
