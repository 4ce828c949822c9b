package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hquant/futuresbot/internal/gateway"
)

// ErrNotConfigured is returned when order submission is attempted
// before a session exists.
var ErrNotConfigured = errors.New("bot not configured")

// Credentials identify one exchange account. Immutable once a session
// is built from them; reconfiguring replaces the whole session.
type Credentials struct {
	APIKey    string
	APISecret string
	Testnet   bool
}

// Validate checks credential shape only. Exchange-side validity is
// discovered on the first order.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("api key required")
	}
	if strings.TrimSpace(c.APISecret) == "" {
		return errors.New("api secret required")
	}
	return nil
}

// Session binds one credential set to one gateway. Immutable: callers
// that captured a session keep using it even if the manager swaps in a
// replacement mid-flight.
type Session struct {
	Gateway      gateway.Gateway
	Testnet      bool
	ConfiguredAt time.Time
}

// GatewayFactory builds a gateway bound to a credential set.
type GatewayFactory func(creds Credentials) gateway.Gateway

// Manager owns the single active session. At most one session exists
// at a time; Configure atomically swaps it so in-flight orders finish
// against the snapshot they started with.
type Manager struct {
	newGateway GatewayFactory

	mu      sync.RWMutex
	current *Session
}

func NewManager(newGateway GatewayFactory) *Manager {
	return &Manager{newGateway: newGateway}
}

// Configure validates credential shape, builds a gateway and checks
// the endpoint is reachable, then swaps the active session. The
// previous session, if any, stays valid for calls already holding it.
// Configure is optimistic about credentials: the ping proves
// reachability only, and a bad key surfaces on the first order.
func (m *Manager) Configure(ctx context.Context, creds Credentials) (*Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}

	gw := m.newGateway(creds)
	if err := gw.Ping(ctx); err != nil {
		return nil, fmt.Errorf("exchange unreachable: %w", err)
	}

	sess := &Session{
		Gateway:      gw,
		Testnet:      creds.Testnet,
		ConfiguredAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()

	return sess, nil
}

// Current returns the active session, or nil before the first
// successful Configure.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}
