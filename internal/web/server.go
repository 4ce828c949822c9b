package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/hquant/futuresbot/internal/service"
	"github.com/hquant/futuresbot/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server wires the HTTP surface onto the session manager and order
// service. It renders results and never interprets error kinds beyond
// surfacing the message.
type Server struct {
	manager   *session.Manager
	orders    *service.OrderService
	log       *slog.Logger
	templates *template.Template
}

func NewServer(manager *session.Manager, orders *service.OrderService, log *slog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{
		manager:   manager,
		orders:    orders,
		log:       log,
		templates: tmpl,
	}, nil
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /setup", s.handleSetupForm)
	mux.HandleFunc("POST /setup", s.handleSetupSubmit)
	mux.HandleFunc("GET /trading", s.handleTrading)
	mux.HandleFunc("POST /place_order", s.handlePlaceOrder)
	mux.HandleFunc("GET /logs", s.handleLogs)
	return mux
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.log.Info("http server listening", "addr", addr)
	return srv.ListenAndServe()
}
