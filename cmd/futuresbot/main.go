package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/hquant/futuresbot/internal/audit"
	"github.com/hquant/futuresbot/internal/configs"
	"github.com/hquant/futuresbot/internal/gateway"
	binanceGateway "github.com/hquant/futuresbot/internal/gateway/binance"
	"github.com/hquant/futuresbot/internal/service"
	"github.com/hquant/futuresbot/internal/session"
	"github.com/hquant/futuresbot/internal/web"
)

var (
	flagconf string

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
)

func init() {
	flag.StringVar(&flagconf, "conf", "", "config path, eg: -conf config.yaml")
}

func newAuditStore(cfg *configs.Config) (audit.Store, error) {
	if cfg.Audit.Driver == "postgres" {
		return audit.NewPostgresStore(cfg.Audit.ConnStr)
	}
	return audit.NewFileStore(cfg.Audit.Path)
}

func main() {
	flag.Parse()

	// optional .env for local runs; absence is fine
	_ = godotenv.Load()

	config, err := configs.Load(flagconf)
	if err != nil {
		log.Error("Error loading config", "err", err)
		return
	}

	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		config.Exchange.APIKey = v
	}
	if v := os.Getenv("BINANCE_SECRET_KEY"); v != "" {
		config.Exchange.SecretKey = v
	}

	log.Debug("loaded config", "addr", config.Server.Addr, "audit_driver", config.Audit.Driver)

	store, err := newAuditStore(config)
	if err != nil {
		log.Error("Error creating audit store", "err", err)
		return
	}

	log.Debug("init audit store")

	manager := session.NewManager(func(creds session.Credentials) gateway.Gateway {
		return binanceGateway.New(creds.APIKey, creds.APISecret, creds.Testnet)
	})

	orders := service.NewOrderService(store, log, config.Trading.OrderTimeout())

	// configure at boot when the config carries credentials; the web
	// form can still reconfigure later
	if config.Exchange.APIKey != "" && config.Exchange.SecretKey != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_, err := manager.Configure(ctx, session.Credentials{
			APIKey:    config.Exchange.APIKey,
			APISecret: config.Exchange.SecretKey,
			Testnet:   config.Exchange.Testnet,
		})
		cancel()
		if err != nil {
			log.Error("Boot-time configure failed, falling back to web setup", "err", err)
		} else {
			log.Debug("session configured from config", "testnet", config.Exchange.Testnet)
		}
	}

	server, err := web.NewServer(manager, orders, log)
	if err != nil {
		log.Error("Error creating web server", "err", err)
		return
	}

	if err := server.ListenAndServe(config.Server.Addr); err != nil {
		log.Error("Server error", "err", err)
	}
}
