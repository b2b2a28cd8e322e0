package serve

import (
	"errors"

	"bybitmanager/src/bybit"
	"bybitmanager/src/manager"
	"bybitmanager/src/server"

	logger "github.com/sirupsen/logrus"
)

// Serve exposes the order flow over HTTP until interrupted.
type Serve struct{}

func (s *Serve) Start() error {
	cfg := bybit.GetConfig()
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return errors.New("BYBIT_API_KEY and BYBIT_API_SECRET must be set")
	}

	client := bybit.NewClient(cfg.APIKey, cfg.APISecret, cfg.BaseURL)
	mgr := manager.New(client)

	serverCfg := server.GetConfig()
	logger.WithField("port", serverCfg.Port).Info("starting HTTP server")

	server.StartServer(serverCfg.Port, mgr)
	return nil
}
