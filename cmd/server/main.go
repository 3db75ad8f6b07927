package main

import (
	"log"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/fleshka4/cpamm/internal/config"
	"github.com/fleshka4/cpamm/internal/infra/erc20"
	"github.com/fleshka4/cpamm/internal/ledger"
	"github.com/fleshka4/cpamm/internal/logging"
	"github.com/fleshka4/cpamm/internal/service"
	"github.com/fleshka4/cpamm/internal/store"
	transport "github.com/fleshka4/cpamm/internal/transport/http"
)

func main() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "cfg/config.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config.Load: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logging.New: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	var opts []service.Option
	if cfg.RPCURL != "" {
		client, err := erc20.NewClient(cfg.RPCURL, cfg.CallTimeout)
		if err != nil {
			logger.Fatal("erc20.NewClient", zap.Error(err))
		}

		vaults := make([]erc20.Vault, 0, len(cfg.Vaults))
		for _, v := range cfg.Vaults {
			vaults = append(vaults, erc20.Vault{
				Key:       v.Key(),
				Vault:     common.HexToAddress(v.Vault),
				UnitToken: common.HexToAddress(v.UnitToken),
			})
		}
		opts = append(opts, service.WithQuoteSource(erc20.NewSource(client, vaults)))
		logger.Info("quotes read from chain", zap.Int("vaults", len(vaults)))
	}

	svc := service.NewPoolService(store.New(), ledger.New(), logger, opts...)
	srv := transport.NewServer(svc, cfg, logger)

	if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Fatal("srv.ListenAndServe", zap.Error(err))
	}
}
