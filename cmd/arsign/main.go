package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-jose/go-jose/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpApp "github.com/oxygenesis/arsign/internal/app/http"
	"github.com/oxygenesis/arsign/internal/config"
	"github.com/oxygenesis/arsign/internal/crypto"
	"github.com/oxygenesis/arsign/internal/domain"
	"github.com/oxygenesis/arsign/internal/log"
	"github.com/oxygenesis/arsign/internal/metrics"
	"github.com/oxygenesis/arsign/internal/service"
	"github.com/oxygenesis/arsign/internal/storage"
	"github.com/oxygenesis/arsign/internal/wallet"
)

type factory struct{}

func (factory) FromJWK(jwk jose.JSONWebKey) (domain.Signer, error) { return crypto.NewRSASigner(jwk) }

// test-stubbables
var httpStart = httpApp.Start
var osExit = os.Exit

var logger = log.NewLoggerIPFS("main")

func main() {
	var (
		mode    string
		addr    string
		cfgFile string
		test    bool
	)
	flag.StringVar(&mode, "mode", "http", "service mode: http")
	flag.StringVar(&addr, "addr", "", "listen address, overrides config")
	flag.StringVar(&cfgFile, "config", "", "path to YAML config")
	flag.BoolVar(&test, "t", false, "test mode: build server only")
	flag.Parse()

	if err := run(mode, addr, cfgFile, test); err != nil {
		logger.Error("fatal", "error", err)
		osExit(1)
	}
}

func run(mode, addr, cfgFile string, test bool) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if err := log.SetLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := service.New(storage.NewMemory(), factory{}, crypto.NewRSAVerifier(), metrics.NewWithRegistry(reg))
	for _, wc := range cfg.Wallets {
		jwk, err := wallet.LoadFromFile(wc.Path)
		if err != nil {
			return err
		}
		if _, err := svc.ImportWallet(jwk, wc.Label); err != nil {
			return fmt.Errorf("import %s: %w", wc.Path, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch mode {
	case "http":
		return httpStart(ctx, cfg.Addr, svc, reg, test)
	default:
		return errors.New("unsupported mode")
	}
}
