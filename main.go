package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"diceville/internal/config"
	"diceville/internal/engine"
	"diceville/internal/logger"
	"diceville/internal/server"
)

func main() {
	logger.Init()

	var cfg config.Server
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("%v", err)
	}
	flag.IntVar(&cfg.Port, "port", cfg.Port, "server port")
	flag.StringVar(&cfg.RulesPath, "rules", cfg.RulesPath, "YAML rules file")
	flag.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "base URL encoded in join QR codes")
	flag.Parse()

	rules := engine.DefaultConfig()
	if cfg.RulesPath != "" {
		var err error
		if rules, err = engine.LoadConfig(cfg.RulesPath); err != nil {
			config.Exitf("load rules: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg, rules).Start(ctx); err != nil {
		logger.Log.WithError(err).Fatal("server error")
	}
}
