// Package main is the terminal pumpkin price form.
//
// Usage:
//
//	go run ./cmd/pumpkin [--cost 0.60] [--unit metric] [--currency-symbol $]
//
// Each line typed is one edit (see `help`). Logs go to stderr so the form
// output on stdout stays readable.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hapkiduki/pumpkin-price/internal/application/service"
	"github.com/hapkiduki/pumpkin-price/internal/domain/entity"
	"github.com/hapkiduki/pumpkin-price/internal/domain/estimator"
	"github.com/hapkiduki/pumpkin-price/internal/infrastructure/config"
	"github.com/hapkiduki/pumpkin-price/internal/infrastructure/logging"
	"github.com/hapkiduki/pumpkin-price/internal/interfaces/cli"
	"github.com/hapkiduki/pumpkin-price/pkg/logger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("pumpkin", pflag.ContinueOnError)
	flags.Float64("cost", 0, "initial cost per kg (metric) or lb (imperial)")
	flags.String("unit", "", "initial unit system: metric or imperial")
	flags.String("currency-symbol", "", "symbol prefixed to prices")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	// Flags override environment and config file values.
	v := viper.New()
	bindings := map[string]string{
		"estimator.default_cost":        "cost",
		"estimator.default_unit_system": "unit",
		"estimator.currency_symbol":     "currency-symbol",
		"log.level":                     "log-level",
	}
	for key, name := range bindings {
		if flags.Changed(name) {
			if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
				return err
			}
		}
	}

	cfg, err := config.LoadWith(v)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: "console",
		Output: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	calc := entity.NewCalculator(
		entity.WithDefaults(cfg.Estimator.InputDefaults()),
		entity.WithEstimator(estimator.New(estimator.WithCurrencySymbol(cfg.Estimator.CurrencySymbol))),
	)
	svc := service.NewFormService(calc, logging.NewAdapter(log.Named("form")), nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(os.Stdout, "Pumpkin Price Calculator (type help for commands)")
	return cli.NewForm(svc, os.Stdout).Run(ctx, os.Stdin)
}
