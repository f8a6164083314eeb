package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pocketbook/pocketbook/internal/app"
	"github.com/pocketbook/pocketbook/internal/config"
	"github.com/pocketbook/pocketbook/internal/utils"
	"github.com/pocketbook/pocketbook/pkg/market"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
	rootCmd  = &cobra.Command{
		Use:               "pocketbook",
		Short:             "Personal finance tracker",
		Long:              "pocketbook tracks income, expenses, savings and investments and checks them against monthly budgets.",
		SilenceUsage:      true,
		PersistentPreRunE: initLogging,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "./config/application.yaml", "config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(importOfxCmd())
	rootCmd.AddCommand(exportSheetsCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogging(_ *cobra.Command, _ []string) error {
	level := logLevel
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if level == "" {
		log.SetLevel(log.InfoLevel)
		return nil
	}
	logrusLevel, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(logrusLevel)
	return nil
}

// openDependencies loads configuration and storage for one-shot commands.
// The returned function releases the storage.
func openDependencies(ctx context.Context) (*app.Dependencies, config.Application, func(), error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, config.Application{}, nil, err
	}
	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		return nil, config.Application{}, nil, err
	}
	prices := market.NewCoinGeckoClient(cfg.Market.BaseUrl, cfg.Market.Timeout)
	deps := app.BuildDependencies(stores, cfg, prices, utils.SystemClock{})
	return deps, cfg, stores.Close, nil
}
