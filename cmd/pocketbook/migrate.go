package main

import (
	"github.com/pocketbook/pocketbook/internal/app"
	"github.com/pocketbook/pocketbook/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations for the configured backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			stores, err := app.OpenStores(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			stores.Close()
			log.Infof("Migrations applied for %s backend", cfg.Storage.Backend)
			return nil
		},
	}
}
