package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func importOfxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-ofx <file>",
		Short: "Import transactions from an OFX or QFX statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, _, closeStores, err := openDependencies(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStores()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			var bar *progressbar.ProgressBar
			result, err := deps.Importer.Import(cmd.Context(), f, func(done, total int) {
				if bar == nil {
					bar = progressbar.NewOptions(total,
						progressbar.OptionSetWriter(cmd.ErrOrStderr()),
						progressbar.OptionShowCount(),
						progressbar.OptionSetWidth(40),
						progressbar.OptionSetDescription("Importing transactions"),
						progressbar.OptionOnCompletion(func() {
							fmt.Fprintln(cmd.ErrOrStderr())
						}),
					)
				}
				if err := bar.Set(done); err != nil {
					log.Debugf("progress bar: %v", err)
				}
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions, %d failed\n", result.Imported, result.Failed)
			return nil
		},
	}
}
