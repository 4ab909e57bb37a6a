package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harun/retailx/pkg/dataset"
	"github.com/spf13/cobra"
)

var seedCSV string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the Retail table and load it from a CSV file",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedCSV, "csv", "", "CSV file with the Retail columns (required)")
	seedCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	f, err := os.Open(seedCSV)
	if err != nil {
		return fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Dataset.Driver == dataset.DriverSQLite && !strings.HasPrefix(a.cfg.Dataset.DSN, "file:") {
		if err := os.MkdirAll(filepath.Dir(a.cfg.Dataset.DSN), 0755); err != nil {
			return fmt.Errorf("failed to create dataset directory: %w", err)
		}
	}

	store, err := a.openStore(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Seed(cmd.Context(), f)
	if err != nil {
		return err
	}

	a.log.Info().Int("rows", n).Str("dsn", a.cfg.Dataset.DSN).Msg("Dataset seeded")
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d rows into %s\n", n, dataset.DefaultTable)
	return nil
}
