package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"crm-backend/internal/config"
	"crm-backend/internal/database"
	"crm-backend/internal/importer"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

type importOptions struct {
	file       string
	configPath string
	delimiter  string
	batchSize  int
	dryRun     bool
}

func newRootCmd() *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import-movements",
		Short: "Import movements from the spreadsheet CSV export",
		Long: `Reads a CSV with the columns Fecha, Tipo, Vendedor, Descripción,
Categoria de Gasto, Contacto, Estado, M. de Pago and Valor, and inserts one
movement per row.

The whole file is parsed before anything is written. A row with an invalid
date or value aborts the import and nothing is committed.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImport(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "CSV file to import (required)")
	cmd.Flags().StringVar(&opts.configPath, "config", getEnv("CONFIG_PATH", "config/crm.yaml"), "config file")
	cmd.Flags().StringVar(&opts.delimiter, "delimiter", ",", "field delimiter")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", 200, "rows per insert batch")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "parse and report without writing")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runImport(ctx context.Context, opts *importOptions) error {
	delim := []rune(opts.delimiter)
	if len(delim) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", opts.delimiter)
	}

	f, err := os.Open(opts.file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", opts.file, err)
	}
	defer f.Close()

	movements, err := importer.Read(f, importer.Options{Comma: delim[0]})
	if err != nil {
		return fmt.Errorf("import aborted, nothing was written: %w", err)
	}

	var total float64
	for _, m := range movements {
		total += m.Value
	}
	log.Printf("[importer] parsed %d movements from %s (sum of values %.2f)", len(movements), opts.file, total)

	if opts.dryRun || len(movements) == 0 {
		return nil
	}

	appConfig, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	gormDB, err := database.Open(appConfig.Database, appConfig.Logging.Level)
	if err != nil {
		return err
	}
	defer gormDB.Close()

	if err := gormDB.InitSchema(); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	bar := progressbar.NewOptions(len(movements),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Inserting movements"),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)

	err = gormDB.CreateMovementsInTx(ctx, movements, opts.batchSize, func(n int) {
		_ = bar.Add(n)
	})
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("import aborted, transaction rolled back: %w", err)
	}

	log.Printf("[importer] imported %d movements from %s", len(movements), opts.file)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
