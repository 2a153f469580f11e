package main

import (
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/qualify-cli/internal/catalog"
	"github.com/sells-group/qualify-cli/internal/importer"
	"github.com/sells-group/qualify-cli/internal/model"
	"github.com/sells-group/qualify-cli/internal/pipeline"
)

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx|file.csv>",
	Short: "Bulk-qualify companies from an upload file",
	Long: `Reads an XLSX or CSV upload, normalizes every row and runs it through
the qualification pipeline. Rows are processed concurrently; a row that
fails (bad tax id, for example) is logged and skipped, it never aborts the
batch.

Examples:
  import empresas.xlsx --tenant t1 --enrich
  import leads.csv --tenant t1 --catalog products.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	f := importCmd.Flags()
	f.String("tenant", "", "tenant id (required)")
	f.Bool("enrich", false, "look each company up in the public registries")
	f.String("catalog", "", "product catalog YAML; enables the product-fit pass")
	f.Int("concurrency", 0, "max rows in flight (default from config)")
	_ = importCmd.MarkFlagRequired("tenant")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	env, err := initEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	f := cmd.Flags()
	tenant, _ := f.GetString("tenant")
	enrich, _ := f.GetBool("enrich")
	concurrency, _ := f.GetInt("concurrency")
	if concurrency <= 0 {
		concurrency = cfg.Import.MaxConcurrent
	}

	opts := pipeline.Options{Enrich: enrich}
	if catalogPath, _ := f.GetString("catalog"); catalogPath != "" {
		cat, err := catalog.Load(catalogPath)
		if err != nil {
			return err
		}
		opts.ProductFit = true
		opts.Catalog = cat.Products
	}

	records, err := importer.ReadFile(args[0], tenant)
	if err != nil {
		return err
	}
	zap.L().Info("import: file parsed",
		zap.String("file", args[0]),
		zap.Int("rows", len(records)),
	)

	var processed, skipped atomic.Int64
	counts := temperatureCounter{}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(concurrency)
	for _, rec := range records {
		rec := rec
		g.Go(func() error {
			src := model.SourceRecord{Shape: model.ShapeRawImport, RawImport: &rec}
			out, err := env.Runner.Qualify(ctx, src, opts)
			if err != nil {
				skipped.Add(1)
				zap.L().Warn("import: row skipped",
					zap.String("tax_id", rec.TaxID),
					zap.Error(err),
				)
				return nil
			}
			processed.Add(1)
			counts.add(out.Classification.Temperature)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("imported %d companies (%d skipped): %d hot, %d warm, %d cold\n",
		processed.Load(), skipped.Load(),
		counts.hot.Load(), counts.warm.Load(), counts.cold.Load())
	return nil
}

type temperatureCounter struct {
	hot, warm, cold atomic.Int64
}

func (c *temperatureCounter) add(t model.Temperature) {
	switch t {
	case model.TemperatureHot:
		c.hot.Add(1)
	case model.TemperatureWarm:
		c.warm.Add(1)
	default:
		c.cold.Add(1)
	}
}
