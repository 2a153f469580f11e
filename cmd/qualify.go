package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/qualify-cli/internal/catalog"
	"github.com/sells-group/qualify-cli/internal/model"
	"github.com/sells-group/qualify-cli/internal/pipeline"
)

var qualifyCmd = &cobra.Command{
	Use:   "qualify",
	Short: "Qualify a single company against the tenant's profile",
	Long: `Runs one company through the pipeline: registry enrichment (optional),
normalization, weighted scoring, temperature/grade classification and the
optional product-fit pass. Prints the full outcome as JSON.

Examples:
  # Score by tax id with registry enrichment
  qualify --tenant t1 --tax-id 11.222.333/0001-81 --enrich

  # Score a fully described company without network calls
  qualify --tenant t1 --tax-id 11222333000181 --legal-name "ACME Ltda" \
    --state SP --city "São Paulo" --size-class EPP --cnae 6201501

  # Add the product-fit pass
  qualify --tenant t1 --tax-id 11222333000181 --enrich --catalog products.yaml`,
	RunE: runQualify,
}

func init() {
	f := qualifyCmd.Flags()
	f.String("tenant", "", "tenant id (required)")
	f.String("tax-id", "", "company tax id, formatted or bare (required)")
	f.String("legal-name", "", "legal name")
	f.String("trade-name", "", "trade name")
	f.String("state", "", "state code")
	f.String("city", "", "city")
	f.String("size-class", "", "size class (ME, EPP, ...)")
	f.String("sector", "", "sector label")
	f.String("niche", "", "niche label")
	f.String("cnae", "", "primary activity code")
	f.Bool("enrich", false, "look the company up in the public registries first")
	f.String("catalog", "", "product catalog YAML; enables the product-fit pass")
	_ = qualifyCmd.MarkFlagRequired("tenant")
	_ = qualifyCmd.MarkFlagRequired("tax-id")

	rootCmd.AddCommand(qualifyCmd)
}

func runQualify(cmd *cobra.Command, args []string) error {
	env, err := initEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	f := cmd.Flags()
	str := func(name string) string {
		v, _ := f.GetString(name)
		return v
	}
	enrich, _ := f.GetBool("enrich")

	opts := pipeline.Options{Enrich: enrich}
	if catalogPath := str("catalog"); catalogPath != "" {
		cat, err := catalog.Load(catalogPath)
		if err != nil {
			return err
		}
		opts.ProductFit = true
		opts.Catalog = cat.Products
	}

	src := model.SourceRecord{
		Shape: model.ShapeRawImport,
		RawImport: &model.RawImportRecord{
			TaxID:     str("tax-id"),
			LegalName: str("legal-name"),
			TradeName: str("trade-name"),
			State:     str("state"),
			City:      str("city"),
			SizeClass: str("size-class"),
			Sector:    str("sector"),
			Niche:     str("niche"),
			CNAE:      str("cnae"),
			TenantID:  str("tenant"),
		},
	}

	out, err := env.Runner.Qualify(cmd.Context(), src, opts)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
