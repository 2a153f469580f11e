package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/qualify-cli/internal/catalog"
	"github.com/sells-group/qualify-cli/internal/normalize"
)

var productFitCmd = &cobra.Command{
	Use:   "product-fit",
	Short: "Match a stored company against a product catalog",
	Long: `Loads a previously qualified company by tax id and scores the tenant's
product catalog against it. Uses the AI scorer when an Anthropic key is
configured, the deterministic rubric otherwise.

Example:
  product-fit --tenant t1 --tax-id 11222333000181 --catalog products.yaml`,
	RunE: runProductFit,
}

func init() {
	f := productFitCmd.Flags()
	f.String("tenant", "", "tenant id (required)")
	f.String("tax-id", "", "tax id of a stored company (required)")
	f.String("catalog", "", "product catalog YAML (required)")
	_ = productFitCmd.MarkFlagRequired("tenant")
	_ = productFitCmd.MarkFlagRequired("tax-id")
	_ = productFitCmd.MarkFlagRequired("catalog")

	rootCmd.AddCommand(productFitCmd)
}

func runProductFit(cmd *cobra.Command, args []string) error {
	env, err := initEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	f := cmd.Flags()
	tenant, _ := f.GetString("tenant")
	taxID, _ := f.GetString("tax-id")
	catalogPath, _ := f.GetString("catalog")

	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return err
	}

	company, err := env.Store.GetCompanyByTaxID(cmd.Context(), tenant, taxID)
	if err != nil {
		return err
	}
	if company == nil {
		return eris.Errorf("no stored company with tax id %s for tenant %s; run qualify first", taxID, tenant)
	}

	result, err := env.Scorer.ScoreFit(cmd.Context(), company, cat.Products)
	if err != nil {
		return err
	}

	// The engine-produced fit score stays untouched; the product-fit reading
	// accretes into the analysis payload.
	company.RawAnalysis = normalize.MergeRaw(company.RawAnalysis, map[string]any{
		"product_fit_score": result.FitScore,
		"product_fit_level": string(result.FitLevel),
		"product_fit_model": result.ScoringModel,
	})
	if err := env.Store.UpsertCompany(cmd.Context(), company); err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
