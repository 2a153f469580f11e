package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/qualify-cli/internal/registry"
)

var registryCmd = &cobra.Command{
	Use:   "registry <cnpj>",
	Short: "Look a company up in the public registries",
	Long: `Queries BrasilAPI and ReceitaWS concurrently, merges the two records
(primary wins per field, secondary fills gaps) and prints the result with
its data-quality grade.`,
	Args: cobra.ExactArgs(1),
	RunE: runRegistry,
}

func init() {
	rootCmd.AddCommand(registryCmd)
}

func runRegistry(cmd *cobra.Command, args []string) error {
	env, err := initEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	rec, err := env.Registry.Lookup(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	quality, points := registry.QualityScore(rec)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Quality       string `json:"data_quality"`
		QualityPoints int    `json:"quality_points"`
		Record        any    `json:"record"`
	}{string(quality), points, rec})
}
