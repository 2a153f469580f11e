package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/qualify-cli/internal/model"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or update a tenant's qualification settings",
	Long: `Shows the tenant's weights, thresholds and dispatch toggles, or updates
them. Weights are snapped to the 0-50 range in steps of 5; thresholds keep
a minimum 10-point gap, with the value being written taking precedence.
A weight sum other than 100 is saved but warned about.

Examples:
  settings --tenant t1
  settings --tenant t1 --weight-activity 40 --weight-capital 10
  settings --tenant t1 --hot-min 90 --auto-approve-hot`,
	RunE: runSettings,
}

func init() {
	f := settingsCmd.Flags()
	f.String("tenant", "", "tenant id (required)")
	f.Int("weight-activity", -1, "activity-code weight")
	f.Int("weight-capital", -1, "capital-range weight")
	f.Int("weight-size", -1, "size-class weight")
	f.Int("weight-location", -1, "location weight")
	f.Int("weight-registration", -1, "registration-status weight")
	f.Int("weight-sector", -1, "sector/niche weight")
	f.Int("hot-min", -1, "minimum score for HOT")
	f.Int("warm-min", -1, "minimum score for WARM")
	f.Bool("auto-approve-hot", false, "auto-approve HOT leads")
	f.Bool("auto-discard-cold", false, "auto-discard COLD leads")
	_ = settingsCmd.MarkFlagRequired("tenant")

	rootCmd.AddCommand(settingsCmd)
}

func runSettings(cmd *cobra.Command, args []string) error {
	env, err := initEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	f := cmd.Flags()
	tenant, _ := f.GetString("tenant")

	settings, err := env.Store.GetQualificationSettings(cmd.Context(), tenant)
	if err != nil {
		return err
	}
	if settings == nil {
		defaults := model.DefaultSettings(tenant)
		settings = &defaults
	}

	changed := false
	intFlag := func(name string, dst *int) {
		if v, _ := f.GetInt(name); v >= 0 && f.Changed(name) {
			*dst = v
			changed = true
		}
	}
	intFlag("weight-activity", &settings.Weights.ActivityCode)
	intFlag("weight-capital", &settings.Weights.CapitalRange)
	intFlag("weight-size", &settings.Weights.SizeClass)
	intFlag("weight-location", &settings.Weights.Location)
	intFlag("weight-registration", &settings.Weights.RegistrationStatus)
	intFlag("weight-sector", &settings.Weights.SectorNiche)

	if f.Changed("hot-min") {
		v, _ := f.GetInt("hot-min")
		settings.Thresholds.SetHotMin(v)
		changed = true
	}
	if f.Changed("warm-min") {
		v, _ := f.GetInt("warm-min")
		settings.Thresholds.SetWarmMin(v)
		changed = true
	}
	if f.Changed("auto-approve-hot") {
		settings.Thresholds.AutoApproveHot, _ = f.GetBool("auto-approve-hot")
		changed = true
	}
	if f.Changed("auto-discard-cold") {
		settings.Thresholds.AutoDiscardCold, _ = f.GetBool("auto-discard-cold")
		changed = true
	}

	if changed {
		settings.Weights.Clamp()
		for _, w := range settings.Weights.Validate() {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
		if err := env.Store.SaveQualificationSettings(cmd.Context(), settings); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(settings)
}
