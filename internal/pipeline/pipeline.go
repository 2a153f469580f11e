// Package pipeline chains the stages: registry enrichment, normalization,
// weighted scoring, classification and the optional product-fit pass. Each
// stage degrades independently; a usable outcome comes back whenever the
// input record itself is usable.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/qualify-cli/internal/model"
	"github.com/sells-group/qualify-cli/internal/normalize"
	"github.com/sells-group/qualify-cli/internal/productfit"
	"github.com/sells-group/qualify-cli/internal/qualify"
	"github.com/sells-group/qualify-cli/internal/registry"
	"github.com/sells-group/qualify-cli/internal/store"
)

// Runner wires the stages together. Registry, scorer and store are all
// optional: a nil collaborator skips its stage (or, for the store, runs with
// default settings and no persistence).
type Runner struct {
	store    store.Store
	registry *registry.Service
	scorer   productfit.Scorer
}

// Options control the per-call behavior of Qualify.
type Options struct {
	// Enrich runs the registry lookup before scoring.
	Enrich bool
	// ProductFit runs the product-fit scorer with Catalog after classification.
	ProductFit bool
	Catalog    []model.Product
}

// Outcome is everything one pass over one record produced.
type Outcome struct {
	Company        *model.NormalizedCompany `json:"company"`
	Score          qualify.Result           `json:"score"`
	Classification qualify.Classification   `json:"classification"`
	ProductFit     *model.ProductFitResult  `json:"product_fit,omitempty"`
	Enrichment     *model.RegistryRecord    `json:"enrichment,omitempty"`
	DataQuality    model.DataQuality        `json:"data_quality,omitempty"`
	Warnings       []string                 `json:"warnings,omitempty"`
}

// NewRunner builds a pipeline runner.
func NewRunner(st store.Store, reg *registry.Service, scorer productfit.Scorer) *Runner {
	return &Runner{store: st, registry: reg, scorer: scorer}
}

// Qualify runs one source record through the pipeline. An invalid tax id
// with enrichment requested is the only hard failure; enrichment, product
// fit and persistence otherwise degrade into warnings.
func (r *Runner) Qualify(ctx context.Context, src model.SourceRecord, opts Options) (*Outcome, error) {
	company := normalize.Normalize(src)
	out := &Outcome{Company: &company}

	settings := r.loadSettings(ctx, company.TenantID, out)

	if opts.Enrich && r.registry != nil {
		if err := r.enrich(ctx, &company, out); err != nil {
			return nil, err
		}
	}

	// The engine output is the record's fit score. The prior coarse icpScore
	// from the source record is carried through untouched.
	out.Score = qualify.Score(&company, settings.ICP, settings.Weights)
	fitScore := out.Score.FitScore
	company.FitScore = &fitScore

	out.Classification = qualify.Classify(out.Score.FitScore, settings.Thresholds)
	company.Temperature = out.Classification.Temperature
	grade := out.Classification.Grade
	company.Grade = &grade

	if opts.ProductFit && r.scorer != nil {
		fit, err := r.scorer.ScoreFit(ctx, &company, opts.Catalog)
		if err != nil {
			out.warn("product fit skipped: " + err.Error())
		} else {
			out.ProductFit = fit
			company.RawAnalysis = normalize.MergeRaw(company.RawAnalysis, map[string]any{
				"product_fit_score": fit.FitScore,
				"product_fit_level": string(fit.FitLevel),
				"product_fit_model": fit.ScoringModel,
			})
		}
	}

	r.persist(ctx, &company, out)
	return out, nil
}

func (r *Runner) loadSettings(ctx context.Context, tenantID string, out *Outcome) model.QualificationSettings {
	settings := model.DefaultSettings(tenantID)
	if r.store == nil {
		return settings
	}
	saved, err := r.store.GetQualificationSettings(ctx, tenantID)
	if err != nil {
		out.warn("settings load failed, using defaults: " + err.Error())
		zap.L().Warn("pipeline: settings load failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return settings
	}
	if saved != nil {
		settings = *saved
	}
	settings.Thresholds.Normalize()
	return settings
}

// enrich returns an error only for an invalid identifier; lookup failures
// degrade into warnings.
func (r *Runner) enrich(ctx context.Context, company *model.NormalizedCompany, out *Outcome) error {
	var (
		rec     *model.RegistryRecord
		quality model.DataQuality
		err     error
	)
	if r.store != nil {
		rec, quality, err = r.registry.LookupAndPersist(ctx, r.store, company.ID, company.TaxID)
	} else {
		rec, err = r.registry.Lookup(ctx, company.TaxID)
		if rec != nil {
			quality, _ = registry.QualityScore(rec)
		}
	}
	if err != nil {
		if eris.Is(err, model.ErrInvalidIdentifier) {
			return err
		}
		out.warn("registry enrichment unavailable: " + err.Error())
		zap.L().Warn("pipeline: enrichment failed", zap.String("tax_id", company.TaxID), zap.Error(err))
		return nil
	}
	out.Enrichment = rec
	out.DataQuality = quality
	applyEnrichment(company, rec)
	return nil
}

// applyEnrichment fills empty canonical fields from the registry record and
// accretes registry keys into the raw payload. It never overwrites a value
// the source record already carried.
func applyEnrichment(company *model.NormalizedCompany, rec *model.RegistryRecord) {
	fill(&company.LegalName, rec.LegalName)
	fill(&company.TradeName, rec.TradeName)
	fill(&company.StateCode, rec.State)
	fill(&company.City, rec.City)
	fill(&company.SizeClass, rec.SizeClass)
	fill(&company.Email, rec.Email)
	fill(&company.Phone, rec.Phone)
	fill(&company.Website, rec.Website)
	fill(&company.PrimaryActivityCode, rec.PrimaryActivity.Code)

	if company.RegistryStatus == nil && rec.RegistrationStatus != "" {
		status := rec.RegistrationStatus
		company.RegistryStatus = &status
	}
	if company.SectorLabel == "" {
		if sector := registry.ClassifySector(company.PrimaryActivityCode); sector != "" {
			company.SectorLabel = string(sector)
		}
	}

	company.RawData = normalize.MergeRaw(company.RawData, map[string]any{
		"capital_social":     rec.Capital,
		"situacao_cadastral": rec.RegistrationStatus,
		"natureza_juridica":  rec.LegalNature,
		"registry_source":    rec.PrincipalSource,
	})
}

func (r *Runner) persist(ctx context.Context, company *model.NormalizedCompany, out *Outcome) {
	if r.store == nil {
		return
	}

	existing, err := r.store.GetCompanyByTaxID(ctx, company.TenantID, company.TaxID)
	if err != nil {
		out.warn("existing record lookup failed: " + err.Error())
	} else if existing != nil {
		company.ID = existing.ID
		company.RawData = normalize.MergeRaw(existing.RawData, company.RawData)
		company.RawAnalysis = normalize.MergeRaw(existing.RawAnalysis, company.RawAnalysis)
	}

	if err := r.store.UpsertCompany(ctx, company); err != nil {
		out.warn("persistence unavailable, result not saved: " + err.Error())
		zap.L().Warn("pipeline: upsert failed", zap.String("tax_id", company.TaxID), zap.Error(err))
	}
}

func fill(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}

func (o *Outcome) warn(msg string) {
	o.Warnings = append(o.Warnings, msg)
}
