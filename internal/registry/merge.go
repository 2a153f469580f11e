// Package registry reconciles two independent external company-registry
// lookups into one enriched record with a data-quality grade.
package registry

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/qualify-cli/internal/model"
)

// EnrichmentStore is the narrow persistence surface the merge step needs.
// Failures here are logged and swallowed, never propagated as merge
// failures.
type EnrichmentStore interface {
	UpsertEnrichment(ctx context.Context, stockItemID, taxID string, quality model.DataQuality, record *model.RegistryRecord) error
}

// Service merges the primary and secondary registry sources.
type Service struct {
	primary   Source
	secondary Source
	timeout   time.Duration
}

// NewService builds a merge service. The secondary source may be nil.
func NewService(primary, secondary Source, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Service{primary: primary, secondary: secondary, timeout: timeout}
}

// Lookup validates the tax id, queries both sources concurrently and merges
// whatever resolved. A slow secondary never blocks use of primary data: each
// call gets its own timeout and the merge proceeds without the straggler.
func (s *Service) Lookup(ctx context.Context, taxID string) (*model.RegistryRecord, error) {
	cnpj, err := NormalizeCNPJ(taxID)
	if err != nil {
		return nil, err
	}

	var primaryRec, secondaryRec *model.RegistryRecord
	var primaryErr, secondaryErr error

	var g errgroup.Group
	g.Go(func() error {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		primaryRec, primaryErr = s.primary.Fetch(callCtx, cnpj)
		return nil
	})
	if s.secondary != nil {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			secondaryRec, secondaryErr = s.secondary.Fetch(callCtx, cnpj)
			return nil
		})
	}
	_ = g.Wait()

	if primaryErr != nil {
		zap.L().Warn("registry: primary source failed, continuing with secondary",
			zap.String("source", s.primary.Name()),
			zap.String("tax_id", cnpj),
			zap.Error(primaryErr),
		)
	}
	if secondaryErr != nil {
		zap.L().Warn("registry: secondary source failed",
			zap.String("tax_id", cnpj),
			zap.Error(secondaryErr),
		)
	}

	merged := mergeRecords(primaryRec, secondaryRec)
	if merged == nil {
		return nil, eris.Wrap(model.ErrNoRegistryData, "registry: all sources failed for "+cnpj)
	}

	zap.L().Info("registry: merged lookup",
		zap.String("tax_id", cnpj),
		zap.String("principal_source", merged.PrincipalSource),
		zap.Bool("primary_resolved", primaryRec != nil),
		zap.Bool("secondary_resolved", secondaryRec != nil),
	)
	return merged, nil
}

// LookupAndPersist additionally grades the merged record and writes the
// enrichment row. Persistence failures never fail the merge.
func (s *Service) LookupAndPersist(ctx context.Context, store EnrichmentStore, stockItemID, taxID string) (*model.RegistryRecord, model.DataQuality, error) {
	rec, err := s.Lookup(ctx, taxID)
	if err != nil {
		return nil, "", err
	}

	quality, points := QualityScore(rec)
	zap.L().Info("registry: data quality",
		zap.String("tax_id", rec.TaxID),
		zap.String("quality", string(quality)),
		zap.Int("points", points),
	)

	if store != nil {
		if err := store.UpsertEnrichment(ctx, stockItemID, rec.TaxID, quality, rec); err != nil {
			zap.L().Warn("registry: enrichment persistence failed, continuing",
				zap.String("tax_id", rec.TaxID),
				zap.Error(err),
			)
		}
	}
	return rec, quality, nil
}

// mergeRecords prefers the primary source field-by-field, falling back to
// the secondary only for fields the primary left empty.
func mergeRecords(primary, secondary *model.RegistryRecord) *model.RegistryRecord {
	if primary == nil {
		return secondary
	}
	if secondary == nil {
		return primary
	}

	out := *primary
	fillString(&out.LegalName, secondary.LegalName)
	fillString(&out.TradeName, secondary.TradeName)
	fillString(&out.LegalNature, secondary.LegalNature)
	fillString(&out.SizeClass, secondary.SizeClass)
	fillString(&out.Street, secondary.Street)
	fillString(&out.Number, secondary.Number)
	fillString(&out.Complement, secondary.Complement)
	fillString(&out.District, secondary.District)
	fillString(&out.City, secondary.City)
	fillString(&out.State, secondary.State)
	fillString(&out.ZipCode, secondary.ZipCode)
	fillString(&out.Email, secondary.Email)
	fillString(&out.Phone, secondary.Phone)
	fillString(&out.Website, secondary.Website)
	fillString(&out.RegistrationStatus, secondary.RegistrationStatus)
	fillString(&out.OpenedAt, secondary.OpenedAt)
	if out.Capital == 0 {
		out.Capital = secondary.Capital
	}
	if out.PrimaryActivity.Code == "" {
		out.PrimaryActivity = secondary.PrimaryActivity
	}
	if len(out.SecondaryActivity) == 0 {
		out.SecondaryActivity = secondary.SecondaryActivity
	}
	if len(out.Partners) == 0 {
		out.Partners = secondary.Partners
	}

	// Provenance keys on the legal name: whoever supplied it supplied the
	// record's principal fields.
	if primary.LegalName == "" && secondary.LegalName != "" {
		out.PrincipalSource = secondary.PrincipalSource
	}
	return &out
}

func fillString(dst *string, fallback string) {
	if *dst == "" {
		*dst = fallback
	}
}
