package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/qualify-cli/internal/pipeline"
	"github.com/sells-group/qualify-cli/internal/productfit"
	"github.com/sells-group/qualify-cli/internal/registry"
	"github.com/sells-group/qualify-cli/internal/store"
	anthropicpkg "github.com/sells-group/qualify-cli/pkg/anthropic"
	"github.com/sells-group/qualify-cli/pkg/brasilapi"
	"github.com/sells-group/qualify-cli/pkg/receitaws"
)

// pipelineEnv holds the initialized store, clients and runner shared by the
// qualify/import/serve commands.
type pipelineEnv struct {
	Store    store.Store
	Registry *registry.Service
	Scorer   productfit.Scorer
	Runner   *pipeline.Runner
}

// Close releases resources held by the environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initEnv sets up the store, registry clients and the product-fit scorer,
// then builds the pipeline runner. Callers should defer env.Close().
func initEnv(ctx context.Context) (*pipelineEnv, error) {
	st, err := store.New(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	primary := registry.NewBrasilAPISource(brasilapi.NewClient(
		brasilapi.WithBaseURL(cfg.BrasilAPI.BaseURL),
		brasilapi.WithRateLimit(cfg.BrasilAPI.RatePerSec),
	))
	secondary := registry.NewReceitaWSSource(receitaws.NewClient(
		receitaws.WithBaseURL(cfg.ReceitaWS.BaseURL),
		receitaws.WithRateLimit(cfg.ReceitaWS.RatePerSec),
	))
	reg := registry.NewService(primary, secondary, time.Duration(cfg.Registry.LookupTimeoutSecs)*time.Second)

	// An absent Anthropic key is expected: the scorer degrades to its
	// deterministic rubric.
	var anthropicClient anthropicpkg.Client
	if cfg.Anthropic.Key != "" {
		anthropicClient = anthropicpkg.NewClient(cfg.Anthropic.Key)
	} else {
		zap.L().Debug("QUALIFY_ANTHROPIC_KEY not set, product-fit scoring uses the basic rubric")
	}
	scorer := productfit.NewAIScorer(anthropicClient, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens, cfg.ProductFit.Temperature)

	return &pipelineEnv{
		Store:    st,
		Registry: reg,
		Scorer:   scorer,
		Runner:   pipeline.NewRunner(st, reg, scorer),
	}, nil
}
