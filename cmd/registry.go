package main

import (
	"context"
	"time"

	"github.com/sells-group/enrich-cli/internal/config"
	"github.com/sells-group/enrich-cli/internal/enrich"
	"github.com/sells-group/enrich-cli/internal/provider"
	"github.com/sells-group/enrich-cli/internal/scorer"
	"github.com/sells-group/enrich-cli/internal/store"
)

// buildRegistry registers every known adapter. Registration order is the
// merge tiebreak order, so it is fixed here rather than configurable.
func buildRegistry(cfg *config.Config) *provider.Registry {
	reg := provider.NewRegistry()
	reg.Register(provider.NewBigDataCorpAdapter(cfg.Providers.BigDataCorp, nil, nil))
	reg.Register(provider.NewWizaAdapter(cfg.Providers.Wiza, nil, nil))
	reg.Register(provider.NewSurfeAdapter(cfg.Providers.Surfe, nil, nil))
	reg.Register(provider.NewPeopleDataLabsAdapter(cfg.Providers.PeopleDataLabs, nil, nil))
	return reg
}

// buildOrchestrator wires the registry and scorer into an orchestrator.
func buildOrchestrator(cfg *config.Config, reg *provider.Registry) (*enrich.Orchestrator, error) {
	weights, err := scorer.LoadWeights(cfg.Scorer.WeightsPath)
	if err != nil {
		return nil, err
	}
	return enrich.NewOrchestrator(
		reg,
		scorer.New(weights),
		time.Duration(cfg.Enrich.ProviderTimeoutSecs)*time.Second,
		time.Duration(cfg.Enrich.TimeoutSecs)*time.Second,
	), nil
}

// initStore opens the configured run history backend.
func initStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, cfg.Store)
}
