// Package enrich coordinates the fan-out of one enrichment request
// across every capable provider and consolidates the responses.
package enrich

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/enrich-cli/internal/merge"
	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/provider"
	"github.com/sells-group/enrich-cli/internal/scorer"
)

// RequestErrorKey is the ProviderErrors key for failures that precede
// any provider call.
const RequestErrorKey = "request"

// Result is the consolidated outcome of one enrichment. Provider
// failures are data, not errors: the orchestrator always returns a
// Result, possibly with an empty record and a populated ProviderErrors
// map.
type Result struct {
	Kind                  model.EntityKind                 `json:"kind"`
	Person                *model.PersonRecord              `json:"person,omitempty"`
	Company               *model.CompanyRecord             `json:"company,omitempty"`
	Provenance            map[string]model.FieldProvenance `json:"provenance"`
	Score                 int                              `json:"score"`
	ContributingProviders []string                         `json:"contributing_providers"`
	ProviderErrors        map[string]provider.ErrorKind    `json:"provider_errors,omitempty"`
	Error                 string                           `json:"error,omitempty"`
	ElapsedMS             int64                            `json:"elapsed_ms"`
}

// Orchestrator fans one enrichment request out to every configured,
// capable adapter concurrently and merges whatever comes back.
type Orchestrator struct {
	registry        *provider.Registry
	scorer          *scorer.Scorer
	providerTimeout time.Duration
	timeout         time.Duration
}

// NewOrchestrator creates an orchestrator. providerTimeout bounds each
// adapter call; timeout is the ceiling on the whole fan-out.
func NewOrchestrator(reg *provider.Registry, sc *scorer.Scorer, providerTimeout, timeout time.Duration) *Orchestrator {
	if providerTimeout <= 0 {
		providerTimeout = 15 * time.Second
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Orchestrator{
		registry:        reg,
		scorer:          sc,
		providerTimeout: providerTimeout,
		timeout:         timeout,
	}
}

// EnrichPerson enriches a person ref across all capable providers.
func (o *Orchestrator) EnrichPerson(ctx context.Context, ref model.PersonRef) *Result {
	if !ref.HasIdentifier() {
		return o.invalidRequest(model.KindPerson,
			"supply at least one identifying field (email, linkedin_url, name, tax_id, or company)")
	}
	adapters := o.capable(model.KindPerson)
	call := func(ctx context.Context, a provider.Adapter) (*model.PartialRecord, *provider.Error) {
		return a.EnrichPerson(ctx, ref)
	}
	return o.run(ctx, model.KindPerson, adapters, call)
}

// EnrichCompany enriches a company ref across all capable providers.
func (o *Orchestrator) EnrichCompany(ctx context.Context, ref model.CompanyRef) *Result {
	if !ref.HasIdentifier() {
		return o.invalidRequest(model.KindCompany,
			"supply at least one identifying field (domain, name, tax_id, ticker, or linkedin_url)")
	}
	adapters := o.capable(model.KindCompany)
	call := func(ctx context.Context, a provider.Adapter) (*model.PartialRecord, *provider.Error) {
		return a.EnrichCompany(ctx, ref)
	}
	return o.run(ctx, model.KindCompany, adapters, call)
}

// capable unions the ready adapters over every capability of the given
// kind. The union is re-walked in registry order, which keeps the merge
// tiebreak stable no matter which capabilities an adapter declares.
func (o *Orchestrator) capable(kind model.EntityKind) []provider.Adapter {
	var caps []provider.Capability
	switch kind {
	case model.KindPerson:
		caps = provider.PersonCapabilities()
	case model.KindCompany:
		caps = provider.CompanyCapabilities()
	}

	ready := make(map[string]bool)
	for _, c := range caps {
		for _, a := range o.registry.Ready(c) {
			ready[a.Name()] = true
		}
	}

	var out []provider.Adapter
	for _, a := range o.registry.List() {
		if ready[a.Name()] {
			out = append(out, a)
		}
	}
	return out
}

func (o *Orchestrator) invalidRequest(kind model.EntityKind, msg string) *Result {
	r := emptyResult(kind)
	r.ProviderErrors = map[string]provider.ErrorKind{RequestErrorKey: provider.ErrInvalidRequest}
	r.Error = msg
	return r
}

func emptyResult(kind model.EntityKind) *Result {
	r := &Result{
		Kind:                  kind,
		Provenance:            map[string]model.FieldProvenance{},
		ContributingProviders: []string{},
	}
	switch kind {
	case model.KindPerson:
		r.Person = &model.PersonRecord{}
	case model.KindCompany:
		r.Company = &model.CompanyRecord{}
	}
	return r
}

type slot struct {
	partial *model.PartialRecord
	err     *provider.Error
	filled  bool
}

// run fans the call out to the adapters and gathers whatever completed
// before the ceiling. Slots still empty at the ceiling are recorded as
// timeouts; the goroutines behind them are cancelled and drain on their
// own.
func (o *Orchestrator) run(
	ctx context.Context,
	kind model.EntityKind,
	adapters []provider.Adapter,
	call func(context.Context, provider.Adapter) (*model.PartialRecord, *provider.Error),
) *Result {
	started := time.Now()
	result := emptyResult(kind)
	if len(adapters) == 0 {
		result.Error = "no configured provider supports this lookup"
		return result
	}

	fanCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	slots := make([]slot, len(adapters))

	var g errgroup.Group
	for i, a := range adapters {
		g.Go(func() error {
			callCtx, callCancel := context.WithTimeout(fanCtx, o.providerTimeout)
			defer callCancel()

			partial, perr := call(callCtx, a)

			mu.Lock()
			slots[i] = slot{partial: partial, err: perr, filled: true}
			mu.Unlock()
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		g.Wait() //nolint:errcheck // goroutines only return nil
		close(done)
	}()

	timer := time.NewTimer(o.timeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		cancel()
	case <-ctx.Done():
		cancel()
	}

	mu.Lock()
	gathered := make([]slot, len(slots))
	copy(gathered, slots)
	mu.Unlock()

	partials := make([]*model.PartialRecord, 0, len(gathered))
	errs := make(map[string]provider.ErrorKind)
	var contributing []string
	for i, s := range gathered {
		name := adapters[i].Name()
		switch {
		case !s.filled:
			errs[name] = provider.ErrTimeout
			zap.L().Warn("provider timed out at fan-out ceiling", zap.String("provider", name))
		case s.err != nil:
			errs[name] = s.err.Kind
			zap.L().Debug("provider failed",
				zap.String("provider", name),
				zap.String("kind", string(s.err.Kind)),
				zap.String("message", s.err.Message))
		case s.partial != nil:
			partials = append(partials, s.partial)
			if contributed(s.partial) {
				contributing = append(contributing, name)
			}
		}
	}

	merged := merge.Merge(kind, partials)
	result.Provenance = merged.Provenance
	switch kind {
	case model.KindPerson:
		result.Person = merged.Person
		result.Score = o.scorer.ScorePerson(merged.Person)
	case model.KindCompany:
		result.Company = merged.Company
		result.Score = o.scorer.ScoreCompany(merged.Company)
	}
	if len(contributing) > 0 {
		result.ContributingProviders = contributing
	}
	if len(errs) > 0 {
		result.ProviderErrors = errs
	}
	result.ElapsedMS = time.Since(started).Milliseconds()

	zap.L().Info("enrichment complete",
		zap.String("kind", string(kind)),
		zap.Int("providers", len(adapters)),
		zap.Int("contributing", len(contributing)),
		zap.Int("failed", len(errs)),
		zap.Int("score", result.Score))
	return result
}

// contributed reports whether a partial carries any data at all.
func contributed(p *model.PartialRecord) bool {
	if len(p.Provenance) > 0 {
		return true
	}
	if p.Person != nil {
		return len(p.Person.Emails) > 0 || len(p.Person.Phones) > 0 ||
			len(p.Person.Skills) > 0 || len(p.Person.Education) > 0
	}
	if p.Company != nil {
		return len(p.Company.KeyPeople) > 0
	}
	return false
}
