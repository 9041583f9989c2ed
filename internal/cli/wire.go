package cli

import (
	"github.com/caldermed/priorauth/internal/llm"
	"github.com/caldermed/priorauth/internal/model"
	"github.com/caldermed/priorauth/internal/pipeline"
	"github.com/caldermed/priorauth/internal/store"
	"github.com/sirupsen/logrus"
)

// stack is the assembled runtime: provider, store, writer, pipeline.
// Close order matters: the writer drains before the store closes.
type stack struct {
	provider llm.Provider
	store    store.Store
	writer   *store.Writer
	pipeline *pipeline.Pipeline
}

// buildStack wires the runtime from configuration.
func buildStack(cfg *model.Config, log *logrus.Logger) (*stack, error) {
	llmCfg := llm.ConfigFromModel(cfg.LLM)
	if llmCfg.Provider != "" {
		var err error
		llmCfg, err = llm.ResolveAPIKey(llmCfg)
		if err != nil {
			return nil, err
		}
	}

	provider, err := llm.NewProvider(llmCfg)
	if err != nil {
		return nil, err
	}
	if provider != nil {
		provider = llm.NewGuardedProvider(provider, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)
	}

	s, err := store.Open(cfg.Store)
	if err != nil {
		return nil, err
	}
	if cfg.Cache.Enabled {
		s = store.NewCachedStore(s, cfg.Cache.TTL)
	}

	writer := store.NewWriter(s, cfg.Store.QueueSize, log)

	return &stack{
		provider: provider,
		store:    s,
		writer:   writer,
		pipeline: pipeline.New(cfg, provider, writer, log),
	}, nil
}

// Close drains pending writes and releases the store.
func (s *stack) Close() {
	s.writer.Close()
	_ = s.store.Close()
}
