package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greenledger/emfactor/internal/config"
	"github.com/greenledger/emfactor/internal/estimator"
	"github.com/greenledger/emfactor/internal/factor"
	"github.com/greenledger/emfactor/internal/ingest"
	"github.com/greenledger/emfactor/internal/resolver"
)

// configKey carries the loaded config on the command context.
type configKey struct{}

// setContextConfig stores the loaded config for subcommands.
func setContextConfig(cmd *cobra.Command, cfg config.Config) {
	cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
}

// contextConfig returns the config stored by the root command, falling back
// to defaults when a subcommand runs outside the root (tests).
func contextConfig(cmd *cobra.Command) config.Config {
	if cfg, ok := cmd.Context().Value(configKey{}).(config.Config); ok {
		return cfg
	}
	return config.Default()
}

// buildEngine loads the configured dataset, builds the store and constructs
// the resolver engine, wiring the estimator when one is configured.
func buildEngine(cmd *cobra.Command, cfg config.Config) (*resolver.Engine, *factor.Handle, error) {
	dataset, err := ingest.LoadFiles(cfg.Dataset.Paths)
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset: %w", err)
	}
	store, err := dataset.BuildStore()
	if err != nil {
		return nil, nil, err
	}

	logger.Debug().
		Str("dataset", dataset.Manifest.Name).
		Int("records", store.Len()).
		Msg("dataset loaded")

	est := estimator.Estimator(estimator.Disabled())
	if cfg.Estimator.Enabled {
		est = estimator.NewClient(estimator.ClientConfig{
			Endpoint: cfg.Estimator.Endpoint,
			APIKey:   cfg.Estimator.APIKey,
			Model:    cfg.Estimator.Model,
			Timeout:  cfg.Estimator.Timeout(),
		})
	}

	handle := factor.NewHandle(store)
	opts := []resolver.Option{
		resolver.WithDefaultRegion(cfg.Resolver.DefaultRegion),
		resolver.WithMaxAlternatives(cfg.Resolver.MaxAlternatives),
		resolver.WithProxies(dataset.Proxies),
	}
	if timeout := cfg.Estimator.Timeout(); timeout > 0 {
		opts = append(opts, resolver.WithEstimateTimeout(timeout))
	}

	return resolver.New(handle, est, opts...), handle, nil
}
