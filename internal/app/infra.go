package app

import (
	"context"
	"log/slog"

	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/Alijeyrad/simorq_mailer/config"
	"github.com/Alijeyrad/simorq_mailer/pkg/email"
	"github.com/Alijeyrad/simorq_mailer/pkg/observability"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideConfigStore),
	fx.Provide(ProvideEmailSettings),
	fx.Provide(ProvideEmailClient),
	fx.Provide(ProvideOTel),
)

// ProvideConfigStore seeds the store with the startup config and, when the
// config came from a file, keeps it in sync with that file.
func ProvideConfigStore(cfg *config.Config, v *viper.Viper) *config.Store {
	store := config.NewStore(cfg)
	if v != nil {
		config.Watch(v, store)
	}
	return store
}

func ProvideEmailSettings(store *config.Store) email.SettingsSource {
	return email.FromStore(store)
}

func ProvideEmailClient(settings email.SettingsSource) (*email.Client, error) {
	return email.New(settings, email.WithLogger(slog.Default()))
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(),
		observability.FromCentralConfig(cfg.Observability, cfg.Server.Environment))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}
