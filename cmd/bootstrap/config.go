package bootstrap

import (
	"proximity-pay/internal/pkg/config"
	"proximity-pay/internal/pkg/errs"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		LoadServerConfig,
	),
)

// LoadServerConfig reads the environment and rejects settings that would
// make every payment session unusable.
func LoadServerConfig() (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return config.Config{}, err
	}
	if cfg.Session.TTL <= 0 {
		return config.Config{}, errs.Newf("SESSION_TTL must be positive, got %s", cfg.Session.TTL)
	}
	return cfg, nil
}
