package bootstrap

import (
	"fmt"
	"os"
	"strconv"

	"github.com/AlekSi/pointer"
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/jharring9/ByteBracket-CDK/internal/commons"
	"github.com/jharring9/ByteBracket-CDK/internal/config"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// CDK context keys read by the app.
const (
	ContextConfig    = "config"
	ContextOffseason = "offseason"
)

func MainAccount() (commons.Account, error) {
	return NewAccount(awscdk.NewApp(nil))
}

// NewAccount resolves the configuration for app and tags every resource in it.
func NewAccount(app awscdk.App) (commons.Account, error) {
	cfg, err := config.Load(configPath(app))
	if err != nil {
		return commons.Account{}, err
	}

	if offseason, ok, err := contextBool(app, ContextOffseason); err != nil {
		return commons.Account{}, err
	} else if ok {
		cfg.Offseason = offseason
	}

	if err := cfg.Validate(); err != nil {
		return commons.Account{}, fmt.Errorf("invalid config: %w", err)
	}

	tags := awscdk.Tags_Of(app)
	tags.Add(pointer.ToString("Service"), pointer.ToString(cfg.ServiceName), nil)
	tags.Add(pointer.ToString("Season"), pointer.ToString(cfg.Season()), nil)

	return commons.Account{
		App:       app,
		AccountId: cfg.Account,
		Region:    cfg.Region,
		Config:    cfg,
	}, nil
}

func configPath(app awscdk.App) string {
	if path, ok := app.Node().TryGetContext(pointer.ToString(ContextConfig)).(string); ok && path != "" {
		return path
	}
	return os.Getenv(config.EnvConfigPath)
}

// contextBool accepts both JSON booleans from cdk.json and strings from -c.
func contextBool(app awscdk.App, key string) (bool, bool, error) {
	switch v := app.Node().TryGetContext(pointer.ToString(key)).(type) {
	case nil:
		return false, false, nil
	case bool:
		return v, true, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, false, fmt.Errorf("context %s: %w", key, err)
		}
		return b, true, nil
	default:
		return false, false, fmt.Errorf("context %s: unexpected type %T", key, v)
	}
}

// Logger provides a zap logger and routes fx events through it.
func Logger() fx.Option {
	return fx.Options(
		fx.Provide(zap.NewProduction),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l}
		}),
	)
}
