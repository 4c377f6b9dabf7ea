package account

import (
	"github.com/jharring9/ByteBracket-CDK/internal/config"
	"github.com/jharring9/ByteBracket-CDK/pkg/stacks"
	"go.uber.org/fx"
)

// Stacks provides the stacks deployed for the given season. The backend
// stacks exist only in-season.
func Stacks(cfg config.Config) fx.Option {
	options := []fx.Option{
		fx.Provide(stacks.BuildCdkPipelineStack),
		fx.Provide(stacks.BuildServiceStage),
		fx.Provide(stacks.BuildCloudfrontStack),
		fx.Provide(stacks.BuildWebcontentPipelineStack),
	}

	if !cfg.Offseason {
		options = append(options,
			fx.Provide(stacks.BuildEcsClusterStack),
			fx.Provide(stacks.BuildBackendPipelineStack),
			fx.Provide(stacks.BuildRedisStack),
		)
	}

	return fx.Options(options...)
}

// Module wires the stacks and attaches the service stage to the pipeline.
func Module(cfg config.Config) fx.Option {
	return fx.Module("account",
		Stacks(cfg),
		fx.Invoke(stacks.AttachServiceStage),
	)
}
