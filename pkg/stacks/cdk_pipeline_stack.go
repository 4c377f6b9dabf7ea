package stacks

import (
	"github.com/AlekSi/pointer"
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/pipelines"
	"github.com/jharring9/ByteBracket-CDK/internal/commons"
	"github.com/jharring9/ByteBracket-CDK/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type CdkPipelineStackInput struct {
	fx.In
	Account commons.Account
}

type CdkPipelineStackOutput struct {
	fx.Out
	Stack    awscdk.Stack           `name:"cdk_pipeline_stack"`
	Pipeline pipelines.CodePipeline `name:"cdk_pipeline"`
}

func BuildCdkPipelineStack(in CdkPipelineStackInput) CdkPipelineStackOutput {
	cfg := in.Account.Config

	stack := awscdk.NewStack(
		in.Account.App,
		pointer.ToString(commons.PipelineStackName(cfg.ServiceName)),
		&awscdk.StackProps{
			Env: in.Account.Env(),
			Description: pointer.ToString("Defines the continuous deployment pipeline for the CDK-managed infrastructure. " +
				"All infrastructure is created from within this pipeline stack."),
		},
	)

	pipelineName := commons.Prefixed(cfg.ServiceName, "Cdk-Pipeline")
	pipeline := pipelines.NewCodePipeline(
		stack,
		pointer.ToString(pipelineName),
		&pipelines.CodePipelineProps{
			PipelineName: pointer.ToString(pipelineName),
			Synth:        synthStep(cfg),
		},
	)

	return CdkPipelineStackOutput{
		Stack:    stack,
		Pipeline: pipeline,
	}
}

func synthStep(cfg config.Config) pipelines.ShellStep {
	commands := make([]*string, len(cfg.Pipeline.SynthCommands))
	for i, v := range cfg.Pipeline.SynthCommands {
		commands[i] = pointer.ToString(v)
	}

	return pipelines.NewShellStep(
		pointer.ToString("Synth"),
		&pipelines.ShellStepProps{
			Input: pipelines.CodePipelineSource_GitHub(
				pointer.ToString(cfg.CdkRepository()),
				pointer.ToString(cfg.GitHub.Branch),
				&pipelines.GitHubSourceOptions{
					Authentication: gitHubToken(cfg),
				},
			),
			Commands: &commands,
		},
	)
}

type ServiceStageInput struct {
	fx.In
	Account       commons.Account
	PipelineStack awscdk.Stack `name:"cdk_pipeline_stack"`
}

type ServiceStageOutput struct {
	fx.Out
	Stage awscdk.Stage `name:"service_stage"`
}

// BuildServiceStage creates the stage every application stack is deployed in.
func BuildServiceStage(in ServiceStageInput) ServiceStageOutput {
	stage := awscdk.NewStage(
		in.PipelineStack,
		pointer.ToString(in.Account.Config.ServiceName),
		&awscdk.StageProps{
			Env: in.Account.Env(),
		},
	)

	return ServiceStageOutput{Stage: stage}
}

type AttachServiceStageInput struct {
	fx.In
	Pipeline pipelines.CodePipeline `name:"cdk_pipeline"`
	Stage    awscdk.Stage           `name:"service_stage"`
	Stacks   []awscdk.Stack         `group:"stage_stacks"`
	Logger   *zap.Logger
}

// AttachServiceStage adds the service stage to the CDK pipeline. The stage is
// synthesized when added, so it runs after every stage stack is built.
func AttachServiceStage(in AttachServiceStageInput) {
	names := make([]string, len(in.Stacks))
	for i, s := range in.Stacks {
		names[i] = *s.StackName()
	}

	in.Logger.Info("attaching service stage to pipeline",
		zap.String("stage", *in.Stage.StageName()),
		zap.Strings("stacks", names),
	)

	in.Pipeline.AddStage(in.Stage, nil)
}
