package stacks

import (
	"github.com/AlekSi/pointer"
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodebuild"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodepipeline"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodepipelineactions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsecr"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsecs"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/jharring9/ByteBracket-CDK/internal/commons"
	"github.com/jharring9/ByteBracket-CDK/internal/config"
	"go.uber.org/fx"
)

type BackendPipelineStackInput struct {
	fx.In
	Account commons.Account
	Stage   awscdk.Stage          `name:"service_stage"`
	Service awsecs.FargateService `name:"backend_service"`
	EcrRepo awsecr.Repository     `name:"backend_ecr_repo"`
}

type BackendPipelineStackOutput struct {
	fx.Out
	Stack awscdk.Stack `group:"stage_stacks"`
}

func BuildBackendPipelineStack(in BackendPipelineStackInput) BackendPipelineStackOutput {
	cfg := in.Account.Config

	stack := awscdk.NewStack(
		in.Stage,
		pointer.ToString(commons.BackendPipelineStackName),
		&awscdk.StackProps{
			Description: pointer.ToString("Defines the continuous deployment pipeline for the backend Fargate service."),
		},
	)

	project := backendBuildProject(stack, cfg, in.EcrRepo)
	backendPipeline(stack, cfg, project, in.Service)

	return BackendPipelineStackOutput{
		Stack: stack,
	}
}

func backendBuildProject(stack awscdk.Stack, cfg config.Config, repo awsecr.Repository) awscodebuild.PipelineProject {
	project := pipelineProject(
		stack,
		commons.Prefixed(cfg.ServiceName, "Backend-Pipeline-CodeBuild"),
		cfg,
		&map[string]*awscodebuild.BuildEnvironmentVariable{
			"AWS_DEFAULT_REGION": {Value: stack.Region()},
			"AWS_ACCOUNT_ID":     {Value: stack.Account()},
			"IMAGE_REPO_NAME":    {Value: repo.RepositoryName()},
			"IMAGE_REPO_URI":     {Value: repo.RepositoryUri()},
			"IMAGE_TAG":          {Value: pointer.ToString(cfg.Service.ImageTag)},
		},
	)

	project.AddToRolePolicy(
		awsiam.NewPolicyStatement(
			&awsiam.PolicyStatementProps{
				Actions: commons.ECRPushActions(),
				Resources: &[]*string{
					pointer.ToString("*"),
				},
			},
		),
	)

	return project
}

func backendPipeline(
	stack awscdk.Stack,
	cfg config.Config,
	project awscodebuild.PipelineProject,
	service awsecs.FargateService) awscodepipeline.Pipeline {

	sourceOutput := awscodepipeline.NewArtifact(pointer.ToString(commons.Prefixed(cfg.ServiceName, "Backend-Source")), nil)
	buildOutput := awscodepipeline.NewArtifact(pointer.ToString(commons.Prefixed(cfg.ServiceName, "Backend-Build")), nil)

	pipeline := applicationPipeline(stack, commons.Prefixed(cfg.ServiceName, "Backend-Pipeline"))

	addStage(pipeline, sourceStageName, gitHubSourceAction(cfg, cfg.GitHub.BackendRepo, sourceOutput))

	addStage(pipeline, buildStageName, awscodepipelineactions.NewCodeBuildAction(
		&awscodepipelineactions.CodeBuildActionProps{
			ActionName: pointer.ToString(buildActionName),
			Project:    project,
			Input:      sourceOutput,
			Outputs:    &[]awscodepipeline.Artifact{buildOutput},
		},
	))

	addStage(pipeline, deployStageName, awscodepipelineactions.NewEcsDeployAction(
		&awscodepipelineactions.EcsDeployActionProps{
			ActionName: pointer.ToString("ECS_Deploy"),
			Service:    service,
			Input:      buildOutput,
		},
	))

	return pipeline
}
