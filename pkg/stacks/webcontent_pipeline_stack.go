package stacks

import (
	"fmt"

	"github.com/AlekSi/pointer"
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodebuild"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodepipeline"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodepipelineactions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/jharring9/ByteBracket-CDK/internal/commons"
	"github.com/jharring9/ByteBracket-CDK/internal/config"
	"go.uber.org/fx"
)

type WebcontentPipelineStackInput struct {
	fx.In
	Account      commons.Account
	Stage        awscdk.Stage               `name:"service_stage"`
	StaticBucket awss3.Bucket               `name:"static_content_bucket"`
	Distribution awscloudfront.Distribution `name:"frontend_distribution"`
}

type WebcontentPipelineStackOutput struct {
	fx.Out
	Stack awscdk.Stack `group:"stage_stacks"`
}

func BuildWebcontentPipelineStack(in WebcontentPipelineStackInput) WebcontentPipelineStackOutput {
	cfg := in.Account.Config

	stack := awscdk.NewStack(
		in.Stage,
		pointer.ToString(commons.WebcontentPipelineStackName),
		&awscdk.StackProps{
			Description: pointer.ToString("Defines the continuous deployment pipeline for the frontend content."),
		},
	)

	project := frontendBuildProject(stack, cfg, in.Distribution)
	frontendPipeline(stack, cfg, project, in.StaticBucket, in.Distribution)

	return WebcontentPipelineStackOutput{
		Stack: stack,
	}
}

func frontendBuildProject(stack awscdk.Stack, cfg config.Config, distribution awscloudfront.Distribution) awscodebuild.PipelineProject {
	project := pipelineProject(stack, "Frontend-Pipeline-CodeBuild", cfg, nil)

	project.AddToRolePolicy(
		awsiam.NewPolicyStatement(
			&awsiam.PolicyStatementProps{
				Actions: &[]*string{
					pointer.ToString("cloudfront:CreateInvalidation"),
				},
				Resources: &[]*string{
					pointer.ToString(fmt.Sprintf(
						"arn:aws:cloudfront::%s:distribution/%s",
						*stack.Account(),
						*distribution.DistributionId(),
					)),
				},
			},
		),
	)

	return project
}

func frontendPipeline(
	stack awscdk.Stack,
	cfg config.Config,
	project awscodebuild.PipelineProject,
	bucket awss3.Bucket,
	distribution awscloudfront.Distribution) awscodepipeline.Pipeline {

	sourceOutput := awscodepipeline.NewArtifact(pointer.ToString("Frontend-Source"), nil)
	buildOutput := awscodepipeline.NewArtifact(pointer.ToString("Frontend-Build"), nil)

	pipeline := applicationPipeline(stack, "Frontend-Pipeline")

	addStage(pipeline, sourceStageName, gitHubSourceAction(cfg, cfg.GitHub.FrontendRepo, sourceOutput))

	buildEnvironment := &map[string]*awscodebuild.BuildEnvironmentVariable{
		"CLOUDFRONT_DISTRIBUTION_ID": plaintext(distribution.DistributionId()),
	}

	addStage(pipeline, buildStageName, awscodepipelineactions.NewCodeBuildAction(
		&awscodepipelineactions.CodeBuildActionProps{
			ActionName:           pointer.ToString(buildActionName),
			Project:              project,
			Input:                sourceOutput,
			Outputs:              &[]awscodepipeline.Artifact{buildOutput},
			EnvironmentVariables: buildEnvironment,
		},
	))

	addStage(pipeline, deployStageName, awscodepipelineactions.NewS3DeployAction(
		&awscodepipelineactions.S3DeployActionProps{
			ActionName: pointer.ToString("S3_Deploy"),
			Bucket:     bucket,
			Input:      buildOutput,
		},
	))

	return pipeline
}
