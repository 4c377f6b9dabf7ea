package stacks

import (
	"github.com/AlekSi/pointer"
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodebuild"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodepipeline"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodepipelineactions"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/jharring9/ByteBracket-CDK/internal/config"
)

// Both application pipelines run Source -> Build -> Deploy with these names.
const (
	sourceStageName  = "Source"
	buildStageName   = "Build"
	deployStageName  = "Deploy"
	sourceActionName = "GitHub_Source"
	buildActionName  = "Build"
)

func pipelineProject(
	construct constructs.Construct,
	id string,
	cfg config.Config,
	environmentVariables *map[string]*awscodebuild.BuildEnvironmentVariable) awscodebuild.PipelineProject {

	return awscodebuild.NewPipelineProject(
		construct,
		pointer.ToString(id),
		&awscodebuild.PipelineProjectProps{
			BuildSpec: awscodebuild.BuildSpec_FromSourceFilename(pointer.ToString(cfg.Pipeline.BuildSpec)),
			Environment: &awscodebuild.BuildEnvironment{
				BuildImage:  awscodebuild.LinuxBuildImage_AMAZON_LINUX_2_5(),
				ComputeType: awscodebuild.ComputeType_SMALL,
			},
			EnvironmentVariables: environmentVariables,
		},
	)
}

func applicationPipeline(construct constructs.Construct, name string) awscodepipeline.Pipeline {
	return awscodepipeline.NewPipeline(
		construct,
		pointer.ToString(name),
		&awscodepipeline.PipelineProps{
			PipelineName:             pointer.ToString(name),
			RestartExecutionOnUpdate: pointer.ToBool(true),
			PipelineType:             awscodepipeline.PipelineType_V2,
		},
	)
}

func gitHubSourceAction(cfg config.Config, repo string, output awscodepipeline.Artifact) awscodepipeline.IAction {
	return awscodepipelineactions.NewGitHubSourceAction(
		&awscodepipelineactions.GitHubSourceActionProps{
			ActionName: pointer.ToString(sourceActionName),
			Owner:      pointer.ToString(cfg.GitHub.Owner),
			Repo:       pointer.ToString(repo),
			OauthToken: gitHubToken(cfg),
			Output:     output,
			Branch:     pointer.ToString(cfg.GitHub.Branch),
		},
	)
}

func gitHubToken(cfg config.Config) awscdk.SecretValue {
	return awscdk.SecretValue_SecretsManager(pointer.ToString(cfg.GitHub.TokenSecretArn), nil)
}

func addStage(pipeline awscodepipeline.Pipeline, name string, actions ...awscodepipeline.IAction) awscodepipeline.IStage {
	return pipeline.AddStage(
		&awscodepipeline.StageOptions{
			StageName: pointer.ToString(name),
			Actions:   &actions,
		},
	)
}

func plaintext(value *string) *awscodebuild.BuildEnvironmentVariable {
	return &awscodebuild.BuildEnvironmentVariable{
		Value: value,
		Type:  awscodebuild.BuildEnvironmentVariableType_PLAINTEXT,
	}
}
