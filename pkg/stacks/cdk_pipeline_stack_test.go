package stacks

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCdkPipelineStackNames(t *testing.T) {
	account := testAccount(t, testConfig())
	pipeline, stage := testStage(t, account)

	assert.Equal(t, "ByteBracket-CdkPipelineStack", *pipeline.Stack.StackName())
	assert.Equal(t, "ByteBracket-Cdk-Pipeline", *pipeline.Pipeline.Node().Id())
	assert.Equal(t, "ByteBracket", *stage.StageName())
	assert.Equal(t, "312042277619", *stage.Account())
	assert.Equal(t, "us-east-1", *stage.Region())
}

func TestAttachServiceStage(t *testing.T) {
	account := testAccount(t, testConfig())
	pipeline, stage := testStage(t, account)
	cdn := BuildCloudfrontStack(CloudfrontStackInput{Account: account, Stage: stage})

	AttachServiceStage(AttachServiceStageInput{
		Pipeline: pipeline.Pipeline,
		Stage:    stage,
		Stacks:   []awscdk.Stack{cdn.Stack},
		Logger:   zap.NewNop(),
	})

	tmpl := template(pipeline.Stack)
	tmpl.HasResourceProperties(str("AWS::CodePipeline::Pipeline"), map[string]interface{}{
		"Name": str("ByteBracket-Cdk-Pipeline"),
		"Stages": assertions.Match_ArrayWith(&[]interface{}{
			assertions.Match_ObjectLike(&map[string]interface{}{"Name": str("Source")}),
			assertions.Match_ObjectLike(&map[string]interface{}{"Name": str("Build")}),
			assertions.Match_ObjectLike(&map[string]interface{}{"Name": str("ByteBracket")}),
		}),
	})
	tmpl.HasResourceProperties(str("AWS::CodeBuild::Project"), map[string]interface{}{
		"Source": assertions.Match_ObjectLike(&map[string]interface{}{
			"BuildSpec": assertions.Match_StringLikeRegexp(str("cdk synth")),
		}),
	})
}
