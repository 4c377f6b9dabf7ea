package stacks

import (
	"testing"

	"github.com/AlekSi/pointer"
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/jharring9/ByteBracket-CDK/internal/commons"
	"github.com/jharring9/ByteBracket-CDK/internal/config"
)

const testHostedZoneID = "Z0123456789ABC"

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Domain.HostedZoneID = testHostedZoneID
	return cfg
}

func testAccount(t *testing.T, cfg config.Config) commons.Account {
	t.Helper()
	return commons.Account{
		App:       awscdk.NewApp(nil),
		AccountId: cfg.Account,
		Region:    cfg.Region,
		Config:    cfg,
	}
}

func testStage(t *testing.T, account commons.Account) (CdkPipelineStackOutput, awscdk.Stage) {
	t.Helper()
	pipeline := BuildCdkPipelineStack(CdkPipelineStackInput{Account: account})
	stage := BuildServiceStage(ServiceStageInput{Account: account, PipelineStack: pipeline.Stack})
	return pipeline, stage.Stage
}

func buildEcs(t *testing.T, account commons.Account) (awscdk.Stage, EcsClusterStackOutput) {
	t.Helper()
	_, stage := testStage(t, account)
	return stage, BuildEcsClusterStack(EcsClusterStackInput{Account: account, Stage: stage})
}

func template(stack awscdk.Stack) assertions.Template {
	return assertions.Template_FromStack(stack, nil)
}

func str(s string) *string {
	return pointer.ToString(s)
}

func num(f float64) *float64 {
	return pointer.ToFloat64(f)
}
