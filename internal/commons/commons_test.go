package commons

import (
	"testing"

	"github.com/AlekSi/pointer"
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/jharring9/ByteBracket-CDK/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStack(t *testing.T) awscdk.Stack {
	t.Helper()
	app := awscdk.NewApp(nil)
	return awscdk.NewStack(app, pointer.ToString("TestStack"), &awscdk.StackProps{
		Env: &awscdk.Environment{
			Account: pointer.ToString("123456789012"),
			Region:  pointer.ToString("us-east-1"),
		},
	})
}

func TestStageStackNames(t *testing.T) {
	assert.Equal(t, []string{
		"EcsClusterStack",
		"BackendPipelineStack",
		"RedisStack",
		"CloudfrontStack",
		"WebcontentPipelineStack",
	}, StageStackNames(false))

	assert.Equal(t, []string{"CloudfrontStack", "WebcontentPipelineStack"}, StageStackNames(true))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "ByteBracket-RedisStack", DeployedStackName("ByteBracket", RedisStackName))
	assert.Equal(t, "ByteBracket-CdkPipelineStack", PipelineStackName("ByteBracket"))
	assert.Equal(t, "ByteBracket-Backend-Pipeline", Prefixed("ByteBracket", "Backend-Pipeline"))
}

func TestAccountEnv(t *testing.T) {
	account := Account{AccountId: "123456789012", Region: "eu-west-1"}
	env := account.Env()

	require.NotNil(t, env)
	assert.Equal(t, "123456789012", *env.Account)
	assert.Equal(t, "eu-west-1", *env.Region)
}

func TestLogRetention(t *testing.T) {
	week, ok := LogRetention(7)
	require.True(t, ok)
	assert.Equal(t, awslogs.RetentionDays_ONE_WEEK, week)

	month, ok := LogRetention(30)
	require.True(t, ok)
	assert.Equal(t, awslogs.RetentionDays_ONE_MONTH, month)

	_, ok = LogRetention(42)
	assert.False(t, ok)
}

func TestLogRetentionCoversConfigValues(t *testing.T) {
	for _, days := range config.LogRetentionDays {
		_, ok := LogRetention(days)
		assert.True(t, ok, "days=%v", days)
	}
	assert.Len(t, retentionDays, len(config.LogRetentionDays))
}

func TestECSRoleCreatesRoleWithoutArn(t *testing.T) {
	stack := newStack(t)

	ECSRole(stack, "ExecutionRole", "", CreateECSExecutionRole)

	tmpl := assertions.Template_FromStack(stack, nil)
	tmpl.ResourceCountIs(pointer.ToString("AWS::IAM::Role"), pointer.ToFloat64(1))
	tmpl.HasResourceProperties(pointer.ToString("AWS::IAM::Policy"), map[string]interface{}{
		"PolicyDocument": assertions.Match_ObjectLike(&map[string]interface{}{
			"Statement": assertions.Match_ArrayWith(&[]interface{}{
				assertions.Match_ObjectLike(&map[string]interface{}{
					"Action": assertions.Match_ArrayWith(&[]interface{}{
						pointer.ToString("ecr:BatchGetImage"),
					}),
				}),
			}),
		}),
	})
}

func TestECSRoleImportsArn(t *testing.T) {
	stack := newStack(t)

	role := ECSRole(stack, "TaskRole", "arn:aws:iam::123456789012:role/Existing", CreateECSTaskRole)

	assert.Equal(t, "arn:aws:iam::123456789012:role/Existing", *role.RoleArn())
	tmpl := assertions.Template_FromStack(stack, nil)
	tmpl.ResourceCountIs(pointer.ToString("AWS::IAM::Role"), pointer.ToFloat64(0))
}

func TestHostedZoneFromConfiguredId(t *testing.T) {
	stack := newStack(t)
	domain := config.Default().Domain
	domain.HostedZoneID = "Z0123456789"

	zone := HostedZone(stack, domain)

	assert.Equal(t, "Z0123456789", *zone.HostedZoneId())
	assert.Equal(t, "bytebracket.io", *zone.ZoneName())
}

func TestHostedZoneLookup(t *testing.T) {
	stack := newStack(t)

	zone := HostedZone(stack, config.Default().Domain)

	require.NotNil(t, zone)
	assert.NotNil(t, zone.HostedZoneId())
}

func TestECRPushActions(t *testing.T) {
	actions := ECRPushActions()

	require.NotNil(t, actions)
	require.Len(t, *actions, 6)
	assert.Equal(t, "ecr:CompleteLayerUpload", *(*actions)[0])
	assert.Equal(t, "ecr:PutImage", *(*actions)[5])
}
