package commons

import (
	"github.com/AlekSi/pointer"
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/constructs-go/constructs/v10"
)

// RoleFactory builds a role under construct with the given id.
type RoleFactory func(construct constructs.Construct, name string) awsiam.Role

// ECSRole imports the role when an ARN is configured and builds a new one
// otherwise.
func ECSRole(construct constructs.Construct, name string, arn string, create RoleFactory) awsiam.IRole {
	if arn != "" {
		return awsiam.Role_FromRoleArn(construct, pointer.ToString(name), pointer.ToString(arn), nil)
	}
	return create(construct, name)
}

// CreateECSExecutionRole lets the ECS agent pull images and write container logs.
func CreateECSExecutionRole(construct constructs.Construct, name string) awsiam.Role {
	role := ecsTasksRole(construct, name)

	role.AddToPolicy(
		awsiam.NewPolicyStatement(
			&awsiam.PolicyStatementProps{
				Effect:    awsiam.Effect_ALLOW,
				Actions:   toStrings(ecrPullActions, logsWriteActions),
				Resources: &[]*string{pointer.ToString("*")},
			},
		),
	)

	return role
}

// CreateECSTaskRole is assumed by the backend container. It has no policies
// of its own.
func CreateECSTaskRole(construct constructs.Construct, name string) awsiam.Role {
	return ecsTasksRole(construct, name)
}

func ecsTasksRole(construct constructs.Construct, name string) awsiam.Role {
	return awsiam.NewRole(
		construct,
		pointer.ToString(name),
		&awsiam.RoleProps{
			AssumedBy: awsiam.NewServicePrincipal(pointer.ToString("ecs-tasks.amazonaws.com"), nil),
			Path:      pointer.ToString("/"),
			RoleName:  awscdk.PhysicalName_GENERATE_IF_NEEDED(),
		},
	)
}

var (
	ecrPullActions = []string{
		"ecr:GetAuthorizationToken",
		"ecr:BatchCheckLayerAvailability",
		"ecr:GetDownloadUrlForLayer",
		"ecr:BatchGetImage",
	}
	logsWriteActions = []string{
		"logs:CreateLogStream",
		"logs:PutLogEvents",
	}
	ecrPushActions = []string{
		"ecr:CompleteLayerUpload",
		"ecr:GetAuthorizationToken",
		"ecr:UploadLayerPart",
		"ecr:InitiateLayerUpload",
		"ecr:BatchCheckLayerAvailability",
		"ecr:PutImage",
	}
)

// ECRPushActions are the permissions CodeBuild needs to push an image.
func ECRPushActions() *[]*string {
	return toStrings(ecrPushActions)
}

func toStrings(groups ...[]string) *[]*string {
	var out []*string
	for _, group := range groups {
		for _, s := range group {
			out = append(out, pointer.ToString(s))
		}
	}
	return &out
}
