package commons

import "fmt"

// Construct ids of the stacks inside the service stage. CloudFormation names
// the deployed stacks "<stage>-<id>".
const (
	EcsClusterStackName         = "EcsClusterStack"
	BackendPipelineStackName    = "BackendPipelineStack"
	RedisStackName              = "RedisStack"
	CloudfrontStackName         = "CloudfrontStack"
	WebcontentPipelineStackName = "WebcontentPipelineStack"
)

// StageStackNames lists the stage stacks in creation order.
func StageStackNames(offseason bool) []string {
	if offseason {
		return []string{CloudfrontStackName, WebcontentPipelineStackName}
	}
	return []string{
		EcsClusterStackName,
		BackendPipelineStackName,
		RedisStackName,
		CloudfrontStackName,
		WebcontentPipelineStackName,
	}
}

// DeployedStackName is the CloudFormation stack name of a stage stack.
func DeployedStackName(serviceName, stackName string) string {
	return fmt.Sprintf("%s-%s", serviceName, stackName)
}

// PipelineStackName is the id of the top level stack holding the CDK pipeline.
func PipelineStackName(serviceName string) string {
	return serviceName + "-CdkPipelineStack"
}

// Prefixed joins the service name and a resource name with a dash.
func Prefixed(serviceName, name string) string {
	return serviceName + "-" + name
}
