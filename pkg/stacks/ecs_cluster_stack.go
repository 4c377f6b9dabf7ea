package stacks

import (
	"fmt"

	"github.com/AlekSi/pointer"
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapplicationautoscaling"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsecr"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsecs"
	"github.com/aws/aws-cdk-go/awscdk/v2/awselasticloadbalancingv2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53targets"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/jharring9/ByteBracket-CDK/internal/commons"
	"github.com/jharring9/ByteBracket-CDK/internal/config"
	"go.uber.org/fx"
)

type EcsClusterStackInput struct {
	fx.In
	Account commons.Account
	Stage   awscdk.Stage `name:"service_stage"`
}

type EcsClusterStackOutput struct {
	fx.Out
	Stack        awscdk.Stack                                     `group:"stage_stacks"`
	VPC          awsec2.Vpc                                       `name:"backend_vpc"`
	Service      awsecs.FargateService                            `name:"backend_service"`
	LoadBalancer awselasticloadbalancingv2.ApplicationLoadBalancer `name:"backend_alb"`
	EcrRepo      awsecr.Repository                                `name:"backend_ecr_repo"`
}

func BuildEcsClusterStack(in EcsClusterStackInput) EcsClusterStackOutput {
	cfg := in.Account.Config

	stack := awscdk.NewStack(
		in.Stage,
		pointer.ToString(commons.EcsClusterStackName),
		&awscdk.StackProps{
			Description: pointer.ToString("Defines the ECS cluster and service for the backend service."),
		},
	)

	vpc := backendVPC(stack)
	repo := backendEcrRepository(stack, cfg)
	service := backendFargateService(stack, cfg, vpc, repo)
	alb := backendLoadBalancer(stack, cfg, vpc, service)
	backendAutoScaling(service, cfg)
	backendARecord(stack, cfg, alb)

	awscdk.NewCfnOutput(stack, pointer.ToString("LoadBalancerDnsName"), &awscdk.CfnOutputProps{
		Description: pointer.ToString("DNS name of the backend load balancer"),
		Value:       alb.LoadBalancerDnsName(),
	})
	awscdk.NewCfnOutput(stack, pointer.ToString("EcrRepositoryUri"), &awscdk.CfnOutputProps{
		Description: pointer.ToString("URI of the backend image repository"),
		Value:       repo.RepositoryUri(),
	})

	return EcsClusterStackOutput{
		Stack:        stack,
		VPC:          vpc,
		Service:      service,
		LoadBalancer: alb,
		EcrRepo:      repo,
	}
}

func backendVPC(stack awscdk.Stack) awsec2.Vpc {
	return awsec2.NewVpc(
		stack,
		pointer.ToString("BackendVpc"),
		&awsec2.VpcProps{
			MaxAzs: pointer.ToFloat64(2),
		},
	)
}

func backendEcrRepository(construct constructs.Construct, cfg config.Config) awsecr.Repository {
	return awsecr.NewRepository(
		construct,
		pointer.ToString("Backend-EcrRepo"),
		&awsecr.RepositoryProps{
			RepositoryName: pointer.ToString(cfg.EcrRepositoryName()),
		},
	)
}

func backendFargateService(stack awscdk.Stack, cfg config.Config, vpc awsec2.Vpc, repo awsecr.Repository) awsecs.FargateService {
	cluster := awsecs.NewCluster(
		stack,
		pointer.ToString("EcsCluster"),
		&awsecs.ClusterProps{
			Vpc: vpc,
		},
	)

	executionRole := commons.ECSRole(stack, "Backend-ExecutionRole", cfg.Service.ExecutionRoleArn, commons.CreateECSExecutionRole)
	taskRole := commons.ECSRole(stack, "Backend-TaskRole", cfg.Service.TaskRoleArn, commons.CreateECSTaskRole)

	taskDefinition := awsecs.NewFargateTaskDefinition(
		stack,
		pointer.ToString("FargateTaskDefinition"),
		&awsecs.FargateTaskDefinitionProps{
			Cpu:            pointer.ToFloat64(cfg.Service.Cpu),
			MemoryLimitMiB: pointer.ToFloat64(cfg.Service.MemoryMiB),
			ExecutionRole:  executionRole,
			TaskRole:       taskRole,
		},
	)

	retention, ok := commons.LogRetention(cfg.Service.LogRetentionDays)
	if !ok {
		panic(fmt.Sprintf("unsupported log retention of %v days", cfg.Service.LogRetentionDays))
	}

	taskDefinition.AddContainer(
		pointer.ToString("Container"),
		&awsecs.ContainerDefinitionOptions{
			Image: awsecs.ContainerImage_FromEcrRepository(repo, pointer.ToString(cfg.Service.ImageTag)),
			PortMappings: &[]*awsecs.PortMapping{
				{
					ContainerPort: pointer.ToFloat64(cfg.Service.TaskPort),
				},
			},
			Logging: awsecs.NewAwsLogDriver(
				&awsecs.AwsLogDriverProps{
					StreamPrefix: pointer.ToString("Backend-Container"),
					LogRetention: retention,
				},
			),
		},
	)

	return awsecs.NewFargateService(
		stack,
		pointer.ToString("FargateService"),
		&awsecs.FargateServiceProps{
			Cluster:        cluster,
			TaskDefinition: taskDefinition,
			DesiredCount:   pointer.ToFloat64(cfg.Service.DesiredCount),
		},
	)
}

func backendLoadBalancer(
	stack awscdk.Stack,
	cfg config.Config,
	vpc awsec2.Vpc,
	service awsecs.FargateService) awselasticloadbalancingv2.ApplicationLoadBalancer {

	alb := awselasticloadbalancingv2.NewApplicationLoadBalancer(
		stack,
		pointer.ToString("Backend-ALB"),
		&awselasticloadbalancingv2.ApplicationLoadBalancerProps{
			Vpc:            vpc,
			InternetFacing: pointer.ToBool(true),
		},
	)

	listener := alb.AddListener(
		pointer.ToString("ALB-Listener"),
		&awselasticloadbalancingv2.BaseApplicationListenerProps{
			Port:     pointer.ToFloat64(443),
			Protocol: awselasticloadbalancingv2.ApplicationProtocol_HTTPS,
			Certificates: &[]awselasticloadbalancingv2.IListenerCertificate{
				awselasticloadbalancingv2.ListenerCertificate_FromArn(pointer.ToString(cfg.Domain.CertificateArn)),
			},
		},
	)

	listener.AddTargets(
		pointer.ToString("ALB-Targets"),
		&awselasticloadbalancingv2.AddApplicationTargetsProps{
			Port: pointer.ToFloat64(cfg.Service.TaskPort),
			Targets: &[]awselasticloadbalancingv2.IApplicationLoadBalancerTarget{
				service,
			},
			HealthCheck: &awselasticloadbalancingv2.HealthCheck{
				Path: pointer.ToString(cfg.Service.HealthCheckPath),
			},
		},
	)

	return alb
}

func backendAutoScaling(service awsecs.FargateService, cfg config.Config) {
	scalableTarget := service.AutoScaleTaskCount(
		&awsapplicationautoscaling.EnableScalingProps{
			MinCapacity: pointer.ToFloat64(cfg.Service.DesiredCount),
			MaxCapacity: pointer.ToFloat64(cfg.MaxCapacity()),
		},
	)

	scalableTarget.ScaleOnCpuUtilization(
		pointer.ToString("CpuScaling"),
		&awsecs.CpuUtilizationScalingProps{
			TargetUtilizationPercent: pointer.ToFloat64(cfg.Service.TargetCpuUtilization),
		},
	)
}

func backendARecord(stack awscdk.Stack, cfg config.Config, alb awselasticloadbalancingv2.ApplicationLoadBalancer) awsroute53.ARecord {
	return awsroute53.NewARecord(
		stack,
		pointer.ToString("Backend-ARecord"),
		&awsroute53.ARecordProps{
			Zone:       commons.HostedZone(stack, cfg.Domain),
			RecordName: pointer.ToString(cfg.Service.AlbSubdomain),
			Target:     awsroute53.RecordTarget_FromAlias(awsroute53targets.NewLoadBalancerTarget(alb, nil)),
		},
	)
}
