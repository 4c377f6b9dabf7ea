package stacks

import (
	"github.com/AlekSi/pointer"
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awselasticache"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/jharring9/ByteBracket-CDK/internal/commons"
	"github.com/jharring9/ByteBracket-CDK/internal/config"
	"go.uber.org/fx"
)

type RedisStackInput struct {
	fx.In
	Account commons.Account
	Stage   awscdk.Stage `name:"service_stage"`
	VPC     awsec2.Vpc   `name:"backend_vpc"`
}

type RedisStackOutput struct {
	fx.Out
	Stack awscdk.Stack `group:"stage_stacks"`
}

func BuildRedisStack(in RedisStackInput) RedisStackOutput {
	cfg := in.Account.Config

	stack := awscdk.NewStack(
		in.Stage,
		pointer.ToString(commons.RedisStackName),
		&awscdk.StackProps{
			Description: pointer.ToString("Defines the Redis cluster for the backend service."),
		},
	)

	parameterGroup := redisParameterGroup(stack, cfg)
	securityGroup := redisSecurityGroup(stack, cfg, in.VPC)
	subnetGroup := redisSubnetGroup(stack, in.VPC)
	cluster := redisCluster(stack, cfg, parameterGroup, securityGroup, subnetGroup)
	redisCnameRecord(stack, cfg, cluster)

	awscdk.NewCfnOutput(stack, pointer.ToString("RedisEndpointAddress"), &awscdk.CfnOutputProps{
		Description: pointer.ToString("Endpoint address of the Redis cluster"),
		Value:       cluster.AttrRedisEndpointAddress(),
	})

	return RedisStackOutput{
		Stack: stack,
	}
}

func redisParameterGroup(construct constructs.Construct, cfg config.Config) awselasticache.CfnParameterGroup {
	return awselasticache.NewCfnParameterGroup(
		construct,
		pointer.ToString("RedisParameterGroup"),
		&awselasticache.CfnParameterGroupProps{
			CacheParameterGroupFamily: pointer.ToString(cfg.Redis.ParameterGroupFamily),
			Description:               pointer.ToString("Redis parameter group with Active Defragmentation enabled"),
			Properties: &map[string]*string{
				"activedefrag": pointer.ToString("yes"),
			},
		},
	)
}

func redisSecurityGroup(construct constructs.Construct, cfg config.Config, vpc awsec2.Vpc) awsec2.SecurityGroup {
	redisPort := awsec2.Port_Tcp(pointer.ToFloat64(cfg.Redis.Port))

	securityGroup := awsec2.NewSecurityGroup(
		construct,
		pointer.ToString("RedisSecurityGroup"),
		&awsec2.SecurityGroupProps{
			Vpc: vpc,
		},
	)

	securityGroup.AddIngressRule(
		awsec2.Peer_Ipv4(vpc.VpcCidrBlock()),
		redisPort,
		pointer.ToString("Allow traffic from ECS tasks in VPC to access Redis cluster"),
		nil,
	)
	securityGroup.Connections().AllowInternally(
		redisPort,
		pointer.ToString("Allow traffic within Redis cluster"),
	)

	return securityGroup
}

func redisSubnetGroup(construct constructs.Construct, vpc awsec2.Vpc) awselasticache.CfnSubnetGroup {
	privateSubnets := *vpc.PrivateSubnets()
	subnetIds := make([]*string, len(privateSubnets))

	for i, v := range privateSubnets {
		subnetIds[i] = v.SubnetId()
	}

	return awselasticache.NewCfnSubnetGroup(
		construct,
		pointer.ToString("RedisSubnetGroup"),
		&awselasticache.CfnSubnetGroupProps{
			Description: pointer.ToString("Private subnet group for Redis cluster"),
			SubnetIds:   &subnetIds,
		},
	)
}

func redisCluster(
	construct constructs.Construct,
	cfg config.Config,
	parameterGroup awselasticache.CfnParameterGroup,
	securityGroup awsec2.SecurityGroup,
	subnetGroup awselasticache.CfnSubnetGroup) awselasticache.CfnCacheCluster {

	return awselasticache.NewCfnCacheCluster(
		construct,
		pointer.ToString("RedisCluster"),
		&awselasticache.CfnCacheClusterProps{
			ClusterName:   pointer.ToString("RedisCluster"),
			Engine:        pointer.ToString("redis"),
			CacheNodeType: pointer.ToString(cfg.Redis.NodeType),
			NumCacheNodes: pointer.ToFloat64(cfg.Redis.NumNodes),
			Port:          pointer.ToFloat64(cfg.Redis.Port),
			VpcSecurityGroupIds: &[]*string{
				securityGroup.SecurityGroupId(),
			},
			CacheSubnetGroupName:    subnetGroup.Ref(),
			CacheParameterGroupName: parameterGroup.Ref(),
		},
	)
}

func redisCnameRecord(construct constructs.Construct, cfg config.Config, cluster awselasticache.CfnCacheCluster) awsroute53.CnameRecord {
	return awsroute53.NewCnameRecord(
		construct,
		pointer.ToString("Redis-CnameRecord"),
		&awsroute53.CnameRecordProps{
			Zone:       commons.HostedZone(construct, cfg.Domain),
			DomainName: cluster.AttrRedisEndpointAddress(),
			RecordName: pointer.ToString(cfg.Redis.Subdomain),
		},
	)
}
