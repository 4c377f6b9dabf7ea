package stacks

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/stretchr/testify/assert"
)

func buildRedis(t *testing.T) RedisStackOutput {
	t.Helper()
	account := testAccount(t, testConfig())
	stage, ecs := buildEcs(t, account)
	return BuildRedisStack(RedisStackInput{Account: account, Stage: stage, VPC: ecs.VPC})
}

func TestRedisStackName(t *testing.T) {
	out := buildRedis(t)

	assert.Equal(t, "ByteBracket-RedisStack", *out.Stack.StackName())
}

func TestRedisStackCluster(t *testing.T) {
	tmpl := template(buildRedis(t).Stack)

	tmpl.HasResourceProperties(str("AWS::ElastiCache::CacheCluster"), map[string]interface{}{
		"ClusterName":   str("RedisCluster"),
		"Engine":        str("redis"),
		"CacheNodeType": str("cache.t2.micro"),
		"NumCacheNodes": num(1),
		"Port":          num(6379),
	})
	tmpl.HasResourceProperties(str("AWS::ElastiCache::ParameterGroup"), map[string]interface{}{
		"CacheParameterGroupFamily": str("redis7"),
		"Properties": map[string]interface{}{
			"activedefrag": str("yes"),
		},
	})
	tmpl.ResourceCountIs(str("AWS::ElastiCache::SubnetGroup"), num(1))
}

func TestRedisStackSecurityGroup(t *testing.T) {
	tmpl := template(buildRedis(t).Stack)

	tmpl.HasResourceProperties(str("AWS::EC2::SecurityGroup"), map[string]interface{}{
		"SecurityGroupIngress": assertions.Match_ArrayWith(&[]interface{}{
			assertions.Match_ObjectLike(&map[string]interface{}{
				"IpProtocol": str("tcp"),
				"FromPort":   num(6379),
				"ToPort":     num(6379),
			}),
		}),
	})
	tmpl.HasResourceProperties(str("AWS::EC2::SecurityGroupIngress"), map[string]interface{}{
		"IpProtocol": str("tcp"),
		"FromPort":   num(6379),
		"ToPort":     num(6379),
	})
}

func TestRedisStackDns(t *testing.T) {
	tmpl := template(buildRedis(t).Stack)

	tmpl.HasResourceProperties(str("AWS::Route53::RecordSet"), map[string]interface{}{
		"Name":         str("redis.bytebracket.io."),
		"Type":         str("CNAME"),
		"HostedZoneId": str(testHostedZoneID),
	})
	tmpl.HasOutput(str("RedisEndpointAddress"), map[string]interface{}{})
}
