package stacks

import (
	"fmt"

	"github.com/AlekSi/pointer"
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfrontorigins"
	"github.com/aws/aws-cdk-go/awscdk/v2/awselasticloadbalancingv2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53targets"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/jharring9/ByteBracket-CDK/internal/commons"
	"github.com/jharring9/ByteBracket-CDK/internal/config"
	"go.uber.org/fx"
)

// backendPathPattern is routed to the load balancer instead of the bucket.
const backendPathPattern = "/v1*"

type CloudfrontStackInput struct {
	fx.In
	Account commons.Account
	Stage   awscdk.Stage `name:"service_stage"`
	// LoadBalancer is absent off-season.
	LoadBalancer awselasticloadbalancingv2.ApplicationLoadBalancer `name:"backend_alb" optional:"true"`
}

type CloudfrontStackOutput struct {
	fx.Out
	Stack        awscdk.Stack               `group:"stage_stacks"`
	StaticBucket awss3.Bucket               `name:"static_content_bucket"`
	Distribution awscloudfront.Distribution `name:"frontend_distribution"`
}

func BuildCloudfrontStack(in CloudfrontStackInput) CloudfrontStackOutput {
	cfg := in.Account.Config

	stack := awscdk.NewStack(
		in.Stage,
		pointer.ToString(commons.CloudfrontStackName),
		&awscdk.StackProps{
			Description: pointer.ToString("Defines the static website bucket and Cloudfront distribution, and sets up the DNS records for the website."),
		},
	)

	bucket := awss3.NewBucket(stack, pointer.ToString("StaticContent-Bucket"), nil)
	distribution := frontendDistribution(stack, cfg, bucket, in.LoadBalancer)
	frontendARecord(stack, cfg, distribution)

	awscdk.NewCfnOutput(stack, pointer.ToString("DistributionId"), &awscdk.CfnOutputProps{
		Description: pointer.ToString("ID of the frontend CloudFront distribution"),
		Value:       distribution.DistributionId(),
	})
	awscdk.NewCfnOutput(stack, pointer.ToString("DistributionDomainName"), &awscdk.CfnOutputProps{
		Description: pointer.ToString("Domain name of the frontend CloudFront distribution"),
		Value:       distribution.DistributionDomainName(),
	})
	awscdk.NewCfnOutput(stack, pointer.ToString("StaticContentBucketName"), &awscdk.CfnOutputProps{
		Description: pointer.ToString("Bucket holding the built frontend"),
		Value:       bucket.BucketName(),
	})

	return CloudfrontStackOutput{
		Stack:        stack,
		StaticBucket: bucket,
		Distribution: distribution,
	}
}

func frontendDistribution(
	stack awscdk.Stack,
	cfg config.Config,
	bucket awss3.Bucket,
	alb awselasticloadbalancingv2.ApplicationLoadBalancer) awscloudfront.Distribution {

	aliases := make([]*string, len(cfg.Domain.Aliases))
	for i, v := range cfg.Domain.Aliases {
		aliases[i] = pointer.ToString(v)
	}

	return awscloudfront.NewDistribution(
		stack,
		pointer.ToString("CDN"),
		&awscloudfront.DistributionProps{
			DefaultBehavior: &awscloudfront.BehaviorOptions{
				Origin:               awscloudfrontorigins.S3BucketOrigin_WithOriginAccessControl(bucket, nil),
				Compress:             pointer.ToBool(true),
				ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS,
				AllowedMethods:       awscloudfront.AllowedMethods_ALLOW_ALL(),
				CachePolicy:          awscloudfront.CachePolicy_CACHING_DISABLED(),
			},
			AdditionalBehaviors: backendBehaviors(alb),
			Certificate: awscertificatemanager.Certificate_FromCertificateArn(
				stack,
				pointer.ToString("Certificate"),
				pointer.ToString(cfg.Domain.CertificateArn),
			),
			DefaultRootObject: pointer.ToString("/index.html"),
			DomainNames:       &aliases,
			EnableLogging:     pointer.ToBool(false),
			PriceClass:        awscloudfront.PriceClass_PRICE_CLASS_100,
			ErrorResponses: &[]*awscloudfront.ErrorResponse{
				{
					HttpStatus:         pointer.ToFloat64(403),
					ResponseHttpStatus: pointer.ToFloat64(200),
					ResponsePagePath:   pointer.ToString("/index.html"),
				},
			},
			Comment: pointer.ToString(fmt.Sprintf(
				"Frontend CDN for %s. Serves static frontend content and proxies API requests to the backend.",
				cfg.ServiceName,
			)),
		},
	)
}

func backendBehaviors(alb awselasticloadbalancingv2.ApplicationLoadBalancer) *map[string]*awscloudfront.BehaviorOptions {
	if alb == nil {
		return nil
	}

	return &map[string]*awscloudfront.BehaviorOptions{
		backendPathPattern: {
			Origin:               awscloudfrontorigins.NewLoadBalancerV2Origin(alb, nil),
			Compress:             pointer.ToBool(true),
			ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_HTTPS_ONLY,
			AllowedMethods:       awscloudfront.AllowedMethods_ALLOW_ALL(),
			CachePolicy:          awscloudfront.CachePolicy_CACHING_DISABLED(),
			OriginRequestPolicy:  awscloudfront.OriginRequestPolicy_ALL_VIEWER(),
		},
	}
}

func frontendARecord(construct constructs.Construct, cfg config.Config, distribution awscloudfront.Distribution) awsroute53.ARecord {
	return awsroute53.NewARecord(
		construct,
		pointer.ToString("TLD-ARecord"),
		&awsroute53.ARecordProps{
			Zone:       commons.HostedZone(construct, cfg.Domain),
			RecordName: pointer.ToString(cfg.Domain.RecordName),
			Target:     awsroute53.RecordTarget_FromAlias(awsroute53targets.NewCloudFrontTarget(distribution)),
		},
	)
}
