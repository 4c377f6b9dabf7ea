package commons

import (
	"github.com/AlekSi/pointer"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/jharring9/ByteBracket-CDK/internal/config"
)

// HostedZone resolves the service zone. A configured zone id avoids the
// synth-time context lookup.
func HostedZone(construct constructs.Construct, domain config.DomainConfig) awsroute53.IHostedZone {
	if domain.HostedZoneID != "" {
		return awsroute53.HostedZone_FromHostedZoneAttributes(
			construct,
			pointer.ToString("HostedZone"),
			&awsroute53.HostedZoneAttributes{
				HostedZoneId: pointer.ToString(domain.HostedZoneID),
				ZoneName:     pointer.ToString(domain.Name),
			},
		)
	}

	return awsroute53.HostedZone_FromLookup(
		construct,
		pointer.ToString("HostedZone"),
		&awsroute53.HostedZoneProviderProps{
			DomainName: pointer.ToString(domain.Name),
		},
	)
}
