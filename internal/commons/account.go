package commons

import (
	"github.com/AlekSi/pointer"
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/jharring9/ByteBracket-CDK/internal/config"
)

type Account struct {
	App       awscdk.App
	AccountId string
	Region    string
	Config    config.Config
}

func (a *Account) Env() *awscdk.Environment {
	return &awscdk.Environment{
		Account: pointer.ToString(a.AccountId),
		Region:  pointer.ToString(a.Region),
	}
}
