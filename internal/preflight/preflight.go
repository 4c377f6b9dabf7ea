// Package preflight checks the account prerequisites a deployment relies on
// but does not create.
package preflight

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"

	"github.com/jharring9/ByteBracket-CDK/internal/config"
)

// SecretsManagerAPI is the subset of the Secrets Manager client used by Checker.
type SecretsManagerAPI interface {
	DescribeSecret(ctx context.Context, input *secretsmanager.DescribeSecretInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.DescribeSecretOutput, error)
}

type Checker struct {
	secrets SecretsManagerAPI
	logger  *zap.Logger
}

type CheckerOption func(*Checker)

func WithSecretsManager(c SecretsManagerAPI) CheckerOption {
	return func(ch *Checker) { ch.secrets = c }
}

func WithLogger(l *zap.Logger) CheckerOption {
	return func(ch *Checker) { ch.logger = l }
}

func NewChecker(ctx context.Context, region string, opts ...CheckerOption) (*Checker, error) {
	ch := &Checker{logger: zap.NewNop()}
	for _, o := range opts {
		o(ch)
	}
	if ch.secrets == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		ch.secrets = secretsmanager.NewFromConfig(cfg)
	}
	return ch, nil
}

// Check verifies the GitHub token secret used by every pipeline source
// action is present and not scheduled for deletion.
func (ch *Checker) Check(ctx context.Context, cfg config.Config) error {
	out, err := ch.secrets.DescribeSecret(ctx, &secretsmanager.DescribeSecretInput{
		SecretId: aws.String(cfg.GitHub.TokenSecretArn),
	})
	if err != nil {
		return fmt.Errorf("describing GitHub token secret: %w", err)
	}
	if out.DeletedDate != nil {
		return fmt.Errorf("GitHub token secret %s is scheduled for deletion", aws.ToString(out.Name))
	}

	ch.logger.Info("GitHub token secret found",
		zap.String("name", aws.ToString(out.Name)),
		zap.String("arn", aws.ToString(out.ARN)),
	)
	return nil
}
