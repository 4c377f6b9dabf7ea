package preflight

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jharring9/ByteBracket-CDK/internal/config"
)

type mockSecretsManager struct {
	out      *secretsmanager.DescribeSecretOutput
	err      error
	secretID string
}

func (m *mockSecretsManager) DescribeSecret(_ context.Context, input *secretsmanager.DescribeSecretInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.DescribeSecretOutput, error) {
	m.secretID = aws.ToString(input.SecretId)
	return m.out, m.err
}

func TestCheckFindsSecret(t *testing.T) {
	cfg := config.Default()
	client := &mockSecretsManager{out: &secretsmanager.DescribeSecretOutput{
		Name: aws.String("Github/PAT"),
		ARN:  aws.String(cfg.GitHub.TokenSecretArn),
	}}
	checker, err := NewChecker(context.Background(), cfg.Region, WithSecretsManager(client))
	require.NoError(t, err)

	require.NoError(t, checker.Check(context.Background(), cfg))
	assert.Equal(t, cfg.GitHub.TokenSecretArn, client.secretID)
}

func TestCheckRejectsDeletedSecret(t *testing.T) {
	deleted := time.Now()
	client := &mockSecretsManager{out: &secretsmanager.DescribeSecretOutput{
		Name:        aws.String("Github/PAT"),
		DeletedDate: &deleted,
	}}
	checker, err := NewChecker(context.Background(), "us-east-1", WithSecretsManager(client))
	require.NoError(t, err)

	err = checker.Check(context.Background(), config.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheduled for deletion")
}

func TestCheckWrapsClientError(t *testing.T) {
	sentinel := errors.New("ResourceNotFoundException")
	checker, err := NewChecker(context.Background(), "us-east-1", WithSecretsManager(&mockSecretsManager{err: sentinel}))
	require.NoError(t, err)

	err = checker.Check(context.Background(), config.Default())
	require.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "describing GitHub token secret")
}
