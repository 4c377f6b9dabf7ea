// Package outputs reads the CloudFormation outputs of the deployed stage stacks.
package outputs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jharring9/ByteBracket-CDK/internal/commons"
	"github.com/jharring9/ByteBracket-CDK/internal/config"
)

// CloudFormationAPI is the subset of the CloudFormation client used by Reader.
type CloudFormationAPI interface {
	DescribeStacks(ctx context.Context, input *cloudformation.DescribeStacksInput, opts ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
}

// StackOutputs maps a deployed stack name to its output key/value pairs.
type StackOutputs map[string]map[string]string

// Reader collects stack outputs concurrently.
type Reader struct {
	client CloudFormationAPI
	logger *zap.Logger
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithClient sets a custom CloudFormation client.
func WithClient(c CloudFormationAPI) ReaderOption {
	return func(r *Reader) { r.client = c }
}

// WithLogger sets the logger used for skipped stacks.
func WithLogger(l *zap.Logger) ReaderOption {
	return func(r *Reader) { r.logger = l }
}

func NewReader(ctx context.Context, region string, opts ...ReaderOption) (*Reader, error) {
	r := &Reader{logger: zap.NewNop()}
	for _, o := range opts {
		o(r)
	}
	if r.client == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		r.client = cloudformation.NewFromConfig(cfg)
	}
	return r, nil
}

// StageStacks returns the deployed names of the stage stacks for cfg's season.
func StageStacks(cfg config.Config) []string {
	names := commons.StageStackNames(cfg.Offseason)
	deployed := make([]string, len(names))
	for i, n := range names {
		deployed[i] = commons.DeployedStackName(cfg.ServiceName, n)
	}
	return deployed
}

// Read describes every stack in stackNames. Stacks that do not exist are
// skipped.
func (r *Reader) Read(ctx context.Context, stackNames []string) (StackOutputs, error) {
	var (
		mu     sync.Mutex
		result = make(StackOutputs, len(stackNames))
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range stackNames {
		g.Go(func() error {
			values, err := r.describe(ctx, name)
			if err != nil {
				return err
			}
			if values == nil {
				r.logger.Info("stack not deployed, skipping", zap.String("stack", name))
				return nil
			}

			mu.Lock()
			result[name] = values
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Reader) describe(ctx context.Context, name string) (map[string]string, error) {
	out, err := r.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(name),
	})
	if err != nil {
		if isMissingStack(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("describing stack %s: %w", name, err)
	}
	if len(out.Stacks) == 0 {
		return nil, nil
	}

	values := make(map[string]string, len(out.Stacks[0].Outputs))
	for _, o := range out.Stacks[0].Outputs {
		values[aws.ToString(o.OutputKey)] = aws.ToString(o.OutputValue)
	}
	return values, nil
}

// CloudFormation reports a missing stack as a ValidationError.
func isMissingStack(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.ErrorCode() == "ValidationError" && strings.Contains(apiErr.ErrorMessage(), "does not exist")
}
