// Package aws holds the AWS clients and operations used to tear down a
// target account's default CloudTrail trail and its backing S3 bucket.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudtrail"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/plus3it/delete-default-cloudtrail/internal/models"
)

// Provider holds the AWS clients for one cleanup invocation. The STS
// client runs with the invoking identity; the CloudTrail and S3 clients
// are bound to the target account via Connect after role assumption.
type Provider struct {
	STS        STSAPI
	CloudTrail CloudTrailAPI
	S3         S3API

	awsConfig aws.Config
}

// ProviderOption is a functional option for provider configuration
type ProviderOption func(*providerOptions)

type providerOptions struct {
	profile string
	region  string
}

// WithRegion specifies the AWS region
func WithRegion(region string) ProviderOption {
	return func(o *providerOptions) {
		o.region = region
	}
}

// WithProfile specifies the AWS profile to use
func WithProfile(profile string) ProviderOption {
	return func(o *providerOptions) {
		o.profile = profile
	}
}

// loadAWSConfig loads AWS configuration with optional profile
func loadAWSConfig(ctx context.Context, profile string) (aws.Config, error) {
	optFns := []func(*config.LoadOptions) error{}
	if profile != "" {
		optFns = append(optFns, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return aws.Config{}, &models.ProviderError{
			Operation: "load-config",
			Resource:  fmt.Sprintf("profile:%s", profile),
			Cause:     fmt.Errorf("failed to load AWS config: %w", err),
		}
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	return cfg, nil
}

// NewProvider creates a provider using the invoking identity's
// credentials. CloudTrail and S3 clients stay nil until Connect.
func NewProvider(ctx context.Context, options ...ProviderOption) (*Provider, error) {
	opts := &providerOptions{}
	for _, opt := range options {
		opt(opts)
	}

	cfg, err := loadAWSConfig(ctx, opts.profile)
	if err != nil {
		return nil, err
	}
	if opts.region != "" {
		cfg.Region = opts.region
	}

	return &Provider{
		STS:       sts.NewFromConfig(cfg),
		awsConfig: cfg,
	}, nil
}

// Connect binds the CloudTrail and S3 clients to the assumed-role
// credentials so every subsequent call operates in the target account.
func (p *Provider) Connect(creds models.Credentials) {
	cfg := p.awsConfig.Copy()
	cfg.Credentials = credentials.NewStaticCredentialsProvider(
		creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken)
	p.CloudTrail = cloudtrail.NewFromConfig(cfg)
	p.S3 = s3.NewFromConfig(cfg)
}
