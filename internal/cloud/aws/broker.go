package aws

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/plus3it/delete-default-cloudtrail/internal/models"
)

// STSAPI is the slice of the STS client the credential broker uses.
type STSAPI interface {
	AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error)
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// AssumeRole exchanges the target account's role reference for temporary
// credentials. An explicit role ARN takes precedence; otherwise the ARN
// is built from the invoking identity's partition, the account id and
// the role name. Failures are fatal for the invocation and not retried.
func (p *Provider) AssumeRole(ctx context.Context, target models.TargetAccount) (models.Credentials, error) {
	roleARN, err := p.resolveRoleARN(ctx, target)
	if err != nil {
		return models.Credentials{}, &models.AssumeRoleError{
			AccountID: target.AccountID,
			RoleARN:   target.RoleARN,
			Cause:     err,
		}
	}

	out, err := p.STS.AssumeRole(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(roleARN),
		RoleSessionName: aws.String(sessionName()),
	})
	if err != nil {
		return models.Credentials{}, &models.AssumeRoleError{
			AccountID: target.AccountID,
			RoleARN:   roleARN,
			Cause:     err,
		}
	}

	c := out.Credentials
	return models.Credentials{
		AccessKeyID:     aws.ToString(c.AccessKeyId),
		SecretAccessKey: aws.ToString(c.SecretAccessKey),
		SessionToken:    aws.ToString(c.SessionToken),
		Expiration:      aws.ToTime(c.Expiration),
	}, nil
}

func (p *Provider) resolveRoleARN(ctx context.Context, target models.TargetAccount) (string, error) {
	if target.RoleARN != "" {
		return target.RoleARN, nil
	}
	if target.RoleName == "" {
		return "", fmt.Errorf("account %s: either a role ARN or a role name is required", target.AccountID)
	}
	partition, err := p.Partition(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("arn:%s:iam::%s:role/%s", partition, target.AccountID, target.RoleName), nil
}

// Partition returns the AWS partition of the invoking identity, taken
// from its caller identity ARN (arn:<partition>:...).
func (p *Provider) Partition(ctx context.Context) (string, error) {
	out, err := p.STS.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("get caller identity: %w", err)
	}
	arn := aws.ToString(out.Arn)
	parts := strings.Split(arn, ":")
	if len(parts) < 2 || parts[1] == "" {
		return "", fmt.Errorf("unexpected caller identity ARN '%s'", arn)
	}
	return parts[1], nil
}

// sessionName derives the role session name from the Lambda function
// name when running as a function, falling back to the program name.
func sessionName() string {
	name := os.Getenv("AWS_LAMBDA_FUNCTION_NAME")
	if name == "" {
		name = filepath.Base(os.Args[0])
	}
	return sanitizeSessionName(name)
}

// sanitizeSessionName strips characters outside the STS session name
// charset [\w+=,.@-] and enforces the 64 character limit.
func sanitizeSessionName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
			r == '_' || r == '+' || r == '=' || r == ',' || r == '.' || r == '@' || r == '-' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		return "delete-default-cloudtrail"
	}
	if len(s) > 64 {
		s = s[:64]
	}
	return s
}
