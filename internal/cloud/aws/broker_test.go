package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	ststypes "github.com/aws/aws-sdk-go-v2/service/sts/types"
	"github.com/aws/smithy-go"

	"github.com/plus3it/delete-default-cloudtrail/internal/models"
)

type fakeSTS struct {
	assumeErr   error
	identityARN string
	identityErr error

	assumedARNs   []string
	sessionNames  []string
	identityCalls int
}

func (f *fakeSTS) AssumeRole(ctx context.Context, in *sts.AssumeRoleInput, _ ...func(*sts.Options)) (*sts.AssumeRoleOutput, error) {
	f.assumedARNs = append(f.assumedARNs, aws.ToString(in.RoleArn))
	f.sessionNames = append(f.sessionNames, aws.ToString(in.RoleSessionName))
	if f.assumeErr != nil {
		return nil, f.assumeErr
	}
	return &sts.AssumeRoleOutput{
		Credentials: &ststypes.Credentials{
			AccessKeyId:     aws.String("AKIAFAKE"),
			SecretAccessKey: aws.String("secret"),
			SessionToken:    aws.String("token"),
			Expiration:      aws.Time(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
		},
	}, nil
}

func (f *fakeSTS) GetCallerIdentity(ctx context.Context, in *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	f.identityCalls++
	if f.identityErr != nil {
		return nil, f.identityErr
	}
	return &sts.GetCallerIdentityOutput{Arn: aws.String(f.identityARN)}, nil
}

func TestAssumeRoleByName(t *testing.T) {
	stsClient := &fakeSTS{
		identityARN: "arn:aws:sts::999999999999:assumed-role/admin/session",
	}
	p := &Provider{STS: stsClient}

	creds, err := p.AssumeRole(context.Background(), models.TargetAccount{
		AccountID: "111111111111",
		RoleName:  "OrganizationAccountAccessRole",
	})
	if err != nil {
		t.Fatalf("assume role error: %v", err)
	}

	want := "arn:aws:iam::111111111111:role/OrganizationAccountAccessRole"
	if len(stsClient.assumedARNs) != 1 || stsClient.assumedARNs[0] != want {
		t.Errorf("expected assume of %s, got %v", want, stsClient.assumedARNs)
	}
	if creds.AccessKeyID != "AKIAFAKE" || creds.SessionToken != "token" {
		t.Errorf("unexpected credentials: %+v", creds)
	}
	if stsClient.sessionNames[0] == "" {
		t.Error("expected a non-empty role session name")
	}
}

func TestAssumeRoleByNameUsesCallerPartition(t *testing.T) {
	stsClient := &fakeSTS{
		identityARN: "arn:aws-us-gov:sts::999999999999:assumed-role/admin/session",
	}
	p := &Provider{STS: stsClient}

	_, err := p.AssumeRole(context.Background(), models.TargetAccount{
		AccountID: "111111111111",
		RoleName:  "OrganizationAccountAccessRole",
	})
	if err != nil {
		t.Fatalf("assume role error: %v", err)
	}

	want := "arn:aws-us-gov:iam::111111111111:role/OrganizationAccountAccessRole"
	if stsClient.assumedARNs[0] != want {
		t.Errorf("expected partition-qualified ARN %s, got %s", want, stsClient.assumedARNs[0])
	}
}

func TestAssumeRoleExplicitARNSkipsIdentityLookup(t *testing.T) {
	stsClient := &fakeSTS{}
	p := &Provider{STS: stsClient}

	arn := "arn:aws:iam::111111111111:role/custom-cleanup"
	_, err := p.AssumeRole(context.Background(), models.TargetAccount{
		AccountID: "111111111111",
		RoleARN:   arn,
	})
	if err != nil {
		t.Fatalf("assume role error: %v", err)
	}
	if stsClient.identityCalls != 0 {
		t.Error("explicit role ARN must not trigger a caller identity lookup")
	}
	if stsClient.assumedARNs[0] != arn {
		t.Errorf("expected assume of %s, got %s", arn, stsClient.assumedARNs[0])
	}
}

func TestAssumeRoleFailureWrapped(t *testing.T) {
	stsClient := &fakeSTS{
		assumeErr: &smithy.GenericAPIError{Code: "AccessDenied", Message: "not authorized"},
	}
	p := &Provider{STS: stsClient}

	_, err := p.AssumeRole(context.Background(), models.TargetAccount{
		AccountID: "111111111111",
		RoleARN:   "arn:aws:iam::111111111111:role/missing",
	})
	var assumeErr *models.AssumeRoleError
	if !errors.As(err, &assumeErr) {
		t.Fatalf("expected AssumeRoleError, got %v", err)
	}
	if assumeErr.AccountID != "111111111111" {
		t.Errorf("unexpected account id: %s", assumeErr.AccountID)
	}
}

func TestAssumeRoleRequiresARNOrName(t *testing.T) {
	p := &Provider{STS: &fakeSTS{identityARN: "arn:aws:sts::1:assumed-role/a/b"}}

	_, err := p.AssumeRole(context.Background(), models.TargetAccount{AccountID: "111111111111"})
	if err == nil {
		t.Fatal("expected an error when neither role ARN nor role name is set")
	}
}

func TestPartitionRejectsMalformedARN(t *testing.T) {
	p := &Provider{STS: &fakeSTS{identityARN: "garbage"}}

	if _, err := p.Partition(context.Background()); err == nil {
		t.Fatal("expected an error for a malformed caller identity ARN")
	}
}

func TestSanitizeSessionName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"delete-cloudtrail", "delete-cloudtrail"},
		{"my func/v1!", "myfuncv1"},
		{"", "delete-default-cloudtrail"},
		{strings64() + "overflow", strings64()},
	}
	for _, tc := range cases {
		if got := sanitizeSessionName(tc.in); got != tc.want {
			t.Errorf("sanitizeSessionName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func strings64() string {
	b := make([]byte, 64)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}
