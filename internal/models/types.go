// Package models provides shared data structures used across the delete-cloudtrail application
package models

import "time"

// TargetAccount identifies the account to clean up and the role to assume
// in it. Either RoleARN or RoleName must be set; RoleARN wins when both
// are present. Constructed once per invocation and never mutated.
type TargetAccount struct {
	AccountID string
	RoleARN   string
	RoleName  string
}

// Credentials are the temporary credentials returned by a successful
// AssumeRole call. They are scoped to a single invocation and are never
// persisted anywhere.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Expiration      time.Time
}

// Trail is a read-only view of a CloudTrail trail in the target account.
type Trail struct {
	Name         string
	ARN          string
	S3BucketName string
	IsLogging    bool
}

// Outcome is the terminal state of one cleanup invocation.
type Outcome string

const (
	OutcomeDeleted       Outcome = "deleted"
	OutcomeSkippedDryRun Outcome = "skipped_dry_run"
	OutcomeNotFound      Outcome = "not_found"
	OutcomeError         Outcome = "error"
)

// CleanupResult is produced once per invocation and handed back to the
// entry point that triggered the run.
type CleanupResult struct {
	Outcome    Outcome
	TrailName  string
	BucketName string
	Err        error
}
