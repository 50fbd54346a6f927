package models

import (
	"fmt"
	"strings"
)

// AssumeRoleError represents a failed cross-account role assumption.
// It is always fatal for the invocation and is never retried.
type AssumeRoleError struct {
	AccountID string
	RoleARN   string
	Cause     error
}

func (e *AssumeRoleError) Error() string {
	return fmt.Sprintf("failed to assume role '%s' in account %s: %v",
		e.RoleARN, e.AccountID, e.Cause)
}

func (e *AssumeRoleError) Unwrap() error {
	return e.Cause
}

// NotFoundError is raised when no trail matches the configured prefix
// and the invocation is configured to treat that as a failure.
type NotFoundError struct {
	Prefix string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no cloudtrail found for prefix '%s'", e.Prefix)
}

// AmbiguousMatchError is raised when more than one trail matches the
// configured prefix. Deletion requires an unambiguous match, so this is
// always fatal regardless of any other setting.
type AmbiguousMatchError struct {
	Prefix  string
	Matches []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("multiple (%d) cloudtrails found for prefix '%s': %s",
		len(e.Matches), e.Prefix, strings.Join(e.Matches, ", "))
}

// DeleteError represents a delete, stop or bucket-empty call rejected by
// the provider for a reason other than the resource already being gone.
type DeleteError struct {
	Resource  string // trail ARN or bucket name
	Operation string // "stop-logging", "delete-trail", "empty-bucket", "delete-bucket"
	Cause     error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("%s failed for '%s': %v", e.Operation, e.Resource, e.Cause)
}

func (e *DeleteError) Unwrap() error {
	return e.Cause
}

// ProviderError represents an unexpected AWS API failure outside of the
// delete path, such as a failed listing or config load.
type ProviderError struct {
	Operation string // "load-config", "describe-trails", "get-trail-status"
	Resource  string
	Cause     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("aws provider error during %s operation on resource '%s': %v",
		e.Operation, e.Resource, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
