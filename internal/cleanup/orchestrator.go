// Package cleanup sequences the cross-account teardown of a new
// account's default CloudTrail trail and its backing S3 bucket.
package cleanup

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/plus3it/delete-default-cloudtrail/internal/models"
)

// Provider is the slice of the AWS layer the orchestrator drives.
type Provider interface {
	AssumeRole(ctx context.Context, target models.TargetAccount) (models.Credentials, error)
	Connect(creds models.Credentials)
	LocateTrail(ctx context.Context, prefix string, errorNotFound bool) (*models.Trail, error)
	DeleteTrail(ctx context.Context, trail *models.Trail) error
	DeleteBucket(ctx context.Context, bucket string) error
}

// Options are the per-invocation settings for one cleanup run.
type Options struct {
	Target        models.TargetAccount
	TrailPrefix   string
	DryRun        bool
	ErrorNotFound bool
}

// Orchestrator runs the cleanup state machine. One Run per target
// account; runs against different accounts share no mutable state.
type Orchestrator struct {
	provider Provider
	log      logrus.FieldLogger
}

// New creates an orchestrator over the given provider.
func New(provider Provider, log logrus.FieldLogger) *Orchestrator {
	return &Orchestrator{provider: provider, log: log}
}

// Run executes assume-role, trail discovery and, unless dry-run is set,
// the trail and bucket deletions. Discovery always runs the same code
// path; dry-run only gates the two delete steps. The first fatal error
// ends the run.
func (o *Orchestrator) Run(ctx context.Context, opts Options) models.CleanupResult {
	log := o.log.WithField("account_id", opts.Target.AccountID)

	log.Debug("assuming role in target account")
	creds, err := o.provider.AssumeRole(ctx, opts.Target)
	if err != nil {
		log.WithError(err).Error("role assumption failed")
		return models.CleanupResult{Outcome: models.OutcomeError, Err: err}
	}
	o.provider.Connect(creds)
	log.WithField("expiration", creds.Expiration).Debug("acquired temporary credentials")

	log.WithField("prefix", opts.TrailPrefix).Info("locating trail by name prefix")
	trail, err := o.provider.LocateTrail(ctx, opts.TrailPrefix, opts.ErrorNotFound)
	if err != nil {
		log.WithError(err).Error("trail lookup failed")
		return models.CleanupResult{Outcome: models.OutcomeError, Err: err}
	}
	if trail == nil {
		log.WithField("prefix", opts.TrailPrefix).Warn("no trail matched prefix")
		return models.CleanupResult{Outcome: models.OutcomeNotFound}
	}

	log = log.WithFields(logrus.Fields{
		"trail":  trail.Name,
		"bucket": trail.S3BucketName,
	})
	log.WithField("is_logging", trail.IsLogging).Info("matched exactly one trail")

	if err := o.deleteTrail(ctx, trail, opts.DryRun, log); err != nil {
		log.WithError(err).Error("trail deletion failed")
		return models.CleanupResult{
			Outcome:    models.OutcomeError,
			TrailName:  trail.Name,
			BucketName: trail.S3BucketName,
			Err:        err,
		}
	}
	if err := o.deleteBucket(ctx, trail.S3BucketName, opts.DryRun, log); err != nil {
		log.WithError(err).Error("bucket deletion failed")
		return models.CleanupResult{
			Outcome:    models.OutcomeError,
			TrailName:  trail.Name,
			BucketName: trail.S3BucketName,
			Err:        err,
		}
	}

	outcome := models.OutcomeDeleted
	if opts.DryRun {
		outcome = models.OutcomeSkippedDryRun
	} else {
		log.Info("trail and bucket deleted")
	}
	return models.CleanupResult{
		Outcome:    outcome,
		TrailName:  trail.Name,
		BucketName: trail.S3BucketName,
	}
}

// deleteTrail performs or, in dry-run, announces the trail deletion.
func (o *Orchestrator) deleteTrail(ctx context.Context, trail *models.Trail, dryRun bool, log logrus.FieldLogger) error {
	if dryRun {
		log.Warnf("NOT ARMED: would stop logging and delete trail %s", trail.ARN)
		return nil
	}
	log.Info("stopping logging and deleting trail")
	return o.provider.DeleteTrail(ctx, trail)
}

// deleteBucket performs or, in dry-run, announces the bucket teardown.
func (o *Orchestrator) deleteBucket(ctx context.Context, bucket string, dryRun bool, log logrus.FieldLogger) error {
	if dryRun {
		log.Warnf("NOT ARMED: would empty and delete bucket %s", bucket)
		return nil
	}
	log.Info("emptying and deleting trail bucket")
	return o.provider.DeleteBucket(ctx, bucket)
}
