package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	awscloud "github.com/plus3it/delete-default-cloudtrail/internal/cloud/aws"
	"github.com/plus3it/delete-default-cloudtrail/internal/cleanup"
	"github.com/plus3it/delete-default-cloudtrail/internal/event"
	"github.com/plus3it/delete-default-cloudtrail/internal/models"
)

// handler cleans up one newly created or invited account per event.
// Errors propagate to the platform unmodified so its redelivery and
// alerting policies apply.
func handler(ctx context.Context, evt event.AccountEvent) error {
	cfg := models.ConfigFromEnv()

	logger := logrus.New()
	logger.SetLevel(cfg.Level())
	logger.WithField("event_name", evt.Detail.EventName).Debug("received organizations event")

	accountID, err := evt.AccountID()
	if err != nil {
		logger.WithError(err).Error("could not extract target account id")
		return err
	}

	provider, err := awscloud.NewProvider(ctx)
	if err != nil {
		logger.WithError(err).Error("could not initialize AWS clients")
		return err
	}

	result := cleanup.New(provider, logger).Run(ctx, cleanup.Options{
		Target: models.TargetAccount{
			AccountID: accountID,
			RoleName:  cfg.AssumeRoleName,
		},
		TrailPrefix:   cfg.TrailNamePrefix,
		DryRun:        cfg.DryRun,
		ErrorNotFound: cfg.ErrorNotFound,
	})
	return result.Err
}

func main() {
	lambda.Start(handler)
}
