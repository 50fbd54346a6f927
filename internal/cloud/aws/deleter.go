package aws

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudtrail"
	"github.com/aws/smithy-go"

	"github.com/plus3it/delete-default-cloudtrail/internal/models"
)

// DeleteTrail stops logging on the trail and deletes it. A trail that is
// already gone when either call lands is a no-op success, so a race with
// a manual operator cleanup never fails the invocation. Any other API
// error is fatal.
func (p *Provider) DeleteTrail(ctx context.Context, trail *models.Trail) error {
	_, err := p.CloudTrail.StopLogging(ctx, &cloudtrail.StopLoggingInput{
		Name: aws.String(trail.ARN),
	})
	if err != nil && !isTrailGone(err) {
		return &models.DeleteError{
			Resource:  trail.ARN,
			Operation: "stop-logging",
			Cause:     err,
		}
	}

	_, err = p.CloudTrail.DeleteTrail(ctx, &cloudtrail.DeleteTrailInput{
		Name: aws.String(trail.ARN),
	})
	if err != nil && !isTrailGone(err) {
		return &models.DeleteError{
			Resource:  trail.ARN,
			Operation: "delete-trail",
			Cause:     err,
		}
	}
	return nil
}

func isTrailGone(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "TrailNotFoundException"
}
