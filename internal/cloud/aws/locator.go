package aws

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudtrail"
	"github.com/aws/aws-sdk-go-v2/service/cloudtrail/types"

	"github.com/plus3it/delete-default-cloudtrail/internal/models"
)

// CloudTrailAPI is the slice of the CloudTrail client used by the trail
// locator and deleter.
type CloudTrailAPI interface {
	DescribeTrails(ctx context.Context, params *cloudtrail.DescribeTrailsInput, optFns ...func(*cloudtrail.Options)) (*cloudtrail.DescribeTrailsOutput, error)
	GetTrailStatus(ctx context.Context, params *cloudtrail.GetTrailStatusInput, optFns ...func(*cloudtrail.Options)) (*cloudtrail.GetTrailStatusOutput, error)
	StopLogging(ctx context.Context, params *cloudtrail.StopLoggingInput, optFns ...func(*cloudtrail.Options)) (*cloudtrail.StopLoggingOutput, error)
	DeleteTrail(ctx context.Context, params *cloudtrail.DeleteTrailInput, optFns ...func(*cloudtrail.Options)) (*cloudtrail.DeleteTrailOutput, error)
}

// trailMatch is the tagged outcome of prefix matching. The zero/one/many
// decision lives here and nowhere else, so no caller ever picks among
// ambiguous candidates.
type trailMatch struct {
	trail *types.Trail
	names []string
}

func (m trailMatch) none() bool      { return len(m.names) == 0 }
func (m trailMatch) ambiguous() bool { return len(m.names) > 1 }

func matchTrailsByPrefix(trails []types.Trail, prefix string) trailMatch {
	var match trailMatch
	for i, trail := range trails {
		if strings.HasPrefix(aws.ToString(trail.Name), prefix) {
			match.names = append(match.names, aws.ToString(trail.Name))
			match.trail = &trails[i]
		}
	}
	if match.ambiguous() {
		match.trail = nil
	}
	return match
}

// LocateTrail lists every trail visible in the target account and
// filters by name prefix. The full DescribeTrails result is consulted,
// never a partial page. Exactly one match returns the trail; zero
// matches return (nil, nil) unless errorNotFound makes that fatal; more
// than one match is always a fatal AmbiguousMatchError.
func (p *Provider) LocateTrail(ctx context.Context, prefix string, errorNotFound bool) (*models.Trail, error) {
	out, err := p.CloudTrail.DescribeTrails(ctx, &cloudtrail.DescribeTrailsInput{
		IncludeShadowTrails: aws.Bool(false),
	})
	if err != nil {
		return nil, &models.ProviderError{
			Operation: "describe-trails",
			Resource:  prefix,
			Cause:     err,
		}
	}

	match := matchTrailsByPrefix(out.TrailList, prefix)
	switch {
	case match.ambiguous():
		return nil, &models.AmbiguousMatchError{Prefix: prefix, Matches: match.names}
	case match.none():
		if errorNotFound {
			return nil, &models.NotFoundError{Prefix: prefix}
		}
		return nil, nil
	}

	trail := &models.Trail{
		Name:         aws.ToString(match.trail.Name),
		ARN:          aws.ToString(match.trail.TrailARN),
		S3BucketName: aws.ToString(match.trail.S3BucketName),
	}

	status, err := p.CloudTrail.GetTrailStatus(ctx, &cloudtrail.GetTrailStatusInput{
		Name: aws.String(trail.ARN),
	})
	if err != nil {
		return nil, &models.ProviderError{
			Operation: "get-trail-status",
			Resource:  trail.ARN,
			Cause:     err,
		}
	}
	trail.IsLogging = aws.ToBool(status.IsLogging)

	return trail, nil
}
