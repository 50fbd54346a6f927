package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/plus3it/delete-default-cloudtrail/internal/models"
)

// deleteBatchSize is the DeleteObjects request limit.
const deleteBatchSize = 1000

// S3API is the slice of the S3 client used by the bucket reaper. The
// embedded paginator client interfaces keep the page loops testable.
type S3API interface {
	s3.ListObjectsV2APIClient
	s3.ListObjectVersionsAPIClient
	GetBucketVersioning(ctx context.Context, params *s3.GetBucketVersioningInput, optFns ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	DeleteBucket(ctx context.Context, params *s3.DeleteBucketInput, optFns ...func(*s3.Options)) (*s3.DeleteBucketOutput, error)
}

// DeleteBucket drains every object from the bucket and then deletes the
// bucket itself. Buckets that are already empty or already gone are a
// no-op success. Bucket deletion is only attempted once the drain has
// confirmed nothing is left, versions and delete markers included.
func (p *Provider) DeleteBucket(ctx context.Context, bucket string) error {
	if err := p.emptyBucket(ctx, bucket); err != nil {
		return err
	}

	_, err := p.S3.DeleteBucket(ctx, &s3.DeleteBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil && !isBucketGone(err) {
		return &models.DeleteError{
			Resource:  bucket,
			Operation: "delete-bucket",
			Cause:     err,
		}
	}
	return nil
}

// emptyBucket picks the drain path. A versioning-enabled (or suspended)
// bucket still holds object versions and delete markers that block
// DeleteBucket, so those go through the version drain.
func (p *Provider) emptyBucket(ctx context.Context, bucket string) error {
	out, err := p.S3.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		if isBucketGone(err) {
			return nil
		}
		return &models.DeleteError{
			Resource:  bucket,
			Operation: "empty-bucket",
			Cause:     err,
		}
	}

	switch out.Status {
	case types.BucketVersioningStatusEnabled, types.BucketVersioningStatusSuspended:
		return p.drainVersions(ctx, bucket)
	default:
		return p.drainObjects(ctx, bucket)
	}
}

func (p *Provider) drainObjects(ctx context.Context, bucket string) error {
	paginator := s3.NewListObjectsV2Paginator(p.S3, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	})

	var batch []types.ObjectIdentifier
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			if isBucketGone(err) {
				return nil
			}
			return &models.DeleteError{
				Resource:  bucket,
				Operation: "empty-bucket",
				Cause:     err,
			}
		}
		for _, obj := range page.Contents {
			batch = append(batch, types.ObjectIdentifier{Key: obj.Key})
			if len(batch) == deleteBatchSize {
				if err := p.deleteBatch(ctx, bucket, batch); err != nil {
					return err
				}
				batch = batch[:0]
			}
		}
	}
	if len(batch) > 0 {
		return p.deleteBatch(ctx, bucket, batch)
	}
	return nil
}

func (p *Provider) drainVersions(ctx context.Context, bucket string) error {
	paginator := s3.NewListObjectVersionsPaginator(p.S3, &s3.ListObjectVersionsInput{
		Bucket: aws.String(bucket),
	})

	var batch []types.ObjectIdentifier
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := p.deleteBatch(ctx, bucket, batch)
		batch = batch[:0]
		return err
	}

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			if isBucketGone(err) {
				return nil
			}
			return &models.DeleteError{
				Resource:  bucket,
				Operation: "empty-bucket",
				Cause:     err,
			}
		}
		for _, version := range page.Versions {
			batch = append(batch, types.ObjectIdentifier{
				Key:       version.Key,
				VersionId: version.VersionId,
			})
			if len(batch) == deleteBatchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		for _, marker := range page.DeleteMarkers {
			batch = append(batch, types.ObjectIdentifier{
				Key:       marker.Key,
				VersionId: marker.VersionId,
			})
			if len(batch) == deleteBatchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
	return flush()
}

func (p *Provider) deleteBatch(ctx context.Context, bucket string, objects []types.ObjectIdentifier) error {
	out, err := p.S3.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		if isBucketGone(err) {
			return nil
		}
		return &models.DeleteError{
			Resource:  bucket,
			Operation: "empty-bucket",
			Cause:     err,
		}
	}
	// Quiet mode only reports failures; any entry here means the bucket
	// is not fully drained and the bucket delete would fail.
	if len(out.Errors) > 0 {
		first := out.Errors[0]
		return &models.DeleteError{
			Resource:  bucket,
			Operation: "empty-bucket",
			Cause: fmt.Errorf("%d objects failed to delete, first: %s (%s)",
				len(out.Errors), aws.ToString(first.Key), aws.ToString(first.Code)),
		}
	}
	return nil
}

func isBucketGone(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchBucket"
}
