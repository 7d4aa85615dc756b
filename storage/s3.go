package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/spf13/viper"
)

const keyPrefix = "avatars/"

type S3Store struct {
	C        *s3.Client
	Uploader *manager.Uploader
	Bucket   *string
}

// NewS3 builds the production blob store and checks that the configured
// bucket is actually reachable before the server starts taking traffic
func NewS3(ctx context.Context) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			viper.GetString("aws.access_key"),
			viper.GetString("aws.secret_access_key"),
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	bucket := aws.String(viper.GetString("aws.bucket"))

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.Region = viper.GetString("aws.region")
	})

	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: bucket,
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return nil, fmt.Errorf("bucket '%s' does not exist", *bucket)
			}
		}

		return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return &S3Store{
		C: client,
		Uploader: manager.NewUploader(client, func(u *manager.Uploader) {
			u.PartSize = 5 << 20
		}),
		Bucket: bucket,
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (string, error) {
	filename := MakeFilename()

	_, err := s.Uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        s.Bucket,
		Key:           aws.String(keyPrefix + filename),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload blob to S3, %w", err)
	}

	return filename, nil
}

func (s *S3Store) Open(ctx context.Context, filename string) (*Blob, error) {
	out, err := s.C.GetObject(ctx, &s3.GetObjectInput{
		Bucket: s.Bucket,
		Key:    aws.String(keyPrefix + filename),
	})
	if err != nil {
		if isMissing(err) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to open blob, %w", err)
	}

	return &Blob{
		Body:        out.Body,
		ContentType: aws.ToString(out.ContentType),
		Length:      aws.ToInt64(out.ContentLength),
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, filename string) error {
	// S3 deletes are silent no-ops for missing keys, so probe first.
	// Callers only log ErrNotFound as a warning anyway
	_, err := s.C.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: s.Bucket,
		Key:    aws.String(keyPrefix + filename),
	})
	if err != nil {
		if isMissing(err) {
			return ErrNotFound
		}

		return fmt.Errorf("failed to check if blob exists, %w", err)
	}

	_, err = s.C.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: s.Bucket,
		Key:    aws.String(keyPrefix + filename),
	})
	if err != nil {
		return fmt.Errorf("failed to delete blob, %w", err)
	}

	return nil
}

func isMissing(err error) bool {
	var apiErr smithy.APIError

	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}

	return false
}
