package logo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/jsamuelsen/invoice-builder/internal/adapters/clients/acl"
	"github.com/jsamuelsen/invoice-builder/internal/domain"
)

// S3GetObjectAPI is the subset of the S3 client used by S3Source.
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Source reads the logo from an S3 object.
type S3Source struct {
	api    S3GetObjectAPI
	bucket string
	key    string
}

func newS3Source(ctx context.Context, loc string, cfg SourceConfig) (*S3Source, error) {
	bucket, key, err := parseS3URI(loc)
	if err != nil {
		return nil, err
	}

	api := cfg.S3
	if api == nil {
		var opts []func(*awsconfig.LoadOptions) error
		if cfg.S3Region != "" {
			opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("loading aws config: %w", err)
		}

		api = s3.NewFromConfig(awsCfg)
	}

	return &S3Source{api: api, bucket: bucket, key: key}, nil
}

func parseS3URI(loc string) (string, string, error) {
	u, err := url.Parse(loc)
	if err != nil || u.Host == "" {
		return "", "", domain.NewValidationErrorWithValue("logo.location", "invalid s3 URI", loc)
	}

	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", domain.NewValidationErrorWithValue("logo.location", "s3 URI has no object key", loc)
	}

	return u.Host, key, nil
}

// Fetch implements ports.LogoSource.
func (s *S3Source) Fetch(ctx context.Context) ([]byte, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, domain.NewNotFoundError("logo", s.Location())
		}

		return nil, domain.NewUnavailableError(s.Name(), err.Error())
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(out.Body, acl.DefaultMaxLogoBytes+1))
	if err != nil {
		return nil, domain.NewUnavailableError(s.Name(), fmt.Sprintf("reading object: %v", err))
	}

	if len(data) > acl.DefaultMaxLogoBytes {
		return nil, domain.NewValidationError("logo", fmt.Sprintf("larger than %d bytes", acl.DefaultMaxLogoBytes))
	}

	return data, nil
}

// Location implements ports.LogoSource.
func (s *S3Source) Location() string {
	return "s3://" + s.bucket + "/" + s.key
}

// Name implements ports.HealthChecker.
func (s *S3Source) Name() string {
	return "logo-s3"
}

// Check verifies the bucket is reachable.
func (s *S3Source) Check(ctx context.Context) error {
	_, err := s.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("head bucket %s: %w", s.bucket, err)
	}

	return nil
}

// NonCritical marks the logo bucket as optional for readiness.
func (s *S3Source) NonCritical() bool {
	return true
}
