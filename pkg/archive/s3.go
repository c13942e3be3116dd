package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Client is the subset of *s3.Client used by S3.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3Config struct {
	Bucket         string `env:"ARCHIVE_S3_BUCKET"`
	Region         string `env:"ARCHIVE_S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"ARCHIVE_S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"ARCHIVE_S3_SECRET_KEY"`
	Endpoint       string `env:"ARCHIVE_S3_ENDPOINT"`
	ForcePathStyle bool   `env:"ARCHIVE_S3_FORCE_PATH_STYLE" envDefault:"false"`
	Prefix         string `env:"ARCHIVE_S3_PREFIX" envDefault:"delivery-reports/"`
}

// S3 stores objects in an S3 or S3-compatible bucket.
type S3 struct {
	client  S3Client
	bucket  string
	prefix  string
	timeout time.Duration
}

type S3Option func(*s3Options)

type s3Options struct {
	client        S3Client
	configOptions []func(*config.LoadOptions) error
	timeout       time.Duration
}

// WithS3Client replaces the SDK client, mainly for tests.
func WithS3Client(c S3Client) S3Option {
	return func(o *s3Options) { o.client = c }
}

func WithS3ConfigOption(opt func(*config.LoadOptions) error) S3Option {
	return func(o *s3Options) { o.configOptions = append(o.configOptions, opt) }
}

// WithS3Timeout bounds each request.
func WithS3Timeout(d time.Duration) S3Option {
	return func(o *s3Options) { o.timeout = d }
}

func NewS3(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("%w: bucket and region are required", ErrInvalidConfig)
	}

	o := &s3Options{}
	for _, opt := range opts {
		opt(o)
	}

	client := o.client
	if client == nil {
		awsOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOpts = append(awsOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			))
		}
		awsOpts = append(awsOpts, o.configOptions...)

		awsCfg, err := config.LoadDefaultConfig(ctx, awsOpts...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
		}
		client = s3.NewFromConfig(awsCfg, func(so *s3.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle
		})
	}

	return &S3{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  strings.TrimPrefix(cfg.Prefix, "/"),
		timeout: o.timeout,
	}, nil
}

func (s *S3) Put(ctx context.Context, key string, data []byte, contentType string) error {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return errors.Join(ErrWriteFailed, classifyS3Error(err, "put"))
	}
	return nil
}

func (s *S3) Get(ctx context.Context, key string) ([]byte, error) {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, classifyS3Error(err, "get")
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	return data, nil
}

func (s *S3) objectKey(key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return s.prefix + key, nil
}

func (s *S3) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func classifyS3Error(err error, operation string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s operation", ErrOperationTimeout, operation)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s operation", ErrOperationCanceled, operation)
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return ErrBucketNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied":
			return fmt.Errorf("%w: %s operation", ErrAccessDenied, operation)
		case "SlowDown", "ServiceUnavailable", "RequestTimeout":
			return fmt.Errorf("%w: %s operation", ErrServiceUnavailable, operation)
		case "NoSuchKey":
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		case "NoSuchBucket":
			return ErrBucketNotFound
		}
		return fmt.Errorf("%s operation failed (code: %s): %w", operation, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("%s operation failed: %w", operation, err)
}
