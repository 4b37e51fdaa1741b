// Package source fetches documents from object storage.
package source

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"resumelens/internal/breaker"
	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/types"
)

// Source resolves an object key to a raw document.
type Source interface {
	Fetch(ctx context.Context, key string, mimeType string) (types.RawDocument, error)
}

// objectGetter is the subset of *s3.Client used here.
type objectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads documents from an S3 compatible bucket.
type S3Source struct {
	client   objectGetter
	bucket   string
	maxBytes int64
	attempts int
	backoff  time.Duration
	cb       *breaker.Breaker[types.RawDocument]
	logger   *errors.Logger
}

// NewS3Source builds a client from static credentials when given, falling
// back to the default AWS credential chain.
func NewS3Source(ctx context.Context, cfg config.S3Config, maxBytes int64, logger *errors.Logger) (*S3Source, error) {
	if cfg.Bucket == "" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "storage.s3.bucket is required", nil)
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to load AWS configuration", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	src := newS3Source(client, cfg.Bucket, maxBytes, logger)
	src.cb = breaker.New[types.RawDocument]("s3", cfg.CircuitBreaker, logger)
	return src, nil
}

func newS3Source(client objectGetter, bucket string, maxBytes int64, logger *errors.Logger) *S3Source {
	return &S3Source{
		client:   client,
		bucket:   bucket,
		maxBytes: maxBytes,
		attempts: 3,
		backoff:  500 * time.Millisecond,
		logger:   logger,
	}
}

// Fetch downloads key. mimeType, when non-empty, overrides the stored content type.
func (s *S3Source) Fetch(ctx context.Context, key string, mimeType string) (types.RawDocument, error) {
	doc, err := s.cb.Execute(func() (types.RawDocument, error) {
		return s.fetchWithRetry(ctx, key, mimeType)
	})
	if breaker.Open(err) {
		return types.RawDocument{}, errors.NewNetworkError(errors.ErrCodeSourceFailed, "object storage circuit breaker is open", err).
			WithContext("key", key)
	}
	return doc, err
}

func (s *S3Source) fetchWithRetry(ctx context.Context, key, mimeType string) (types.RawDocument, error) {
	var lastErr error
	for attempt := range s.attempts {
		doc, err := s.fetch(ctx, key, mimeType)
		if err == nil || !retryable(err) {
			return doc, err
		}
		lastErr = err
		if attempt == s.attempts-1 {
			break
		}
		s.logger.Warn("Object download failed, retrying", "key", key, "attempt", attempt+1, "error", err.Error())

		select {
		case <-ctx.Done():
			return types.RawDocument{}, lastErr
		case <-time.After(time.Duration(attempt+1) * s.backoff):
		}
	}
	return types.RawDocument{}, lastErr
}

func (s *S3Source) fetch(ctx context.Context, key, mimeType string) (types.RawDocument, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	var missing *s3types.NoSuchKey
	if stderrors.As(err, &missing) {
		return types.RawDocument{}, errors.NewIOError(errors.ErrCodeFileNotFound, "object not found", err).
			WithContext("bucket", s.bucket).WithContext("key", key)
	}
	if err != nil {
		return types.RawDocument{}, errors.NewNetworkError(errors.ErrCodeSourceFailed, "failed to get object", err).
			WithContext("bucket", s.bucket).WithContext("key", key)
	}
	defer out.Body.Close()

	body := io.Reader(out.Body)
	if s.maxBytes > 0 {
		body = io.LimitReader(out.Body, s.maxBytes+1)
	}
	content, err := io.ReadAll(body)
	if err != nil {
		return types.RawDocument{}, errors.NewNetworkError(errors.ErrCodeSourceFailed, "failed to read object body", err).
			WithContext("key", key)
	}
	if s.maxBytes > 0 && int64(len(content)) > s.maxBytes {
		return types.RawDocument{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("object exceeds the %d byte limit", s.maxBytes), nil).WithContext("key", key)
	}

	if mimeType == "" {
		mimeType = aws.ToString(out.ContentType)
	}
	name := path.Base(key)
	return types.RawDocument{
		Content:  content,
		Kind:     types.DetectKind(name, mimeType),
		FileName: name,
	}, nil
}

// retryable excludes missing and oversized objects.
func retryable(err error) bool {
	return !errors.Is(err, errors.ErrorTypeValidation) && !errors.HasCode(err, errors.ErrCodeFileNotFound)
}
