package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/types"
)

type fakeBucket struct {
	objects     map[string][]byte
	contentType string
	failures    int // transient failures before success
	calls       int
}

func (f *fakeBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return nil, fmt.Errorf("connection reset")
	}
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	out := &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}
	if f.contentType != "" {
		out.ContentType = aws.String(f.contentType)
	}
	return out, nil
}

func TestFetchDetectsKind(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		contentType string
		override    string
		want        types.DocumentKind
	}{
		{name: "extension", key: "uploads/cv.pdf", contentType: "application/octet-stream", want: types.KindPDF},
		{name: "content type", key: "uploads/blob", contentType: types.MIMEDOCX, want: types.KindDOCX},
		{name: "caller override", key: "uploads/blob", contentType: "application/octet-stream", override: types.MIMEText, want: types.KindText},
		{name: "unknown", key: "uploads/blob", want: types.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket := &fakeBucket{objects: map[string][]byte{tt.key: []byte("data")}, contentType: tt.contentType}
			src := newS3Source(bucket, "resumes", 0, nil)

			doc, err := src.Fetch(context.Background(), tt.key, tt.override)
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Kind)
			assert.Equal(t, []byte("data"), doc.Content)
		})
	}
}

func TestFetchRetriesTransientErrors(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{"cv.txt": []byte("hello")}, failures: 2}
	src := newS3Source(bucket, "resumes", 0, errors.Discard())
	src.backoff = time.Millisecond

	doc, err := src.Fetch(context.Background(), "cv.txt", "")
	require.NoError(t, err)
	assert.Equal(t, "cv.txt", doc.FileName)
	assert.Equal(t, 3, bucket.calls)
}

func TestFetchGivesUpAfterAttempts(t *testing.T) {
	bucket := &fakeBucket{failures: 10}
	src := newS3Source(bucket, "resumes", 0, nil)
	src.attempts = 2
	src.backoff = time.Millisecond

	_, err := src.Fetch(context.Background(), "cv.txt", "")
	assert.True(t, errors.HasCode(err, errors.ErrCodeSourceFailed))
	assert.Equal(t, 2, bucket.calls)
}

func TestFetchMissingObjectIsNotRetried(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{}}
	src := newS3Source(bucket, "resumes", 0, nil)

	_, err := src.Fetch(context.Background(), "nope.pdf", "")
	assert.True(t, errors.HasCode(err, errors.ErrCodeFileNotFound))
	assert.Equal(t, 1, bucket.calls)
}

func TestFetchEnforcesSizeLimit(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{"big.txt": bytes.Repeat([]byte("a"), 11)}}
	src := newS3Source(bucket, "resumes", 10, nil)

	_, err := src.Fetch(context.Background(), "big.txt", "")
	assert.True(t, errors.Is(err, errors.ErrorTypeValidation))
	assert.Equal(t, 1, bucket.calls)
}

func TestNewS3SourceRequiresBucket(t *testing.T) {
	_, err := NewS3Source(context.Background(), config.S3Config{}, 0, nil)
	assert.True(t, errors.Is(err, errors.ErrorTypeConfig))
}
