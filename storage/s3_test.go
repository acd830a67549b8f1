package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura-report/config"
)

// memoryBucket ist ein S3-Bucket im Speicher.
type memoryBucket map[string][]byte

func (b memoryBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := b[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (b memoryBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	b[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func TestReadObject(t *testing.T) {
	bucket := memoryBucket{"reports/u-1.json": []byte(`{"success":true}`)}

	data, err := ReadObject(context.Background(), bucket, "b", ReportKey("reports/", "u-1"))
	require.NoError(t, err)
	assert.Equal(t, `{"success":true}`, string(data))

	_, err = ReadObject(context.Background(), bucket, "b", "reports/u-2.json")
	assert.True(t, errors.Is(err, ErrObjectNotFound))
}

func TestUploadFile(t *testing.T) {
	bucket := memoryBucket{}
	cfg := &config.Config{S3URL: "https://s3.example.com"}

	link, err := UploadFile(context.Background(), bucket, "exports", "reports/u-1.json", []byte("{}"), cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.com/exports/reports/u-1.json", link)
	assert.Equal(t, []byte("{}"), bucket["reports/u-1.json"])
}
