package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/dataroom/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{objects: map[string][]byte{}}
}

func (f *fakeAPI) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failPut != nil {
		return nil, f.failPut
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeAPI) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeAPI) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestKey(t *testing.T) {
	at := time.Date(2025, 3, 7, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "files/2025/03/07/abc", Key("abc", at))
}

func TestS3Store_PutGetDelete(t *testing.T) {
	api := newFakeAPI()
	s := &S3Store{api: api, bucket: "dataroom"}
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "files/k", []byte("%PDF")))
	assert.Contains(t, api.objects, "dataroom/files/k")

	got, err := s.Get(ctx, "files/k")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), got)

	require.NoError(t, s.Delete(ctx, "files/k"))
	_, err = s.Get(ctx, "files/k")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestS3Store_PutError(t *testing.T) {
	api := newFakeAPI()
	api.failPut = errors.New("bucket gone")
	s := &S3Store{api: api, bucket: "dataroom"}

	err := s.Put(context.Background(), "files/k", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket gone")
}

func TestNewS3Store_AppliesConfig(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minioadmin", creds.AccessKeyID)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	s, err := NewS3Store(context.Background(), Config{
		Region:       "us-east-1",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		Bucket:       "dataroom",
		BaseEndpoint: "http://127.0.0.1:9000",
	})
	require.NoError(t, err)
	assert.Equal(t, "dataroom", s.bucket)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestNewS3Store_Errors(t *testing.T) {
	_, err := NewS3Store(context.Background(), Config{})
	require.Error(t, err)

	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no creds")
	}

	_, err = NewS3Store(context.Background(), Config{Bucket: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no creds")
}
