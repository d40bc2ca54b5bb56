package minio

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dtroode/spendy/internal/model"
)

var ErrStatementNotFound = fmt.Errorf("statement %w", model.ErrNotFound)

const csvContentType = "text/csv"

// objectAPI is the subset of *minio.Client the archive uses.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

type clientAdapter struct{ c *minio.Client }

func (a clientAdapter) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return a.c.BucketExists(ctx, bucketName)
}

func (a clientAdapter) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return a.c.MakeBucket(ctx, bucketName, opts)
}

func (a clientAdapter) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return a.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}

// GetObject stats the object first so a missing key fails here instead of on the first Read.
func (a clientAdapter) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := a.c.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

func (a clientAdapter) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return a.c.RemoveObject(ctx, bucketName, objectName, opts)
}

func (a clientAdapter) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return a.c.StatObject(ctx, bucketName, objectName, opts)
}

var _ model.Storage = (*Archive)(nil)

// Archive keeps uploaded bank statements in a single bucket.
type Archive struct {
	api    objectAPI
	bucket string
}

// Connect dials the object store and makes sure the bucket exists.
func Connect(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Archive, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return NewArchive(ctx, clientAdapter{c: client}, bucket)
}

func NewArchive(ctx context.Context, api objectAPI, bucket string) (*Archive, error) {
	a := &Archive{
		api:    api,
		bucket: bucket,
	}

	if err := a.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return a, nil
}

func (a *Archive) ensureBucket(ctx context.Context) error {
	exists, err := a.api.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	if err := a.api.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Upload stores a statement under key. CSV keys get a text/csv content type.
func (a *Archive) Upload(ctx context.Context, key string, reader io.Reader) error {
	key, err := objectKey(key)
	if err != nil {
		return err
	}

	opts := minio.PutObjectOptions{}
	if strings.EqualFold(path.Ext(key), ".csv") {
		opts.ContentType = csvContentType
	}

	if _, err := a.api.PutObject(ctx, a.bucket, key, reader, -1, opts); err != nil {
		return fmt.Errorf("failed to upload statement: %w", err)
	}
	return nil
}

// Download opens the statement stored under key. The caller closes the reader.
func (a *Archive) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	key, err := objectKey(key)
	if err != nil {
		return nil, err
	}

	obj, err := a.api.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrStatementNotFound, key)
		}
		return nil, fmt.Errorf("failed to get statement: %w", err)
	}
	return obj, nil
}

func (a *Archive) Delete(ctx context.Context, key string) error {
	key, err := objectKey(key)
	if err != nil {
		return err
	}

	if err := a.api.RemoveObject(ctx, a.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete statement: %w", err)
	}
	return nil
}

func (a *Archive) Exists(ctx context.Context, key string) (bool, error) {
	key, err := objectKey(key)
	if err != nil {
		return false, err
	}

	if _, err := a.api.StatObject(ctx, a.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat statement: %w", err)
	}
	return true, nil
}

// objectKey rejects empty keys and strips leading slashes.
func objectKey(key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", fmt.Errorf("%w: empty key", ErrStatementNotFound)
	}
	return key, nil
}

func isNotFound(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
