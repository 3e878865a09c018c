package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStoreConfig holds the S3-compatible endpoint settings.
type ObjectStoreConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	Prefix          string
	UseSSL          bool
}

// ObjectStore keeps blobs as objects in an S3-compatible bucket.
type ObjectStore struct {
	conn   *minio.Client
	bucket string
	prefix string
}

// NewObjectStore connects to the endpoint and makes sure the bucket exists.
func NewObjectStore(ctx context.Context, cfg ObjectStoreConfig) (*ObjectStore, error) {
	conn, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := conn.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to establish minio connection: %w", err)
	}
	if !exists {
		if err := conn.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &ObjectStore{
		conn:   conn,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

func (o *ObjectStore) objectName(key string) string {
	if o.prefix == "" {
		return key
	}
	return path.Join(o.prefix, key)
}

// Get downloads the object stored under key.
func (o *ObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := o.conn.GetObject(ctx, o.bucket, o.objectName(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, o.translate(key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, o.translate(key, err)
	}
	return data, nil
}

// Put uploads data under key, overwriting any previous object.
func (o *ObjectStore) Put(ctx context.Context, key string, data []byte) error {
	_, err := o.conn.PutObject(ctx, o.bucket, o.objectName(key), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to upload blob %s: %w", key, err)
	}
	return nil
}

// Delete removes the object stored under key.
func (o *ObjectStore) Delete(ctx context.Context, key string) error {
	if err := o.conn.RemoveObject(ctx, o.bucket, o.objectName(key), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove blob %s: %w", key, err)
	}
	return nil
}

func (o *ObjectStore) translate(key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrBlobNotFound
	}
	return fmt.Errorf("failed to download blob %s: %w", key, err)
}
