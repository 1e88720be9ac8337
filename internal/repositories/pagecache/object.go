package pagecache

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/KirkDiggler/lenna/internal/errors"
)

// ObjectStore is the subset of the S3 API the object cache needs.
type ObjectStore interface {
	// GetObject downloads an object.
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	// PutObject uploads an object.
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinioConfig holds S3-compatible connection settings.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

// NewMinioStore connects to an S3-compatible endpoint. The connection is
// lazy; the first request surfaces bad credentials.
func NewMinioStore(cfg *MinioConfig) (ObjectStore, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, errors.InvalidArgument("endpoint is required")
	}

	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create minio client")
	}
	return &minioStore{Client: client}, nil
}

type minioStore struct {
	*minio.Client
}

func (s *minioStore) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return s.Client.GetObject(ctx, bucketName, objectName, opts)
}

type objectRepository struct {
	store  ObjectStore
	bucket string
	prefix string
}

// ObjectConfig contains configuration for the object store page cache.
type ObjectConfig struct {
	Store  ObjectStore
	Bucket string
	// Prefix is prepended to object names (optional)
	Prefix string
}

// Validate validates the ObjectConfig.
func (cfg *ObjectConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if cfg.Store == nil {
		vb.RequiredField("store")
	}
	errors.ValidateRequired("bucket", cfg.Bucket, vb)
	return vb.Build()
}

// NewObject creates an object store backed page cache. A PUT replaces the
// object atomically.
func NewObject(cfg *ObjectConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &objectRepository{
		store:  cfg.Store,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

func (r *objectRepository) key(id string) string {
	return path.Join(r.prefix, id+".json")
}

func isNoSuchKey(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchObject"
}

func (r *objectRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	id, err := validateGet(input)
	if err != nil {
		return nil, err
	}

	obj, err := r.store.GetObject(ctx, r.bucket, r.key(id), minio.GetObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, errors.NotFoundf("page %s not cached", id)
		}
		return nil, errors.Wrapf(err, "failed to get page %s", id)
	}
	defer func() {
		_ = obj.Close()
	}()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, errors.NotFoundf("page %s not cached", id)
		}
		return nil, errors.Wrapf(err, "failed to read page %s", id)
	}

	entry, err := decodeEntry(id, data)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Entry: entry}, nil
}

func (r *objectRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	entry, err := validatePut(input)
	if err != nil {
		return nil, err
	}

	data, err := encodeEntry(entry)
	if err != nil {
		return nil, err
	}

	_, err = r.store.PutObject(ctx, r.bucket, r.key(entry.PageID), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store page %s", entry.PageID)
	}

	slog.DebugContext(ctx, "stored page in object store", "page_id", entry.PageID, "bucket", r.bucket)
	return &PutOutput{Entry: entry}, nil
}
