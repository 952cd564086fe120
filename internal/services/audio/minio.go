package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/killallgit/jamboard-api/pkg/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

const handleScheme = "minio://"

// minioAPI is the subset of *minio.Client the store uses, so tests can fake it
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// minioClientWrapper adapts *minio.Client, whose GetObject returns *minio.Object
type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}

func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}

func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}

func (w minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := w.c.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (w minioClientWrapper) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return w.c.RemoveObject(ctx, bucketName, objectName, opts)
}

func (w minioClientWrapper) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return w.c.StatObject(ctx, bucketName, objectName, opts)
}

// MinIOStore keeps audio in an S3-compatible bucket. Clips carry a
// minio://<bucket>/<key> handle instead of the bytes. Inline data URLs saved
// before the backend was switched still load.
type MinIOStore struct {
	api    minioAPI
	bucket string
	log    zerolog.Logger
}

var _ Store = (*MinIOStore)(nil)

// NewMinIOStore connects to the configured endpoint and ensures the bucket exists
func NewMinIOStore(ctx context.Context, cfg config.MinIOConfig, log zerolog.Logger) (*MinIOStore, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("minio endpoint is required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("minio bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return NewMinIOStoreWithAPI(ctx, minioClientWrapper{c: client}, cfg.Bucket, log)
}

// NewMinIOStoreWithAPI allows injecting a fake API
func NewMinIOStoreWithAPI(ctx context.Context, api minioAPI, bucket string, log zerolog.Logger) (*MinIOStore, error) {
	s := &MinIOStore{
		api:    api,
		bucket: bucket,
		log:    log.With().Str("component", "audio").Str("bucket", bucket).Logger(),
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}
	return s, nil
}

func (s *MinIOStore) ensureBucket(ctx context.Context) error {
	exists, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	s.log.Info().Msg("creating bucket")
	return s.api.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
}

// Save uploads the recording under clips/<uuid><ext>
func (s *MinIOStore) Save(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyAudio
	}
	key := "clips/" + uuid.NewString() + extensionFor(mimeType)
	_, err := s.api.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload audio: %w", err)
	}
	s.log.Debug().Str("key", key).Int("bytes", len(data)).Msg("audio uploaded")
	return s.handle(key), nil
}

func (s *MinIOStore) Load(ctx context.Context, audioURL string) (Payload, error) {
	switch {
	case IsDataURL(audioURL):
		return DecodeDataURL(audioURL)
	case isRemote(audioURL):
		return Payload{}, ErrRemoteAudio
	}

	key, err := s.keyOf(audioURL)
	if err != nil {
		return Payload{}, err
	}
	info, err := s.api.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return Payload{}, fmt.Errorf("failed to stat audio: %w", err)
	}
	obj, err := s.api.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return Payload{}, fmt.Errorf("failed to get audio: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return Payload{}, fmt.Errorf("failed to read audio: %w", err)
	}
	return Payload{Data: data, MimeType: info.ContentType}, nil
}

// Delete removes the object behind a handle; other URLs are ignored
func (s *MinIOStore) Delete(ctx context.Context, audioURL string) error {
	if !strings.HasPrefix(audioURL, handleScheme) {
		return nil
	}
	key, err := s.keyOf(audioURL)
	if err != nil {
		return err
	}
	if err := s.api.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete audio: %w", err)
	}
	return nil
}

func (s *MinIOStore) handle(key string) string {
	return handleScheme + s.bucket + "/" + key
}

func (s *MinIOStore) keyOf(audioURL string) (string, error) {
	rest, ok := strings.CutPrefix(audioURL, handleScheme)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownHandle, truncate(audioURL))
	}
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket != s.bucket || key == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownHandle, audioURL)
	}
	return key, nil
}

func extensionFor(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	switch strings.TrimSpace(base) {
	case "audio/webm":
		return ".webm"
	case "audio/ogg":
		return ".ogg"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/mpeg":
		return ".mp3"
	default:
		return ".bin"
	}
}
