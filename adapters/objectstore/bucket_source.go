package objectstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"gazecenter/adapters/gazefile"
	"gazecenter/domain/core"
	"gazecenter/internal/errors"
)

// BucketSource serves participant recordings stored as <prefix>/<id>.txt
// objects in an S3-compatible bucket.
type BucketSource struct {
	client *minio.Client
	bucket string
	prefix string
}

// Options configures the object store connection
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// NewBucketSource connects to the object store. No request is made until the
// first List or Open.
func NewBucketSource(opts Options) (*BucketSource, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, errors.ExternalServiceError("object store", fmt.Errorf("failed to create client: %w", err))
	}
	return &BucketSource{
		client: client,
		bucket: opts.Bucket,
		prefix: normalizePrefix(opts.Prefix),
	}, nil
}

// Describe names the source
func (s *BucketSource) Describe() string {
	return "s3://" + s.bucket + "/" + s.prefix
}

// List returns participant IDs for every *.txt object directly under the
// prefix, sorted by name.
func (s *BucketSource) List(ctx context.Context) ([]core.ParticipantID, error) {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return nil, errors.ExternalServiceError("object store", err)
	}
	if !exists {
		return nil, errors.NotFound(fmt.Sprintf("bucket %s", s.bucket))
	}

	var ids []core.ParticipantID
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: s.prefix}) {
		if obj.Err != nil {
			return nil, errors.ExternalServiceError("object store", obj.Err)
		}
		if id, ok := participantFromKey(s.prefix, obj.Key); ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Open streams one participant object
func (s *BucketSource) Open(ctx context.Context, id core.ParticipantID) (io.ReadCloser, error) {
	if _, err := core.ParseParticipantID(id.String()); err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}

	key := s.prefix + id.String() + gazefile.Extension
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, errors.NotFound(fmt.Sprintf("participant %s (s3://%s/%s)", id, s.bucket, key))
		}
		return nil, errors.ExternalServiceError("object store", err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.ExternalServiceError("object store", err)
	}
	return obj, nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

// participantFromKey extracts the participant ID from an object key directly
// under prefix.
func participantFromKey(prefix, key string) (core.ParticipantID, bool) {
	rest := strings.TrimPrefix(key, prefix)
	if rest == key && prefix != "" {
		return "", false
	}
	if strings.Contains(rest, "/") || !strings.HasSuffix(rest, gazefile.Extension) {
		return "", false
	}
	name := strings.TrimSuffix(path.Base(rest), gazefile.Extension)
	if name == "" {
		return "", false
	}
	return core.ParticipantID(name), true
}
