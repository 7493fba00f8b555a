// Package oss wraps the object store holding uploaded course materials.
// Files are stored verbatim (mostly PDFs); only the resulting public URL is
// persisted next to the material metadata.
package oss

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

type Service struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	Prefix     string
}

func NewServiceFromEnv(prefix string) (*Service, error) {
	endpoint := getenv("ALI_OSS_ENDPOINT")
	ak := getenv("ALI_OSS_ACCESS_KEY")
	sk := getenv("ALI_OSS_SECRET_KEY")
	bucketName := getenv("ALI_OSS_BUCKET")
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	client, err := oss.New(endpoint, ak, sk)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}
	log.Printf("[OSS] bucket %s ready", bucketName)

	return &Service{
		Client:     client,
		Bucket:     bkt,
		Endpoint:   endpoint,
		BucketName: bucketName,
		Prefix:     strings.Trim(prefix, "/"),
	}, nil
}

// UploadFormFile streams a multipart upload into the bucket and returns the
// public URL.
func (s *Service) UploadFormFile(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	key := s.BuildObjectKey(fh.Filename)
	opts := []oss.Option{oss.WithContext(ctx)}
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		opts = append(opts, oss.ContentType(ct))
	}
	if err := s.Bucket.PutObject(key, f, opts...); err != nil {
		return "", fmt.Errorf("oss put: %w", err)
	}
	return s.PublicURL(key), nil
}

func (s *Service) DeleteByURL(ctx context.Context, fileURL string) error {
	key, err := ExtractKeyFromPublicURL(fileURL)
	if err != nil {
		return err
	}
	return s.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (s *Service) PublicURL(key string) string {
	end := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, end, key)
}

// BuildObjectKey namespaces the object under the service prefix and makes
// the name collision-free while keeping the original extension.
func (s *Service) BuildObjectKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	key := uuid.NewString() + ext
	if s.Prefix != "" {
		return s.Prefix + "/" + key
	}
	return key
}

// ExtractKeyFromPublicURL strips scheme and host, leaving the object key.
func ExtractKeyFromPublicURL(publicURL string) (string, error) {
	if publicURL == "" {
		return "", fmt.Errorf("empty url")
	}
	u := publicURL
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	if i := strings.Index(u, "/"); i >= 0 && i+1 < len(u) {
		return u[i+1:], nil
	}
	return "", fmt.Errorf("cannot extract key from url: %s", publicURL)
}

func getenv(k string) string { return strings.TrimSpace(os.Getenv(k)) }
