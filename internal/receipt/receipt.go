// Package receipt stores transfer-receipt images attached to payment
// submissions. When S3-compatible storage is configured the image is
// uploaded and the payment keeps an object reference; otherwise the
// data URI is kept inline.
package receipt

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Payment submissions arrive as data URIs from the browser; cap the
// decoded image size.
const MaxImageBytes = 5 << 20

const objectPrefix = "s3:"

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Config holds S3-compatible storage configuration.
type Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// Service stores and retrieves receipt images.
type Service struct {
	cfg    Config
	client s3Client
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a receipt service. When the bucket or credentials
// are missing the service runs in inline mode and never touches S3.
func NewService(cfg Config, logger *slog.Logger) *Service {
	s := &Service{cfg: cfg, logger: logger, now: time.Now}
	if cfg.Bucket != "" && cfg.AccessKey != "" && cfg.SecretKey != "" {
		s.client = newS3Client(cfg)
	}
	return s
}

func newS3Client(cfg Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Enabled reports whether object storage is configured.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// Store saves a receipt image submitted as a data URI and returns the
// reference to persist with the payment. With object storage disabled
// the data URI itself is the reference.
func (s *Service) Store(ctx context.Context, householdID int64, month, dataURI string) (string, error) {
	if dataURI == "" {
		return "", nil
	}

	contentType, data, err := parseDataURI(dataURI)
	if err != nil {
		return "", err
	}
	if len(data) > MaxImageBytes {
		return "", fmt.Errorf("receipt image exceeds %d bytes", MaxImageBytes)
	}

	if s.client == nil {
		return dataURI, nil
	}

	key := fmt.Sprintf("receipts/%d/%s-%d%s", householdID, strings.ToLower(month), s.now().UnixMilli(), extensionFor(contentType))

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          strings.NewReader(string(data)),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload receipt: %w", err)
	}

	s.logger.Info("receipt stored", "key", key, "bytes", len(data))
	return objectPrefix + key, nil
}

// Fetch opens the receipt image behind a stored reference. The caller
// must close the reader.
func (s *Service) Fetch(ctx context.Context, ref string) (io.ReadCloser, string, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		contentType, data, err := parseDataURI(ref)
		if err != nil {
			return nil, "", err
		}
		return io.NopCloser(strings.NewReader(string(data))), contentType, nil

	case strings.HasPrefix(ref, objectPrefix):
		if s.client == nil {
			return nil, "", fmt.Errorf("receipt storage not configured")
		}
		key := strings.TrimPrefix(ref, objectPrefix)
		result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.cfg.Bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, "", fmt.Errorf("download receipt: %w", err)
		}
		contentType := "application/octet-stream"
		if result.ContentType != nil {
			contentType = *result.ContentType
		}
		return result.Body, contentType, nil

	case ref == "":
		return nil, "", fmt.Errorf("payment has no receipt")

	default:
		return nil, "", fmt.Errorf("unrecognized receipt reference")
	}
}

// Delete removes a stored receipt object. Inline references have
// nothing to delete.
func (s *Service) Delete(ctx context.Context, ref string) error {
	if !strings.HasPrefix(ref, objectPrefix) || s.client == nil {
		return nil
	}
	key := strings.TrimPrefix(ref, objectPrefix)
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete receipt: %w", err)
	}
	return nil
}

// parseDataURI decodes a base64 data URI like
// "data:image/png;base64,iVBOR...".
func parseDataURI(uri string) (contentType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return "", nil, fmt.Errorf("data URI must be base64 encoded")
	}
	contentType = strings.TrimSuffix(meta, ";base64")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URI: %w", err)
	}
	return contentType, data, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	default:
		return ""
	}
}
