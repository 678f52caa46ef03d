package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/shettytas/fitquest-web/internal/config"
)

type StorageService interface {
	UploadFile(ctx context.Context, file multipart.File, filename string, folder string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
}

// NewStorageService builds the configured object storage. It returns nil
// when no driver is configured; callers then report ErrStorageUnavailable.
func NewStorageService(ctx context.Context, cfg *config.Config) (StorageService, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverSupabase:
		if cfg.Supabase.URL == "" || cfg.Supabase.Bucket == "" || cfg.Supabase.ServiceKey == "" {
			return nil, fmt.Errorf("supabase storage requires SUPABASE_URL, SUPABASE_BUCKET and SUPABASE_SERVICE_KEY")
		}
		return NewSupabaseStorageService(cfg.Supabase.URL, cfg.Supabase.Bucket, cfg.Supabase.ServiceKey), nil
	case config.StorageDriverS3:
		svc, err := NewS3StorageService(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, nil
	}
}

type SupabaseStorageService struct {
	baseURL    string
	bucket     string
	serviceKey string
	httpClient *http.Client
}

func NewSupabaseStorageService(baseURL, bucket, serviceKey string) *SupabaseStorageService {
	return &SupabaseStorageService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		bucket:     bucket,
		serviceKey: serviceKey,
		httpClient: http.DefaultClient,
	}
}

func (s *SupabaseStorageService) UploadFile(ctx context.Context, file multipart.File, filename string, folder string) (string, error) {
	objectPath := path.Join(strings.Trim(folder, "/"), filename)
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, objectPath)

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	s.authorize(req)
	req.Header.Set("x-upsert", "true")
	req.Header.Set("Content-Type", http.DetectContentType(content))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("upload file: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, objectPath), nil
}

func (s *SupabaseStorageService) DeleteFile(ctx context.Context, fileURL string) error {
	objectPath, err := s.objectPathFromURL(fileURL)
	if err != nil {
		return err
	}

	deleteURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, deleteURL, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	s.authorize(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("delete file: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func (s *SupabaseStorageService) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
}

func (s *SupabaseStorageService) objectPathFromURL(fileURL string) (string, error) {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("parse file url: %w", err)
	}

	publicPrefix := "/storage/v1/object/public/" + s.bucket + "/"
	objectPrefix := "/storage/v1/object/" + s.bucket + "/"

	switch {
	case strings.HasPrefix(parsed.Path, publicPrefix):
		return strings.TrimPrefix(parsed.Path, publicPrefix), nil
	case strings.HasPrefix(parsed.Path, objectPrefix):
		return strings.TrimPrefix(parsed.Path, objectPrefix), nil
	default:
		return "", fmt.Errorf("file url does not belong to configured bucket")
	}
}

type s3ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3StorageService stores objects in an S3-compatible bucket. A custom
// endpoint switches to path-style addressing for MinIO and friends.
type S3StorageService struct {
	client        s3ObjectAPI
	bucket        string
	publicBaseURL string
}

func NewS3StorageService(ctx context.Context, cfg config.S3Config) (*S3StorageService, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 storage requires S3_BUCKET")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3StorageService(client, cfg), nil
}

func newS3StorageService(client s3ObjectAPI, cfg config.S3Config) *S3StorageService {
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		if cfg.Endpoint != "" {
			base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	return &S3StorageService{client: client, bucket: cfg.Bucket, publicBaseURL: base}
}

func (s *S3StorageService) UploadFile(ctx context.Context, file multipart.File, filename string, folder string) (string, error) {
	key := path.Join(strings.Trim(folder, "/"), filename)

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(http.DetectContentType(content)),
	})
	if err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}
	return s.publicBaseURL + "/" + key, nil
}

func (s *S3StorageService) DeleteFile(ctx context.Context, fileURL string) error {
	prefix := s.publicBaseURL + "/"
	if !strings.HasPrefix(fileURL, prefix) {
		return fmt.Errorf("file url does not belong to configured bucket")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(strings.TrimPrefix(fileURL, prefix)),
	})
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}
