// Package importer reads user datasets in the randomuser.me format from a
// file, an S3 bucket or the randomuser.me API, and translates each entry into
// the map shape understood by domain.UserFromMap.
package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-resty/resty/v2"

	"github.com/prn-tf/people/internal/config"
)

// ErrUnknownSource indicates an unsupported import source name.
var ErrUnknownSource = errors.New("unknown import source")

// Source opens a dataset for reading.
type Source interface {
	// Name describes the source for logs.
	Name() string

	// Open returns the dataset content. The caller closes it.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// NewSource creates the source selected by cfg.Source.
func NewSource(ctx context.Context, cfg config.ImportConfig) (Source, error) {
	switch cfg.Source {
	case "file":
		return NewFileSource(cfg.Path), nil
	case "s3":
		return NewS3Source(ctx, cfg.S3)
	case "http":
		return NewHTTPSource(cfg.HTTP), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source)
	}
}

// =============================================================================
// File
// =============================================================================

// FileSource reads a dataset from the local filesystem.
type FileSource struct {
	path string
}

// NewFileSource creates a source for the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "file:" + s.path }

func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	return f, nil
}

// =============================================================================
// S3
// =============================================================================

// S3Source reads a dataset object from S3 or an S3-compatible store.
type S3Source struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3Source creates an S3 client from cfg. Static credentials are used
// when an access key is configured; otherwise the default AWS chain applies.
func NewS3Source(ctx context.Context, cfg config.S3SourceConfig) (*S3Source, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Source{client: client, bucket: cfg.Bucket, key: cfg.Key}, nil
}

func (s *S3Source) Name() string { return "s3://" + s.bucket + "/" + s.key }

func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset object: %w", err)
	}
	return out.Body, nil
}

// =============================================================================
// HTTP
// =============================================================================

// HTTPSource fetches a dataset from the randomuser.me API.
type HTTPSource struct {
	client  *resty.Client
	url     string
	results int
	seed    string
}

// NewHTTPSource creates a source for the API at cfg.URL.
func NewHTTPSource(cfg config.HTTPSourceConfig) *HTTPSource {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Accept", "application/json")

	return &HTTPSource{
		client:  client,
		url:     cfg.URL,
		results: cfg.Results,
		seed:    cfg.Seed,
	}
}

func (s *HTTPSource) Name() string { return s.url }

func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req := s.client.R().SetContext(ctx)
	if s.results > 0 {
		req.SetQueryParam("results", strconv.Itoa(s.results))
	}
	if s.seed != "" {
		req.SetQueryParam("seed", s.seed)
	}

	resp, err := req.Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch dataset: unexpected status %d", resp.StatusCode())
	}
	return io.NopCloser(bytes.NewReader(resp.Body())), nil
}
