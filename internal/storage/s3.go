package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"github.com/openclaw/openclawctl/internal/config"
)

// providerDefaults holds the compatibility flags picked by the provider
// hint. The hint never changes semantics, only the addressing style and the
// default signing region.
type providerDefaults struct {
	usePathStyle  bool
	defaultRegion string
}

var providerTable = map[string]providerDefaults{
	"r2":    {usePathStyle: false, defaultRegion: "auto"},
	"s3":    {usePathStyle: false, defaultRegion: "us-east-1"},
	"minio": {usePathStyle: true, defaultRegion: "us-east-1"},
	"other": {usePathStyle: true, defaultRegion: "us-east-1"},
}

// ProviderFlags resolves the provider hint into compatibility flags. An
// explicitly configured region always wins over the provider default.
func ProviderFlags(provider, region string) (usePathStyle bool, effectiveRegion string) {
	defaults, ok := providerTable[provider]
	if !ok {
		defaults = providerTable["other"]
	}
	if region == "" {
		region = defaults.defaultRegion
	}
	return defaults.usePathStyle, region
}

// S3Store talks to an S3-compatible object store (AWS S3, Cloudflare R2,
// MinIO) holding the backup archives.
type S3Store struct {
	bucket string
	client *s3.Client
	log    zerolog.Logger
}

// NewS3Store builds the store client from configuration. Missing credentials
// are a configuration error; call cfg.RequireStore() first for a message
// naming the offending variable.
func NewS3Store(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Store, error) {
	if err := cfg.RequireStore(); err != nil {
		return nil, err
	}

	usePathStyle, region := ProviderFlags(cfg.StoreProvider, cfg.StoreRegion)

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, _ string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:           cfg.StoreEndpoint,
			PartitionID:   "aws",
			SigningRegion: region,
		}, nil
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.StoreAccessKeyID, cfg.StoreSecretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = usePathStyle
	})

	return &S3Store{
		bucket: cfg.StoreBucket,
		client: client,
		log:    log.With().Str("component", "object-store").Logger(),
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, key string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String("application/gzip"),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("download %s: %w", key, err)
	}
	return out.Body, nil
}

func (s *S3Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}
	return keys, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
