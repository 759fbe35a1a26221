package uploads

import (
	"context"
	"fmt"
	"io"
	"strings"

	"food-ordering/internal/xpkg/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the part of the s3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Store struct {
	client   ObjectPutter
	bucket   string
	baseURL  string
	maxBytes int64
}

// NewS3Store builds a client from the default AWS credential chain.
func NewS3Store(ctx context.Context, cfg config.S3, maxBytes int64) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return NewS3StoreWithClient(client, cfg.Bucket, baseURL, maxBytes), nil
}

func NewS3StoreWithClient(client ObjectPutter, bucket, baseURL string, maxBytes int64) *S3Store {
	return &S3Store{
		client:   client,
		bucket:   bucket,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		maxBytes: maxBytes,
	}
}

func (ss *S3Store) Save(ctx context.Context, name, contentType string, size int64, body io.Reader) (string, error) {
	if err := checkUpload(name, contentType, size, ss.maxBytes); err != nil {
		return "", err
	}

	key := "uploads/" + name
	_, err := ss.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(ss.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put failed: %w", err)
	}
	return ss.baseURL + "/" + key, nil
}
