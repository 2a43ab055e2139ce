// AngelaMos | 2026
// s3.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/carterperez-dev/coursemarket/internal/config"
	"github.com/carterperez-dev/coursemarket/internal/core"
)

// Gateway issues capability URLs against the object store. Callers never
// receive storage credentials or raw bucket access.
type Gateway interface {
	SignUpload(ctx context.Context, obj UploadObject) (string, error)
	SignDownload(ctx context.Context, key string, expiry time.Duration) (string, error)
	PublicURL(key string) string
	Delete(ctx context.Context, key string) error
}

type S3Gateway struct {
	client       *s3.S3
	bucket       string
	region       string
	publicURL    string
	uploadExpiry time.Duration
}

func NewS3Gateway(cfg config.StorageConfig) (*S3Gateway, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	}

	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create storage session: %w", err)
	}

	expiry := cfg.UploadExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}

	return &S3Gateway{
		client:       s3.New(sess),
		bucket:       cfg.Bucket,
		region:       cfg.Region,
		publicURL:    strings.TrimRight(cfg.PublicURL, "/"),
		uploadExpiry: expiry,
	}, nil
}

func (g *S3Gateway) SignUpload(ctx context.Context, obj UploadObject) (string, error) {
	if obj.Key == "" {
		return "", errors.New("sign upload: empty key")
	}

	req, _ := g.client.PutObjectRequest(&s3.PutObjectInput{
		Bucket:        aws.String(g.bucket),
		Key:           aws.String(obj.Key),
		ContentType:   aws.String(obj.ContentType),
		ContentLength: aws.Int64(obj.Size),
	})
	req.SetContext(ctx)

	url, err := req.Presign(g.uploadExpiry)
	if err != nil {
		return "", fmt.Errorf("sign upload %s: %w", obj.Key, errors.Join(core.ErrUpstream, err))
	}
	return url, nil
}

func (g *S3Gateway) SignDownload(
	ctx context.Context,
	key string,
	expiry time.Duration,
) (string, error) {
	req, _ := g.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	req.SetContext(ctx)

	url, err := req.Presign(expiry)
	if err != nil {
		return "", fmt.Errorf("sign download %s: %w", key, errors.Join(core.ErrUpstream, err))
	}
	return url, nil
}

func (g *S3Gateway) PublicURL(key string) string {
	if g.publicURL != "" {
		return g.publicURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", g.bucket, g.region, key)
}

func (g *S3Gateway) Delete(ctx context.Context, key string) error {
	_, err := g.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, errors.Join(core.ErrUpstream, err))
	}
	return nil
}

var _ Gateway = (*S3Gateway)(nil)
