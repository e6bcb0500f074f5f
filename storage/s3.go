package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio/config"
	"github.com/rpupo63/portfolio/errs"
)

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store uploads images to an S3 compatible bucket and returns absolute
// public URLs.
type S3Store struct {
	client    objectAPI
	bucket    string
	prefix    string
	publicURL string
}

// NewS3Store reads S3_BUCKET, S3_REGION, S3_ENDPOINT, S3_PREFIX and
// S3_PUBLIC_URL. Credentials come from the default AWS chain.
func NewS3Store(ctx context.Context, c map[string]string) (*S3Store, error) {
	bucket := config.GetString(c, "S3_BUCKET", "")
	if bucket == "" {
		return nil, errs.NewEnvironmentVariableError("S3_BUCKET")
	}
	region := config.GetString(c, "S3_REGION", "us-east-1")
	endpoint := config.GetString(c, "S3_ENDPOINT", "")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := config.GetString(c, "S3_PUBLIC_URL", fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region))
	return newS3Store(client, bucket, config.GetString(c, "S3_PREFIX", "projects/"), publicURL), nil
}

func newS3Store(client objectAPI, bucket, prefix, publicURL string) *S3Store {
	return &S3Store{
		client:    client,
		bucket:    bucket,
		prefix:    prefix,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *S3Store) Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	key, err := objectKey(filename, contentType)
	if err != nil {
		return "", err
	}
	data, err := limitedRead(r)
	if err != nil {
		return "", err
	}
	key = s.prefix + key

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", errs.NewServiceUnavailableError("s3", err)
	}
	log.Debug().Str("bucket", s.bucket).Str("key", key).Msg("Uploaded image to S3")
	return s.publicURL + "/" + key, nil
}

// Delete removes an object previously returned by Save. URLs outside the
// store's public URL are ignored.
func (s *S3Store) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.publicURL+"/")
	if !ok || key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errs.NewServiceUnavailableError("s3", err)
	}
	return nil
}
