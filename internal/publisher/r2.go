package publisher

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Options configures the landing-page publisher. R2 is S3-compatible, so
// any S3 endpoint works.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	// PublicURL is the base URL under which uploaded objects are served.
	// Falls back to the endpoint when empty.
	PublicURL string
}

// R2Publisher uploads generated landing pages to an S3-compatible bucket.
type R2Publisher struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// New builds an R2Publisher from options.
func New(ctx context.Context, opts Options) (*R2Publisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true
	})

	publicURL := strings.TrimSuffix(opts.PublicURL, "/")
	if publicURL == "" {
		publicURL = strings.TrimSuffix(opts.Endpoint, "/") + "/" + opts.Bucket
	}

	return &R2Publisher{
		client:    client,
		bucket:    opts.Bucket,
		publicURL: publicURL,
	}, nil
}

// Publish uploads the landing page HTML for a place and returns its
// public URL.
func (p *R2Publisher) Publish(ctx context.Context, placeID, html string) (string, error) {
	key := "landing/" + placeID + ".html"

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(html),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("uploading landing page for %s: %w", placeID, err)
	}

	return p.publicURL + "/" + key, nil
}
