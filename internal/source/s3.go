package source

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options configures s3:// documents.
type S3Options struct {
	Region string
	// Endpoint overrides the service endpoint and switches to path-style
	// addressing, for S3 look-alikes such as LocalStack.
	Endpoint string
	// Client replaces the client built from the default AWS configuration.
	Client S3API
}

// S3API is the part of *s3.Client used to fetch documents.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

func openS3(ctx context.Context, loc Location, opts S3Options) (io.ReadCloser, error) {
	client := opts.Client
	if client == nil {
		var err error
		client, err = newS3Client(ctx, opts)
		if err != nil {
			return nil, err
		}
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Path),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

func newS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
