package source

import (
	"context"
	"errors"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOOptions configures minio:// documents.
type MinIOOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
	// Region skips the bucket location lookup when set.
	Region string
}

func openMinIO(ctx context.Context, loc Location, opts MinIOOptions) (io.ReadCloser, error) {
	if opts.Endpoint == "" {
		return nil, errors.New("minio endpoint not configured")
	}
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.Secure,
		Region: opts.Region,
	})
	if err != nil {
		return nil, err
	}
	obj, err := client.GetObject(ctx, loc.Bucket, loc.Path, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return obj, nil
}
