// Package remote ships archive file pairs to and from S3-compatible object
// storage.
package remote

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/transfermanager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Options overrides the default AWS configuration chain. The zero value
// uses whatever the environment provides (shared config, IAM role, ...).
type Options struct {
	Region          string
	Endpoint        string // set for S3-compatible stores like MinIO
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

type Client struct {
	s3       *s3.Client
	uploader *transfermanager.Client
}

func NewClient(ctx context.Context, opts Options) (*Client, error) {
	loadOptions := []func(*config.LoadOptions) error{}
	if opts.Region != "" {
		loadOptions = append(loadOptions, config.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOptions = append(loadOptions, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, err
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	return &Client{
		s3:       s3Client,
		uploader: transfermanager.New(s3Client),
	}, nil
}

// archiveSuffixes lists the two files making up an archive, data first.
var archiveSuffixes = []string{".data.bin", ".metadata.bin"}

// UploadArchive uploads the archive's data and metadata files from the
// given folder to s3://bucket/name{.data.bin,.metadata.bin}.
func (c *Client) UploadArchive(ctx context.Context, bucket, name, folder string) error {
	for _, suffix := range archiveSuffixes {
		file, err := os.Open(path.Join(folder, name+suffix))
		if err != nil {
			return err
		}

		_, err = c.uploader.UploadObject(ctx, &transfermanager.UploadObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(name + suffix),
			Body:   file,
		})
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return fmt.Errorf("uploading %s%s: %w", name, suffix, err)
		}
	}

	return nil
}

// DownloadArchive fetches both archive files into the given folder, so that
// archive.NewReaderFS(folder, name) can open them.
func (c *Client) DownloadArchive(ctx context.Context, bucket, name, folder string) error {
	for _, suffix := range archiveSuffixes {
		out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(name + suffix),
		})
		if err != nil {
			return fmt.Errorf("downloading %s%s: %w", name, suffix, err)
		}

		file, err := os.Create(path.Join(folder, name+suffix))
		if err != nil {
			out.Body.Close()
			return err
		}

		_, err = io.Copy(file, out.Body)
		out.Body.Close()
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return fmt.Errorf("downloading %s%s: %w", name, suffix, err)
		}
	}

	return nil
}
