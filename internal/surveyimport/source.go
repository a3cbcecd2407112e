package surveyimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ignite/survey-tracker/internal/config"
)

// ErrNoS3 is returned for an s3:// source when no S3 client is configured.
var ErrNoS3 = errors.New("s3 source requested but storage is not configured")

// ObjectGetter is the slice of the S3 API the importer needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client builds an S3 client from storage settings. Static keys are
// used when set; otherwise the profile or the default credential chain.
func NewS3Client(ctx context.Context, cfg config.StorageConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	switch {
	case cfg.AccessKey != "" && cfg.SecretKey != "":
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	case cfg.GetAWSProfile() != "":
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.GetAWSProfile()))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return s3.NewFromConfig(awsCfg), nil
}

// ParseS3URI splits s3://bucket/key. ok is false for anything else.
func ParseS3URI(ref string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(ref, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// Opener resolves an import source reference to a CSV stream.
type Opener struct {
	s3 ObjectGetter
}

// NewOpener creates an opener. client may be nil when S3 is not configured.
func NewOpener(client ObjectGetter) *Opener {
	return &Opener{s3: client}
}

// Open returns the stream for ref, which is an s3://bucket/key URI or a
// local path.
func (o *Opener) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	ref = strings.TrimSpace(ref)
	if bucket, key, ok := ParseS3URI(ref); ok {
		if o.s3 == nil {
			return nil, ErrNoS3
		}
		out, err := o.s3.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, fmt.Errorf("get s3 object %s: %w", ref, err)
		}
		return out.Body, nil
	}
	if strings.HasPrefix(ref, "s3://") {
		return nil, fmt.Errorf("%w: malformed s3 uri %q", ErrInvalidSource, ref)
	}

	f, err := os.Open(filepath.Clean(ref))
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	return f, nil
}
