package s3

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	awss3 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"

	icpa "github.com/Davibfr13/ICPA"
)

// Resolver loads media payloads referenced as s3://bucket/key.
type Resolver struct {
	s3         *awss3.S3
	downloader *s3manager.Downloader
}

func NewResolver(sess *session.Session) icpa.MediaResolver {
	return &Resolver{
		s3:         awss3.New(sess),
		downloader: s3manager.NewDownloader(sess),
	}
}

func (r *Resolver) Check(ctx context.Context, ref string) error {
	bucket, key, err := splitRef(ref)
	if err != nil {
		return err
	}

	if _, err := r.s3.HeadObjectWithContext(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		return errors.Wrapf(err, "Failed to stat %s", ref)
	}

	return nil
}

func (r *Resolver) Resolve(ctx context.Context, ref string) ([]byte, error) {
	bucket, key, err := splitRef(ref)
	if err != nil {
		return nil, err
	}

	buffer := aws.NewWriteAtBuffer(nil)

	if _, err := r.downloader.DownloadWithContext(ctx, buffer, &awss3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		return nil, errors.Wrapf(err, "Failed to download %s", ref)
	}

	return buffer.Bytes(), nil
}

func splitRef(ref string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(ref, "s3://")
	if trimmed == ref {
		return "", "", errors.Errorf("media reference %s is not an s3 url", ref)
	}

	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("media reference %s is missing bucket or key", ref)
	}

	return parts[0], parts[1], nil
}
