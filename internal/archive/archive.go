// Package archive uploads the finished output file to S3-compatible storage.
package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/tags"
)

// Uploader pushes one object per run, keyed by date and run ID.
type Uploader struct {
	cli    *minio.Client
	bucket string
	prefix string
}

// RunInfo is attached to the uploaded object as metadata and tags.
type RunInfo struct {
	RunID     string
	Policy    string
	Accepted  int64
	Duplicate int64
	Started   time.Time
}

func New(endpoint, ak, sk, bucket, prefix string, useSSL bool) (*Uploader, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(ak, sk, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &Uploader{cli: cli, bucket: bucket, prefix: prefix}, nil
}

func (u *Uploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.cli.BucketExists(ctx, u.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return u.cli.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (u *Uploader) ObjectKey(ts time.Time, runID, name string) string {
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s_%s",
		u.prefix, ts.Year(), ts.Month(), ts.Day(), runID, filepath.Base(name),
	)
}

// UploadRun stores the output file with the run's stats.
func (u *Uploader) UploadRun(ctx context.Context, path string, info RunInfo) (string, error) {
	key := u.ObjectKey(info.Started, info.RunID, path)
	putOpts := minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
		UserMetadata: map[string]string{
			"run_id":    info.RunID,
			"policy":    info.Policy,
			"accepted":  strconv.FormatInt(info.Accepted, 10),
			"duplicate": strconv.FormatInt(info.Duplicate, 10),
			"started":   info.Started.UTC().Format(time.RFC3339),
		},
	}
	if _, err := u.cli.FPutObject(ctx, u.bucket, key, path, putOpts); err != nil {
		return "", err
	}
	// tags for quick filtering
	objTags, err := tags.NewTags(map[string]string{
		"run_id": info.RunID,
		"policy": info.Policy,
	}, true)
	if err != nil {
		return "", err
	}
	if err := u.cli.PutObjectTagging(ctx, u.bucket, key, objTags, minio.PutObjectTaggingOptions{}); err != nil {
		return "", err
	}
	return key, nil
}
