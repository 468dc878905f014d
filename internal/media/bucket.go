package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/sakif/food-gallery/internal/apperror"
)

// BucketUploader stores each attachment as its own object and returns the
// object's media link. Object names are "<uuid>_<filename>" so two uploads
// of "cake.png" never collide.
type BucketUploader struct {
	bucket *storage.BucketHandle
	logger *slog.Logger
}

var _ Processor = (*BucketUploader)(nil)

// NewBucketUploader takes the handle returned by the Firebase storage
// client's DefaultBucket (or storage.Client.Bucket).
func NewBucketUploader(bucket *storage.BucketHandle, logger *slog.Logger) *BucketUploader {
	return &BucketUploader{bucket: bucket, logger: logger}
}

func (u *BucketUploader) Process(ctx context.Context, attachments []Attachment) ([]string, error) {
	links := make([]string, 0, len(attachments))
	for _, a := range attachments {
		link, err := u.upload(ctx, a)
		if err != nil {
			u.logger.Error("media upload failed",
				slog.String("filename", a.Filename),
				slog.String("error", err.Error()),
			)
			return nil, apperror.MediaProcessingFailed(a.Filename, err)
		}
		links = append(links, link)
	}
	return links, nil
}

func (u *BucketUploader) upload(ctx context.Context, a Attachment) (string, error) {
	rc, err := a.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	name := ObjectName(a.Filename)
	obj := u.bucket.Object(name)

	// Cancelling the writer's context aborts the upload; Close alone would
	// commit a truncated object.
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := obj.NewWriter(wctx)
	w.ContentType = contentType(a)
	if _, err := io.Copy(w, rc); err != nil {
		cancel()
		_ = w.Close()
		return "", fmt.Errorf("writing object %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("committing object %s: %w", name, err)
	}

	// Attrs is populated once Close has returned successfully.
	return w.Attrs().MediaLink, nil
}

// ObjectName builds the bucket object name for an uploaded file. Directory
// components in the client-supplied name are dropped.
func ObjectName(filename string) string {
	base := path.Base(filename)
	if base == "." || base == "/" {
		base = "upload"
	}
	return uuid.NewString() + "_" + base
}
