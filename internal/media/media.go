// Package media turns uploaded attachments into the strings stored on a
// post's mediaUrls list.
//
// Two processors exist:
//   - DataURIEncoder: inlines each file as "data:<type>;base64,<payload>"
//   - BucketUploader: writes each file to Cloud Storage and returns its link
//
// Both are all-or-nothing: if any attachment fails, the whole batch fails
// with apperror.ErrMediaProcessing and no partial list is returned.
package media

import (
	"context"
	"io"
)

const defaultContentType = "application/octet-stream"

// Attachment is one uploaded file. Open is called once per Process call.
type Attachment struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

type Processor interface {
	Process(ctx context.Context, attachments []Attachment) ([]string, error)
}

func contentType(a Attachment) string {
	if a.ContentType == "" {
		return defaultContentType
	}
	return a.ContentType
}
