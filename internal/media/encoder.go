package media

import (
	"context"
	"encoding/base64"
	"io"
	"strings"

	"github.com/sakif/food-gallery/internal/apperror"
)

// DataURIEncoder embeds file bytes directly in the record. Simple and needs
// no bucket, at the cost of ~33% size overhead per file.
type DataURIEncoder struct{}

var _ Processor = DataURIEncoder{}

func (DataURIEncoder) Process(ctx context.Context, attachments []Attachment) ([]string, error) {
	out := make([]string, 0, len(attachments))
	for _, a := range attachments {
		if err := ctx.Err(); err != nil {
			return nil, apperror.MediaProcessingFailed(a.Filename, err)
		}

		uri, err := encodeDataURI(a)
		if err != nil {
			return nil, apperror.MediaProcessingFailed(a.Filename, err)
		}
		out = append(out, uri)
	}
	return out, nil
}

func encodeDataURI(a Attachment) (string, error) {
	rc, err := a.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var b strings.Builder
	b.WriteString("data:")
	b.WriteString(contentType(a))
	b.WriteString(";base64,")

	enc := base64.NewEncoder(base64.StdEncoding, &b)
	if _, err := io.Copy(enc, rc); err != nil {
		return "", err
	}
	// Close flushes the final partial block and its padding.
	if err := enc.Close(); err != nil {
		return "", err
	}
	return b.String(), nil
}
