package notes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// UploadFile detects the file's type from its contents and uploads it.
func (c *Client) UploadFile(ctx context.Context, path string) (Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Attachment{}, err
	}
	if info.IsDir() {
		return Attachment{}, fmt.Errorf("notes: %s is a directory", path)
	}

	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("notes: detect type of %s: %w", path, err)
	}
	file, err := os.Open(path)
	if err != nil {
		return Attachment{}, err
	}
	defer file.Close()

	name := filepath.Base(path)
	stored, err := c.Upload(ctx, name, mime.String(), file)
	if err != nil {
		return Attachment{}, err
	}
	return Attachment{
		Name:  name,
		Path:  stored,
		MIME:  mime.String(),
		Image: IsImage(mime.String()),
	}, nil
}

// IsImage reports whether a MIME type is an image/* type.
func IsImage(mime string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mime)), "image/")
}
