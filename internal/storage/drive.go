package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Drive uploads artifacts into one Google Drive folder.
type Drive struct {
	client   *drive.Service
	folderID string
}

// NewDrive authenticates with a service account credentials file. Extra options
// are appended, e.g. an endpoint override.
func NewDrive(ctx context.Context, credentialsFile, folderID string, opts ...option.ClientOption) (*Drive, error) {
	all := append([]option.ClientOption{option.WithCredentialsFile(credentialsFile)}, opts...)
	return newDrive(ctx, folderID, all...)
}

func newDrive(ctx context.Context, folderID string, opts ...option.ClientOption) (*Drive, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Drive{client: svc, folderID: folderID}, nil
}

// Put creates a file named after the last key segment; Drive has no paths.
func (d *Drive) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	meta := &drive.File{
		Name:     path.Base(key),
		Parents:  []string{d.folderID},
		MimeType: contentType,
	}
	f, err := d.client.Files.Create(meta).
		Media(bytes.NewReader(body), googleapi.ContentType(contentType)).
		Fields("id, name").
		Context(ctx).
		Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return "", fmt.Errorf("drive upload %s: status %d: %s", meta.Name, gerr.Code, gerr.Message)
		}
		return "", fmt.Errorf("drive upload %s: %w", meta.Name, err)
	}
	return fmt.Sprintf("https://drive.google.com/uc?id=%s", f.Id), nil
}
