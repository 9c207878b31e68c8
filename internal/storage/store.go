package storage

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"nameplate/internal/config"
	"nameplate/internal/domain"
)

// Store writes one artifact and returns the location it can be fetched from.
type Store interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// TimestampLayout is the timestamp embedded in object keys, always UTC.
const TimestampLayout = "20060102T150405Z"

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// ObjectKey builds "{prefix}/{refId}-{timestamp}.{ext}". Characters outside
// [A-Za-z0-9_.-] in refID become "_".
func ObjectKey(prefix, refID, ext string, now time.Time) string {
	ref := unsafeKeyChars.ReplaceAllString(refID, "_")
	name := fmt.Sprintf("%s-%s.%s", ref, now.UTC().Format(TimestampLayout), ext)
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// New opens the store selected by storage.driver.
func New(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case "drive":
		if cfg.Storage.CredentialsFile == "" || cfg.Storage.DriveFolderID == "" {
			return nil, fmt.Errorf("%w: drive storage needs credentials_file and drive_folder_id", domain.ErrConfiguration)
		}
		d, err := NewDrive(ctx, cfg.Storage.CredentialsFile, cfg.Storage.DriveFolderID)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "local", "":
		l, err := NewLocal(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	return nil, fmt.Errorf("%w: unknown storage driver %q", domain.ErrConfiguration, cfg.Storage.Driver)
}
