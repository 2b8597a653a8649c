// Package storage persists user-uploaded avatar images.
//
// Avatars are written to a local directory and served back as static
// files. Filenames are derived from the owning user id plus a random
// suffix so a re-upload never collides with a file still being served.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("storage: unsupported content type")
	ErrTooLarge        = errors.New("storage: file too large")
)

// MaxAvatarSize is the largest accepted avatar upload, in bytes.
const MaxAvatarSize = 2 << 20 // 2 MiB

// extensions maps accepted content types to file extensions.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// AvatarStore saves avatar images and reports their public URLs.
type AvatarStore interface {
	Save(ownerID, contentType string, r io.Reader) (url string, err error)
	Remove(url string) error
}

// Disk stores avatars on the local filesystem.
type Disk struct {
	root    string
	baseURL string
}

// NewDisk creates a disk store rooted at dir. Files saved under dir are
// addressable at baseURL/<filename>.
func NewDisk(dir, baseURL string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create avatar directory: %w", err)
	}
	return &Disk{root: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save writes the avatar to disk and returns its public URL.
func (d *Disk) Save(ownerID, contentType string, r io.Reader) (string, error) {
	ext, ok := extensions[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}

	// Owner ids look like "user:abc123"; keep only filename-safe characters
	name := sanitize(ownerID) + "-" + uuid.New().String() + ext
	path := filepath.Join(d.root, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create avatar file: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(r, MaxAvatarSize+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write avatar file: %w", err)
	}
	if written > MaxAvatarSize {
		_ = os.Remove(path)
		return "", ErrTooLarge
	}

	return d.baseURL + "/" + name, nil
}

// Remove deletes the file behind a previously returned URL. Unknown URLs
// are ignored so profile updates never fail on a missing old avatar.
func (d *Disk) Remove(url string) error {
	if !strings.HasPrefix(url, d.baseURL+"/") {
		return nil
	}

	name := strings.TrimPrefix(url, d.baseURL+"/")
	if name == "" || name != filepath.Base(name) {
		return nil
	}

	err := os.Remove(filepath.Join(d.root, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove avatar file: %w", err)
	}
	return nil
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
