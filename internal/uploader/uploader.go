// Package uploader streams categorized document buffers to external storage
// and reports the resulting URLs.
package uploader

import (
	"context"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/reclutador/staffing-api/internal/storage"
)

const _maxObjectNameLength = 40

// File is one uploaded buffer with its original client-side filename.
type File struct {
	Name string
	Data []byte
}

// Attachment is the outcome of one stored file.
type Attachment struct {
	Category string
	Path     string
	URL      string
}

type Uploader struct {
	Logger    *slog.Logger
	Storage   storage.Storage
	Namespace string
}

func New(logger *slog.Logger, store storage.Storage, namespace string) *Uploader {
	return &Uploader{
		Logger:    logger.With("module", "uploader"),
		Storage:   store,
		Namespace: namespace,
	}
}

// UploadAll stores every file under {namespace}/{ownerKey}/{category},
// walking categories in the given order and files in their original order.
// Repeated filenames within a category get a numeric suffix so a later file
// never overwrites an earlier one. The first failed upload aborts the whole
// set; the attachments stored so far are still returned so the caller can
// sweep them after rolling back.
func (u *Uploader) UploadAll(ctx context.Context, ownerKey string, categories []string, files map[string][]File) ([]Attachment, error) {
	logger := u.Logger.With("ownerKey", ownerKey)

	stored := []Attachment{}
	seen := map[string]int{}
	for _, category := range categories {
		for _, file := range files[category] {
			name := ObjectName(file.Name)

			key := category + "/" + name
			seen[key]++
			if n := seen[key]; n > 1 {
				name += "-" + strconv.Itoa(n)
			}

			path := u.Namespace + "/" + ownerKey + "/" + category + "/" + name
			contentType := mimetype.Detect(file.Data).String()

			url, err := u.Storage.Save(ctx, path, contentType, file.Data)
			if err != nil {
				logger.Warn("failed upload", "category", category, "file", file.Name, "error", err)
				return stored, err
			}

			logger.Debug("uploaded file", "category", category, "path", path, "size", len(file.Data))

			stored = append(stored, Attachment{Category: category, Path: path, URL: url})
		}
	}

	return stored, nil
}

// Sweep best-effort deletes previously stored attachments. Called after the
// enclosing transaction rolled back so no orphaned objects stay behind.
func (u *Uploader) Sweep(ctx context.Context, stored []Attachment) {
	for _, att := range stored {
		if err := u.Storage.Remove(ctx, att.Path); err != nil {
			u.Logger.Warn("failed sweep", "path", att.Path, "error", err)
		}
	}
}

// ObjectName sanitizes an original filename into a storage object name:
// directory part and extension stripped, unsafe runes collapsed, length
// capped. Falls back to a random name when nothing survives.
func ObjectName(original string) string {
	name := filepath.Base(original)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	name = strings.Trim(b.String(), "_")
	if len(name) > _maxObjectNameLength {
		name = name[:_maxObjectNameLength]
	}
	if name == "" {
		name = uuid.NewString()
	}

	return name
}
