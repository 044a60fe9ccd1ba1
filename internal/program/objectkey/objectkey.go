// Package objectkey builds object store keys for uploaded program files.
package objectkey

import (
	"path"

	"github.com/google/uuid"
)

const (
	// VideoPrefix is the key prefix for guide videos.
	VideoPrefix = "video"
	// JSONPrefix is the key prefix for JSON metadata files.
	JSONPrefix = "json"
)

// NewID returns a random identifier shared by the files of one upload.
// It avoids name collisions and carries no ordering or security meaning.
func NewID() string {
	return uuid.NewString()
}

// FileName prefixes the base of originalName with id: <id>_<name>.
func FileName(id, originalName string) string {
	return id + "_" + path.Base(originalName)
}

// Key joins a prefix and a file name: <prefix>/<fileName>.
func Key(prefix, fileName string) string {
	return prefix + "/" + fileName
}
