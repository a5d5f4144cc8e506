// Package storage defines the vault file-system abstraction.
package storage

import "github.com/starford/ansuz/internal/models"

// Provider is the read surface over a vault directory tree.
type Provider interface {
	// Root returns the absolute path of the vault root.
	Root() string
	// ListNotes returns metadata for every .md file under the vault root,
	// in directory traversal order.
	ListNotes() ([]models.FileMetadata, error)
	// ListMedia returns metadata for every media file under the vault root,
	// in directory traversal order.
	ListMedia() ([]models.FileMetadata, error)
	// Read returns the raw bytes of the file at path (relative to the root).
	Read(path string) ([]byte, error)
}
