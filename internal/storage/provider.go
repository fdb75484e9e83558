// Package storage defines the vault file-system abstraction.
package storage

import "time"

// FileInfo describes a Markdown file found in the vault.
type FileInfo struct {
	Path      string // relative to the vault root, forward slashes
	Checksum  string
	UpdatedAt time.Time
}

// Provider is the interface for vault file operations.
type Provider interface {
	// List returns every .md file under dir (relative to the root), sorted by path.
	List(dir string) ([]FileInfo, error)
	// Read returns the raw bytes of the file at path (relative to the root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the root).
	Write(path string, content []byte) error
}
