// Package storage persists uploaded files behind a small Disk interface.
// Item photos are the main tenant: local disk in development, an
// S3-compatible bucket (AWS, MinIO, R2, Spaces) in production.
//
//	storage.Connect() // once, at boot
//
//	storage.PutStream("items/42/photo.jpg", file)
//	url := storage.URL("items/42/photo.jpg")
//
//	// a specific disk
//	storage.Use("s3").Delete("items/42/photo.jpg")
package storage

import "io"

// Disk is implemented by every storage driver.
type Disk interface {
	// Put writes content to path, creating parents as needed.
	Put(path string, content []byte) error

	// PutStream writes from r to path.
	PutStream(path string, r io.Reader) error

	// Get returns the full content of the file at path.
	Get(path string) ([]byte, error)

	// GetStream returns a ReadCloser for path. Caller closes it.
	GetStream(path string) (io.ReadCloser, error)

	// Exists reports whether a file exists at path.
	Exists(path string) bool

	// Size returns the byte size of the file at path.
	Size(path string) (int64, error)

	// Delete removes a file. Deleting a missing file is not an error.
	Delete(path string) error

	// URL returns the public URL for path.
	URL(path string) string

	// Files lists the files directly inside directory.
	Files(directory string) ([]string, error)
}
