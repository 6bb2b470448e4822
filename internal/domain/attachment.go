package domain

import "time"

// Attachment stores file metadata plus the opaque storage handle. The binary
// payload itself lives behind the blob store.
type Attachment struct {
	ID         string
	FileName   string
	SizeBytes  int64
	MimeType   string
	StorageKey string
	URL        string
	UploadedAt time.Time
}
