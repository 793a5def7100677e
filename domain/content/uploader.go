package content

import (
	"context"

	"sf-content-upload/domain/auth"
)

// Uploader defines the content version create operations.
// Each call performs exactly one request; calling twice creates two records.
type Uploader interface {
	// UploadSmallFile sends the data inline as a JSON body
	UploadSmallFile(ctx context.Context, token auth.AccessToken, req SmallFileRequest) (*Record, error)

	// UploadLargeFile streams the file as a multipart body
	UploadLargeFile(ctx context.Context, token auth.AccessToken, req LargeFileRequest) (*Record, error)
}

// FileChecker reports whether a local file can be streamed
type FileChecker interface {
	Exists(path string) bool
}
