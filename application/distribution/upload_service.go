package distribution

import (
	"context"
	"fmt"
	"io"

	"sf-content-upload/domain/auth"
	"sf-content-upload/domain/content"
)

// UploadService authenticates once and creates exactly one content version
type UploadService struct {
	authenticator auth.Authenticator
	uploader      content.Uploader
	fileChecker   content.FileChecker
	output        io.Writer
}

// NewUploadService creates a new upload service
func NewUploadService(authenticator auth.Authenticator, uploader content.Uploader, fileChecker content.FileChecker, output io.Writer) *UploadService {
	if output == nil {
		output = io.Discard
	}
	return &UploadService{
		authenticator: authenticator,
		uploader:      uploader,
		fileChecker:   fileChecker,
		output:        output,
	}
}

// Authenticate obtains an access token for the credentials
func (s *UploadService) Authenticate(ctx context.Context, creds auth.Credentials) (auth.AccessToken, error) {
	token, err := s.authenticator.Authenticate(ctx, creds)
	if err != nil {
		return auth.AccessToken{}, fmt.Errorf("authentication failed: %w", err)
	}
	return token, nil
}

// UploadSmallFile authenticates and sends the inline data as one JSON request
func (s *UploadService) UploadSmallFile(ctx context.Context, creds auth.Credentials, req content.SmallFileRequest) (*content.Record, error) {
	token, err := s.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(s.output, "Uploading %q to %s...\n", req.FileName, req.URL)
	record, err := s.uploader.UploadSmallFile(ctx, token, req)
	if err != nil {
		return nil, fmt.Errorf("small file upload failed: %w", err)
	}

	s.report(record)
	return record, nil
}

// UploadLargeFile authenticates and streams the file as one multipart request.
// A missing file fails before the token request.
func (s *UploadService) UploadLargeFile(ctx context.Context, creds auth.Credentials, req content.LargeFileRequest) (*content.Record, error) {
	if !s.fileChecker.Exists(req.FilePath) {
		return nil, fmt.Errorf("source file does not exist: %s", req.FilePath)
	}

	token, err := s.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(s.output, "Uploading %s to %s...\n", req.FilePath, req.URL)
	record, err := s.uploader.UploadLargeFile(ctx, token, req)
	if err != nil {
		return nil, fmt.Errorf("large file upload failed: %w", err)
	}

	s.report(record)
	return record, nil
}

func (s *UploadService) report(record *content.Record) {
	fmt.Fprintf(s.output, "Upload complete!\n")
	if record.ID != "" {
		fmt.Fprintf(s.output, "  ContentVersion ID: %s\n", record.ID)
	}
	if msgs := record.Messages(); msgs != "" {
		fmt.Fprintf(s.output, "  Warnings: %s\n", msgs)
	}
}
