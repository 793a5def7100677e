package distribution

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"sf-content-upload/domain/auth"
	"sf-content-upload/domain/content"
)

// --- Mock implementations for testing ---

// mockAuthenticator implements auth.Authenticator for testing
type mockAuthenticator struct {
	token     auth.AccessToken
	failError error
	calls     []auth.Credentials
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, creds auth.Credentials) (auth.AccessToken, error) {
	m.calls = append(m.calls, creds)
	if m.failError != nil {
		return auth.AccessToken{}, m.failError
	}
	return m.token, nil
}

// mockUploader implements content.Uploader for testing
type mockUploader struct {
	record     *content.Record
	failError  error
	smallCalls []content.SmallFileRequest
	largeCalls []content.LargeFileRequest
	seenTokens []auth.AccessToken
}

func (m *mockUploader) UploadSmallFile(ctx context.Context, token auth.AccessToken, req content.SmallFileRequest) (*content.Record, error) {
	m.smallCalls = append(m.smallCalls, req)
	m.seenTokens = append(m.seenTokens, token)
	if m.failError != nil {
		return nil, m.failError
	}
	return m.record, nil
}

func (m *mockUploader) UploadLargeFile(ctx context.Context, token auth.AccessToken, req content.LargeFileRequest) (*content.Record, error) {
	m.largeCalls = append(m.largeCalls, req)
	m.seenTokens = append(m.seenTokens, token)
	if m.failError != nil {
		return nil, m.failError
	}
	return m.record, nil
}

// mockFileChecker implements content.FileChecker for testing
type mockFileChecker struct {
	missing map[string]bool
}

func (m *mockFileChecker) Exists(path string) bool {
	return !m.missing[path]
}

var testCreds = auth.Credentials{Instance: "acme.my.salesforce.com", Username: "integration@acme.com"}

func TestUploadService_UploadSmallFile(t *testing.T) {
	authenticator := &mockAuthenticator{token: auth.AccessToken{Value: "X"}}
	uploader := &mockUploader{record: &content.Record{ID: "0685g00000AbCdEAAA", Success: true}}
	var out bytes.Buffer

	service := NewUploadService(authenticator, uploader, &mockFileChecker{}, &out)
	record, err := service.UploadSmallFile(context.Background(), testCreds, content.SmallFileRequest{
		URL:      "https://acme.my.salesforce.com/services/data/v59.0/sobjects/ContentVersion",
		FilePath: "put_it_here.txt",
		FileName: "Test File",
		Data:     "This is my data.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.ID != "0685g00000AbCdEAAA" {
		t.Errorf("expected record ID, got %q", record.ID)
	}
	if len(authenticator.calls) != 1 {
		t.Errorf("expected 1 authentication, got %d", len(authenticator.calls))
	}
	if len(uploader.smallCalls) != 1 || len(uploader.largeCalls) != 0 {
		t.Errorf("expected exactly one small upload, got %d small and %d large", len(uploader.smallCalls), len(uploader.largeCalls))
	}
	if uploader.seenTokens[0].Value != "X" {
		t.Errorf("expected token from authenticator to be passed, got %q", uploader.seenTokens[0].Value)
	}
	if !strings.Contains(out.String(), "ContentVersion ID: 0685g00000AbCdEAAA") {
		t.Errorf("expected record ID in output, got %q", out.String())
	}
}

func TestUploadService_UploadLargeFile(t *testing.T) {
	authenticator := &mockAuthenticator{token: auth.AccessToken{Value: "X"}}
	uploader := &mockUploader{record: &content.Record{ID: "068", Success: true}}
	var out bytes.Buffer

	service := NewUploadService(authenticator, uploader, &mockFileChecker{}, &out)
	_, err := service.UploadLargeFile(context.Background(), testCreds, content.LargeFileRequest{
		URL:      "https://acme.my.salesforce.com/services/data/v59.0/sobjects/ContentVersion",
		FilePath: "200MB-TESTFILE.pdf",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(uploader.largeCalls) != 1 || len(uploader.smallCalls) != 0 {
		t.Errorf("expected exactly one large upload, got %d large and %d small", len(uploader.largeCalls), len(uploader.smallCalls))
	}
	if !strings.Contains(out.String(), "Upload complete!") {
		t.Errorf("expected completion message, got %q", out.String())
	}
}

func TestUploadService_AuthenticationFailureSkipsUpload(t *testing.T) {
	authErr := errors.New("failed to obtain access token: bad creds")
	authenticator := &mockAuthenticator{failError: authErr}
	uploader := &mockUploader{record: &content.Record{ID: "068"}}

	service := NewUploadService(authenticator, uploader, &mockFileChecker{}, nil)

	_, err := service.UploadSmallFile(context.Background(), testCreds, content.SmallFileRequest{})
	if !errors.Is(err, authErr) {
		t.Errorf("expected wrapped auth error, got %v", err)
	}
	_, err = service.UploadLargeFile(context.Background(), testCreds, content.LargeFileRequest{})
	if !errors.Is(err, authErr) {
		t.Errorf("expected wrapped auth error, got %v", err)
	}

	if len(uploader.smallCalls)+len(uploader.largeCalls) != 0 {
		t.Error("expected no upload after failed authentication")
	}
}

func TestUploadService_UploadFailure(t *testing.T) {
	uploadErr := errors.New("failed to upload data to ContentVersion: status 400: bad")
	service := NewUploadService(
		&mockAuthenticator{token: auth.AccessToken{Value: "X"}},
		&mockUploader{failError: uploadErr},
		&mockFileChecker{},
		nil,
	)

	_, err := service.UploadSmallFile(context.Background(), testCreds, content.SmallFileRequest{})
	if !errors.Is(err, uploadErr) {
		t.Errorf("expected wrapped upload error, got %v", err)
	}
	if !strings.Contains(err.Error(), "small file upload failed") {
		t.Errorf("expected context in error, got %q", err.Error())
	}
}

func TestUploadService_ReportsRecordErrors(t *testing.T) {
	var out bytes.Buffer
	service := NewUploadService(
		&mockAuthenticator{token: auth.AccessToken{Value: "X"}},
		&mockUploader{record: &content.Record{ID: "068", Errors: []content.RecordError{{Message: "duplicate title"}}}},
		&mockFileChecker{},
		&out,
	)

	if _, err := service.UploadLargeFile(context.Background(), testCreds, content.LargeFileRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Warnings: duplicate title") {
		t.Errorf("expected warnings in output, got %q", out.String())
	}
}

func TestUploadService_MissingFileSkipsAuthentication(t *testing.T) {
	authenticator := &mockAuthenticator{token: auth.AccessToken{Value: "X"}}
	uploader := &mockUploader{record: &content.Record{ID: "068"}}
	checker := &mockFileChecker{missing: map[string]bool{"missing.pdf": true}}

	service := NewUploadService(authenticator, uploader, checker, nil)
	_, err := service.UploadLargeFile(context.Background(), testCreds, content.LargeFileRequest{FilePath: "missing.pdf"})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "source file does not exist: missing.pdf") {
		t.Errorf("unexpected error: %v", err)
	}
	if len(authenticator.calls) != 0 {
		t.Errorf("expected no token request, got %d", len(authenticator.calls))
	}
	if len(uploader.largeCalls) != 0 {
		t.Errorf("expected no upload, got %d", len(uploader.largeCalls))
	}
}
