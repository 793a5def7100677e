package salesforce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"sf-content-upload/domain/auth"
	"sf-content-upload/domain/content"
	"sf-content-upload/domain/remote"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/docker/go-units"
)

const opUpload = "upload data to ContentVersion"

// Client implements content.Uploader against the ContentVersion REST resource
type Client struct {
	httpClient *http.Client
	logger     log.Logger
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for uploads
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewClient creates a new ContentVersion client
func NewClient(logger log.Logger, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		logger:     logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// UploadSmallFile implements content.Uploader
func (c *Client) UploadSmallFile(ctx context.Context, token auth.AccessToken, req content.SmallFileRequest) (*content.Record, error) {
	body, err := json.Marshal(req.Body())
	if err != nil {
		return nil, fmt.Errorf("failed to encode upload body: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, content.SmallFileTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	return c.perform(httpReq, token)
}

// UploadLargeFile implements content.Uploader.
// The file is streamed; it is never held in memory as a whole.
func (c *Client) UploadLargeFile(ctx context.Context, token auth.AccessToken, req content.LargeFileRequest) (*content.Record, error) {
	file, err := os.Open(req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", req.FilePath, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			c.logger.Warnf("Failed to close %s: %s", req.FilePath, err)
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info for %s: %w", req.FilePath, err)
	}
	c.logger.Printf("Size of file: %d bytes (%s)", info.Size(), units.BytesSize(float64(info.Size())))

	metadata, err := json.Marshal(req.Metadata())
	if err != nil {
		return nil, fmt.Errorf("failed to encode entity content: %w", err)
	}
	c.logger.Debugf("Entity content: %s", metadata)

	envelope, err := newVersionDataEnvelope(metadata, filepath.Base(req.FilePath))
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, envelope.Reader(file))
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	httpReq.ContentLength = envelope.Length(info.Size())
	httpReq.Header.Set("Content-Type", envelope.ContentType())
	httpReq.Header.Set("Accept", "*/*")

	return c.perform(httpReq, token)
}

// perform sends an authorized create request and accepts only 200 and 201
func (c *Client) perform(req *http.Request, token auth.AccessToken) (*content.Record, error) {
	req.Header.Set("Authorization", token.AuthorizationHeader())
	secrets := []string{token.Value}

	debugDump(c.logger, "Request", requestHead(req), secrets)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		uploadErr := &remote.TransportError{Op: opUpload, Err: err}
		c.logger.Errorf("%s", uploadErr)
		return nil, uploadErr
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warnf("Failed to close response body: %s", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		uploadErr := &remote.TransportError{Op: opUpload, Err: err}
		c.logger.Errorf("%s", uploadErr)
		return nil, uploadErr
	}
	debugDump(c.logger, "Response", body, secrets)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		uploadErr := &remote.HTTPStatusError{
			Op:         opUpload,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
		c.logger.Errorf("%s", uploadErr)
		return nil, uploadErr
	}

	record := &content.Record{}
	if err := json.Unmarshal(body, record); err != nil {
		c.logger.Warnf("Upload accepted but response could not be parsed: %s", err)
		return record, nil
	}

	c.logger.Donef("Upload successful, record ID: %s", record.ID)
	return record, nil
}

// Ensure Client implements content.Uploader
var _ content.Uploader = (*Client)(nil)
