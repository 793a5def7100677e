package salesforce

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionDataEnvelope(t *testing.T) {
	metadata := []byte(`{"Title":"report","PathOnClient":"report.pdf"}`)
	data := []byte("%PDF-1.4\x00\x01binary")

	envelope, err := newVersionDataEnvelope(metadata, `we"ird.pdf`)
	require.NoError(t, err)

	body, err := io.ReadAll(envelope.Reader(bytes.NewReader(data)))
	require.NoError(t, err)
	assert.Equal(t, envelope.Length(int64(len(data))), int64(len(body)))

	mediaType, params, err := mime.ParseMediaType(envelope.ContentType())
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])

	part, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, entityContentPart, part.FormName())
	assert.Equal(t, "application/json", part.Header.Get("Content-Type"))
	got, err := io.ReadAll(part)
	require.NoError(t, err)
	assert.Equal(t, metadata, got)

	part, err = reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, versionDataPart, part.FormName())
	assert.Equal(t, `we"ird.pdf`, part.FileName())
	assert.Equal(t, "application/octet-stream", part.Header.Get("Content-Type"))
	got, err = io.ReadAll(part)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = reader.NextPart()
	assert.Equal(t, io.EOF, err)
}

func TestVersionDataEnvelope_EmptyFile(t *testing.T) {
	envelope, err := newVersionDataEnvelope([]byte(`{}`), "empty.txt")
	require.NoError(t, err)

	body, err := io.ReadAll(envelope.Reader(strings.NewReader("")))
	require.NoError(t, err)
	assert.Equal(t, envelope.Length(0), int64(len(body)))
}
