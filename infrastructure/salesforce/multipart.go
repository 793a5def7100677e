package salesforce

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

const (
	entityContentPart = "entity_content"
	versionDataPart   = "VersionData"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// versionDataEnvelope holds the multipart framing around the file bytes.
// The framing is rendered up front so the body length is known without
// buffering the file.
type versionDataEnvelope struct {
	prefix      []byte
	suffix      []byte
	contentType string
}

// newVersionDataEnvelope renders the entity_content part and the header of the
// VersionData part, plus the closing boundary
func newVersionDataEnvelope(metadata []byte, fileName string) (*versionDataEnvelope, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, entityContentPart))
	h.Set("Content-Type", "application/json")
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s part: %w", entityContentPart, err)
	}
	if _, err := part.Write(metadata); err != nil {
		return nil, fmt.Errorf("failed to write %s part: %w", entityContentPart, err)
	}

	h = make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, versionDataPart, quoteEscaper.Replace(fileName)))
	h.Set("Content-Type", "application/octet-stream")
	if _, err := mw.CreatePart(h); err != nil {
		return nil, fmt.Errorf("failed to create %s part: %w", versionDataPart, err)
	}

	prefix := append([]byte(nil), buf.Bytes()...)
	buf.Reset()

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	return &versionDataEnvelope{
		prefix:      prefix,
		suffix:      append([]byte(nil), buf.Bytes()...),
		contentType: mw.FormDataContentType(),
	}, nil
}

// Reader returns the complete body with data between the framing
func (e *versionDataEnvelope) Reader(data io.Reader) io.Reader {
	return io.MultiReader(bytes.NewReader(e.prefix), data, bytes.NewReader(e.suffix))
}

// Length returns the body length for a file of the given size
func (e *versionDataEnvelope) Length(size int64) int64 {
	return int64(len(e.prefix)) + size + int64(len(e.suffix))
}

// ContentType returns the multipart/form-data content type including the generated boundary
func (e *versionDataEnvelope) ContentType() string {
	return e.contentType
}
