package content

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// SmallFileTimeout bounds a single JSON upload, which carries the whole payload inline
const SmallFileTimeout = 600 * time.Second

// ContentVersionURL builds the sobjects endpoint for an instance and API version
func ContentVersionURL(instance, apiVersion string) string {
	return fmt.Sprintf("https://%s/services/data/v%s/sobjects/ContentVersion", instance, apiVersion)
}

// SmallFileRequest creates a content version from an inline data string
type SmallFileRequest struct {
	URL      string // ContentVersion endpoint
	FilePath string // Sent as PathOnClient; never read from disk
	FileName string // Sent as Title
	Data     string // Sent verbatim as VersionData
}

// Body returns the JSON document for the request
func (r SmallFileRequest) Body() SmallFileBody {
	return SmallFileBody{
		Title:        r.FileName,
		VersionData:  r.Data,
		PathOnClient: r.FilePath,
	}
}

// SmallFileBody is the JSON body of a small-file upload
type SmallFileBody struct {
	Title        string `json:"Title"`
	VersionData  string `json:"VersionData"`
	PathOnClient string `json:"PathOnClient"`
}

// LargeFileRequest creates a content version from the bytes of a local file
type LargeFileRequest struct {
	URL         string // ContentVersion endpoint
	FilePath    string // Local file to stream
	FileName    string // Optional; defaults to FilePath without its extension
	Description string // Optional
}

// Metadata returns the entity_content part for the request
func (r LargeFileRequest) Metadata() Metadata {
	title := r.FileName
	if title == "" {
		title = DefaultTitle(r.FilePath)
	}
	return Metadata{
		Title:        title,
		Description:  r.Description,
		PathOnClient: r.FilePath,
	}
}

// Metadata is the JSON entity_content part of a multipart upload
type Metadata struct {
	Title        string `json:"Title"`
	Description  string `json:"Description,omitempty"`
	PathOnClient string `json:"PathOnClient"`
}

// DefaultTitle derives a title from a file path by stripping its extension
func DefaultTitle(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
