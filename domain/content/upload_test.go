package content

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDefaultTitle(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "strips extension", path: "200MB-TESTFILE.pdf", want: "200MB-TESTFILE"},
		{name: "keeps directories", path: "docs/report.final.pdf", want: "docs/report.final"},
		{name: "relative dot path", path: "./notes.txt", want: "./notes"},
		{name: "no extension", path: "README", want: "README"},
		{name: "only the last extension", path: "backup.tar.gz", want: "backup.tar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultTitle(tt.path); got != tt.want {
				t.Errorf("DefaultTitle(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestLargeFileRequest_Metadata(t *testing.T) {
	tests := []struct {
		name      string
		req       LargeFileRequest
		wantTitle string
	}{
		{
			name:      "uses supplied name",
			req:       LargeFileRequest{FilePath: "200MB-TESTFILE.pdf", FileName: "200MB TESTFILE"},
			wantTitle: "200MB TESTFILE",
		},
		{
			name:      "falls back to path without extension",
			req:       LargeFileRequest{FilePath: "200MB-TESTFILE.pdf"},
			wantTitle: "200MB-TESTFILE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := tt.req.Metadata()
			if meta.Title != tt.wantTitle {
				t.Errorf("expected Title %q, got %q", tt.wantTitle, meta.Title)
			}
			if meta.PathOnClient != tt.req.FilePath {
				t.Errorf("expected PathOnClient %q, got %q", tt.req.FilePath, meta.PathOnClient)
			}
		})
	}
}

func TestMetadata_OmitsEmptyDescription(t *testing.T) {
	data, err := json.Marshal(LargeFileRequest{FilePath: "a.pdf"}.Metadata())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(data), "Description") {
		t.Errorf("expected no Description field, got %s", data)
	}

	data, err = json.Marshal(LargeFileRequest{FilePath: "a.pdf", Description: "quarterly"}.Metadata())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), `"Description":"quarterly"`) {
		t.Errorf("expected Description field, got %s", data)
	}
}

func TestSmallFileRequest_Body(t *testing.T) {
	req := SmallFileRequest{
		FilePath: "put_it_here.txt",
		FileName: "Test File",
		Data:     "This is my data.",
	}

	data, err := json.Marshal(req.Body())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"Title":"Test File","VersionData":"This is my data.","PathOnClient":"put_it_here.txt"}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}

func TestRecord_Messages(t *testing.T) {
	r := &Record{Errors: []RecordError{{Message: "first"}, {Message: "second"}}}
	if got := r.Messages(); got != "first; second" {
		t.Errorf("expected joined messages, got %q", got)
	}
	if got := (&Record{}).Messages(); got != "" {
		t.Errorf("expected empty messages, got %q", got)
	}
}

func TestContentVersionURL(t *testing.T) {
	want := "https://acme.my.salesforce.com/services/data/v59.0/sobjects/ContentVersion"
	if got := ContentVersionURL("acme.my.salesforce.com", "59.0"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
