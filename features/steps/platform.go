//go:build integration

package steps

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"sf-content-upload/domain/auth"
)

// receivedPart is one decoded part of a multipart upload
type receivedPart struct {
	contentType string
	fileName    string
	data        []byte
}

// receivedUpload is one request seen by the ContentVersion endpoint
type receivedUpload struct {
	contentType string
	json        map[string]string
	parts       map[string]receivedPart
}

// fakePlatform serves the token and ContentVersion endpoints for scenarios
type fakePlatform struct {
	server *httptest.Server

	mu           sync.Mutex
	tokenStatus  int
	tokenBody    string
	uploadStatus int
	uploadBody   string
	tokenForms   []map[string]string
	uploads      []receivedUpload
	nextID       int
}

func newFakePlatform() *fakePlatform {
	p := &fakePlatform{
		tokenStatus: http.StatusOK,
		tokenBody: `{"access_token":"00Dxx0000000001!AQ4AQTokenValue","instance_url":"https://acme.my.salesforce.com",` +
			`"token_type":"Bearer","issued_at":"1700000000000"}`,
		uploadStatus: http.StatusCreated,
		nextID:       1,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/services/oauth2/token", p.handleToken)
	mux.HandleFunc("/services/data/", p.handleUpload)
	p.server = httptest.NewServer(mux)
	return p
}

func (p *fakePlatform) Close() {
	p.server.Close()
}

// URL returns the upload endpoint for the given API version
func (p *fakePlatform) URL(apiVersion string) string {
	return fmt.Sprintf("%s/services/data/v%s/sobjects/ContentVersion", p.server.URL, apiVersion)
}

func (p *fakePlatform) credentials() auth.Credentials {
	return auth.Credentials{
		Instance:       strings.TrimPrefix(p.server.URL, "http://"),
		APIVersion:     "59.0",
		ConsumerKey:    "consumer-key",
		ConsumerSecret: "consumer-secret",
		Username:       "integration@acme.com",
		Password:       "hunter2",
		SecurityToken:  "SECTOKEN",
	}
}

func (p *fakePlatform) handleToken(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := r.ParseForm(); err == nil {
		form := map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		p.tokenForms = append(p.tokenForms, form)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(p.tokenStatus)
	_, _ = io.WriteString(w, p.tokenBody)
}

func (p *fakePlatform) handleUpload(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	upload := receivedUpload{contentType: r.Header.Get("Content-Type")}
	if strings.HasPrefix(upload.contentType, "multipart/") {
		upload.parts = map[string]receivedPart{}
		if mr, err := r.MultipartReader(); err == nil {
			for {
				part, err := mr.NextPart()
				if err != nil {
					break
				}
				data, _ := io.ReadAll(part)
				upload.parts[part.FormName()] = receivedPart{
					contentType: part.Header.Get("Content-Type"),
					fileName:    part.FileName(),
					data:        data,
				}
			}
		}
	} else {
		_ = json.NewDecoder(r.Body).Decode(&upload.json)
	}
	p.uploads = append(p.uploads, upload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(p.uploadStatus)
	if p.uploadBody != "" {
		_, _ = io.WriteString(w, p.uploadBody)
		return
	}
	_, _ = fmt.Fprintf(w, `{"id":"068xx%013d","success":true,"errors":[]}`, p.nextID)
	p.nextID++
}

func (p *fakePlatform) lastUpload() (receivedUpload, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.uploads) == 0 {
		return receivedUpload{}, fmt.Errorf("no upload request was received")
	}
	return p.uploads[len(p.uploads)-1], nil
}

func (p *fakePlatform) uploadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.uploads)
}
