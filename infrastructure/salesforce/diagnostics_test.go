package salesforce

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeRecorder_KeepsBodyReadable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = io.WriteString(w, `{"error_description":"short and stout"}`)
	}))
	defer server.Close()

	recorder := newExchangeRecorder(server.Client().Transport)
	client := &http.Client{Transport: recorder}

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"error_description":"short and stout"}`, string(body))

	require.NotNil(t, recorder.last)
	assert.Equal(t, http.StatusTeapot, recorder.last.statusCode)
	assert.Equal(t, body, recorder.last.body)
}

func TestExchangeRecorder_TransportFailureRecordsNothing(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	recorder := newExchangeRecorder(nil)
	_, err := (&http.Client{Transport: recorder}).Get(url)
	require.Error(t, err)
	assert.Nil(t, recorder.last)
}

func TestRequestHead_LeavesBodyUnread(t *testing.T) {
	body := &countingReader{}
	req, err := http.NewRequest(http.MethodPost, "https://acme.my.salesforce.com/services/data/v59.0/sobjects/ContentVersion", body)
	require.NoError(t, err)
	req.ContentLength = 1 << 30
	req.Header.Set("Authorization", "Bearer secret")

	head := string(requestHead(req))
	assert.Contains(t, head, "POST /services/data/v59.0/sobjects/ContentVersion HTTP/1.1\r\n")
	assert.Contains(t, head, "Host: acme.my.salesforce.com\r\n")
	assert.Contains(t, head, "Content-Length: 1073741824\r\n")
	assert.Contains(t, head, "Authorization: Bearer secret\r\n")
	assert.Zero(t, body.reads)
}

type countingReader struct {
	reads int
}

func (r *countingReader) Read(p []byte) (int, error) {
	r.reads++
	return 0, io.EOF
}
