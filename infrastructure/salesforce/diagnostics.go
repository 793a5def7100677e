package salesforce

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/redactwriter"
)

// debugDump logs data at debug level with every secret replaced
func debugDump(logger log.Logger, label string, data []byte, secrets []string) {
	var nonEmpty []string
	for _, s := range secrets {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}

	if len(nonEmpty) == 0 {
		logger.Debugf("%s: %s", label, string(data))
		return
	}

	var buf bytes.Buffer
	w := redactwriter.New(nonEmpty, &buf, logger)
	if _, err := w.Write(data); err != nil {
		logger.Warnf("%s: failed to redact: %s", label, err)
		return
	}
	if err := w.Close(); err != nil {
		logger.Warnf("%s: failed to redact: %s", label, err)
		return
	}
	logger.Debugf("%s: %s", label, buf.String())
}

// requestHead renders the request line and headers without touching the body.
// The body may be a file stream of any size.
func requestHead(req *http.Request) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s %s\r\n", req.Method, req.URL.RequestURI(), req.Proto)
	fmt.Fprintf(&buf, "Host: %s\r\n", req.URL.Host)
	if req.ContentLength > 0 {
		fmt.Fprintf(&buf, "Content-Length: %d\r\n", req.ContentLength)
	}
	_ = req.Header.Write(&buf)
	return buf.Bytes()
}

// recordedExchange is the status and body of the last response seen by an exchangeRecorder
type recordedExchange struct {
	statusCode int
	body       []byte
}

// exchangeRecorder keeps a copy of the response body so callers can inspect it
// after a library has consumed and discarded it
type exchangeRecorder struct {
	next http.RoundTripper
	last *recordedExchange
}

func newExchangeRecorder(next http.RoundTripper) *exchangeRecorder {
	if next == nil {
		next = http.DefaultTransport
	}
	return &exchangeRecorder{next: next}
}

// RoundTrip implements http.RoundTripper
func (r *exchangeRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := r.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	r.last = &recordedExchange{
		statusCode: resp.StatusCode,
		body:       body,
	}
	return resp, nil
}
