package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"sf-content-upload/domain/auth"
)

type stubAuthenticator struct {
	token auth.AccessToken
	err   error
	got   auth.Credentials
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, creds auth.Credentials) (auth.AccessToken, error) {
	s.got = creds
	return s.token, s.err
}

func TestRunTokenWithDependencies(t *testing.T) {
	stub := &stubAuthenticator{token: auth.AccessToken{
		Value:       "00D5e000000abcd!AQcAQH0dMHZfz972Szmpkb58urFRkgeBGsxL",
		TokenType:   "Bearer",
		InstanceURL: "https://acme.my.salesforce.com",
		IssuedAt:    time.UnixMilli(1700000000000),
	}}
	creds := auth.Credentials{Instance: "acme.my.salesforce.com", Username: "integration@acme.com"}

	var out bytes.Buffer
	if err := RunTokenWithDependencies(context.Background(), stub, creds, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stub.got != creds {
		t.Errorf("credentials not passed through: got %+v", stub.got)
	}
	got := out.String()
	for _, want := range []string{"Authenticated.", "00D5...[REDACTED", "https://acme.my.salesforce.com", "2023-11-14T22:13:20Z"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, stub.token.Value) {
		t.Errorf("output leaks the full token:\n%s", got)
	}
}

func TestRunTokenWithDependencies_Error(t *testing.T) {
	stub := &stubAuthenticator{err: errors.New("bad creds")}

	var out bytes.Buffer
	err := RunTokenWithDependencies(context.Background(), stub, auth.Credentials{}, &out)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "bad creds") {
		t.Errorf("error = %v, want it to contain 'bad creds'", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestVersionData(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		encode bool
		want   string
	}{
		{name: "literal", data: "This is my data.", want: "This is my data."},
		{name: "base64", data: "This is my data.", encode: true, want: "VGhpcyBpcyBteSBkYXRhLg=="},
		{name: "empty base64", data: "", encode: true, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := versionData(tt.data, tt.encode); got != tt.want {
				t.Errorf("versionData(%q, %v) = %q, want %q", tt.data, tt.encode, got, tt.want)
			}
		})
	}
}
