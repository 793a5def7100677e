package salesforce

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sf-content-upload/domain/auth"
	"sf-content-upload/domain/remote"

	"github.com/bitrise-io/go-utils/v2/log"
	"golang.org/x/oauth2"
)

const (
	tokenPath = "/services/oauth2/token"
	opToken   = "obtain access token"

	unknownTokenError = "Unknown error occurred"
)

// Authenticator implements auth.Authenticator with the OAuth 2.0 password grant
type Authenticator struct {
	httpClient *http.Client
	baseURL    string
	logger     log.Logger
}

// AuthenticatorOption is a functional option for configuring Authenticator
type AuthenticatorOption func(*Authenticator)

// WithAuthHTTPClient sets the HTTP client used for the token exchange
func WithAuthHTTPClient(client *http.Client) AuthenticatorOption {
	return func(a *Authenticator) {
		a.httpClient = client
	}
}

// WithBaseURL overrides the https://{instance} base of the token endpoint (for testing)
func WithBaseURL(baseURL string) AuthenticatorOption {
	return func(a *Authenticator) {
		a.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// NewAuthenticator creates a new password-grant authenticator
func NewAuthenticator(logger log.Logger, opts ...AuthenticatorOption) *Authenticator {
	a := &Authenticator{
		httpClient: &http.Client{},
		logger:     logger,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// TokenURL returns the token endpoint for the given credentials
func (a *Authenticator) TokenURL(creds auth.Credentials) string {
	if a.baseURL != "" {
		return a.baseURL + tokenPath
	}
	return "https://" + creds.Instance + tokenPath
}

// Authenticate exchanges the credentials for an access token.
// Credentials are not validated locally; the token endpoint decides.
func (a *Authenticator) Authenticate(ctx context.Context, creds auth.Credentials) (auth.AccessToken, error) {
	tokenURL := a.TokenURL(creds)

	config := &oauth2.Config{
		ClientID:     creds.ConsumerKey,
		ClientSecret: creds.ConsumerSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	// A fresh recorder per call keeps the raw response available after oauth2 has consumed it
	recorder := newExchangeRecorder(a.httpClient.Transport)
	client := &http.Client{
		Transport: recorder,
		Timeout:   a.httpClient.Timeout,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, client)

	a.logger.Printf("Requesting access token from %s", tokenURL)
	tok, err := config.PasswordCredentialsToken(ctx, creds.Username, creds.GrantPassword())

	secrets := creds.Secrets()
	if tok != nil {
		secrets = append(secrets, tok.AccessToken)
	}
	if recorder.last != nil {
		debugDump(a.logger, "Response data", recorder.last.body, secrets)
	}

	if err != nil {
		tokenErr := classifyTokenError(err, recorder.last)
		a.logger.Errorf("%s", tokenErr)
		return auth.AccessToken{}, tokenErr
	}

	token := auth.AccessToken{
		Value:       tok.AccessToken,
		TokenType:   tok.TokenType,
		InstanceURL: extraString(tok, "instance_url"),
		IssuedAt:    parseIssuedAt(extraString(tok, "issued_at")),
	}

	a.logger.Donef("Access token obtained successfully: %s", token)
	return token, nil
}

// classifyTokenError maps a failed exchange onto the remote error taxonomy.
// A non-2xx status wins over any inspection of the body.
func classifyTokenError(err error, exchange *recordedExchange) error {
	if exchange == nil {
		return &remote.TransportError{Op: opToken, Err: err}
	}

	if !remote.IsSuccess(exchange.statusCode) {
		return &remote.HTTPStatusError{
			Op:         opToken,
			StatusCode: exchange.statusCode,
			Body:       string(exchange.body),
		}
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.ErrorDescription != "" {
		return &remote.ProtocolError{Op: opToken, Message: retrieveErr.ErrorDescription}
	}

	return &remote.ProtocolError{Op: opToken, Message: errorDescription(exchange.body)}
}

// errorDescription extracts error_description from a token response body
func errorDescription(body []byte) string {
	var resp struct {
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.ErrorDescription == "" {
		return unknownTokenError
	}
	return resp.ErrorDescription
}

func extraString(tok *oauth2.Token, key string) string {
	v, _ := tok.Extra(key).(string)
	return v
}

// parseIssuedAt parses the issued_at extra, which is milliseconds since the epoch
func parseIssuedAt(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// Ensure Authenticator implements auth.Authenticator
var _ auth.Authenticator = (*Authenticator)(nil)
