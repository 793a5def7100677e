package auth

import "context"

// Credentials holds everything needed for a password-grant token exchange
type Credentials struct {
	Instance       string // Instance host, e.g. "acme.my.salesforce.com"
	APIVersion     string // REST API version, e.g. "59.0"
	ConsumerKey    string // Connected app client ID
	ConsumerSecret string // Connected app client secret
	Username       string
	Password       string
	SecurityToken  string // Appended to the password for the grant
}

// GrantPassword returns the password as the token endpoint expects it:
// the account password immediately followed by the security token
func (c Credentials) GrantPassword() string {
	return c.Password + c.SecurityToken
}

// Secrets returns the non-empty secret values, for redacting diagnostic output
func (c Credentials) Secrets() []string {
	var secrets []string
	for _, s := range []string{c.ConsumerSecret, c.Password, c.SecurityToken, c.GrantPassword()} {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	return secrets
}

// Authenticator exchanges credentials for an access token
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (AccessToken, error)
}
