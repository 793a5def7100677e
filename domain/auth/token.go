package auth

import (
	"fmt"
	"time"
)

// AccessToken is the bearer credential returned by the token endpoint.
// It is only ever held in memory and passed by value.
type AccessToken struct {
	Value       string
	TokenType   string
	InstanceURL string
	IssuedAt    time.Time
}

// AuthorizationHeader returns the value for the Authorization request header
func (t AccessToken) AuthorizationHeader() string {
	return "Bearer " + t.Value
}

// String implements fmt.Stringer without exposing the token
func (t AccessToken) String() string {
	return Redact(t.Value)
}

// Redact masks a secret, keeping a short prefix so tokens can be told apart in logs
func Redact(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 8:
		return "[REDACTED]"
	default:
		return fmt.Sprintf("%s...[REDACTED %d chars]", secret[:4], len(secret))
	}
}
