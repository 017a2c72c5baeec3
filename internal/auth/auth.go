// Package auth provides WildFire API key authentication.
package auth

import "fmt"

// Credentials holds the WildFire API key and the optional agent string
// reported to the service.
type Credentials struct {
	APIKey string
	Agent  string
}

// Apply adds the authentication parameters through add. WildFire expects the
// key as a request parameter, so add is backed by either a query string or a
// multipart form.
func (c *Credentials) Apply(add func(name, value string)) {
	if c == nil {
		return
	}
	add("apikey", c.APIKey)
	if c.Agent != "" {
		add("agent", c.Agent)
	}
}

// Valid reports whether an API key is configured.
func (c *Credentials) Valid() bool {
	return c != nil && c.APIKey != ""
}

// String masks the API key.
func (c *Credentials) String() string {
	if c == nil {
		return "<nil>"
	}
	key := ""
	if c.APIKey != "" {
		key = "******"
	}
	return fmt.Sprintf("api_key: %s agent: %s", key, c.Agent)
}
