package auth_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/go-wildfire/internal/auth"
)

func TestCredentials_Apply(t *testing.T) {
	t.Run("key only", func(t *testing.T) {
		q := url.Values{}
		(&auth.Credentials{APIKey: "k"}).Apply(q.Set)
		assert.Equal(t, "apikey=k", q.Encode())
	})

	t.Run("key and agent", func(t *testing.T) {
		q := url.Values{}
		(&auth.Credentials{APIKey: "k", Agent: "pan-go"}).Apply(q.Set)
		assert.Equal(t, "agent=pan-go&apikey=k", q.Encode())
	})

	t.Run("nil credentials", func(t *testing.T) {
		q := url.Values{}
		var c *auth.Credentials
		c.Apply(q.Set)
		assert.Empty(t, q)
	})
}

func TestCredentials_Valid(t *testing.T) {
	assert.True(t, (&auth.Credentials{APIKey: "k"}).Valid())
	assert.False(t, (&auth.Credentials{}).Valid())
	assert.False(t, (*auth.Credentials)(nil).Valid())
}

func TestCredentials_String(t *testing.T) {
	s := (&auth.Credentials{APIKey: "secret", Agent: "a"}).String()
	assert.NotContains(t, s, "secret")
	assert.Contains(t, s, "******")
}
