package wildfire

import (
	"crypto/tls"
	"io"
	"net/http"
	"time"
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	host       string
	plainHTTP  bool
	apiKey     string
	agent      string
	httpClient *http.Client
	timeout    time.Duration
	timeoutSet bool
	tlsConfig  *tls.Config
	userAgent  string
	random     io.Reader
}

// WithHost sets the WildFire host name, for example a WildFire appliance.
func WithHost(host string) ClientOption {
	return func(c *clientConfig) {
		c.host = host
	}
}

// WithHTTP selects plain http instead of https.
func WithHTTP() ClientOption {
	return func(c *clientConfig) {
		c.plainHTTP = true
	}
}

// WithAPIKey sets the WildFire API key.
func WithAPIKey(apiKey string) ClientOption {
	return func(c *clientConfig) {
		c.apiKey = apiKey
	}
}

// WithAgent sets the agent string sent with every API call.
func WithAgent(agent string) ClientOption {
	return func(c *clientConfig) {
		c.agent = agent
	}
}

// WithHTTPClient sets a custom HTTP client.
// Neither WithTimeout nor WithTLSConfig can be combined with it; configure
// the client directly instead.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout bounds each exchange, including reading the response body.
// There is no timeout by default.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = d
		c.timeoutSet = true
	}
}

// WithTLSConfig sets trust roots and an optional client certificate.
// Without it the platform roots are used.
func WithTLSConfig(cfg *tls.Config) ClientOption {
	return func(c *clientConfig) {
		c.tlsConfig = cfg
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithRandom sets the randomness source for multipart boundaries.
// Intended for tests that need reproducible request bodies.
func WithRandom(r io.Reader) ClientOption {
	return func(c *clientConfig) {
		c.random = r
	}
}

// RequestOption configures individual API requests.
type RequestOption func(*requestConfig)

type requestConfig struct {
	headers http.Header
}

func newRequestConfig() *requestConfig {
	return &requestConfig{
		headers: make(http.Header),
	}
}

func (r *requestConfig) apply(opts ...RequestOption) {
	for _, opt := range opts {
		opt(r)
	}
}

// WithHeader adds a custom header to a request.
func WithHeader(key, value string) RequestOption {
	return func(r *requestConfig) {
		r.headers.Set(key, value)
	}
}

// WithHeaders adds multiple custom headers to a request.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *requestConfig) {
		for k, v := range headers {
			r.headers.Set(k, v)
		}
	}
}

// WithRequestID sets the X-Request-ID header for tracing.
func WithRequestID(id string) RequestOption {
	return WithHeader("X-Request-ID", id)
}
