// Package wildfire provides a Go client for the Palo Alto Networks WildFire API.
//
// Basic usage:
//
//	client, err := wildfire.NewClient(
//	    wildfire.WithAPIKey(apiKey),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := client.Verdict(ctx, &wildfire.VerdictRequest{Hash: sha256})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.XMLString())
package wildfire

import (
	"context"
	"net/http"

	"github.com/golang/glog"
	"github.com/tphakala/go-wildfire/internal/api"
	"github.com/tphakala/go-wildfire/internal/auth"
)

// DefaultHost is the WildFire public cloud.
const DefaultHost = "wildfire.paloaltonetworks.com"

// Client is the WildFire API client. It keeps no per-call state, so one
// Client may serve concurrent calls.
type Client struct {
	transport *api.Transport
	creds     *auth.Credentials
	cfg       *clientConfig
}

var _ API = (*Client)(nil)

// NewClient creates a new WildFire client with the given options.
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := &clientConfig{
		host: DefaultHost,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	creds := &auth.Credentials{
		APIKey: cfg.apiKey,
		Agent:  cfg.agent,
	}
	if !creds.Valid() {
		return nil, &ConfigError{Err: ErrNoAPIKey}
	}

	if cfg.timeoutSet && cfg.timeout <= 0 {
		return nil, &ConfigError{Err: ErrInvalidTimeout, Detail: cfg.timeout.String()}
	}
	if cfg.timeoutSet && cfg.httpClient != nil {
		return nil, &ConfigError{Err: ErrInvalidTimeout, Detail: "custom HTTP client supplied, set its Timeout instead"}
	}

	httpClient, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}

	scheme := "https"
	if cfg.plainHTTP {
		scheme = "http"
	}

	transport, err := api.NewTransport(scheme+"://"+cfg.host, httpClient)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	if cfg.userAgent != "" {
		transport.UserAgent = cfg.userAgent
	}

	glog.V(2).Infof("wildfire: client for %s (%s)", transport.BaseURL, creds)

	return &Client{
		transport: transport,
		creds:     creds,
		cfg:       cfg,
	}, nil
}

func newHTTPClient(cfg *clientConfig) (*http.Client, error) {
	if cfg.tlsConfig != nil {
		switch {
		case cfg.plainHTTP:
			return nil, &ConfigError{Err: ErrUnsupportedTLS, Detail: "plain http requested"}
		case cfg.httpClient != nil:
			return nil, &ConfigError{Err: ErrUnsupportedTLS, Detail: "custom HTTP client supplied"}
		}
	}

	if cfg.httpClient != nil {
		return cfg.httpClient, nil
	}

	httpClient := &http.Client{
		Timeout: cfg.timeout,
	}
	if cfg.tlsConfig != nil {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = cfg.tlsConfig
		httpClient.Transport = tr
	}
	return httpClient, nil
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.transport.BaseURL.String()
}

// do performs one exchange and decodes the response.
func (c *Client) do(ctx context.Context, req *api.Request) (*Result, error) {
	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &Result{
		StatusCode: resp.StatusCode,
		Reason:     resp.Reason,
		Header:     resp.Headers,
	}
	classifyErr := classify(result, resp.Headers, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if classifyErr != nil {
			glog.V(2).Infof("wildfire: [%s] error body not decoded: %v", resp.RequestID, classifyErr)
			result = &Result{StatusCode: resp.StatusCode, Reason: resp.Reason, Header: resp.Headers}
		}
		return nil, newServiceError(resp.StatusCode, resp.Reason, result)
	}

	if classifyErr != nil {
		return nil, classifyErr
	}
	return result, nil
}
