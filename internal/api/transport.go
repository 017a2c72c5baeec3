// Package api provides low-level HTTP transport for WildFire API calls.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"maps"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/google/uuid"
)

const (
	defaultMaxBodySize = 256 * 1024 * 1024 // 256MB, samples and pcaps are returned whole
	defaultUserAgent   = "go-wildfire/1.0"

	headerRequestID = "X-Request-ID"
)

// Transport handles HTTP communication with the WildFire API.
type Transport struct {
	BaseURL     *url.URL
	HTTPClient  *http.Client
	UserAgent   string
	MaxBodySize int64
}

// NewTransport creates a Transport with the given configuration.
func NewTransport(baseURL string, httpClient *http.Client) (*Transport, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL: %q", baseURL)
	}

	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Transport{
		BaseURL:     u,
		HTTPClient:  httpClient,
		UserAgent:   defaultUserAgent,
		MaxBodySize: defaultMaxBodySize,
	}, nil
}

// Request represents an API request. A request with a body is sent as POST,
// one without as GET with Query on the URL.
type Request struct {
	Path    string
	Query   url.Values
	Body    []byte
	Headers http.Header
}

// Method reports the HTTP method the request will use.
func (r *Request) Method() string {
	if len(r.Body) > 0 {
		return http.MethodPost
	}
	return http.MethodGet
}

// Response represents an API response of any status.
type Response struct {
	StatusCode int
	Reason     string
	Body       []byte
	Headers    http.Header
	RequestID  string
}

// Do executes an API request. Non-2xx responses are returned as responses;
// only failures to complete the exchange produce a *TransportError.
func (t *Transport) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := t.buildRequest(ctx, req)
	if err != nil {
		return nil, &TransportError{Kind: KindProtocol, Err: err}
	}
	requestID := httpReq.Header.Get(headerRequestID)

	glog.V(1).Infof("wildfire: [%s] %s %s", requestID, httpReq.Method, redactURL(httpReq.URL))

	httpResp, err := t.HTTPClient.Do(httpReq)
	if err != nil {
		terr := classifyError(err)
		glog.V(1).Infof("wildfire: [%s] %s failed: %v", requestID, terr.Kind, err)
		return nil, terr
	}
	defer func() { _ = httpResp.Body.Close() }()

	limit := t.MaxBodySize
	if limit <= 0 {
		limit = defaultMaxBodySize
	}
	body, err := io.ReadAll(io.LimitReader(httpResp.Body, limit+1))
	if err != nil {
		err = fmt.Errorf("reading response body: %w", err)
		terr := classifyError(err)
		if terr.Kind != KindTimeout && terr.Kind != KindCanceled {
			terr = &TransportError{Kind: KindProtocol, Err: err}
		}
		glog.V(1).Infof("wildfire: [%s] %s failed: %v", requestID, terr.Kind, err)
		return nil, terr
	}
	if int64(len(body)) > limit {
		return nil, &TransportError{
			Kind: KindProtocol,
			Err:  fmt.Errorf("response too large: exceeds %d bytes", limit),
		}
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Reason:     reasonPhrase(httpResp.StatusCode, httpResp.Status),
		Body:       body,
		Headers:    httpResp.Header,
		RequestID:  requestID,
	}

	glog.V(2).Infof("wildfire: [%s] HTTP %d %s content-type=%q length=%d",
		requestID, resp.StatusCode, resp.Reason, resp.Headers.Get("Content-Type"), len(body))

	return resp, nil
}

func (t *Transport) buildRequest(ctx context.Context, req *Request) (*http.Request, error) {
	u := t.BaseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var bodyReader io.Reader
	if len(req.Body) > 0 {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method(), u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("User-Agent", t.UserAgent)
	maps.Copy(httpReq.Header, req.Headers)

	if httpReq.Header.Get(headerRequestID) == "" {
		httpReq.Header.Set(headerRequestID, uuid.NewString())
	}

	return httpReq, nil
}

// reasonPhrase extracts the reason from a status line such as "418 " and
// falls back to StatusText when the server sent none.
func reasonPhrase(code int, status string) string {
	reason := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	if reason != "" {
		return reason
	}
	return StatusText(code)
}

// redactURL hides the API key carried in query strings.
func redactURL(u *url.URL) string {
	q := u.Query()
	if q.Has("apikey") {
		q.Set("apikey", "******")
		c := *u
		c.RawQuery = q.Encode()
		return c.String()
	}
	return u.String()
}

func classifyError(err error) *TransportError {
	var (
		certErr     *tls.CertificateVerificationError
		unknownAuth x509.UnknownAuthorityError
		hostErr     x509.HostnameError
		invalidErr  x509.CertificateInvalidError
		netErr      net.Error
	)

	switch {
	case errors.As(err, &certErr), errors.As(err, &unknownAuth),
		errors.As(err, &hostErr), errors.As(err, &invalidErr):
		return &TransportError{Kind: KindCertificate, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &TransportError{Kind: KindTimeout, Err: err}
	case errors.Is(err, context.Canceled):
		return &TransportError{Kind: KindCanceled, Err: err}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &TransportError{Kind: KindTimeout, Err: err}
	default:
		return &TransportError{Kind: KindConnect, Err: err}
	}
}
