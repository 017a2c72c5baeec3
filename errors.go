package wildfire

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tphakala/go-wildfire/internal/api"
)

// Sentinel errors for configuration failures, wrapped by *ConfigError.
var (
	ErrNoAPIKey       = errors.New("api_key required")
	ErrInvalidTimeout = errors.New("invalid timeout")
	ErrUnsupportedTLS = errors.New("TLS configuration not supported with this transport")
)

// ConfigError indicates the client could not be configured. It is returned
// before any network activity.
type ConfigError struct {
	Err    error
	Detail string
}

func (e *ConfigError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("wildfire: %v: %s", e.Err, e.Detail)
	}
	return fmt.Sprintf("wildfire: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TransportError reports a failure to complete the HTTP exchange: DNS,
// connect, TLS, timeout or a malformed response. It is never retried.
type TransportError = api.TransportError

// TransportErrorKind classifies a TransportError.
type TransportErrorKind = api.ErrorKind

// Transport error kinds.
const (
	KindConnect     = api.KindConnect
	KindTimeout     = api.KindTimeout
	KindCertificate = api.KindCertificate
	KindCanceled    = api.KindCanceled
	KindProtocol    = api.KindProtocol
)

// ServiceError is a well-formed response with a status outside 2xx. Result
// holds whatever the body decoded to so callers can read the explanation.
type ServiceError struct {
	StatusCode int
	Reason     string
	Detail     string
	Result     *Result
}

func (e *ServiceError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("wildfire: HTTP Error %d: %s: %s", e.StatusCode, e.Reason, e.Detail)
	}
	return fmt.Sprintf("wildfire: HTTP Error %d: %s", e.StatusCode, e.Reason)
}

// ClassificationKind describes why a response body could not be decoded.
type ClassificationKind string

const (
	MissingContentType     ClassificationKind = "missing content-type"
	UnsupportedContentType ClassificationKind = "unsupported content-type"
	MissingFilename        ClassificationKind = "missing filename"
	ParseError             ClassificationKind = "parse error"
)

// ClassificationError indicates a response body that does not match its
// declared type. It can occur on 2xx responses.
type ClassificationError struct {
	Kind        ClassificationKind
	ContentType string
	Err         error
}

func (e *ClassificationError) Error() string {
	switch e.Kind {
	case MissingContentType:
		return "wildfire: no content-type response header"
	case UnsupportedContentType:
		return fmt.Sprintf("wildfire: no handler for content-type: %s", e.ContentType)
	case MissingFilename:
		return "wildfire: no content-disposition response header"
	default:
		return fmt.Sprintf("wildfire: %s: %s: %v", e.Kind, e.ContentType, e.Err)
	}
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// ValidationError indicates invalid request parameters, detected before any
// network activity.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("wildfire: validation error: %s", e.Message)
}

// newServiceError builds the error for a non-2xx response.
func newServiceError(statusCode int, reason string, result *Result) *ServiceError {
	return &ServiceError{
		StatusCode: statusCode,
		Reason:     reason,
		Detail:     errorDetail(result),
		Result:     result,
	}
}

// errorDetail extracts a one-line explanation from an error body.
func errorDetail(r *Result) string {
	if r == nil {
		return ""
	}
	switch r.Type {
	case ResponseXML:
		if r.XML == nil {
			return ""
		}
		if el := r.XML.FindElement("//error-message"); el != nil {
			return strings.Trim(strings.TrimSpace(el.Text()), "'")
		}
	case ResponseHTML:
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(r.Body))
		if err != nil {
			return ""
		}
		return strings.TrimSpace(doc.Find("title").First().Text())
	case ResponseText:
		line, _, _ := strings.Cut(strings.TrimSpace(r.Body), "\n")
		return line
	}
	return ""
}
