package formdata

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"io"
	mrand "math/rand/v2"
	"net/http"
	"strings"

	"github.com/golang/glog"
)

const (
	boundaryRandBytes  = 48
	boundaryPrefixChar = "_"
	boundaryPrefixLen  = 16
)

// Option configures a Form.
type Option func(*Form)

// WithRandom sets the randomness source used for the boundary.
// Tests use it to produce reproducible bodies.
func WithRandom(r io.Reader) Option {
	return func(f *Form) {
		if r != nil {
			f.random = r
		}
	}
}

// WithRFC2231 enables the RFC 2231 extended encoding for non-ASCII
// parameter values.
func WithRFC2231() Option {
	return func(f *Form) {
		f.rfc2231 = true
	}
}

// Form is an ordered multipart/form-data body sharing one boundary.
type Form struct {
	parts    []*Part
	boundary string
	random   io.Reader
	rfc2231  bool
}

// New creates an empty form with a freshly generated boundary.
func New(opts ...Option) *Form {
	f := &Form{random: rand.Reader}
	for _, opt := range opts {
		opt(f)
	}
	f.boundary = newBoundary(f.random)
	return f
}

// AddField appends a plain field part.
func (f *Form) AddField(name, value string) {
	p := newPart(name, f.rfc2231)
	p.SetText(value)
	f.parts = append(f.parts, p)
}

// AddFile appends a part named "file". The filename attribute is set when
// filename is non-empty and the binary Content-Type when body is non-nil.
func (f *Form) AddFile(filename string, body []byte) {
	p := newPart("file", f.rfc2231)
	if filename != "" {
		p.AppendHeaderAttribute("filename", filename)
	}
	if body != nil {
		p.AddHeader(headerOctetStream)
		p.SetBody(body)
	}
	f.parts = append(f.parts, p)
}

// Parts returns the parts in wire order.
func (f *Form) Parts() []*Part {
	return f.parts
}

// Boundary returns the boundary token.
func (f *Form) Boundary() string {
	return f.boundary
}

// ContentType returns the Content-Type header value for the body.
func (f *Form) ContentType() string {
	return "multipart/form-data; boundary=" + f.boundary
}

// Headers returns the HTTP headers that must accompany Body.
func (f *Form) Headers() http.Header {
	h := make(http.Header)
	h.Set("Content-Type", f.ContentType())
	return h
}

// Body serializes every part followed by the closing boundary.
// No CRLF follows the closing "--".
func (f *Form) Body() []byte {
	var buf bytes.Buffer
	delim := "--" + f.boundary
	for _, p := range f.parts {
		buf.WriteString(delim)
		buf.WriteString("\r\n")
		buf.Write(p.Serialize())
		buf.WriteString("\r\n")
	}
	buf.WriteString(delim)
	buf.WriteString("--")
	return buf.Bytes()
}

// newBoundary draws boundaryRandBytes from r. When r fails the boundary is
// drawn from math/rand instead: still unique enough to frame a body, but
// predictable.
func newBoundary(r io.Reader) string {
	seq := make([]byte, boundaryRandBytes)
	if _, err := io.ReadFull(r, seq); err != nil {
		glog.Warningf("formdata: secure random source failed, using math/rand for boundary: %v", err)
		for i := range seq {
			seq[i] = byte(mrand.IntN(256))
		}
	} else {
		glog.V(2).Info("formdata: boundary from configured random source")
	}
	return strings.Repeat(boundaryPrefixChar, boundaryPrefixLen) + base64.RawURLEncoding.EncodeToString(seq)
}
