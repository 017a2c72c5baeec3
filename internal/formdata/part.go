// Package formdata builds RFC 2388 multipart/form-data request bodies.
//
// Parts are serialized byte for byte in the order they were added.
package formdata

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/golang/glog"
)

const (
	headerContentDisposition = "Content-Disposition: form-data"
	headerOctetStream        = "Content-Type: application/octet-stream"
)

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Part is a single section of a multipart body: a named field or a file.
type Part struct {
	headers [][]byte
	body    []byte
	rfc2231 bool
}

// NewPart returns a part whose Content-Disposition names it.
func NewPart(name string) *Part {
	return newPart(name, false)
}

func newPart(name string, rfc2231 bool) *Part {
	p := &Part{rfc2231: rfc2231}
	p.AddHeader(headerContentDisposition)
	p.AppendHeaderAttribute("name", name)
	return p
}

// AddHeader appends a raw header line.
func (p *Part) AddHeader(line string) {
	p.headers = append(p.headers, []byte(line))
	glog.V(3).Infof("formdata: add header: %s", line)
}

// AppendHeaderAttribute appends `; key="value"` to the most recent header line.
func (p *Part) AppendHeaderAttribute(key, value string) {
	last := len(p.headers) - 1
	p.headers[last] = append(p.headers[last], "; "+encodeParam(key, value, p.rfc2231)...)
}

// SetBody stores a binary body.
func (p *Part) SetBody(body []byte) {
	p.body = body
}

// SetText stores a textual body as its UTF-8 bytes.
func (p *Part) SetText(text string) {
	p.body = []byte(text)
}

// Header returns the i-th header line.
func (p *Part) Header(i int) string {
	return string(p.headers[i])
}

// Serialize renders the part: headers joined by CRLF, a blank line, then the body.
func (p *Part) Serialize() []byte {
	var buf bytes.Buffer
	buf.Write(bytes.Join(p.headers, []byte("\r\n")))
	buf.WriteString("\r\n\r\n")
	if p.body != nil {
		buf.Write(p.body)
	}
	return buf.Bytes()
}

// encodeParam renders a Content-Disposition parameter.
//
// Quotes and backslashes are escaped as quoted-pairs. CR and LF cannot be
// carried by a header line at all, so such values always use the RFC 2231
// extended form; in RFC 2231 mode non-ASCII values use it too.
func encodeParam(key, value string, rfc2231 bool) string {
	if strings.ContainsAny(value, "\r\n") || (rfc2231 && !isASCII(value)) {
		return fmt.Sprintf("%s*=utf-8''%s", key, pctEncode(value))
	}
	return fmt.Sprintf(`%s="%s"`, key, quoteEscaper.Replace(value))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// pctEncode escapes everything outside the RFC 2231 attribute-char set.
func pctEncode(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}
