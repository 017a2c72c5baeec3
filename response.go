package wildfire

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/beevik/etree"
	"github.com/golang/glog"
	"golang.org/x/net/html/charset"
)

// ResponseType tags how a response body was decoded.
type ResponseType string

const (
	ResponseNone       ResponseType = ""
	ResponseAttachment ResponseType = "attachment"
	ResponseXML        ResponseType = "xml"
	ResponseJSON       ResponseType = "json"
	ResponseHTML       ResponseType = "html"
	ResponseText       ResponseType = "txt"
)

// Attachment is a binary payload such as a sample or packet capture.
type Attachment struct {
	Filename string
	Content  []byte
}

// Result is the decoded outcome of one API call. At most one of Body, XML
// and Attachment is set, matching Type; an empty response body leaves all
// three unset.
type Result struct {
	StatusCode int
	Reason     string
	Type       ResponseType
	Header     http.Header

	// Body is the decoded text of json, html and txt responses.
	Body string
	// XML is the parsed document of xml responses.
	XML *etree.Document
	// Attachment is the payload of application/octet-stream responses.
	Attachment *Attachment

	raw string
}

// Text returns the decoded text of a textual or XML response.
func (r *Result) Text() string {
	if r.Type == ResponseXML {
		return r.raw
	}
	return r.Body
}

// XMLString re-serializes the XML root element, or returns "" when the
// response carried no XML.
func (r *Result) XMLString() string {
	if r.XML == nil || r.XML.Root() == nil {
		return ""
	}
	doc := etree.NewDocument()
	doc.SetRoot(r.XML.Root().Copy())
	s, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

type decoder func(r *Result, params map[string]string, header http.Header, body []byte) error

var decoders = map[string]decoder{
	"application/octet-stream": decodeAttachment,
	"application/xml":          decodeXML,
	"text/xml":                 decodeXML,
	"application/json":         textDecoder(ResponseJSON),
	"text/html":                textDecoder(ResponseHTML),
	"text/plain":               textDecoder(ResponseText),
}

// classify decodes body according to the response Content-Type into r.
func classify(r *Result, header http.Header, body []byte) error {
	contentType := header.Get("Content-Type")
	if contentType == "" {
		return &ClassificationError{Kind: MissingContentType}
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// keep dispatching on the bare type when parameters are malformed
		mediaType, _, _ = strings.Cut(contentType, ";")
		mediaType = strings.ToLower(strings.TrimSpace(mediaType))
		params = nil
	}

	decode, ok := decoders[mediaType]
	if !ok {
		return &ClassificationError{Kind: UnsupportedContentType, ContentType: mediaType}
	}
	return decode(r, params, header, body)
}

func decodeAttachment(r *Result, _ map[string]string, header http.Header, body []byte) error {
	_, params, err := mime.ParseMediaType(header.Get("Content-Disposition"))
	if err != nil || params["filename"] == "" {
		return &ClassificationError{Kind: MissingFilename, ContentType: "application/octet-stream"}
	}

	r.Type = ResponseAttachment
	r.Attachment = &Attachment{
		Filename: params["filename"],
		Content:  body,
	}
	return nil
}

func decodeXML(r *Result, params map[string]string, _ http.Header, body []byte) error {
	glog.V(3).Infof("wildfire: xml response: %d bytes", len(body))
	r.Type = ResponseXML

	text, err := decodeText(params, body)
	if err != nil {
		return &ClassificationError{Kind: ParseError, ContentType: "xml", Err: err}
	}
	r.raw = text

	// a leading blank line before the XML declaration is rejected by
	// strict parsers
	trimmed := bytes.TrimLeft(body, "\r\n")
	if len(trimmed) == 0 {
		return nil
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if declaresEncoding(trimmed) {
		err = doc.ReadFromBytes(trimmed)
	} else {
		// only the header names the charset; text is already UTF-8
		err = doc.ReadFromString(strings.TrimLeft(text, "\r\n"))
	}
	if err != nil {
		return &ClassificationError{Kind: ParseError, ContentType: "xml", Err: err}
	}
	if doc.Root() == nil {
		return &ClassificationError{Kind: ParseError, ContentType: "xml", Err: fmt.Errorf("no root element")}
	}
	r.XML = doc
	return nil
}

// declaresEncoding reports whether body opens with an XML declaration
// carrying an encoding attribute.
func declaresEncoding(body []byte) bool {
	if !bytes.HasPrefix(body, []byte("<?xml")) {
		return false
	}
	decl, _, found := bytes.Cut(body, []byte("?>"))
	return found && bytes.Contains(decl, []byte("encoding"))
}

func textDecoder(typ ResponseType) decoder {
	return func(r *Result, params map[string]string, _ http.Header, body []byte) error {
		glog.V(3).Infof("wildfire: %s response: %d bytes", typ, len(body))
		r.Type = typ

		text, err := decodeText(params, body)
		if err != nil {
			return &ClassificationError{Kind: ParseError, ContentType: string(typ), Err: err}
		}
		r.Body = text
		return nil
	}
}

// decodeText converts body to UTF-8 using the charset parameter, if any.
func decodeText(params map[string]string, body []byte) (string, error) {
	label := strings.ToLower(params["charset"])
	if len(body) == 0 || label == "" || label == "utf-8" || label == "utf8" {
		return string(body), nil
	}

	reader, err := charset.NewReaderLabel(label, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
