package wildfire

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"fmt"
	"maps"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/tphakala/go-wildfire/internal/api"
	"github.com/tphakala/go-wildfire/internal/formdata"
)

const (
	pathReport         = "/publicapi/get/report"
	pathVerdict        = "/publicapi/get/verdict"
	pathVerdicts       = "/publicapi/get/verdicts"
	pathVerdictsChange = "/publicapi/get/verdicts/changed"
	pathSample         = "/publicapi/get/sample"
	pathPCAP           = "/publicapi/get/pcap"
	pathSubmitFile     = "/publicapi/submit/file"
	pathSubmitURL      = "/publicapi/submit/url"
	pathSubmitLink     = "/publicapi/submit/link"
	pathSubmitLinks    = "/publicapi/submit/links"
	pathChangeRequest  = "/publicapi/submit/change-request"
	pathTestFile       = "/publicapi/test/"
)

// linksMarker must be the first line of a multi-link submission.
const linksMarker = "panlnk"

// defaultTestFileType is the test sample type fetched when none is given.
const defaultTestFileType = "pe"

// API is the set of WildFire operations.
//
//go:generate mockery --name=API --output=mocks --outpkg=mocks --filename=api.go
type API interface {
	// Report retrieves an analysis report for a sample hash or URL.
	Report(ctx context.Context, req *ReportRequest, opts ...RequestOption) (*Result, error)

	// Verdict retrieves the verdict for a sample hash or URL.
	Verdict(ctx context.Context, req *VerdictRequest, opts ...RequestOption) (*Result, error)

	// Verdicts retrieves verdicts for multiple hashes in one request.
	Verdicts(ctx context.Context, hashes []string, opts ...RequestOption) (*Result, error)

	// VerdictsChanged lists hashes whose verdict changed since date (YYYY-MM-DD).
	VerdictsChanged(ctx context.Context, date string, opts ...RequestOption) (*Result, error)

	// Sample downloads a sample.
	Sample(ctx context.Context, hash string, opts ...RequestOption) (*Result, error)

	// PCAP downloads the packet capture recorded during analysis.
	PCAP(ctx context.Context, req *PCAPRequest, opts ...RequestOption) (*Result, error)

	// Submit uploads a file, a URL or a list of links for analysis.
	Submit(ctx context.Context, req *SubmitRequest, opts ...RequestOption) (*Result, error)

	// ChangeRequest asks for a verdict review.
	ChangeRequest(ctx context.Context, req *ChangeRequest, opts ...RequestOption) (*Result, error)

	// TestFile downloads a harmless test sample that WildFire flags as malware.
	TestFile(ctx context.Context, fileType string, opts ...RequestOption) (*Result, error)
}

// Report retrieves an analysis report.
func (c *Client) Report(ctx context.Context, req *ReportRequest, opts ...RequestOption) (*Result, error) {
	if req == nil {
		req = &ReportRequest{}
	}
	q := c.query()
	setIf(q, "hash", req.Hash)
	setIf(q, "format", req.Format)
	setIf(q, "url", req.URL)
	return c.get(ctx, pathReport, q, opts)
}

// Verdict retrieves a single verdict.
func (c *Client) Verdict(ctx context.Context, req *VerdictRequest, opts ...RequestOption) (*Result, error) {
	if req == nil {
		req = &VerdictRequest{}
	}
	q := c.query()
	setIf(q, "hash", req.Hash)
	setIf(q, "url", req.URL)
	return c.get(ctx, pathVerdict, q, opts)
}

// Verdicts retrieves verdicts for hashes, sent newline separated as a form field.
func (c *Client) Verdicts(ctx context.Context, hashes []string, opts ...RequestOption) (*Result, error) {
	form := c.form()
	if hashes != nil {
		form.AddField("file", strings.Join(hashes, "\n"))
	}
	return c.post(ctx, pathVerdicts, form, opts)
}

// VerdictsChanged lists verdict changes since date.
func (c *Client) VerdictsChanged(ctx context.Context, date string, opts ...RequestOption) (*Result, error) {
	q := c.query()
	setIf(q, "date", date)
	return c.get(ctx, pathVerdictsChange, q, opts)
}

// Sample downloads a sample as an attachment.
func (c *Client) Sample(ctx context.Context, hash string, opts ...RequestOption) (*Result, error) {
	q := c.query()
	setIf(q, "hash", hash)
	return c.get(ctx, pathSample, q, opts)
}

// PCAP downloads a packet capture as an attachment.
func (c *Client) PCAP(ctx context.Context, req *PCAPRequest, opts ...RequestOption) (*Result, error) {
	if req == nil {
		req = &PCAPRequest{}
	}
	q := c.query()
	setIf(q, "hash", req.Hash)
	setIf(q, "platform", req.Platform)
	return c.get(ctx, pathPCAP, q, opts)
}

// TestFile downloads a test sample. fileType defaults to "pe". The call is
// unauthenticated.
func (c *Client) TestFile(ctx context.Context, fileType string, opts ...RequestOption) (*Result, error) {
	if fileType == "" {
		fileType = defaultTestFileType
	}
	return c.get(ctx, pathTestFile+url.PathEscape(fileType), nil, opts)
}

// validateSubmit checks that exactly one of file, URL or links is given.
func validateSubmit(req *SubmitRequest) error {
	if req == nil {
		return &ValidationError{Message: "submit request cannot be nil"}
	}
	n := 0
	for _, set := range []bool{req.File != "", req.URL != "", len(req.Links) > 0} {
		if set {
			n++
		}
	}
	if n != 1 {
		return &ValidationError{Message: "must submit one of file, url or links"}
	}
	return nil
}

// Submit uploads a file, a URL or links. Files are read whole into memory.
func (c *Client) Submit(ctx context.Context, req *SubmitRequest, opts ...RequestOption) (*Result, error) {
	if err := validateSubmit(req); err != nil {
		return nil, err
	}

	form := c.form()
	var path string

	switch {
	case req.File != "":
		buf, err := readFile(req.File)
		if err != nil {
			return nil, err
		}
		path = pathSubmitFile
		form.AddFile(filepath.Base(req.File), buf)
	case req.URL != "":
		path = pathSubmitURL
		form.AddField("url", req.URL)
	case len(req.Links) == 1:
		path = pathSubmitLink
		form.AddField("link", req.Links[0])
	default:
		path = pathSubmitLinks
		links := req.Links
		if links[0] != linksMarker {
			links = append([]string{linksMarker}, links...)
		}
		// the service requires a filename on the links part
		form.AddFile("pan", []byte(strings.Join(links, "\n")))
	}

	return c.post(ctx, path, form, opts)
}

// ChangeRequest submits a verdict change request.
func (c *Client) ChangeRequest(ctx context.Context, req *ChangeRequest, opts ...RequestOption) (*Result, error) {
	if req == nil {
		req = &ChangeRequest{}
	}
	form := c.form()
	if req.Hash != "" {
		form.AddField("hash", req.Hash)
	}
	if req.Verdict != nil {
		form.AddField("verdict", strconv.Itoa(int(*req.Verdict)))
	}
	if req.Email != "" {
		form.AddField("email", req.Email)
	}
	if req.Comment != "" {
		form.AddField("comment", req.Comment)
	}
	return c.post(ctx, pathChangeRequest, form, opts)
}

// query returns request parameters carrying the credentials.
func (c *Client) query() url.Values {
	q := url.Values{}
	c.creds.Apply(q.Set)
	return q
}

// form returns a multipart form carrying the credentials.
func (c *Client) form() *formdata.Form {
	var fopts []formdata.Option
	if c.cfg.random != nil {
		fopts = append(fopts, formdata.WithRandom(c.cfg.random))
	}
	form := formdata.New(fopts...)
	c.creds.Apply(form.AddField)
	return form
}

func (c *Client) get(ctx context.Context, path string, q url.Values, opts []RequestOption) (*Result, error) {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	return c.do(ctx, &api.Request{
		Path:    path,
		Query:   q,
		Headers: reqCfg.headers,
	})
}

func (c *Client) post(ctx context.Context, path string, form *formdata.Form, opts []RequestOption) (*Result, error) {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	headers := reqCfg.headers.Clone()
	maps.Copy(headers, form.Headers())

	return c.do(ctx, &api.Request{
		Path:    path,
		Body:    form.Body(),
		Headers: headers,
	})
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func readFile(path string) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("open: %s: %v", path, err)}
	}
	glog.V(2).Infof("wildfire: path: %s size: %d", path, len(buf))
	if glog.V(3) {
		glog.Infof("wildfire: MD5: %x", md5.Sum(buf))
		glog.Infof("wildfire: SHA256: %x", sha256.Sum256(buf))
	}
	return buf, nil
}
