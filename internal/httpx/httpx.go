package httpx

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// AcceptEncoding is sent on every request that does not set its own.
const AcceptEncoding = "br, gzip, zstd"

// HTTPError carries status/body for non-2xx responses.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: %s %s status=%d body=%s", e.Method, e.URL, e.StatusCode, snippet(e.Body, 900))
}

// ParseError is returned when a 2xx body cannot be decoded into the target.
type ParseError struct {
	Format string
	Err    error
	Body   []byte
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s parse error: %v body=%s", e.Format, e.Err, snippet(e.Body, 900))
}

func (e *ParseError) Unwrap() error { return e.Err }

func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// NewClient returns a pooled client. insecureSkipVerify exists for CCB
// tenants fronted by self-signed certificates.
func NewClient(timeout time.Duration, insecureSkipVerify bool) *http.Client {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	tr := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if insecureSkipVerify {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: tr,
	}
}

// Do executes a single request built by buildReq. It never retries.
// The body is always read in full and closed so the connection can be reused,
// and any Content-Encoding the server applied is undone before returning.
func Do(
	ctx context.Context,
	client *http.Client,
	buildReq func(context.Context) (*http.Request, error),
) (*http.Response, []byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := buildReq(ctx)
	if err != nil {
		return nil, nil, err
	}
	if req.Header.Get("Accept-Encoding") == "" {
		req.Header.Set("Accept-Encoding", AcceptEncoding)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, err := readAndClose(resp.Body)
	if err != nil {
		return resp, raw, err
	}
	body, err := decodeBody(resp.Header.Get("Content-Encoding"), raw)
	if err != nil {
		return resp, raw, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, body, nil
	}
	return resp, body, &HTTPError{
		Method:     req.Method,
		URL:        redactURL(req),
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
	}
}

// DoXML is a convenience wrapper over Do that unmarshals XML into out.
// It returns the decoded body so callers can log it on domain failures.
func DoXML(
	ctx context.Context,
	client *http.Client,
	buildReq func(context.Context) (*http.Request, error),
	out any,
) ([]byte, error) {
	_, body, err := Do(ctx, client, buildReq)
	if err != nil {
		return body, err
	}
	if out == nil {
		return body, nil
	}
	if err := xml.Unmarshal(body, out); err != nil {
		return body, &ParseError{Format: "xml", Err: err, Body: body}
	}
	return body, nil
}

func readAndClose(rc io.ReadCloser) ([]byte, error) {
	defer rc.Close()
	return io.ReadAll(rc)
}

func decodeBody(encoding string, raw []byte) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return raw, nil
	case "br":
		b, err := io.ReadAll(brotli.NewReader(bytes.NewReader(raw)))
		if err != nil {
			return nil, fmt.Errorf("httpx: brotli decode: %w", err)
		}
		return b, nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("httpx: gzip decode: %w", err)
		}
		defer zr.Close()
		b, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("httpx: gzip decode: %w", err)
		}
		return b, nil
	case "zstd":
		zr, err := zstd.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("httpx: zstd decode: %w", err)
		}
		defer zr.Close()
		b, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("httpx: zstd decode: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("httpx: unsupported content encoding %q", encoding)
	}
}

// redactURL drops userinfo so credentials never end up in error strings.
func redactURL(req *http.Request) string {
	if req.URL == nil {
		return ""
	}
	u := *req.URL
	u.User = nil
	return u.String()
}

// IsHTTPError reports whether err wraps an *HTTPError and returns it.
func IsHTTPError(err error) (*HTTPError, bool) {
	var herr *HTTPError
	if errors.As(err, &herr) {
		return herr, true
	}
	return nil, false
}
