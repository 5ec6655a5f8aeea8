// Package fetch opens catalog sources: local files, http(s) URLs, or stdin.
// Every reader it returns enforces a size limit so an oversized or endless
// source cannot exhaust memory while the catalog is decoded.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Size limits for catalog sources. A catalog is held in memory in full, so
// these bound the whole process footprint.
const (
	MaxFileSizeBytes = 200 * 1024 * 1024
	MaxHTTPSizeBytes = 200 * 1024 * 1024
)

// HTTPRequestTimeout bounds a complete catalog download.
const HTTPRequestTimeout = 60 * time.Second

var (
	httpDialTimeout           = 10 * time.Second
	httpTLSTimeout            = 10 * time.Second
	httpResponseHeaderTimeout = HTTPRequestTimeout / 2
)

// StdinSource is the source name that selects standard input.
const StdinSource = "-"

// limitedReadCloser fails reads once more than N bytes have been consumed.
type limitedReadCloser struct {
	io.ReadCloser
	N      int64
	source string
}

func (l *limitedReadCloser) Read(p []byte) (int, error) {
	if l.N <= 0 {
		// a source of exactly N bytes must still end cleanly
		var probe [1]byte
		if n, err := l.ReadCloser.Read(probe[:]); n == 0 && err == io.EOF {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("catalog source %q exceeds size limit", l.source)
	}
	if int64(len(p)) > l.N {
		p = p[:l.N]
	}
	n, err := l.ReadCloser.Read(p)
	l.N -= int64(n)
	return n, err
}

// httpClient is shared across downloads and safe for concurrent use.
var httpClient = &http.Client{
	Timeout: HTTPRequestTimeout,
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: httpDialTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   httpTLSTimeout,
		ResponseHeaderTimeout: httpResponseHeaderTimeout,
	},
}

// IsURL reports whether source names an http(s) resource.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Open returns a size-limited reader for the catalog source. The caller must
// close it. ctx cancels in-flight HTTP downloads; it is not consulted for
// local files.
func Open(ctx context.Context, source string) (io.ReadCloser, error) {
	switch {
	case source == "":
		return nil, fmt.Errorf("no catalog source given")
	case source == StdinSource:
		return &limitedReadCloser{
			ReadCloser: io.NopCloser(os.Stdin),
			N:          MaxFileSizeBytes,
			source:     "stdin",
		}, nil
	case IsURL(source):
		return openURL(ctx, source)
	default:
		return openFile(source)
	}
}

func openURL(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for URL %q: %w", url, err)
	}
	req.Header.Set("User-Agent", "bookrec/0.1")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %q: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP request failed for URL %q: status %d", url, resp.StatusCode)
	}

	if contentLength := resp.Header.Get("Content-Length"); contentLength != "" {
		if size, err := strconv.ParseInt(contentLength, 10, 64); err == nil && size > MaxHTTPSizeBytes {
			resp.Body.Close()
			return nil, fmt.Errorf("catalog at %q too large (%d bytes > %d bytes limit)", url, size, MaxHTTPSizeBytes)
		}
	}

	return &limitedReadCloser{
		ReadCloser: resp.Body,
		N:          MaxHTTPSizeBytes,
		source:     url,
	}, nil
}

func openFile(path string) (io.ReadCloser, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("catalog file %q does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access catalog file %q: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("catalog path %q is a directory", path)
	}
	if info.Size() > MaxFileSizeBytes {
		return nil, fmt.Errorf("catalog file %q is too large (%d bytes > %d bytes limit)", path, info.Size(), MaxFileSizeBytes)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file %q: %w", path, err)
	}
	return file, nil
}
