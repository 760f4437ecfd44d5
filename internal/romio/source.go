package romio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// ErrHTTPStatus wraps non-2xx fetch responses.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// Source resolves catalog paths to ROM bytes. Paths with an http(s) scheme,
// or any path when BaseURL is set, are fetched; everything else is read from
// the local filesystem.
type Source struct {
	Client  *http.Client
	BaseURL string
	Timeout time.Duration // per fetch; zero means none
}

// Load acquires and unpacks the ROM at p, returning the image and a display
// name.
func (s *Source) Load(ctx context.Context, p string) ([]byte, string, error) {
	remote, err := s.resolve(p)
	if err != nil {
		return nil, "", err
	}
	var data []byte
	if remote != nil {
		data, err = s.fetch(ctx, remote)
	} else {
		data, err = readFile(p)
	}
	if err != nil {
		return nil, "", err
	}
	return Unpack(data, p)
}

// Resolve returns the absolute URL p would be fetched from, or nil for a
// local path.
func (s *Source) resolve(p string) (*url.URL, error) {
	u, err := url.Parse(p)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", p, err)
	}
	if u.Scheme == "http" || u.Scheme == "https" {
		return u, nil
	}
	if s.BaseURL == "" {
		return nil, nil
	}
	base, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL %q: %w", s.BaseURL, err)
	}
	return base.ResolveReference(u), nil
}

func (s *Source) fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: %w: %s", u, ErrHTTPStatus, resp.Status)
	}
	data, err := limitedRead(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	return data, nil
}

func readFile(p string) ([]byte, error) {
	f, err := os.Open(filepath.FromSlash(p))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	data, err := limitedRead(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p, err)
	}
	return data, nil
}

// ReadAll reads an already-open user file, e.g. from a file picker.
func ReadAll(r io.Reader, name string) ([]byte, string, error) {
	data, err := limitedRead(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return Unpack(data, name)
}
