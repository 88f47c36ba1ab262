package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v5"

	"github.com/drex-labs/drex/internal/branding"
	"github.com/drex-labs/drex/internal/config"
)

// Client talks to the package index. Existence probes are metadata-only
// HEAD requests; downloads are plain GETs. A 200 means present, a 404
// means absent, and anything else is an accessibility failure.
type Client struct {
	projectBase string
	archiveBase string
	httpClient  *http.Client
	maxTries    uint
}

// New builds a client from the resolved settings.
func New(settings *config.Settings) *Client {
	return &Client{
		projectBase: settings.ProjectBase,
		archiveBase: settings.ArchiveBase,
		httpClient:  &http.Client{Timeout: settings.Timeout},
		maxTries:    uint(max(settings.Retries, 1)),
	}
}

// NewWithHTTPClient is like New but with an injected HTTP client.
func NewWithHTTPClient(settings *config.Settings, hc *http.Client) *Client {
	c := New(settings)
	c.httpClient = hc
	return c
}

// ArchiveName returns the tarball file name for a release,
// e.g. "token-8.1.0.tar.gz".
func (c *Client) ArchiveName(name, version string) string {
	return fmt.Sprintf("%s-%s.tar.gz", name, version)
}

func (c *Client) projectURL(name string) string {
	return c.projectBase + "/" + name
}

func (c *Client) archiveURL(name, version string) string {
	return c.archiveBase + "/" + c.ArchiveName(name, version)
}

// Exists probes the index for an extension by name.
func (c *Client) Exists(ctx context.Context, name string) (bool, error) {
	return c.probe(ctx, c.projectURL(name))
}

// ExistsVersion probes the index for a specific release tarball.
func (c *Client) ExistsVersion(ctx context.Context, name, version string) (bool, error) {
	return c.probe(ctx, c.archiveURL(name, version))
}

// probe issues a single HEAD request per attempt. Transport failures are
// retried with exponential backoff up to the configured attempt budget;
// definitive answers (200, 404) and server errors are terminal.
func (c *Client) probe(ctx context.Context, url string) (bool, error) {
	op := func() (bool, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			return false, backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", branding.CLIName())

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return false, err
		}
		resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			return true, nil
		case http.StatusNotFound:
			return false, nil
		default:
			return false, backoff.Permanent(&InaccessibleError{Status: resp.Status})
		}
	}

	found, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxTries))
	if err != nil {
		return false, asInaccessible(err)
	}
	return found, nil
}

// Fetch downloads the release tarball. The caller owns the returned body.
func (c *Client) Fetch(ctx context.Context, name, version string) (io.ReadCloser, error) {
	resp, err := c.get(ctx, c.archiveURL(name, version))
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// FetchChecksum downloads the ".sha256" sidecar published next to the
// tarball, if any. The second return is false when the index does not
// publish one; that is not an error.
func (c *Client) FetchChecksum(ctx context.Context, name, version string) (string, bool, error) {
	resp, err := c.get(ctx, c.archiveURL(name, version)+".sha256")
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return "", false, nil
		}
		return "", false, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", false, fmt.Errorf("reading checksum sidecar: %w", err)
	}
	// Sidecar lines follow sha256sum output: "<hex>  <filename>".
	sum := strings.Fields(strings.TrimSpace(string(body)))
	if len(sum) == 0 {
		return "", false, fmt.Errorf("empty checksum sidecar for %s", c.ArchiveName(name, version))
	}
	return sum[0], true, nil
}

// get issues a GET with the same retry policy as probe.
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	op := func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", branding.CLIName())

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		switch resp.StatusCode {
		case http.StatusOK:
			return resp, nil
		case http.StatusNotFound:
			resp.Body.Close()
			return nil, backoff.Permanent(&NotFoundError{What: url})
		default:
			resp.Body.Close()
			return nil, backoff.Permanent(&InaccessibleError{Status: resp.Status})
		}
	}

	resp, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxTries))
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nil, err
		}
		return nil, asInaccessible(err)
	}
	return resp, nil
}
