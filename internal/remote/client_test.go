package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drex-labs/drex/internal/config"
)

func testSettings(baseURL string) *config.Settings {
	return &config.Settings{
		ProjectBase: baseURL + "/project",
		ArchiveBase: baseURL + "/files/projects",
		Timeout:     5 * time.Second,
		Retries:     3,
	}
}

func TestExists_Found(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, "/project/token", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(testSettings(srv.URL))
	found, err := c.Exists(context.Background(), "token")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestExists_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(testSettings(srv.URL))
	found, err := c.Exists(context.Background(), "nosuch")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestExists_ServerErrorIsInaccessibleWithoutRetry(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(testSettings(srv.URL))
	_, err := c.Exists(context.Background(), "token")

	var ia *InaccessibleError
	require.ErrorAs(t, err, &ia)
	assert.Contains(t, ia.Error(), "not accessible")
	assert.Contains(t, ia.Status, "503")
	// A definitive server answer is terminal: exactly one probe.
	assert.Equal(t, 1, calls)
}

func TestExistsVersion_BuildsArchiveURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/projects/token-8.1.0.tar.gz", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(testSettings(srv.URL))
	found, err := c.ExistsVersion(context.Background(), "token", "8.1.0")
	require.NoError(t, err)
	assert.True(t, found)
}

// flakyTransport fails at the transport level a fixed number of times
// before delegating to the real transport.
type flakyTransport struct {
	failures int
	calls    int
	inner    http.RoundTripper
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("connection reset")
	}
	return f.inner.RoundTrip(req)
}

func TestProbe_RetriesTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	transport := &flakyTransport{failures: 2, inner: http.DefaultTransport}
	c := NewWithHTTPClient(testSettings(srv.URL), &http.Client{Transport: transport})

	found, err := c.Exists(context.Background(), "token")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3, transport.calls)
}

func TestProbe_ExhaustedRetriesReadInaccessible(t *testing.T) {
	transport := &flakyTransport{failures: 100, inner: http.DefaultTransport}
	c := NewWithHTTPClient(testSettings("http://127.0.0.1:0"), &http.Client{Transport: transport})

	_, err := c.Exists(context.Background(), "token")

	var ia *InaccessibleError
	require.ErrorAs(t, err, &ia)
	assert.Equal(t, 3, transport.calls)
}

func TestFetch_ReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		fmt.Fprint(w, "tarball-bytes")
	}))
	defer srv.Close()

	c := New(testSettings(srv.URL))
	body, err := c.Fetch(context.Background(), "token", "8.1.0")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "tarball-bytes", string(data))
}

func TestFetch_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(testSettings(srv.URL))
	_, err := c.Fetch(context.Background(), "token", "8.1.0")

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestFetchChecksum_AbsentSidecarIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(testSettings(srv.URL))
	_, ok, err := c.FetchChecksum(context.Background(), "token", "8.1.0")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFetchChecksum_ParsesSha256sumFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/projects/token-8.1.0.tar.gz.sha256", r.URL.Path)
		fmt.Fprintln(w, "deadbeef  token-8.1.0.tar.gz")
	}))
	defer srv.Close()

	c := New(testSettings(srv.URL))
	sum, ok, err := c.FetchChecksum(context.Background(), "token", "8.1.0")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "deadbeef", sum)
}
