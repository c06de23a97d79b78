// http_adapter.go
// ---------------
// HTTPAdapter is the production Transport. It joins the endpoint onto the API
// base URL, copies the normalized headers onto a net/http request and reads
// the full body before returning, so the gateway can replay or decode it
// freely.
//
// With CacheResponses enabled, GET responses the API marks cacheable are
// served from an in-memory HTTP cache. The cache is keyed on the URL alone,
// so requests carrying session credentials always skip it, and Set-Cookie is
// stripped from anything served from it.

package adapters

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gregjones/httpcache"
	"github.com/pkg/errors"

	kichwabridge "github.com/opengovern/kichwa-bridge"
)

var _ kichwabridge.Transport = (*HTTPAdapter)(nil)

type HTTPAdapterOptions struct {
	// CacheResponses serves cacheable GET responses from memory. Only
	// requests without session credentials use the cache.
	CacheResponses bool
	// RoundTripper overrides the base transport, mainly for tests.
	RoundTripper http.RoundTripper
}

type HTTPAdapter struct {
	BaseURL string
	client  *http.Client
	// cached is nil unless CacheResponses is set.
	cached *http.Client
}

func NewHTTPAdapter(baseURL string, opts HTTPAdapterOptions) *HTTPAdapter {
	base := opts.RoundTripper
	if base == nil {
		base = &http.Transport{Proxy: http.ProxyFromEnvironment}
	}

	// Timeouts come from the request context.
	adapter := &HTTPAdapter{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Transport: base},
	}
	if opts.CacheResponses {
		cache := httpcache.NewMemoryCacheTransport()
		cache.Transport = base
		adapter.cached = &http.Client{Transport: cache}
	}
	return adapter
}

func (h *HTTPAdapter) ExecuteRequest(ctx context.Context, req *kichwabridge.NormalizedRequest) (*kichwabridge.NormalizedResponse, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, h.resolve(req.Endpoint), body)
	if err != nil {
		return nil, errors.Wrap(err, "build http request")
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	client := h.client
	if h.cached != nil && !carriesCredentials(req.Headers) {
		client = h.cached
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.Header.Get(httpcache.XFromCache) != "" {
		resp.Header.Del("Set-Cookie")
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}

	return &kichwabridge.NormalizedResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header.Clone(),
		Data:       data,
	}, nil
}

func (h *HTTPAdapter) resolve(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return h.BaseURL + endpoint
}

// carriesCredentials reports whether the cookie header holds a non-empty
// value for any cookie.
func carriesCredentials(headers map[string]string) bool {
	for name, value := range headers {
		if !strings.EqualFold(name, "cookie") {
			continue
		}
		for _, part := range strings.Split(value, ";") {
			_, v, ok := strings.Cut(strings.TrimLeft(part, ", "), "=")
			if ok && strings.TrimSpace(v) != "" {
				return true
			}
		}
	}
	return false
}
