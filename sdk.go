// sdk.go
// ------
// The sdk.go file contains the Gateway, the entry point every API call goes
// through.
//
// Key functionalities include:
// - Building a Gateway with NewGateway() from a Config, a TokenStore and a Transport
// - The verbs Get, Post, Put, Delete and FormData, each returning an Envelope
// - Logout, which also clears the stored credential pair
//
// The Gateway relies on a RequestExecutor for the refresh-and-replay logic and
// an optional RateLimiter for pacing. It keeps no state between calls besides
// its configuration; credentials live in the TokenStore.
package kichwabridge

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

type Gateway struct {
	config    *Config
	store     TokenStore
	transport Transport
	executor  *RequestExecutor
	pacer     *RateLimiter
	metrics   *Metrics
	log       *logrus.Entry
}

type Option func(*Gateway)

// WithLogger replaces the default logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(g *Gateway) {
		g.log = logrus.NewEntry(logger).WithField("component", "gateway")
	}
}

// WithMetrics records request and refresh metrics.
func WithMetrics(m *Metrics) Option {
	return func(g *Gateway) {
		g.metrics = m
	}
}

// WithRateLimiter overrides the limiter built from Config.RateLimit.
func WithRateLimiter(r *RateLimiter) Option {
	return func(g *Gateway) {
		g.pacer = r
	}
}

// NewGateway builds a gateway. A nil config means DefaultConfig().
func NewGateway(config *Config, store TokenStore, transport Transport, opts ...Option) (*Gateway, error) {
	if store == nil {
		return nil, errors.New("token store is required")
	}
	if transport == nil {
		return nil, errors.New("transport is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	config = config.withDefaults()

	logger := logrus.New()
	if config.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	g := &Gateway{
		config:    config,
		store:     store,
		transport: transport,
		pacer:     NewRateLimiter(config.RateLimit, config.RateWindow),
		log:       logrus.NewEntry(logger).WithField("component", "gateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.executor = NewRequestExecutor(g)
	return g, nil
}

// Config returns a copy of the gateway configuration.
func (g *Gateway) Config() Config {
	return *g.config
}

// Do executes an arbitrary request. req is not modified.
func (g *Gateway) Do(ctx context.Context, req *NormalizedRequest) *Envelope {
	if req == nil {
		return failureEnvelope(errors.New("request is required"))
	}
	return g.executor.Execute(ctx, req.clone())
}

// Get sends a GET. headers may be nil.
func (g *Gateway) Get(ctx context.Context, url string, headers map[string]string) *Envelope {
	req := &NormalizedRequest{Method: http.MethodGet, Endpoint: url, Headers: jsonHeaders()}
	for k, v := range headers {
		req.Headers[k] = v
	}
	return g.executor.Execute(ctx, req)
}

// Post sends body as JSON. A nil body is sent as an empty object.
func (g *Gateway) Post(ctx context.Context, url string, body any) *Envelope {
	return g.sendJSON(ctx, http.MethodPost, url, body)
}

// Put sends body as JSON. A nil body is sent as an empty object.
func (g *Gateway) Put(ctx context.Context, url string, body any) *Envelope {
	return g.sendJSON(ctx, http.MethodPut, url, body)
}

// Delete sends a DELETE with body as JSON, which the API reads for bulk deletes.
func (g *Gateway) Delete(ctx context.Context, url string, body any) *Envelope {
	return g.sendJSON(ctx, http.MethodDelete, url, body)
}

// FormData sends a multipart body with POST or PUT. An empty method means POST.
func (g *Gateway) FormData(ctx context.Context, url string, form *FormData, method string) *Envelope {
	if method == "" {
		method = http.MethodPost
	}
	if method != http.MethodPost && method != http.MethodPut {
		return failureEnvelope(errors.Errorf("form data method %s is not supported", method))
	}
	if form == nil {
		form = NewFormData()
	}
	body, contentType, err := form.Encode()
	if err != nil {
		return failureEnvelope(err)
	}
	return g.executor.Execute(ctx, &NormalizedRequest{
		Method:   method,
		Endpoint: url,
		Headers:  map[string]string{"Content-Type": contentType},
		Body:     body,
	})
}

// Logout ends the server session and, when the API accepts it, clears the
// stored credential pair.
func (g *Gateway) Logout(ctx context.Context) *Envelope {
	env := g.Post(ctx, g.config.LogoutPath, nil)
	if env.OK() {
		if err := g.store.Clear(ctx); err != nil {
			g.log.WithError(err).Warn("Failed to clear credentials after logout")
		}
	}
	return env
}

// Credentials returns the stored credential pair.
func (g *Gateway) Credentials(ctx context.Context) (*oauth2.Token, error) {
	tok, err := g.store.Token(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read credentials")
	}
	return tok, nil
}

func (g *Gateway) sendJSON(ctx context.Context, method, url string, body any) *Envelope {
	if body == nil {
		body = struct{}{}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return failureEnvelope(errors.Wrap(err, "encode request body"))
	}
	return g.executor.Execute(ctx, &NormalizedRequest{
		Method:   method,
		Endpoint: url,
		Headers:  jsonHeaders(),
		Body:     payload,
	})
}

// decorate attaches the app identity, static API key and credential headers.
// Caller headers with the same names are overwritten.
func (g *Gateway) decorate(req *NormalizedRequest, tok *oauth2.Token) {
	req.Headers["app-name"] = g.config.AppName
	req.Headers["app-version"] = g.config.AppVersion
	req.Headers["Authorization"] = g.config.APIKey
	req.Headers["cookie"] = cookieHeader(tok)
}

func jsonHeaders() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}
