// Package api exposes typed calls for the Kichwa learning API on top of the
// authenticated gateway. Every call returns a Go error for non-2xx envelopes;
// an *kichwabridge.APIError carries the API's status and message.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	kichwabridge "github.com/opengovern/kichwa-bridge"
	"github.com/opengovern/kichwa-bridge/adapters"
)

type Client struct {
	gw       *kichwabridge.Gateway
	validate *validator.Validate
}

// NewClient wraps an existing gateway.
func NewClient(gw *kichwabridge.Gateway) *Client {
	return &Client{gw: gw, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// New builds a client talking HTTP to cfg.BaseURL.
func New(cfg *kichwabridge.Config, store kichwabridge.TokenStore, opts ...kichwabridge.Option) (*Client, error) {
	if cfg == nil {
		cfg = kichwabridge.DefaultConfig()
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("api base url is required")
	}
	transport := adapters.NewHTTPAdapter(cfg.BaseURL, adapters.HTTPAdapterOptions{CacheResponses: cfg.CacheResponses})
	gw, err := kichwabridge.NewGateway(cfg, store, transport, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "build gateway")
	}
	return NewClient(gw), nil
}

// Gateway returns the underlying gateway for calls not covered here.
func (c *Client) Gateway() *kichwabridge.Gateway {
	return c.gw
}

// Upload is a file attached to a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (u *Upload) attach(form *kichwabridge.FormData, field string) {
	if u == nil || len(u.Data) == 0 {
		return
	}
	form.AddFile(field, u.Filename, u.ContentType, u.Data)
}

// check validates v before anything is sent. Validation failures surface as
// a 400 APIError, the same shape the API uses for rejected bodies.
func (c *Client) check(v any) error {
	err := c.validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "validate request")
	}
	msgs := make(kichwabridge.Message, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag()))
	}
	return &kichwabridge.APIError{StatusCode: http.StatusBadRequest, Message: msgs}
}

func get[T any](ctx context.Context, c *Client, url string) (T, error) {
	return kichwabridge.Fetch[T](ctx, c.gw, url)
}

func post[T any](ctx context.Context, c *Client, url string, body any) (T, error) {
	return kichwabridge.Decode[T](c.gw.Post(ctx, url, body))
}

func put[T any](ctx context.Context, c *Client, url string, body any) (T, error) {
	return kichwabridge.Decode[T](c.gw.Put(ctx, url, body))
}

func del(ctx context.Context, c *Client, url string) error {
	return c.gw.Delete(ctx, url, nil).Err()
}

func form[T any](ctx context.Context, c *Client, url string, body *kichwabridge.FormData, method string) (T, error) {
	return kichwabridge.Decode[T](c.gw.FormData(ctx, url, body, method))
}
