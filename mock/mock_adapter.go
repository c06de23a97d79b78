package mock

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	kichwabridge "github.com/opengovern/kichwa-bridge"
)

var _ kichwabridge.Transport = (*MockAdapter)(nil)

// Reply is one scripted response. A non-nil Err makes the call fail at the
// transport level.
type Reply struct {
	StatusCode int
	Headers    http.Header
	Body       string
	Err        error
	Delay      time.Duration
}

// HandlerFunc computes a reply from the outgoing request.
type HandlerFunc func(req *kichwabridge.NormalizedRequest) Reply

// MockAdapter is a scripted Transport. Replies queued with On are consumed in
// order and the last one repeats. Unknown routes answer 404.
type MockAdapter struct {
	mu       sync.Mutex
	queues   map[string][]Reply
	handlers map[string]HandlerFunc
	requests []kichwabridge.NormalizedRequest
}

func NewMockAdapter() *MockAdapter {
	return &MockAdapter{
		queues:   make(map[string][]Reply),
		handlers: make(map[string]HandlerFunc),
	}
}

// On queues replies for method and endpoint.
func (m *MockAdapter) On(method, endpoint string, replies ...Reply) *MockAdapter {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := routeKey(method, endpoint)
	m.queues[key] = append(m.queues[key], replies...)
	return m
}

// OnFunc routes method and endpoint to fn. It takes precedence over On.
func (m *MockAdapter) OnFunc(method, endpoint string, fn HandlerFunc) *MockAdapter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[routeKey(method, endpoint)] = fn
	return m
}

func (m *MockAdapter) ExecuteRequest(ctx context.Context, req *kichwabridge.NormalizedRequest) (*kichwabridge.NormalizedResponse, error) {
	reply := m.next(req)

	if reply.Delay > 0 {
		timer := time.NewTimer(reply.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if reply.Err != nil {
		return nil, reply.Err
	}

	headers := reply.Headers
	if headers == nil {
		headers = http.Header{}
	}
	return &kichwabridge.NormalizedResponse{
		StatusCode: reply.StatusCode,
		Headers:    headers.Clone(),
		Data:       []byte(reply.Body),
	}, nil
}

// Calls counts requests sent to method and endpoint.
func (m *MockAdapter) Calls(method, endpoint string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, req := range m.requests {
		if req.Method == method && req.Endpoint == endpoint {
			n++
		}
	}
	return n
}

// Requests returns every request received, in order.
func (m *MockAdapter) Requests() []kichwabridge.NormalizedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]kichwabridge.NormalizedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

func (m *MockAdapter) next(req *kichwabridge.NormalizedRequest) Reply {
	m.mu.Lock()
	m.requests = append(m.requests, *req)
	key := routeKey(req.Method, req.Endpoint)

	if fn, ok := m.handlers[key]; ok {
		m.mu.Unlock()
		return fn(req)
	}
	defer m.mu.Unlock()

	queue := m.queues[key]
	switch len(queue) {
	case 0:
		return Reply{StatusCode: http.StatusNotFound, Body: `{"statusCode":404,"message":"Not Found"}`}
	case 1:
		return queue[0]
	default:
		m.queues[key] = queue[1:]
		return queue[0]
	}
}

func routeKey(method, endpoint string) string {
	return method + " " + endpoint
}

// JSON is a 200 reply with the standard envelope around data.
func JSON(data string) Reply {
	return Reply{StatusCode: http.StatusOK, Body: `{"statusCode":200,"data":` + data + `,"message":"OK"}`}
}

// Status is an envelope-shaped error reply.
func Status(code int, message string) Reply {
	return Reply{StatusCode: code, Body: `{"statusCode":` + strconv.Itoa(code) + `,"message":"` + message + `"}`}
}

// WithCookies adds Set-Cookie lines to r.
func (r Reply) WithCookies(cookies ...string) Reply {
	h := r.Headers.Clone()
	if h == nil {
		h = http.Header{}
	}
	for _, c := range cookies {
		h.Add("Set-Cookie", c)
	}
	r.Headers = h
	return r
}
