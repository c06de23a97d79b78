package kichwabridge

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
)

// NormalizedRequest is a single outbound call. Endpoint is relative to the
// configured base URL.
type NormalizedRequest struct {
	Method   string
	Endpoint string
	Headers  map[string]string
	Body     []byte

	// retried is set once the request has been replayed after a refresh.
	retried bool
}

func (r *NormalizedRequest) clone() *NormalizedRequest {
	out := *r
	out.Headers = make(map[string]string, len(r.Headers))
	for k, v := range r.Headers {
		out.Headers[k] = v
	}
	return &out
}

// Path returns the endpoint without its query string.
func (r *NormalizedRequest) Path() string {
	if i := strings.IndexAny(r.Endpoint, "?#"); i >= 0 {
		return r.Endpoint[:i]
	}
	return r.Endpoint
}

type NormalizedResponse struct {
	StatusCode int
	Headers    http.Header
	Data       []byte
}

// Envelope is the uniform shape returned by every gateway call.
type Envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data,omitempty"`
	Message    Message         `json:"message"`
}

// OK reports whether the envelope carries a 2xx status.
func (e *Envelope) OK() bool {
	return e != nil && e.StatusCode >= 200 && e.StatusCode < 300
}

// HasData reports whether the envelope carries a non-null payload.
func (e *Envelope) HasData() bool {
	if e == nil {
		return false
	}
	trimmed := bytes.TrimSpace(e.Data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Message is the envelope message, sent by the API either as a single string
// or as a list of validation messages.
type Message []string

func (m *Message) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*m = nil
		return nil
	}
	if trimmed[0] == '[' {
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*m = list
		return nil
	}
	var single string
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return err
	}
	*m = Message{single}
	return nil
}

func (m Message) MarshalJSON() ([]byte, error) {
	switch len(m) {
	case 0:
		return []byte(`""`), nil
	case 1:
		return json.Marshal(m[0])
	}
	return json.Marshal([]string(m))
}

func (m Message) String() string {
	return strings.Join(m, ", ")
}
