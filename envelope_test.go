package kichwabridge

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestMessageUnmarshal(t *testing.T) {
	var single Message
	require.NoError(t, json.Unmarshal([]byte(`"Unauthorized"`), &single))
	assert.Equal(t, Message{"Unauthorized"}, single)

	var list Message
	require.NoError(t, json.Unmarshal([]byte(`["email must be an email","password is required"]`), &list))
	assert.Equal(t, "email must be an email, password is required", list.String())

	var null Message
	require.NoError(t, json.Unmarshal([]byte(`null`), &null))
	assert.Nil(t, null)

	var bad Message
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestMessageMarshal(t *testing.T) {
	out, err := json.Marshal(Envelope{StatusCode: 200, Message: Message{"OK"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"statusCode":200,"message":"OK"}`, string(out))

	out, err = json.Marshal(Message{"a", "b"})
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(out))

	for _, empty := range []Message{nil, {}} {
		out, err = json.Marshal(empty)
		require.NoError(t, err)
		assert.Equal(t, `""`, string(out))
	}
}

func TestResponseEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		resp    NormalizedResponse
		status  int
		data    string
		message Message
	}{
		{
			name:    "success envelope is unwrapped",
			resp:    NormalizedResponse{StatusCode: 200, Data: []byte(`{"statusCode":200,"data":{"id":3},"message":"OK"}`)},
			status:  200,
			data:    `{"id":3}`,
			message: Message{"OK"},
		},
		{
			name:    "plain json success becomes data",
			resp:    NormalizedResponse{StatusCode: 200, Data: []byte(`[1,2]`)},
			status:  200,
			data:    `[1,2]`,
			message: Message{"OK"},
		},
		{
			name:    "error envelope keeps validation messages",
			resp:    NormalizedResponse{StatusCode: 400, Data: []byte(`{"statusCode":400,"message":["name should not be empty"],"data":{"x":1}}`)},
			status:  400,
			message: Message{"name should not be empty"},
		},
		{
			name:    "http status wins over body status",
			resp:    NormalizedResponse{StatusCode: 403, Data: []byte(`{"statusCode":200,"message":"Forbidden resource"}`)},
			status:  403,
			message: Message{"Forbidden resource"},
		},
		{
			name:    "non json body falls back to status text",
			resp:    NormalizedResponse{StatusCode: 502, Data: []byte(`<html>bad gateway</html>`)},
			status:  502,
			message: Message{"Bad Gateway"},
		},
		{
			name:    "success object without statusCode is the payload",
			resp:    NormalizedResponse{StatusCode: 200, Data: []byte(`{"message":"hola","id":2}`)},
			status:  200,
			data:    `{"message":"hola","id":2}`,
			message: Message{"OK"},
		},
		{
			name:    "error body without statusCode keeps its message",
			resp:    NormalizedResponse{StatusCode: 409, Data: []byte(`{"message":"Course code already used"}`)},
			status:  409,
			message: Message{"Course code already used"},
		},
		{
			name:    "empty success",
			resp:    NormalizedResponse{StatusCode: 204},
			status:  204,
			message: Message{"No Content"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logger, _ := test.NewNullLogger()
			env := responseEnvelope(&tc.resp, logger)
			assert.Equal(t, tc.status, env.StatusCode)
			assert.Equal(t, tc.message, env.Message)
			if tc.data == "" {
				assert.False(t, env.HasData())
			} else {
				assert.JSONEq(t, tc.data, string(env.Data))
			}
		})
	}
}

func TestResponseEnvelopeMalformedMessage(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	env := responseEnvelope(&NormalizedResponse{
		StatusCode: 422,
		Data:       []byte(`{"statusCode":422,"message":{"code":7}}`),
	}, logger)

	assert.Equal(t, Message{"Unprocessable Entity"}, env.Message)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Ignoring malformed envelope message", hook.LastEntry().Message)
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestFailureMessage(t *testing.T) {
	dial := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

	assert.Equal(t, MessageCanceled, failureMessage(context.Canceled))
	assert.Equal(t, MessageTimeout, failureMessage(context.DeadlineExceeded))
	assert.Equal(t, MessageTimeout, failureMessage(&url.Error{Op: "Get", URL: "http://x", Err: timeoutErr{}}))
	assert.Equal(t, MessageNetwork, failureMessage(dial))
	assert.Equal(t, MessageNetwork, failureMessage(&url.Error{Op: "Get", URL: "http://x", Err: dial}))
	assert.Equal(t, "boom", failureMessage(errors.New("boom")))
	assert.Equal(t, MessageUnknown, failureMessage(nil))

	env := failureEnvelope(dial)
	assert.Equal(t, http.StatusInternalServerError, env.StatusCode)
	assert.Equal(t, Message{MessageNetwork}, env.Message)
}

func TestEnvelopeErr(t *testing.T) {
	assert.NoError(t, (&Envelope{StatusCode: 201}).Err())

	err := (&Envelope{StatusCode: 404, Message: Message{"Lesson not found"}}).Err()
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.False(t, IsStatus(err, http.StatusBadRequest))
	assert.Equal(t, "api error 404: Lesson not found", err.Error())

	var nilEnv *Envelope
	assert.True(t, IsStatus(nilEnv.Err(), http.StatusInternalServerError))
}

func TestCookieHeader(t *testing.T) {
	assert.Equal(t, "_ast=a1;, _rat=r1;", cookieHeader(&oauth2.Token{AccessToken: "a1", RefreshToken: "r1"}))
	assert.Equal(t, "_ast=;, _rat=;", cookieHeader(nil))
}

func TestRenewedCredentials(t *testing.T) {
	separate := http.Header{}
	separate.Add("Set-Cookie", "_ast=a2; Path=/; HttpOnly")
	separate.Add("Set-Cookie", "_rat=r2; Path=/; HttpOnly")
	separate.Add("Set-Cookie", "theme=dark; Path=/")
	assert.Equal(t, map[string]string{"_ast": "a2", "_rat": "r2"}, renewedCredentials(separate))

	joined := http.Header{}
	joined.Set("Set-Cookie", "_ast=a3; Path=/;, _rat=r3; Path=/")
	assert.Equal(t, map[string]string{"_ast": "a3", "_rat": "r3"}, renewedCredentials(joined))

	onlyAccess := http.Header{}
	onlyAccess.Set("Set-Cookie", "_ast=a4")
	assert.Equal(t, map[string]string{"_ast": "a4"}, renewedCredentials(onlyAccess))

	assert.Empty(t, renewedCredentials(http.Header{}))
}

func TestNormalizedRequestPath(t *testing.T) {
	req := &NormalizedRequest{Endpoint: "/auth/refresh?x=1"}
	assert.Equal(t, "/auth/refresh", req.Path())

	req = &NormalizedRequest{Endpoint: "/lessons/1#top"}
	assert.Equal(t, "/lessons/1", req.Path())
}

func TestNormalizedRequestClone(t *testing.T) {
	req := &NormalizedRequest{Method: "GET", Endpoint: "/x", Headers: map[string]string{"a": "1"}}
	out := req.clone()
	out.Headers["a"] = "2"
	assert.Equal(t, "1", req.Headers["a"])
}
