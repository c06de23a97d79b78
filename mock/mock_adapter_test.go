package mock

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kichwabridge "github.com/opengovern/kichwa-bridge"
)

func get(endpoint string) *kichwabridge.NormalizedRequest {
	return &kichwabridge.NormalizedRequest{Method: http.MethodGet, Endpoint: endpoint}
}

func TestMockAdapterQueuesReplies(t *testing.T) {
	m := NewMockAdapter().On(http.MethodGet, "/profile", Status(http.StatusUnauthorized, "Unauthorized"), JSON(`{"userId":1}`))

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := m.ExecuteRequest(context.Background(), get("/profile"))
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
	}
	assert.Equal(t, []int{401, 200, 200}, statuses)
	assert.Equal(t, 3, m.Calls(http.MethodGet, "/profile"))
}

func TestMockAdapterUnknownRoute(t *testing.T) {
	resp, err := NewMockAdapter().ExecuteRequest(context.Background(), get("/nope"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMockAdapterHandlerWins(t *testing.T) {
	m := NewMockAdapter().
		On(http.MethodGet, "/x", JSON(`1`)).
		OnFunc(http.MethodGet, "/x", func(*kichwabridge.NormalizedRequest) Reply { return Status(http.StatusTeapot, "tea") })

	resp, err := m.ExecuteRequest(context.Background(), get("/x"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
}

func TestMockAdapterDelayHonorsContext(t *testing.T) {
	m := NewMockAdapter().On(http.MethodGet, "/slow", Reply{StatusCode: http.StatusOK, Delay: time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := m.ExecuteRequest(ctx, get("/slow"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReplyWithCookiesDoesNotShareHeaders(t *testing.T) {
	base := JSON(`null`)
	withA := base.WithCookies("_ast=a")
	withB := withA.WithCookies("_rat=b")

	assert.Nil(t, base.Headers)
	assert.Equal(t, []string{"_ast=a"}, withA.Headers.Values("Set-Cookie"))
	assert.Equal(t, []string{"_ast=a", "_rat=b"}, withB.Headers.Values("Set-Cookie"))
}
