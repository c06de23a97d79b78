package kichwabridge_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kichwabridge "github.com/opengovern/kichwa-bridge"
	"github.com/opengovern/kichwa-bridge/mock"
)

type course struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestDecode(t *testing.T) {
	env := &kichwabridge.Envelope{StatusCode: 201, Data: []byte(`{"id":4,"name":"Kichwa 1"}`)}
	c, err := kichwabridge.Decode[course](env)
	require.NoError(t, err)
	assert.Equal(t, course{ID: 4, Name: "Kichwa 1"}, c)

	empty, err := kichwabridge.Decode[*course](&kichwabridge.Envelope{StatusCode: 200, Data: []byte("null")})
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = kichwabridge.Decode[course](&kichwabridge.Envelope{StatusCode: 200, Data: []byte(`{"id":"x"}`)})
	assert.Error(t, err)

	_, err = kichwabridge.Decode[course](&kichwabridge.Envelope{StatusCode: 409, Message: kichwabridge.Message{"exists"}})
	assert.True(t, kichwabridge.IsStatus(err, http.StatusConflict))
}

func TestFetchRequiresOK(t *testing.T) {
	f := newFixture(t, nil)
	f.api.On(http.MethodGet, "/courses/1", mock.Reply{StatusCode: http.StatusCreated, Body: `{"statusCode":201,"data":{"id":1},"message":"Created"}`})
	f.api.On(http.MethodGet, "/courses/2", mock.JSON(`{"id":2,"name":"Kichwa 2"}`))

	_, err := kichwabridge.Fetch[course](context.Background(), f.gw, "/courses/1")
	assert.True(t, kichwabridge.IsStatus(err, http.StatusCreated))

	c, err := kichwabridge.Fetch[course](context.Background(), f.gw, "/courses/2")
	require.NoError(t, err)
	assert.Equal(t, "Kichwa 2", c.Name)
}
