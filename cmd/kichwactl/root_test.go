package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "_ast", Value: "a1", Path: "/"})
		http.SetCookie(w, &http.Cookie{Name: "_rat", Value: "r1", Path: "/"})
		_, _ = w.Write([]byte(`{"statusCode":200,"message":"OK"}`))
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"statusCode":200,"message":"OK"}`))
	})
	mux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("cookie"), "_ast=a1;") {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"statusCode":401,"message":"Unauthorized"}`))
			return
		}
		_, _ = w.Write([]byte(`{"statusCode":200,"data":{"userId":7,"firstName":"Sisa","roles":["student"]},"message":"OK"}`))
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"statusCode":401,"message":"Unauthorized"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoginWhoamiLogout(t *testing.T) {
	srv := fakeAPI(t)
	t.Setenv("KICHWA_API_URL", srv.URL)
	store := filepath.Join(t.TempDir(), "session.db")

	out, err := run(t, "--store", store, "--passphrase", "kawsay", "login", "--email", "sisa@kichwa.ec", "--password", "sumak")
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as sisa@kichwa.ec")

	out, err = run(t, "--store", store, "--passphrase", "kawsay", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, `"firstName": "Sisa"`)

	out, err = run(t, "--store", store, "--passphrase", "kawsay", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "logged out")

	_, err = run(t, "--store", store, "--passphrase", "kawsay", "whoami")
	assert.EqualError(t, err, "not logged in")
}

func TestGetPrintsEnvelopeOnFailure(t *testing.T) {
	srv := fakeAPI(t)
	t.Setenv("KICHWA_API_URL", srv.URL)

	out, err := run(t, "--store", filepath.Join(t.TempDir(), "session.db"), "get", "/profile")
	require.NoError(t, err)
	assert.Contains(t, out, `"statusCode": 401`)
}

func TestLessonRejectsBadID(t *testing.T) {
	_, err := run(t, "--store", filepath.Join(t.TempDir(), "session.db"), "lesson", "uno")
	assert.Error(t, err)
}

func TestMissingBaseURL(t *testing.T) {
	t.Setenv("KICHWA_API_URL", "")
	_, err := run(t, "--store", filepath.Join(t.TempDir(), "session.db"), "courses")
	assert.Error(t, err)
}

func TestMetricsFile(t *testing.T) {
	srv := fakeAPI(t)
	t.Setenv("KICHWA_API_URL", srv.URL)
	dir := t.TempDir()
	metrics := filepath.Join(dir, "kichwactl.prom")

	_, err := run(t, "--store", filepath.Join(dir, "session.db"), "--metrics-file", metrics, "get", "/profile")
	require.NoError(t, err)

	raw, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `kichwa_gateway_refreshes_total{outcome="rejected"} 1`)
	assert.Contains(t, string(raw), `kichwa_gateway_requests_count{code="401",method="GET"} 2`)
}
