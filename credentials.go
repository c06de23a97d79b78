package kichwabridge

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// Storage keys and cookie names of the credential pair.
const (
	AccessTokenKey  = "_ast"
	RefreshTokenKey = "_rat"
)

// cookieHeader renders the composite credential header sent on every request.
// The API expects the exact `;, ` separated form.
func cookieHeader(tok *oauth2.Token) string {
	var access, refresh string
	if tok != nil {
		access, refresh = tok.AccessToken, tok.RefreshToken
	}
	return fmt.Sprintf("%s=%s;, %s=%s;", AccessTokenKey, access, RefreshTokenKey, refresh)
}

// renewedCredentials scans Set-Cookie values for the credential pair. Values
// may arrive as separate header lines or joined with `;, ` by intermediaries;
// both forms are accepted. Only the keys present in the response are returned.
func renewedCredentials(h http.Header) map[string]string {
	found := make(map[string]string)
	for _, line := range h.Values("Set-Cookie") {
		for _, cookie := range strings.Split(line, ";, ") {
			pair := strings.SplitN(cookie, ";", 2)[0]
			key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
			if !ok {
				continue
			}
			switch key {
			case AccessTokenKey, RefreshTokenKey:
				found[key] = value
			}
		}
	}
	return found
}
