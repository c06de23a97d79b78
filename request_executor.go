package kichwabridge

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const refreshFlightKey = "refresh"

// RequestExecutor runs the lifecycle of one logical request: pacing, header
// injection, credential persistence and at most one refresh-and-replay when
// the access token is rejected.
type RequestExecutor struct {
	gw      *Gateway
	flights singleflight.Group
}

func NewRequestExecutor(gw *Gateway) *RequestExecutor {
	return &RequestExecutor{gw: gw}
}

// Execute never returns nil and never panics on transport failures; every
// outcome is folded into an Envelope.
func (re *RequestExecutor) Execute(ctx context.Context, req *NormalizedRequest) *Envelope {
	log := re.gw.log.WithFields(logrus.Fields{"method": req.Method, "endpoint": req.Endpoint})

	if re.gw.config.ProactiveRefresh && !re.isAuthEndpoint(req) {
		if failed := re.refreshIfExpired(ctx, req, log); failed != nil {
			log.WithField("status", failed.StatusCode).Debug("Proactive refresh failed, giving up")
			return failed
		}
	}

	log.Debug("Sending request (attempt 1)")
	resp, sentAccess, err := re.attempt(ctx, req)
	if err != nil {
		log.WithError(err).Warn("Request failed before reaching the API")
		return failureEnvelope(err)
	}

	if resp.StatusCode == http.StatusUnauthorized && re.shouldRetry(req) {
		req.retried = true
		log.Debug("Access token rejected, renewing credentials before replay")
		if failed := re.renewCredentials(ctx, sentAccess, log); failed != nil {
			log.WithField("status", failed.StatusCode).Debug("Refresh failed, giving up")
			return failed
		}

		log.Debug("Sending request (attempt 2)")
		resp, _, err = re.attempt(ctx, req)
		if err != nil {
			log.WithError(err).Warn("Replay failed before reaching the API")
			return failureEnvelope(err)
		}
	}

	env := responseEnvelope(resp, log)
	log.WithField("status", env.StatusCode).Debug("Request completed")
	return env
}

// attempt sends req once with fresh headers. It returns the access token the
// request carried so a 401 can be matched against later store contents.
func (re *RequestExecutor) attempt(ctx context.Context, req *NormalizedRequest) (*NormalizedResponse, string, error) {
	if err := re.gw.pacer.Wait(ctx); err != nil {
		return nil, "", errors.Wrap(err, "wait for rate limiter")
	}

	tok, err := re.gw.store.Token(ctx)
	if err != nil {
		return nil, "", errors.Wrap(err, "read credentials")
	}
	if tok == nil {
		tok = &oauth2.Token{}
	}

	out := req.clone()
	re.gw.decorate(out, tok)

	attemptCtx, cancel := context.WithTimeout(ctx, re.gw.config.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := re.gw.transport.ExecuteRequest(attemptCtx, out)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	if err == nil && resp == nil {
		err = errors.New("transport returned no response")
	}
	re.gw.metrics.observeRequest(req.Method, status, err, time.Since(start))
	if err != nil {
		return nil, tok.AccessToken, err
	}

	if status >= 200 && status < 300 {
		re.persistCredentials(ctx, resp.Headers)
	}
	return resp, tok.AccessToken, nil
}

func (re *RequestExecutor) persistCredentials(ctx context.Context, headers http.Header) {
	for key, value := range renewedCredentials(headers) {
		var err error
		switch key {
		case AccessTokenKey:
			err = re.gw.store.SetAccessToken(ctx, value)
		case RefreshTokenKey:
			err = re.gw.store.SetRefreshToken(ctx, value)
		}
		if err != nil {
			re.gw.log.WithError(err).WithField("key", key).Warn("Failed to persist renewed credential")
		}
	}
}

func (re *RequestExecutor) shouldRetry(req *NormalizedRequest) bool {
	return !req.retried && !re.isAuthEndpoint(req)
}

func (re *RequestExecutor) isAuthEndpoint(req *NormalizedRequest) bool {
	path := req.Path()
	return path == re.gw.config.RefreshPath || path == re.gw.config.LoginPath
}

// refreshIfExpired renews credentials ahead of time when the access token
// carries an expiry that has passed. The attempt consumes the request's one
// refresh, so a later 401 is terminal. It returns the refresh failure, if any;
// the request is not sent in that case.
func (re *RequestExecutor) refreshIfExpired(ctx context.Context, req *NormalizedRequest, log *logrus.Entry) *Envelope {
	tok, err := re.gw.store.Token(ctx)
	if err != nil || tok == nil {
		return nil
	}
	if tok.AccessToken == "" || tok.RefreshToken == "" || tok.Expiry.IsZero() || tok.Valid() {
		return nil
	}

	req.retried = true
	log.WithField("expiry", tok.Expiry).Debug("Access token expired, refreshing before send")
	return re.renewCredentials(ctx, tok.AccessToken, log)
}

// renewCredentials obtains a new credential pair. It returns nil on success
// and the refresh failure's envelope otherwise.
func (re *RequestExecutor) renewCredentials(ctx context.Context, staleAccess string, log *logrus.Entry) *Envelope {
	if !re.gw.config.SharedRefresh {
		return re.refreshOnce(ctx, log)
	}

	// Another request may have refreshed since this one was sent.
	if current, err := re.gw.store.Token(ctx); err == nil && current != nil &&
		current.AccessToken != "" && current.AccessToken != staleAccess {
		log.Debug("Credentials already renewed by a concurrent request")
		return nil
	}

	ch := re.flights.DoChan(refreshFlightKey, func() (interface{}, error) {
		return re.refreshOnce(context.WithoutCancel(ctx), log), nil
	})
	select {
	case <-ctx.Done():
		return failureEnvelope(ctx.Err())
	case res := <-ch:
		failed, _ := res.Val.(*Envelope)
		if failed == nil {
			return nil
		}
		shared := *failed
		return &shared
	}
}

func (re *RequestExecutor) refreshOnce(ctx context.Context, log *logrus.Entry) *Envelope {
	req := &NormalizedRequest{Method: http.MethodGet, Endpoint: re.gw.config.RefreshPath}

	log.Debug("Calling refresh endpoint")
	resp, _, err := re.attempt(ctx, req)
	if err != nil {
		re.gw.metrics.observeRefresh("error")
		log.WithError(err).Warn("Refresh call failed before reaching the API")
		return failureEnvelope(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		re.gw.metrics.observeRefresh("rejected")
		return responseEnvelope(resp, log)
	}

	re.gw.metrics.observeRefresh("success")
	return nil
}
