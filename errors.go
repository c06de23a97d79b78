package kichwabridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// User-facing messages for failures that never reached the API.
const (
	MessageNetwork  = "Error de red, intenta de nuevo"
	MessageTimeout  = "Error de conexión, intenta de nuevo"
	MessageCanceled = "Solicitud cancelada"
	MessageUnknown  = "Error, intenta de nuevo"
)

// APIError is the error form of a non-2xx envelope.
type APIError struct {
	StatusCode int
	Message    Message
}

func (e *APIError) Error() string {
	if len(e.Message) == 0 {
		return fmt.Sprintf("api error %d", e.StatusCode)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// Err returns nil for a 2xx envelope and an *APIError otherwise.
func (e *Envelope) Err() error {
	if e == nil {
		return &APIError{StatusCode: http.StatusInternalServerError, Message: Message{MessageUnknown}}
	}
	if e.OK() {
		return nil
	}
	return &APIError{StatusCode: e.StatusCode, Message: e.Message}
}

// failureEnvelope converts a transport or local error into an envelope.
func failureEnvelope(err error) *Envelope {
	return &Envelope{
		StatusCode: http.StatusInternalServerError,
		Message:    Message{failureMessage(err)},
	}
}

func failureMessage(err error) string {
	switch {
	case err == nil:
		return MessageUnknown
	case errors.Is(err, context.Canceled):
		return MessageCanceled
	case isTimeout(err):
		return MessageTimeout
	case isNetwork(err):
		return MessageNetwork
	case err.Error() != "":
		return err.Error()
	default:
		return MessageUnknown
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNetwork(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// responseEnvelope builds the envelope for a response that reached the API.
// The status always mirrors the HTTP status. Success bodies are unwrapped only
// when they carry a statusCode field; any other JSON body becomes the data
// payload. Error bodies contribute their message either way.
func responseEnvelope(resp *NormalizedResponse, log logrus.FieldLogger) *Envelope {
	env := &Envelope{StatusCode: resp.StatusCode}

	var fields map[string]json.RawMessage
	isObject := json.Unmarshal(resp.Data, &fields) == nil && fields != nil
	isEnvelope := isObject && has(fields, "statusCode")

	if raw, ok := fields["message"]; ok && (isEnvelope || !env.OK()) {
		if err := env.Message.UnmarshalJSON(raw); err != nil {
			log.WithError(err).WithField("status", resp.StatusCode).Debug("Ignoring malformed envelope message")
		}
	}

	if env.OK() {
		switch {
		case isEnvelope:
			env.Data = fields["data"]
		case len(resp.Data) > 0 && json.Valid(resp.Data):
			env.Data = json.RawMessage(resp.Data)
		}
	}

	if len(env.Message) == 0 {
		env.Message = Message{http.StatusText(resp.StatusCode)}
	}
	return env
}

func has(fields map[string]json.RawMessage, key string) bool {
	_, ok := fields[key]
	return ok
}
