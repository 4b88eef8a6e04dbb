package rocketleague

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// Setting up the client or a request failed
	ErrInternal = errors.New("internal error")
	// The request could not be completed over the network
	ErrTransport = errors.New("transport error")
	// The response body did not match the expected shape
	ErrParse = errors.New("parse error")
	// The API answered with a non-2xx status code. See StatusError.
	ErrHTTPStatus = errors.New("unexpected status code")
)

const maxStatusErrorBody = 512

// StatusError is returned when the API responds with a non-2xx status code.
// The body is never decoded.
type StatusError struct {
	StatusCode int
	Body       string
}

func newStatusError(statusCode int, data []byte) *StatusError {
	return &StatusError{StatusCode: statusCode, Body: truncate(string(data), maxStatusErrorBody)}
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: rocket league API returned status code %d", ErrHTTPStatus.Error(), e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrHTTPStatus
}

type Kind int

const (
	KindUnknown Kind = iota
	KindInternal
	KindTransport
	KindParse
	KindHTTPStatus
)

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	case KindHTTPStatus:
		return "http_status"
	}
	return "unknown"
}

// KindOf classifies an error returned by the client.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInternal):
		return KindInternal
	case errors.Is(err, ErrTransport):
		return KindTransport
	case errors.Is(err, ErrParse):
		return KindParse
	case errors.Is(err, ErrHTTPStatus):
		return KindHTTPStatus
	}
	return KindUnknown
}
