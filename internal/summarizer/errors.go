package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Kind classifies text-generation failures.
type Kind string

const (
	KindAuth        Kind = "auth"
	KindTransport   Kind = "transport"
	KindProvider    Kind = "provider"
	KindMalformed   Kind = "malformed"
	KindUnavailable Kind = "unavailable"
)

var (
	// ErrUnknownProvider is returned by the registry for unregistered names.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrMissingKey means the provider needs a credential that is not configured.
	ErrMissingKey = errors.New("missing API key")
	// ErrNoChoices means the backend answered without any completion.
	ErrNoChoices = errors.New("response contained no choices")
)

// Error is returned by every Generator.
type Error struct {
	Kind     Kind
	Provider string
	Status   int
	Err      error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("generate with %s (%s, status %d): %v", e.Provider, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("generate with %s (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var reStatus = regexp.MustCompile(`status code:? (\d{3})`)

// classify normalizes a backend error. Context errors stay in the chain so
// callers can tell timeouts from provider faults.
func classify(provider string, err error) *Error {
	var gErr *Error
	if errors.As(err, &gErr) {
		return gErr
	}

	e := &Error{Kind: KindProvider, Provider: provider, Err: err}
	switch {
	case errors.Is(err, ErrMissingKey):
		e.Kind = KindAuth
		return e
	case errors.Is(err, ErrNoChoices):
		e.Kind = KindMalformed
		return e
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		e.Kind = KindTransport
		return e
	}

	if m := reStatus.FindStringSubmatch(err.Error()); m != nil {
		e.Status, _ = strconv.Atoi(m[1])
		e.Kind = kindForStatus(e.Status)
		return e
	}

	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) {
		e.Kind = KindTransport
		return e
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key"), strings.Contains(msg, "unauthorized"), strings.Contains(msg, "permission denied"):
		e.Kind = KindAuth
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "no such host"), strings.Contains(msg, "dial tcp"):
		e.Kind = KindTransport
	case strings.Contains(msg, "not found"):
		e.Kind = KindUnavailable
	case strings.Contains(msg, "no response"), strings.Contains(msg, "unmarshal"), strings.Contains(msg, "decode"):
		e.Kind = KindMalformed
	}
	return e
}

func kindForStatus(status int) Kind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 404:
		return KindUnavailable
	case status == 502 || status == 503:
		return KindUnavailable
	default:
		return KindProvider
	}
}
