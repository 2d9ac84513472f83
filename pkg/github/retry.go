package github

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/google/go-github/v74/github"
	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

// Retrier runs a function until it succeeds, it fails with a non transient error,
// or the number of attempts is exhausted.
type Retrier struct {
	logE       *logrus.Entry
	attempts   int
	newBackOff func() backoff.BackOff
}

// NewRetrier returns a Retrier waiting delay between attempts.
func NewRetrier(logE *logrus.Entry, attempts int, delay time.Duration) *Retrier {
	return NewRetrierWithBackOff(logE, attempts, func() backoff.BackOff {
		return backoff.NewConstantBackOff(delay)
	})
}

func NewRetrierWithBackOff(logE *logrus.Entry, attempts int, newBackOff func() backoff.BackOff) *Retrier {
	if attempts < 1 {
		attempts = 1
	}
	return &Retrier{
		logE:       logE,
		attempts:   attempts,
		newBackOff: newBackOff,
	}
}

// Do calls fn. Transient errors are retried, others are returned immediately.
func (r *Retrier) Do(ctx context.Context, operation string, fn func() error) error {
	b := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), uint64(r.attempts-1)), ctx) //nolint:gosec
	return backoff.RetryNotify(func() error { //nolint:wrapcheck
		err := fn()
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b, func(err error, d time.Duration) {
		logerr.WithError(r.logE, err).WithFields(logrus.Fields{
			"operation": operation,
			"retry_in":  d,
		}).Warn("retry an operation")
	})
}

// IsTransient reports whether err may succeed if the request is sent again.
// Rate limits, server errors, and errors without an HTTP response are transient.
func IsTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var rateLimitErr *github.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return true
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}
	var acceptedErr *github.AcceptedError
	if errors.As(err, &acceptedErr) {
		return false
	}
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		if errResp.Response == nil {
			return false
		}
		return errResp.Response.StatusCode >= http.StatusInternalServerError
	}
	return true
}

func retry[T any](ctx context.Context, r *Retrier, operation string, fn func() (T, *Response, error)) (T, *Response, error) {
	var (
		v    T
		resp *Response
	)
	err := r.Do(ctx, operation, func() error {
		var err error
		v, resp, err = fn()
		return err
	})
	return v, resp, err
}
