// Package retry provides bounded, fixed-interval retry and polling built on
// github.com/cenkalti/backoff/v4.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds a retry loop: at most MaxAttempts calls, Interval apart.
// A MaxAttempts below 1 is treated as a single attempt.
type Policy struct {
	MaxAttempts int
	Interval    time.Duration
}

func (p Policy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p Policy) backOff(ctx context.Context) backoff.BackOffContext {
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Interval), uint64(p.attempts()-1))
	return backoff.WithContext(b, ctx)
}

// Permanent wraps err so Do stops retrying immediately and returns err.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// NotifyFunc is called after a failed attempt that will be retried.
type NotifyFunc func(attempt int, err error, wait time.Duration)

// Do calls op until it returns nil, the policy is exhausted, op returns a
// Permanent error, or ctx is done. It returns the number of attempts made and
// the last error (ctx.Err() if the context ended the loop).
func Do(ctx context.Context, p Policy, op func(ctx context.Context, attempt int) error, notify NotifyFunc) (int, error) {
	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		return op(ctx, attempt)
	}, p.backOff(ctx), func(err error, wait time.Duration) {
		if notify != nil {
			notify(attempt, err, wait)
		}
	})
	return attempt, err
}

// errNotYet marks a probe that ran cleanly but whose predicate was false.
var errNotYet = errors.New("retry: condition not met")

// Result is the outcome of Until. OK distinguishes a satisfied predicate from
// an exhausted budget; Value holds the last value a probe read successfully
// in either case.
type Result[T any] struct {
	Value    T
	Attempts int
	OK       bool

	// LastErr is the most recent probe error, if any. Probe errors are
	// retried like an unmet predicate.
	LastErr error
}

// Until polls probe under policy p until it reports ok. Exhausting the policy
// is not an error: the returned Result has OK == false. The only error
// returned is the context's, when ctx ends the loop.
func Until[T any](ctx context.Context, p Policy, probe func(ctx context.Context) (T, bool, error)) (Result[T], error) {
	var res Result[T]
	attempts, err := Do(ctx, p, func(ctx context.Context, _ int) error {
		v, ok, perr := probe(ctx)
		if perr != nil {
			res.LastErr = perr
			return perr
		}
		res.Value = v
		if !ok {
			return errNotYet
		}
		res.OK = true
		return nil
	}, nil)
	res.Attempts = attempts

	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return res, cerr
		}
	}
	return res, nil
}
