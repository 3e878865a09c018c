package location

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrLocationUnavailable means no location source could produce a fix.
	ErrLocationUnavailable = errors.New("location sensor unavailable")

	// ErrLocationDenied means the location source refused the request.
	ErrLocationDenied = errors.New("location request denied")

	// ErrLocationTimeout means no fix arrived before the request deadline.
	ErrLocationTimeout = errors.New("location request timed out")
)

// Provider interface defines the methods for location providers
type Provider interface {
	GetLocation(ctx context.Context) (Location, error)
	Close() error
}

type result struct {
	loc Location
	err error
}

// Request asks the provider for a single fix bounded by timeout. It never retries.
// Every failure is reported as one of ErrLocationUnavailable, ErrLocationDenied
// or ErrLocationTimeout.
func Request(ctx context.Context, p Provider, timeout time.Duration) (Location, error) {
	if p == nil {
		return Location{}, fmt.Errorf("%w: no location provider configured", ErrLocationUnavailable)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan result, 1)
	go func() {
		loc, err := p.GetLocation(ctx)
		done <- result{loc: loc, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return Location{}, classify(r.err)
		}
		return r.loc, nil
	case <-ctx.Done():
		return Location{}, classify(ctx.Err())
	}
}

// classify maps provider errors onto the three location error kinds.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrLocationUnavailable),
		errors.Is(err, ErrLocationDenied),
		errors.Is(err, ErrLocationTimeout):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrLocationTimeout, err)
	default:
		return fmt.Errorf("%w: %v", ErrLocationUnavailable, err)
	}
}
