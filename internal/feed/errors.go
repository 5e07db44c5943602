package feed

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrFetchFailure  = errors.New("feed: fetch failed")
	ErrMalformedFeed = errors.New("feed: malformed document")
	ErrTimeout       = errors.New("feed: request timed out or was cancelled")
	ErrBodyTooLarge  = errors.New("feed: response body exceeds size limit")
)

// FetchError is returned when the upstream answered with a non-2xx status or
// the request never completed. Status is 0 for transport failures.
type FetchError struct {
	Kind   Kind
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("failed to fetch %s feed", e.Kind)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (%d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the taxonomy sentinels and the transport cause.
func (e *FetchError) Unwrap() []error {
	errs := []error{ErrFetchFailure}
	if e.Timeout() {
		errs = append(errs, ErrTimeout)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Timeout reports whether the request was abandoned before a response arrived.
func (e *FetchError) Timeout() bool {
	if e.Status != 0 || e.Err == nil {
		return false
	}
	if errors.Is(e.Err, ErrTimeout) {
		return true
	}
	var te interface{ Timeout() bool }
	if errors.As(e.Err, &te) && te.Timeout() {
		return true
	}
	return isContextDone(e.Err)
}

// MalformedFeedError wraps the decoder failure for a document that is not
// well-formed markup.
type MalformedFeedError struct {
	Err error
}

func (e *MalformedFeedError) Error() string {
	return fmt.Sprintf("malformed feed document: %v", e.Err)
}

func (e *MalformedFeedError) Unwrap() []error {
	return []error{ErrMalformedFeed, e.Err}
}
