package sqlitefile

import "github.com/pkg/errors"

// Sentinel error kinds, per the error-kind table: PagerError,
// PageParseError, OffsetOutOfRange, OverflowChainTruncated. Callers
// recover one of these from a wrapped error with errors.Is or
// errors.Cause.
var (
	// ErrPager marks an underlying page fetch or cache failure. Fatal to
	// the cursor that surfaced it.
	ErrPager = errors.New("pager error")

	// ErrPageParse marks a page header or cell that could not be decoded.
	// Fatal to the cursor that surfaced it.
	ErrPageParse = errors.New("page parse error")

	// ErrOffsetOutOfRange marks a Payload.Load call whose offset is >=
	// the payload size. Recoverable; the cursor is unaffected.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrOverflowChainTruncated marks an overflow chain that ended
	// before the declared payload size was reached. Recoverable; the
	// cursor is unaffected.
	ErrOverflowChainTruncated = errors.New("overflow chain truncated")

	// ErrAliasedBuffer marks a Payload.Load destination that overlaps a
	// page buffer currently borrowed from the pager.
	ErrAliasedBuffer = errors.New("destination buffer aliases a pinned page buffer")
)

// WrapPager wraps err, if non-nil, so that errors.Is(result, ErrPager)
// succeeds while the original message and call site are preserved.
func WrapPager(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(&sentinelError{sentinel: ErrPager, cause: err}, msg)
}

// WrapPageParse wraps err, if non-nil, so that errors.Is(result,
// ErrPageParse) succeeds.
func WrapPageParse(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(&sentinelError{sentinel: ErrPageParse, cause: err}, msg)
}

// sentinelError lets a wrapped, call-site-specific error still compare
// equal (via errors.Is) to one of the package sentinels above, without
// flattening the original cause's message.
type sentinelError struct {
	sentinel error
	cause    error
}

func (e *sentinelError) Error() string { return e.cause.Error() }
func (e *sentinelError) Unwrap() error { return e.cause }
func (e *sentinelError) Cause() error  { return e.sentinel }
func (e *sentinelError) Is(target error) bool {
	return target == e.sentinel
}
