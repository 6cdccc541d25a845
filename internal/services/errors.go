package services

import "errors"

var (
	// ErrInvalidInput marks a request the user can correct; never retried.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstreamFormat is returned when the backend reply holds no JSON object.
	ErrUpstreamFormat = errors.New("backend did not answer in JSON")
	// ErrUpstreamParse is returned when the extracted JSON object cannot be decoded.
	ErrUpstreamParse = errors.New("backend JSON could not be parsed")
	// ErrUpstream wraps transport, auth, and rate-limit failures from the backend.
	ErrUpstream = errors.New("backend request failed")
)

// Error kinds reported to clients and recorded in the history log.
const (
	KindInvalidInput   = "invalid_input"
	KindUpstreamFormat = "upstream_format"
	KindUpstreamParse  = "upstream_parse"
	KindUpstream       = "upstream"
	KindInternal       = "internal"
)

// KindOf classifies err into one of the Kind constants. A nil error yields "".
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrUpstreamFormat):
		return KindUpstreamFormat
	case errors.Is(err, ErrUpstreamParse):
		return KindUpstreamParse
	case errors.Is(err, ErrUpstream):
		return KindUpstream
	default:
		return KindInternal
	}
}

// InputError carries a user-facing message for a rejected request and
// matches ErrInvalidInput under errors.Is.
type InputError struct {
	Message string
	Err     error
}

func (e *InputError) Error() string { return e.Message }

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

func (e *InputError) Unwrap() error { return e.Err }

func invalidInput(msg string) error {
	return &InputError{Message: msg}
}
