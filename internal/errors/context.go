package errors

import "context"

// FromContext wraps a context error as CodeCanceled or CodeDeadlineExceeded.
func FromContext(err error, message string) *Error {
	if err == nil {
		return nil
	}
	code := CodeCanceled
	if Is(err, context.DeadlineExceeded) {
		code = CodeDeadlineExceeded
	}
	return WrapWithCode(err, code, message)
}

// IsContextDone reports whether err records a caller that stopped waiting.
// Timeouts raised by the wiki client itself stay RemoteQueryFailed.
func IsContextDone(err error) bool {
	switch GetCode(err) {
	case CodeCanceled, CodeDeadlineExceeded:
		return true
	}
	return false
}
