package errors_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/lenna/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "doll not found",
			expected: "NOT_FOUND: doll not found",
		},
		{
			name:     "cache not found error",
			code:     errors.CodeCacheNotFound,
			message:  "no cache",
			expected: "CACHE_NOT_FOUND: no cache",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Equal(tc.expected, err.Error())
			s.Equal(tc.code, err.Code)
			s.Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestErrorWithMeta() {
	err := errors.NotFound("doll not found").
		WithMeta("page_id", "suomi").
		WithMeta("use_cache", true)

	s.Equal("suomi", err.Meta["page_id"])
	s.Equal(true, err.Meta["use_cache"])
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("connection refused")
	wrapped := errors.Wrap(baseErr, "failed to read cache")

	s.Equal(errors.CodeInternal, wrapped.Code)
	s.Equal("failed to read cache", wrapped.Message)
	s.Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapPreservesCode() {
	original := errors.ExtractionFailed(errors.KindField, "fullname")
	wrapped := errors.Wrapf(original, "failed to extract %s", "Suomi")

	s.True(errors.IsExtractionFailed(wrapped))
	s.Equal("fullname", errors.GetMeta(wrapped)["field"])
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	original := errors.CacheNotFound("suomi")
	wrapped := errors.WrapWithCode(original, errors.CodeNotFound, "doll Suomi was not found")

	s.True(errors.IsNotFound(wrapped))
	s.Equal("suomi", wrapped.Meta["page_id"])
	s.True(errors.Is(wrapped, errors.CacheNotFound("other")))
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Nil(errors.Wrap(nil, "message"))
	s.Nil(errors.WrapWithCode(nil, errors.CodeInternal, "message"))
}

func (s *ErrorsTestSuite) TestLookupConstructors() {
	s.True(errors.IsExtractionFailed(errors.ExtractionFailed(errors.KindTable, "HG")))
	s.True(errors.IsRemoteQueryFailed(errors.RemoteQueryFailed("Not Found")))
	s.True(errors.IsRemoteQueryFailed(errors.RemoteQueryFailedf("status %d", 500)))
	s.True(errors.IsCacheNotFound(errors.CacheNotFound("suomi")))

	s.Equal(`EXTRACTION_FAILED: missing or malformed table "HG"`,
		errors.ExtractionFailed(errors.KindTable, "HG").Error())
}

func (s *ErrorsTestSuite) TestGetCode() {
	s.Equal(errors.CodeOK, errors.GetCode(nil))
	s.Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("plain")))
	s.Equal(errors.CodeUnavailable, errors.GetCode(errors.Unavailable("down")))
}

func (s *ErrorsTestSuite) TestGetMessage() {
	s.Equal("", errors.GetMessage(nil))
	s.Equal("plain", errors.GetMessage(fmt.Errorf("plain")))
	s.Equal("down", errors.GetMessage(errors.Unavailable("down")))
}

func (s *ErrorsTestSuite) TestHTTPStatus() {
	testCases := []struct {
		code   errors.Code
		status int
	}{
		{errors.CodeOK, http.StatusOK},
		{errors.CodeInvalidArgument, http.StatusBadRequest},
		{errors.CodeNotFound, http.StatusNotFound},
		{errors.CodeCacheNotFound, http.StatusNotFound},
		{errors.CodeExtractionFailed, http.StatusUnprocessableEntity},
		{errors.CodeRemoteQueryFailed, http.StatusBadGateway},
		{errors.CodeUnavailable, http.StatusServiceUnavailable},
		{errors.CodeCanceled, http.StatusRequestTimeout},
		{errors.CodeDeadlineExceeded, http.StatusGatewayTimeout},
		{errors.CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		s.Run(tc.code.String(), func() {
			s.Equal(tc.status, tc.code.HTTPStatus())
		})
	}
}

func (s *ErrorsTestSuite) TestFromContext() {
	s.Nil(errors.FromContext(nil, "message"))

	canceled := errors.FromContext(context.Canceled, "lookup abandoned")
	s.Equal(errors.CodeCanceled, canceled.Code)
	s.True(errors.Is(canceled, context.Canceled))
	s.True(errors.IsContextDone(canceled))

	expired := errors.FromContext(fmt.Errorf("waiting: %w", context.DeadlineExceeded), "lookup abandoned")
	s.Equal(errors.CodeDeadlineExceeded, expired.Code)
	s.True(errors.IsContextDone(errors.Wrap(expired, "failed to reconcile weapons")))
}

func (s *ErrorsTestSuite) TestIsContextDoneIgnoresRemoteTimeouts() {
	remote := errors.WrapWithCode(context.DeadlineExceeded, errors.CodeRemoteQueryFailed, "request failed")

	s.False(errors.IsContextDone(remote))
	s.False(errors.IsContextDone(fmt.Errorf("plain")))
	s.False(errors.IsContextDone(nil))
}
