// Package errors provides the structured error type used across lenna.
//
// Every error carries a Code, a message, an optional cause and free-form
// metadata. The codes split into two groups:
//   - general codes (NotFound, InvalidArgument, Internal, Unavailable, ...)
//   - lookup codes that drive the cache fallback policy
//
// # Lookup codes
//
// ExtractionFailed: the wiki markup did not have the expected shape (a
// missing template argument, table or section). Recoverable: lookups fall
// back to the cached page.
//
// RemoteQueryFailed: the wiki API answered with a non-success status, an
// undecodable body or an embedded error payload. Recoverable.
//
// CacheNotFound: a cache read was required and nothing was stored for the
// page. Terminal for the current request.
//
// NotFound: the entity could not be produced at all, even from cache.
//
// Canceled and DeadlineExceeded: the caller stopped waiting. Says nothing
// about the wiki, so no fallback runs and nothing is pinned.
//
// # Basic Usage
//
//	err := errors.ExtractionFailed(errors.KindField, "fullname")
//	err := errors.RemoteQueryFailedf("status %d", resp.StatusCode).
//	    WithMeta("page", page)
//
//	if errors.IsCacheNotFound(err) {
//	    // nothing to fall back to
//	}
//
// # Validation Errors
//
//	vb := errors.NewValidationBuilder()
//	if cfg.Client == nil {
//	    vb.RequiredField("Client")
//	}
//	return vb.Build()
package errors
