package errors

// Kind names the markup construct an extraction failed on.
type Kind string

// Extraction kinds
const (
	KindField    Kind = "field"
	KindTable    Kind = "table"
	KindTemplate Kind = "template"
	KindSection  Kind = "section"
)

// ExtractionFailed creates an error for markup that lacks the named construct.
func ExtractionFailed(kind Kind, name string) *Error {
	return Newf(CodeExtractionFailed, "missing or malformed %s %q", kind, name).
		WithMeta(string(kind), name)
}

// RemoteQueryFailed creates an error for a failed wiki API call.
func RemoteQueryFailed(reason string) *Error {
	return New(CodeRemoteQueryFailed, reason)
}

// RemoteQueryFailedf creates a remote query error with a formatted reason.
func RemoteQueryFailedf(format string, args ...any) *Error {
	return Newf(CodeRemoteQueryFailed, format, args...)
}

// CacheNotFound creates an error for a missing cache entry.
func CacheNotFound(pageID string) *Error {
	return Newf(CodeCacheNotFound, "no cache entry for %s", pageID).
		WithMeta("page_id", pageID)
}
