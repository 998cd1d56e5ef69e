package constants

// Page size limits applied when a resource does not set its own
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
