package constants

// HTTP Header Names
const (
	HeaderContentType   = "Content-Type"
	HeaderUserAgent     = "User-Agent"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXCache        = "X-Cache"
)

// HTTP Content Types
const (
	ContentTypeJSON = "application/json"
)

// Common HTTP Error Messages
const (
	MsgNotFound           = "Resource not found"
	MsgBadRequest         = "Invalid request"
	MsgInvalidQuery       = "Invalid query parameters"
	MsgInternalError      = "Internal server error"
	MsgServiceUnavailable = "Service temporarily unavailable"
	MsgMethodNotAllowed   = "Method not allowed"
)
