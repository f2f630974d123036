package utils

// Context keys set by the auth and request-log middlewares.
const (
	CallerKey    = "caller"
	RequestIDKey = "requestId"
)
