package utils

import (
	"time"
)

// Context keys for request-scoped metadata attached by the handlers.
const (
	RequestIDKey  = "request_id"
	UserAgentKey  = "user_agent"
	IPAddressKey  = "ip_address"
	EndpointKey   = "endpoint"
	TimeoutKey    = "timeout"
	CancelFuncKey = "cancel_func"
)

// HTTP constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400

	// DefaultRequestTimeout bounds flow calls made from HTTP handlers.
	DefaultRequestTimeout = 30 * time.Second

	// ImportRequestTimeout bounds workbook analyze/apply calls, which read
	// whole spreadsheets and replay row-by-row changes.
	ImportRequestTimeout = 2 * time.Minute
)

// ActingUserHeader names the fallback header internal callers use to
// attribute mutations when no bearer token is present.
const ActingUserHeader = "X-Acting-User"
