package core

import "time"

type WebParams struct {
	Port int
}

const (
	// in seconds for db response
	WaitTime = 20

	SessionCookie = "session_id"
	AuthCookie    = "auth_token"

	// SessionTTL is the lifetime of guest session cookies and their carts.
	SessionTTL = 365 * 24 * time.Hour

	MenuCacheTTL = 10 * time.Minute

	MinStoreNameLen = 1
	MaxStoreNameLen = 100
	MaxSlugLen      = 64
	MaxItemNameLen  = 100
	MaxItemPrice    = 100_000_000
	MaxCustomerName = 100
)
