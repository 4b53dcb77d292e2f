package models

// SessionState is the auth state of one browser client.
type SessionState string

const (
	SessionLoading       SessionState = "loading"
	SessionAnonymous     SessionState = "anonymous"
	SessionAuthenticated SessionState = "authenticated"
)
